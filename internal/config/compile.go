package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/roach88/marquee/internal/engine"
	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/placeholder"
	"github.com/roach88/marquee/internal/resolve"
	"github.com/roach88/marquee/internal/rotation"
	"github.com/roach88/marquee/internal/schedule"
	"github.com/roach88/marquee/internal/script"
)

// CompileOptions controls compilation.
type CompileOptions struct {
	// ScriptTimeout bounds one scripted placeholder run.
	ScriptTimeout time.Duration
	// Logger receives script failure warnings at render time.
	Logger *slog.Logger
}

// Compile validates a loaded document and builds the engine Spec.
// Returns all problems found (does not fail-fast); the Spec is nil when
// any of them is fatal.
//
// Malformed conditions are not fatal: the entry is kept and evaluates
// false, and the problem is logged at Warn. Validate reports them.
func Compile(l *Loaded, opts CompileOptions) (*engine.Spec, []error) {
	c := &compiler{opts: opts}
	spec := c.compile(l.Doc)
	if c.fatal > 0 {
		return nil, c.errs
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, err := range c.errs {
		var le *LoadError
		if errors.As(err, &le) {
			logger.Warn("malformed condition evaluates false", "code", le.Code, "field", le.Field, "error", le.Message)
		}
	}
	spec.Hash = l.Hash
	return spec, nil
}

// Validate reports every problem in doc, malformed conditions included.
// Scripts are compiled to check them and then discarded.
func Validate(doc *Document) []error {
	c := &compiler{}
	c.compile(doc)
	return c.errs
}

// compiler accumulates problems during compilation. fatal counts the ones
// that reject the document.
type compiler struct {
	opts  CompileOptions
	errs  []error
	fatal int
}

func (c *compiler) fail(code, field, format string, args ...any) {
	c.fatal++
	c.warn(code, field, format, args...)
}

func (c *compiler) warn(code, field, format string, args ...any) {
	c.errs = append(c.errs, &LoadError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *compiler) condition(field string, cond string) ir.Condition {
	for _, issue := range expr.Validate(ir.Condition(cond)) {
		c.warn(ErrCodeCondition, field, "%s: %s", issue.Message, issue.Clause)
	}
	return ir.Condition(strings.TrimSpace(cond))
}

func (c *compiler) compile(doc *Document) *engine.Spec {
	if doc == nil {
		doc = &Document{}
	}
	spec := &engine.Spec{}

	for _, name := range sortedKeys(doc.Displays) {
		spec.Displays = append(spec.Displays, c.display(name, doc.Displays[name]))
	}

	for _, id := range sortedKeys(doc.Animations) {
		a := doc.Animations[id]
		if a.Interval < 0 {
			c.fail(ErrCodeInterval, "animations."+id+".interval", "interval must not be negative")
		}
		spec.Animations = append(spec.Animations, ir.AnimationSpec{
			ID:       id,
			Frames:   append([]string(nil), a.Frames...),
			Interval: time.Duration(a.Interval),
		})
	}

	for _, name := range sortedKeys(doc.Rotations) {
		spec.Rotations = append(spec.Rotations, c.rotation(name, doc.Rotations[name]))
	}

	for _, id := range sortedKeys(doc.Conditionals) {
		field := "conditionals." + id
		if !ir.ValidTokenName(id) {
			c.fail(ErrCodePlaceholder, field, "id %q is not a valid token name", id)
		}
		d := doc.Conditionals[id]
		pc := placeholder.Conditional{ID: id, Default: d.Default}
		for i, k := range d.Conditions {
			cond := c.condition(fmt.Sprintf("%s.conditions[%d].condition", field, i), k.Condition)
			pc.Cases = append(pc.Cases, placeholder.Case{Condition: cond, Output: k.Output})
		}
		spec.Conditionals = append(spec.Conditionals, pc)
	}

	for _, id := range sortedKeys(doc.Replacements) {
		spec.Replacements = append(spec.Replacements, c.replacement(id, doc.Replacements[id]))
	}

	for _, id := range sortedKeys(doc.Scripts) {
		if s := c.script(id, doc.Scripts[id]); s != nil {
			spec.Scripts = append(spec.Scripts, s)
		}
	}

	return spec
}

func (c *compiler) display(name string, d DisplayDoc) engine.Display {
	field := "displays." + name
	if len(d.Layers) == 0 && len(d.Default) == 0 {
		c.fail(ErrCodeEmptyDisplay, field, "display has no layers and no default")
	}

	out := engine.Display{Name: name, Default: ir.Template(d.Default)}
	if out.Default == nil {
		out.Default = ir.Template{}
	}
	for i, l := range d.Layers {
		lf := fmt.Sprintf("%s.layers[%d]", field, i)
		if strings.TrimSpace(l.Name) == "" {
			c.fail(ErrCodeLayer, lf+".name", "layer name is required")
		}
		if l.By == "" {
			if len(l.Keyed) > 0 {
				c.fail(ErrCodeLayer, lf+".keyed", "keyed entries need by")
			}
			out.Chain = append(out.Chain, resolve.Static{Name: l.Name, Entries: c.entries(lf+".entries", l.Entries)})
			continue
		}

		if len(l.Entries) > 0 {
			c.fail(ErrCodeLayer, lf+".entries", "a keyed layer takes keyed, not entries")
		}
		by := strings.Trim(strings.TrimSpace(l.By), "%")
		if by != resolve.KeyEntity && !ir.ValidTokenName(by) {
			c.fail(ErrCodeLayer, lf+".by", "by must be %q or a token name, got %q", resolve.KeyEntity, l.By)
		}
		keyed := make(map[string][]ir.Entry, len(l.Keyed))
		for _, key := range sortedKeys(l.Keyed) {
			keyed[key] = c.entries(fmt.Sprintf("%s.keyed.%s", lf, key), l.Keyed[key])
		}
		out.Chain = append(out.Chain, resolve.NewKeyed(l.Name, by, keyed))
	}
	return out
}

func (c *compiler) entries(field string, docs []EntryDoc) []ir.Entry {
	out := make([]ir.Entry, 0, len(docs))
	for i, e := range docs {
		tpl := ir.Template(e.Template)
		if strings.TrimSpace(e.Condition) == "" {
			out = append(out, ir.Layered{Template: tpl, Priority: e.Priority})
			continue
		}
		cond := c.condition(fmt.Sprintf("%s[%d].condition", field, i), e.Condition)
		out = append(out, ir.Conditional{Condition: cond, Template: tpl, Priority: e.Priority})
	}
	return out
}

func (c *compiler) rotation(name string, r RotationDoc) engine.Rotation {
	field := "rotations." + name
	strategy, err := ir.ParseStrategy(r.Strategy)
	if err != nil {
		c.fail(ErrCodeStrategy, field+".strategy", "%v", err)
		strategy = ir.StrategyPriority
	}

	out := engine.Rotation{Name: name, Strategy: strategy, Fallback: ir.Template(r.Fallback)}
	for i, cd := range r.Candidates {
		cf := fmt.Sprintf("%s.candidates[%d]", field, i)
		key := cd.Key
		if key == "" {
			key = fmt.Sprintf("%d", i)
		}
		entry := rotation.Entry{
			Key:      key,
			Enabled:  cd.Enabled == nil || *cd.Enabled,
			Priority: cd.Priority,
			Template: ir.Template(cd.Template),
		}
		for j, cond := range cd.Conditions {
			if schedule.IsTyped(ir.Condition(cond)) {
				entry.Conditions = append(entry.Conditions, ir.Condition(strings.TrimSpace(cond)))
				continue
			}
			entry.Conditions = append(entry.Conditions, c.condition(fmt.Sprintf("%s.conditions[%d]", cf, j), cond))
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

func (c *compiler) replacement(id string, r ReplacementDoc) placeholder.Replacement {
	field := "replacements." + id
	token := strings.Trim(strings.TrimSpace(r.Placeholder), "%")
	if !ir.ValidTokenName(token) {
		c.fail(ErrCodeReplacement, field+".placeholder", "placeholder %q is not a valid token name", r.Placeholder)
	}

	format := placeholder.OriginalVar
	if r.Format != nil {
		format = *r.Format
	}
	out := placeholder.Replacement{ID: id, Placeholder: token, Format: format, Default: r.Default}
	for i, iv := range r.Intervals {
		if iv.Min > iv.Max {
			c.fail(ErrCodeReplacement, fmt.Sprintf("%s.intervals[%d]", field, i), "min %v is greater than max %v", iv.Min, iv.Max)
		}
		out.Intervals = append(out.Intervals, placeholder.Interval{Min: iv.Min, Max: iv.Max, Output: iv.Output})
	}
	for _, rule := range r.Replacements {
		out.Rules = append(out.Rules, placeholder.Rule{Find: rule.Find, Replace: rule.Replace})
	}
	return out
}

func (c *compiler) script(id string, s ScriptDoc) *script.Script {
	field := "scripts." + id
	if !ir.ValidTokenName(id) {
		c.fail(ErrCodePlaceholder, field, "id %q is not a valid token name", id)
		return nil
	}
	if strings.TrimSpace(s.Source) == "" {
		c.fail(ErrCodeScript, field, "script has no source")
		return nil
	}
	compiled, err := script.Compile(id, s.Source, s.Inputs, c.opts.ScriptTimeout, c.opts.Logger)
	if err != nil {
		c.fail(ErrCodeScript, field, "%v", err)
		return nil
	}
	return compiled
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
