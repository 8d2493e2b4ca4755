// Package script runs scripted placeholders written in tengo.
//
// A script sees each declared input token as a string variable (characters
// outside [A-Za-z0-9_] become '_', so %player_kills% is player_kills) plus
// the variable entity. Its result is whatever it assigns to out:
//
//	text := import("text")
//	k := int(player_kills)
//	d := int(player_deaths)
//	out := d == 0 ? string(k) : text.format_float(float(k)/float(d), 'f', 2, 64)
//
// The os module is not importable. Every run is bounded by a timeout and an
// allocation limit; a failed run renders as the empty string.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/roach88/marquee/internal/ir"
)

// OutputVar is the variable a script assigns its result to.
const OutputVar = "out"

// EntityVar holds the entity id the script runs for.
const EntityVar = "entity"

// DefaultTimeout bounds one script run.
const DefaultTimeout = 50 * time.Millisecond

// maxAllocs bounds objects allocated by one run.
const maxAllocs = 10000

// modules are the stdlib modules scripts may import.
var modules = []string{"math", "text", "times", "rand", "fmt", "json", "base64", "hex", "enum"}

// Script is a compiled scripted placeholder. Safe for concurrent use: each
// run works on its own clone of the compiled program.
type Script struct {
	ID       string
	Inputs   []string
	vars     []string
	compiled *tengo.Compiled
	timeout  time.Duration
	logger   *slog.Logger
	logged   sync.Map // error text -> struct{}, so each distinct failure logs once
}

// Compile compiles source with the given input tokens. A non-positive
// timeout means DefaultTimeout.
func Compile(id, source string, inputs []string, timeout time.Duration, logger *slog.Logger) (*Script, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := tengo.NewScript([]byte(source))
	s.SetImports(stdlib.GetModuleMap(modules...))
	s.SetMaxAllocs(maxAllocs)

	if err := s.Add(EntityVar, ""); err != nil {
		return nil, fmt.Errorf("script %s: %w", id, err)
	}
	tokens := make([]string, 0, len(inputs))
	vars := make([]string, 0, len(inputs))
	seen := map[string]string{EntityVar: EntityVar}
	for _, in := range inputs {
		token := strings.Trim(strings.TrimSpace(in), "%")
		name := VarName(token)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("script %s: input %q and %q both bind variable %q", id, prev, token, name)
		}
		seen[name] = token
		if err := s.Add(name, ""); err != nil {
			return nil, fmt.Errorf("script %s: %w", id, err)
		}
		tokens = append(tokens, token)
		vars = append(vars, name)
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: compile: %w", id, err)
	}

	return &Script{
		ID:       id,
		Inputs:   tokens,
		vars:     vars,
		compiled: compiled,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// VarName maps a token name to a tengo identifier.
func VarName(token string) string {
	var b strings.Builder
	for i, r := range token {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// Run executes the script for entity with inputs resolved from src.
func (s *Script) Run(ctx context.Context, entity string, src ir.AttributeSource) (string, error) {
	c := s.compiled.Clone()
	if err := c.Set(EntityVar, entity); err != nil {
		return "", err
	}
	for i, token := range s.Inputs {
		v := ""
		if src != nil {
			v = src.Lookup(entity, token)
		}
		if err := c.Set(s.vars[i], v); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := c.RunContext(ctx); err != nil {
		return "", err
	}

	if !c.IsDefined(OutputVar) {
		return "", nil
	}
	return c.Get(OutputVar).String(), nil
}

// Resolve runs the script and renders failures as "".
// It has the shape of placeholder.LocalFunc. Each distinct failure is
// logged once.
func (s *Script) Resolve(entity string, src ir.AttributeSource) string {
	out, err := s.Run(context.Background(), entity, src)
	if err != nil {
		if _, seen := s.logged.LoadOrStore(err.Error(), struct{}{}); !seen {
			s.logger.Warn("script placeholder failed",
				"script", s.ID,
				"entity", entity,
				"error", err)
		}
		return ""
	}
	return out
}
