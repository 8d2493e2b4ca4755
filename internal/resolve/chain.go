package resolve

import (
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/marquee/internal/ir"
)

// KeyEntity keys a layer by the entity id itself.
const KeyEntity = "entity"

// LayerSource produces one layer for an entity.
type LayerSource interface {
	LayerFor(entity string, src ir.AttributeSource) ir.Layer
}

// Static is a layer whose entries are the same for every entity.
// Conditional layers and the global layer are static.
type Static struct {
	Name    string
	Entries []ir.Entry
}

// LayerFor implements LayerSource.
func (s Static) LayerFor(string, ir.AttributeSource) ir.Layer {
	return ir.Layer{Name: s.Name, Entries: s.Entries}
}

// Keyed is a layer whose entries depend on a key derived from the entity:
// the entity id (per-player overrides) or the value of an attribute token
// (per-group, per-world overrides).
type Keyed struct {
	Name    string
	By      string
	Entries map[string][]ir.Entry
}

// NewKeyed builds a Keyed layer. by is KeyEntity or a token name, with or
// without surrounding percent signs. When keyed by entity, UUID keys are
// normalized so any textual form of the same id matches.
func NewKeyed(name, by string, entries map[string][]ir.Entry) Keyed {
	by = strings.Trim(strings.TrimSpace(by), "%")
	k := Keyed{Name: name, By: by, Entries: make(map[string][]ir.Entry, len(entries))}
	for key, es := range entries {
		if by == KeyEntity {
			key = NormalizeEntity(key)
		}
		k.Entries[key] = append(k.Entries[key], es...)
	}
	return k
}

// LayerFor implements LayerSource. A missing key yields an empty layer.
func (k Keyed) LayerFor(entity string, src ir.AttributeSource) ir.Layer {
	var key string
	if k.By == KeyEntity {
		key = NormalizeEntity(entity)
	} else if src != nil {
		key = strings.TrimSpace(src.Lookup(entity, k.By))
	}
	if key == "" {
		return ir.Layer{Name: k.Name}
	}
	return ir.Layer{Name: k.Name, Entries: k.Entries[key]}
}

// NormalizeEntity returns the canonical form of a UUID entity id, or the id
// unchanged when it is not a UUID.
func NormalizeEntity(id string) string {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return u.String()
}

// Chain is an ordered list of layer sources, most specific first.
type Chain []LayerSource

// Layers materializes the chain for one entity.
func (c Chain) Layers(entity string, src ir.AttributeSource) []ir.Layer {
	layers := make([]ir.Layer, 0, len(c))
	for _, ls := range c {
		layers = append(layers, ls.LayerFor(entity, src))
	}
	return layers
}

// Names lists layer names in order.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c))
	for _, ls := range c {
		switch v := ls.(type) {
		case Static:
			names = append(names, v.Name)
		case Keyed:
			names = append(names, v.Name)
		default:
			names = append(names, "")
		}
	}
	return names
}
