package ir

// AttributeSource resolves a placeholder token for an entity.
//
// The token is passed without its surrounding percent signs
// ("player_health", not "%player_health%"). Implementations are expected to
// be synchronous and total: an unknown token returns "" (or whatever the
// provider's own contract says); the engine never special-cases the result.
type AttributeSource interface {
	Lookup(entity, token string) string
}

// RelationalSource is an optional extension of AttributeSource for tokens that
// depend on a (viewer, target) pair.
type RelationalSource interface {
	LookupRelational(viewer, target, token string) string
}

// SourceFunc adapts a plain function to AttributeSource.
type SourceFunc func(entity, token string) string

// Lookup implements AttributeSource.
func (f SourceFunc) Lookup(entity, token string) string {
	return f(entity, token)
}

// EmptySource resolves every token to the empty string.
type EmptySource struct{}

// Lookup implements AttributeSource.
func (EmptySource) Lookup(string, string) string { return "" }

// MapSource is a fixed attribute table: entity -> token -> value. Tokens
// missing for an entity fall back to the "*" entity.
type MapSource map[string]map[string]string

// Lookup implements AttributeSource.
func (m MapSource) Lookup(entity, token string) string {
	if v, ok := m[entity][token]; ok {
		return v
	}
	return m["*"][token]
}

// Set stores a value, creating the entity row as needed.
func (m MapSource) Set(entity, token, value string) {
	if m[entity] == nil {
		m[entity] = map[string]string{}
	}
	m[entity][token] = value
}

// Pair identifies a viewer and a target for relational rendering.
type Pair struct {
	Viewer string
	Target string
}

// UnaryFunc resolves a custom placeholder for one entity.
type UnaryFunc func(entity string) string

// RelationalFunc resolves a custom placeholder for a (viewer, target) pair.
type RelationalFunc func(viewer, target string) string
