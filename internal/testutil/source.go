package testutil

import "sync"

// StaticSource is an in-memory attribute source for tests.
//
// Values are keyed by entity then token. Tokens missing for an entity fall
// back to the "*" entity, then to "".
//
// Thread-safety: safe for concurrent reads and writes.
type StaticSource struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// Wildcard is the entity whose values apply to every entity.
const Wildcard = "*"

// NewStaticSource creates a source seeded with values. The map is copied.
func NewStaticSource(values map[string]map[string]string) *StaticSource {
	s := &StaticSource{values: map[string]map[string]string{}}
	for entity, tokens := range values {
		for token, v := range tokens {
			s.Set(entity, token, v)
		}
	}
	return s
}

// Set stores a value.
func (s *StaticSource) Set(entity, token, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[entity] == nil {
		s.values[entity] = map[string]string{}
	}
	s.values[entity][token] = value
}

// Lookup implements ir.AttributeSource.
func (s *StaticSource) Lookup(entity, token string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[entity][token]; ok {
		return v
	}
	return s.values[Wildcard][token]
}
