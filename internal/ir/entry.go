package ir

// Entry is a candidate payload within a Layer.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches:
//
//	switch e := entry.(type) {
//	case Layered:
//	    // always matches
//	case Conditional:
//	    // matches when e.Condition evaluates true
//	}
type Entry interface {
	// Payload returns the template this entry contributes when it wins.
	Payload() Template
	// Rank returns the in-layer priority; higher wins.
	Rank() int
	// When returns the entry's condition; the empty condition always matches.
	When() Condition

	entryNode() // Marker method - seals interface to this package
}

// Layered is an unconditional entry: a template at a priority.
//
// Layered entries come from keyed layers (per-entity, per-group, per-world)
// and from the global default.
type Layered struct {
	Template Template
	Priority int
}

// Payload implements Entry.
func (l Layered) Payload() Template { return l.Template }

// Rank implements Entry.
func (l Layered) Rank() int { return l.Priority }

// When implements Entry. Layered entries always match.
func (l Layered) When() Condition { return "" }

func (Layered) entryNode() {}

// Conditional is an entry that only matches when its condition holds
// for the entity being resolved.
type Conditional struct {
	Condition Condition
	Template  Template
	Priority  int
}

// Payload implements Entry.
func (c Conditional) Payload() Template { return c.Template }

// Rank implements Entry.
func (c Conditional) Rank() int { return c.Priority }

// When implements Entry.
func (c Conditional) When() Condition { return c.Condition }

func (Conditional) entryNode() {}
