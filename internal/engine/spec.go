package engine

import (
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/placeholder"
	"github.com/roach88/marquee/internal/resolve"
	"github.com/roach88/marquee/internal/rotation"
	"github.com/roach88/marquee/internal/script"
)

// Display is a named layer chain with its default template.
type Display struct {
	Name    string
	Chain   resolve.Chain
	Default ir.Template
}

// Rotation is a named candidate pool with its selection strategy.
type Rotation struct {
	Name     string
	Strategy ir.Strategy
	Entries  []rotation.Entry
	Fallback ir.Template
}

// Spec is a complete, already-parsed configuration. Config loaders produce
// it; Reload consumes it.
//
// Slices are in declaration order. Hash fingerprints the source documents;
// an empty Hash always counts as changed.
type Spec struct {
	Displays     []Display
	Animations   []ir.AnimationSpec
	Rotations    []Rotation
	Conditionals []placeholder.Conditional
	Replacements []placeholder.Replacement
	Scripts      []*script.Script
	Hash         string
}
