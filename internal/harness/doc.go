// Package harness runs YAML conformance scenarios against a real engine.
//
// A scenario names a configuration (file or directory, relative to the
// scenario), seeds attribute values and custom placeholders, then executes
// steps in order:
//
//	render   render a display for an entity (or viewer/target pair)
//	rotate   select the current candidate of a rotation
//	eval     evaluate an ad-hoc condition
//	advance  move the manual clock forward and tick animations
//	set      change one attribute value
//	frame    read the current frame of an animation
//	reset    reset an animation to its first frame
//
// Every step appends one TraceEvent. A step with expect fails the scenario
// when its output differs; assertions then run over the whole trace.
//
// # Determinism
//
// The clock is a testutil.ManualClock starting at testutil.Epoch (or the
// scenario's start), so animation and schedule behavior only changes on
// advance steps. Random rotations pick index k mod n on their k-th call.
// Two runs of one scenario always produce byte-identical traces, which is
// what golden files rely on.
package harness
