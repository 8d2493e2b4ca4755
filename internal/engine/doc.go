// Package engine is the entry point for rendering display text.
//
// An Engine owns a compiled Spec (displays, animations, rotations and
// config-defined placeholders), the condition evaluator, the runtime
// placeholder registry and animation state. Hosts call Render for each
// entity on their refresh cadence and Tick (or Run) on the animation cadence.
//
// ARCHITECTURE:
//
// Snapshot Swap:
// Reload compiles a complete snapshot and publishes it through an atomic
// pointer. A render holds whichever snapshot was current when it started.
// Entry sets are never patched in place.
//
// Long-lived State:
// Animation positions and sequential rotation cursors survive reloads for
// the same id. Runtime placeholder registrations survive reloads entirely.
//
// Render Flow:
// 1. Display chain materializes layers for the entity
// 2. Resolver picks the winning template (conditions see custom placeholders)
// 3. Pipeline rewrites tokens in the template
//
// Failure Policy:
// Nothing here returns an error to the render path. Unknown displays render
// "", malformed conditions are false, failing resolvers render "". The E
// variants (RenderE, RotateE) report unknown names for tooling.
package engine
