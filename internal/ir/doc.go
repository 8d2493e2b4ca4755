// Package ir provides the shared data model for the marquee display engine.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Entry is a sealed interface (Layered | Conditional); only this package
//     implements it, so resolvers can switch over it exhaustively
//   - Templates are opaque until rendered; markup is treated as literal text
//   - Configuration snapshots are fingerprinted with ContentHash, never by
//     pointer identity, so reloads of identical content are detectable
package ir
