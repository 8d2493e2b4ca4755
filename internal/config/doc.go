// Package config loads display configuration documents and compiles them
// into an engine.Spec.
//
// Documents are YAML (.yaml, .yml) or CUE (.cue) and share one schema. A
// directory is loaded file by file in lexical order and merged; defining the
// same display, animation, rotation or placeholder id in two files is a load
// error. Scripts may live in separate .tengo files referenced by path.
//
// Runtime settings (config location, tick cadence, logging) come from
// MARQUEE_* environment variables, see Settings.
package config
