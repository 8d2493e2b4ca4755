package ir

// Version constants for the engine and configuration schema.
const (
	// SchemaVersion is the configuration document schema version.
	SchemaVersion = "1"

	// EngineVersion is the marquee engine version.
	EngineVersion = "0.3.0"
)
