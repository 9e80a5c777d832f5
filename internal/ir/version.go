package ir

// Version constants for the program format and engine.
const (
	// FormatVersion is the program file format version.
	FormatVersion = "1"

	// EngineVersion is the kanren engine version.
	EngineVersion = "0.1.0"
)
