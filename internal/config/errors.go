package config

import (
	"errors"
	"fmt"
)

// Error code constants.
const (
	// Load errors (E001-E009)
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeScanError  = "E002" // Directory scan error
	ErrCodeNoFiles    = "E003" // No config files found
	ErrCodeParse      = "E004" // YAML or CUE parse failure
	ErrCodeNotFound   = "E005" // Path not found
	ErrCodeDuplicate  = "E006" // Same id defined in two files
	ErrCodeScriptFile = "E007" // Referenced script file unreadable

	// Validation errors (E100-E119)
	ErrCodeCondition    = "E101" // Malformed condition
	ErrCodeStrategy     = "E102" // Unknown rotation strategy
	ErrCodeLayer        = "E103" // Invalid layer definition
	ErrCodeInterval     = "E104" // Invalid animation interval or frames
	ErrCodeScript       = "E105" // Script failed to compile
	ErrCodePlaceholder  = "E106" // Placeholder id reused or invalid
	ErrCodeReplacement  = "E107" // Invalid replacement definition
	ErrCodeEmptyDisplay = "E108" // Display declares no layers and no default
)

// LoadError describes a problem with a configuration document.
type LoadError struct {
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.File, e.Field, e.Message)
	case e.File != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.File, e.Message)
	case e.Field != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ErrorCode returns the code of the first LoadError in err's chain, or
// ErrCodeGeneric.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}
