package loader

import "fmt"

// Error code constants.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeNoFiles           = "E003" // No CUE files found in directory
	ErrCodeLoadFailed        = "E004" // CUE load failed
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeBuildFailed       = "E006" // CUE build failed
	ErrCodeUnsupportedFormat = "E201" // Unknown file extension
	ErrCodeParseFailed       = "E202" // YAML syntax or shape error
	ErrCodeInvalidEnsemble   = "E203" // Regular ensemble rejected
	ErrCodeInvalidParameter  = "E204" // Parameter rejected
	ErrCodeInvalidDelta      = "E205" // Delta references unknown or malformed idents
	ErrCodeDuplicateIdent    = "E206" // Two ensembles share an ident
)

// LoadError reports a snapshot that could not be loaded.
type LoadError struct {
	Code    string
	Message string

	// File and Line locate the error when known. Line is 0 when unknown.
	File string
	Line int

	Err error
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *LoadError) Unwrap() error { return e.Err }
