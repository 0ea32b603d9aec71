package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig is the parent of every error returned while loading a mapping configuration.
var ErrConfig = errors.New("invalid mapping configuration")

var (
	// ErrMissingMarker is returned when the mapping section marker is absent or repeated.
	ErrMissingMarker = fmt.Errorf("%w: mapping section marker", ErrConfig)

	// ErrInvalidSchema is returned when the schema section is not a supported Avro record schema.
	ErrInvalidSchema = fmt.Errorf("%w: schema", ErrConfig)

	// ErrInvalidPattern is returned when a mapping line or its pattern cannot be used.
	ErrInvalidPattern = fmt.Errorf("%w: pattern", ErrConfig)

	// ErrMappingSchemaMismatch is returned when mapped fields differ from the schema fields.
	ErrMappingSchemaMismatch = fmt.Errorf("%w: mapping does not match schema", ErrConfig)
)

var (
	// ErrExtraction is the parent of ExtractionError.
	ErrExtraction = errors.New("field pattern did not match")

	// ErrCoercion is the parent of CoercionError.
	ErrCoercion = errors.New("captured value does not fit field type")
)

// InvalidPatternError reports the mapping entry that could not be compiled.
type InvalidPatternError struct {
	Field  string
	Line   int
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern for field %q (line %d): %s", e.Field, e.Line, e.Reason)
}

func (e *InvalidPatternError) Unwrap() error {
	return ErrInvalidPattern
}

// MismatchError lists the differences between the mapped fields and the schema fields.
type MismatchError struct {
	Missing   []string
	Extra     []string
	Duplicate []string
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing mappings for "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unknown fields "+strings.Join(e.Extra, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate mappings for "+strings.Join(e.Duplicate, ", "))
	}
	return fmt.Sprintf("mapping does not match schema: %s", strings.Join(parts, "; "))
}

func (e *MismatchError) Unwrap() error {
	return ErrMappingSchemaMismatch
}

// ExtractionError names the first field whose pattern did not match the line.
type ExtractionError struct {
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %q: %v: %v", e.Field, ErrExtraction, e.Err)
	}
	return fmt.Sprintf("field %q: %v", e.Field, ErrExtraction)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExtraction, e.Err}
	}
	return []error{ErrExtraction}
}

// CoercionError names the field whose captured text could not be converted.
type CoercionError struct {
	Field string
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("field %q: cannot coerce %q: %v", e.Field, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() []error {
	return []error{ErrCoercion, e.Err}
}
