package serialization

import (
	"errors"

	"github.com/Sokol111/log2kafka/pkg/messaging/avro/encoding"
	"github.com/Sokol111/log2kafka/pkg/messaging/avro/mapping"
)

// ErrEmptyInput is returned by Serialize for a zero-length line.
var ErrEmptyInput = errors.New("empty input")

// FailureKind tags why a line was not serialized.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureEmptyInput
	FailureExtraction
	FailureCoercion
	FailureEncoding
	FailureUnknown
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureEmptyInput:
		return "empty_input"
	case FailureExtraction:
		return "extraction"
	case FailureCoercion:
		return "coercion"
	case FailureEncoding:
		return "encoding"
	}
	return "unknown"
}

// Failure describes a Serialize error: its kind and, when known, the offending field.
type Failure struct {
	Kind  FailureKind
	Field string
}

// Classify inspects an error returned by Serialize.
func Classify(err error) Failure {
	var (
		extractionErr *mapping.ExtractionError
		coercionErr   *mapping.CoercionError
	)

	switch {
	case err == nil:
		return Failure{Kind: FailureNone}
	case errors.Is(err, ErrEmptyInput):
		return Failure{Kind: FailureEmptyInput}
	case errors.As(err, &extractionErr):
		return Failure{Kind: FailureExtraction, Field: extractionErr.Field}
	case errors.As(err, &coercionErr):
		return Failure{Kind: FailureCoercion, Field: coercionErr.Field}
	case errors.Is(err, encoding.ErrEncoding):
		return Failure{Kind: FailureEncoding}
	}
	return Failure{Kind: FailureUnknown}
}
