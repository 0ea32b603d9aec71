package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	hambavro "github.com/hamba/avro/v2"
)

var (
	errNotBoolean   = errors.New("not a boolean")
	errUnknownEnum  = errors.New("not an enum symbol")
	errFixedSize    = errors.New("wrong fixed size")
	errUnsupported  = errors.New("unsupported type")
	errNotDecimal   = errors.New("not a decimal or scientific literal")
	trueVocabulary  = []string{"true", "yes", "on", "1"}
	falseVocabulary = []string{"false", "no", "off", "0"}
)

// decimalLiteral excludes what ParseFloat also accepts: NaN, Inf, hex floats and underscores.
var decimalLiteral = regexp2.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`, regexp2.None)

// coerce converts captured text into the Go value hamba/avro encodes for the schema.
func coerce(schema hambavro.Schema, text string) (any, error) {
	switch s := schema.(type) {
	case *hambavro.PrimitiveSchema:
		return coercePrimitive(s.Type(), text)

	case *hambavro.EnumSchema:
		if !slices.Contains(s.Symbols(), text) {
			return nil, fmt.Errorf("%w, expected one of %s", errUnknownEnum, strings.Join(s.Symbols(), ", "))
		}
		return text, nil

	case *hambavro.FixedSchema:
		if len(text) != s.Size() {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", errFixedSize, s.Size(), len(text))
		}
		fixed := reflect.New(reflect.ArrayOf(s.Size(), reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(fixed, reflect.ValueOf([]byte(text)))
		return fixed.Interface(), nil

	case *hambavro.ArraySchema:
		return coerceArray(resolve(s.Items()), text)
	}

	return nil, fmt.Errorf("%w %q", errUnsupported, schema.Type())
}

func coercePrimitive(typ hambavro.Type, text string) (any, error) {
	switch typ {
	case hambavro.String:
		return text, nil
	case hambavro.Bytes:
		return []byte(text), nil
	case hambavro.Int:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case hambavro.Long:
		return strconv.ParseInt(text, 10, 64)
	case hambavro.Float:
		v, err := parseDecimal(text, 32)
		if err != nil {
			return nil, err
		}
		return float32(v), nil
	case hambavro.Double:
		return parseDecimal(text, 64)
	case hambavro.Boolean:
		return parseBool(text)
	}
	return nil, fmt.Errorf("%w %q", errUnsupported, typ)
}

func parseDecimal(text string, bitSize int) (float64, error) {
	if ok, err := decimalLiteral.MatchString(text); err != nil || !ok {
		return 0, errNotDecimal
	}
	return strconv.ParseFloat(text, bitSize)
}

func parseBool(text string) (bool, error) {
	lower := strings.ToLower(text)
	switch {
	case slices.Contains(trueVocabulary, lower):
		return true, nil
	case slices.Contains(falseVocabulary, lower):
		return false, nil
	}
	return false, errNotBoolean
}

// coerceArray splits a comma separated capture. An empty capture is an empty array.
func coerceArray(items hambavro.Schema, text string) ([]any, error) {
	if strings.TrimSpace(text) == "" {
		return []any{}, nil
	}

	parts := strings.Split(text, ",")
	values := make([]any, len(parts))
	for i, part := range parts {
		v, err := coerce(items, strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}
