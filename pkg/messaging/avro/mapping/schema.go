package mapping

import (
	"fmt"

	hambavro "github.com/hamba/avro/v2"
)

// Leaf is a schema field that receives a value from exactly one pattern.
// Fields of nested records are addressed by their dotted path, e.g. "request.method".
type Leaf struct {
	Path   string
	Schema hambavro.Schema
}

// ParseSchema parses an Avro record schema and returns it together with its mappable leaves
// in declaration order.
func ParseSchema(source string) (*hambavro.RecordSchema, []Leaf, error) {
	// A private cache keeps named types of one configuration from leaking into another.
	schema, err := hambavro.ParseWithCache(source, "", &hambavro.SchemaCache{})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	record, ok := schema.(*hambavro.RecordSchema)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected record type, got %q", ErrInvalidSchema, schema.Type())
	}

	leaves, err := collectLeaves(record, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return record, leaves, nil
}

func collectLeaves(record *hambavro.RecordSchema, prefix string) ([]Leaf, error) {
	if len(record.Fields()) == 0 {
		return nil, fmt.Errorf("record %q has no fields", record.FullName())
	}

	var leaves []Leaf
	for _, field := range record.Fields() {
		path := field.Name()
		if prefix != "" {
			path = prefix + "." + path
		}

		fieldSchema := resolve(field.Type())
		if nested, ok := fieldSchema.(*hambavro.RecordSchema); ok {
			children, err := collectLeaves(nested, path)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, children...)
			continue
		}

		if err := checkScalar(fieldSchema, true); err != nil {
			return nil, fmt.Errorf("field %q: %w", path, err)
		}
		leaves = append(leaves, Leaf{Path: path, Schema: fieldSchema})
	}
	return leaves, nil
}

// checkScalar reports whether a value of the given schema can be built from a single capture.
func checkScalar(schema hambavro.Schema, allowArray bool) error {
	switch s := schema.(type) {
	case *hambavro.PrimitiveSchema:
		switch s.Type() {
		case hambavro.String, hambavro.Bytes, hambavro.Int, hambavro.Long,
			hambavro.Float, hambavro.Double, hambavro.Boolean:
			return nil
		}
	case *hambavro.EnumSchema, *hambavro.FixedSchema:
		return nil
	case *hambavro.ArraySchema:
		if !allowArray {
			return fmt.Errorf("nested arrays are not supported")
		}
		if err := checkScalar(resolve(s.Items()), false); err != nil {
			return fmt.Errorf("array items: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported type %q", schema.Type())
}

// resolve follows references to previously declared named types.
func resolve(schema hambavro.Schema) hambavro.Schema {
	for {
		ref, ok := schema.(*hambavro.RefSchema)
		if !ok {
			return schema
		}
		schema = ref.Schema()
	}
}

func leafPaths(leaves []Leaf) []string {
	paths := make([]string, len(leaves))
	for i, leaf := range leaves {
		paths[i] = leaf.Path
	}
	return paths
}
