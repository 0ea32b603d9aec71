package mapping

import (
	"strings"
)

// Record is a typed value per schema field, nested records being nested Records.
type Record = map[string]any

// Mapper turns text lines into Records. It is safe for concurrent use.
type Mapper struct {
	config *Config
}

// NewMapper returns a Mapper over a parsed configuration.
func NewMapper(config *Config) *Mapper {
	return &Mapper{config: config}
}

// Config returns the configuration the mapper was built from.
func (m *Mapper) Config() *Config {
	return m.config
}

// Extract applies every pattern to the full line in mapping order. It stops at the first
// field that does not match or cannot be coerced and never returns a partial record.
func (m *Mapper) Extract(line string) (Record, error) {
	record := make(Record, len(m.config.Schema.Fields()))

	for i := range m.config.Mappings {
		fm := &m.config.Mappings[i]

		text, err := fm.capture(line)
		if err != nil {
			return nil, err
		}

		value, err := coerce(fm.schema, text)
		if err != nil {
			return nil, &CoercionError{Field: fm.Field, Value: text, Err: err}
		}

		put(record, fm.Field, value)
	}

	return record, nil
}

func (fm *FieldMapping) capture(line string) (string, error) {
	match, err := fm.re.FindStringMatch(line)
	if err != nil {
		return "", &ExtractionError{Field: fm.Field, Err: err}
	}
	if match == nil {
		return "", &ExtractionError{Field: fm.Field}
	}

	group := match.GroupByNumber(fm.Group)
	if group == nil || len(group.Captures) == 0 {
		return "", &ExtractionError{Field: fm.Field}
	}
	return group.String(), nil
}

// put stores value under a dotted path, creating intermediate records.
func put(record Record, path string, value any) {
	parts := strings.Split(path, ".")
	current := record
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(Record)
		if !ok {
			next = Record{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
