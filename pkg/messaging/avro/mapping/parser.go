// Package mapping loads the hybrid schema/pattern configuration and turns text lines into
// Avro records.
//
// A configuration holds an Avro record schema, a marker line and one pattern per schema field:
//
//	{"type": "record", "name": "LogLine", "fields": [
//		{"name": "level", "type": "string"},
//		{"name": "code", "type": "int"}
//	]}
//	%% mapping
//	level   = ^(\w+):
//	code[2] = (ERR|WARN)-(\d+)
//
// Each mapping line is "<field>[<group>] = <pattern>". The group index is optional and defaults
// to 1. Blank lines and lines starting with '#' are ignored in the mapping section. Fields of
// nested records are mapped with their dotted path.
package mapping

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	hambavro "github.com/hamba/avro/v2"
	"github.com/samber/lo"
)

// SectionMarker separates the schema section from the mapping section.
const SectionMarker = "%% mapping"

// DefaultMatchTimeout bounds a single pattern evaluation.
const DefaultMatchTimeout = time.Second

// FieldMapping binds a schema leaf to a compiled extraction pattern.
type FieldMapping struct {
	Field   string
	Pattern string
	Group   int

	schema hambavro.Schema
	re     *regexp2.Regexp
}

// Config is a parsed configuration. It is not modified after Parse returns.
type Config struct {
	Schema     *hambavro.RecordSchema
	SchemaJSON string
	Mappings   []FieldMapping
}

type parseOptions struct {
	matchTimeout time.Duration
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithMatchTimeout overrides DefaultMatchTimeout. Zero disables the timeout.
func WithMatchTimeout(d time.Duration) ParseOption {
	return func(o *parseOptions) {
		o.matchTimeout = d
	}
}

// Parse splits content at SectionMarker, parses the schema section and compiles the mapping
// section. It never returns a partially populated Config.
func Parse(content string, opts ...ParseOption) (*Config, error) {
	options := parseOptions{matchTimeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	schemaText, mappingText, mappingStart, err := splitSections(content)
	if err != nil {
		return nil, err
	}

	schema, leaves, err := ParseSchema(schemaText)
	if err != nil {
		return nil, err
	}

	mappings, err := parseMappings(mappingText, mappingStart, options)
	if err != nil {
		return nil, err
	}

	if err := checkFieldSets(leaves, mappings); err != nil {
		return nil, err
	}

	byPath := lo.SliceToMap(leaves, func(l Leaf) (string, hambavro.Schema) {
		return l.Path, l.Schema
	})
	for i := range mappings {
		mappings[i].schema = byPath[mappings[i].Field]
	}

	return &Config{
		Schema:     schema,
		SchemaJSON: schemaText,
		Mappings:   mappings,
	}, nil
}

// splitSections returns the schema text, the mapping text and the line number where the
// mapping section starts.
func splitSections(content string) (string, string, int, error) {
	lines := strings.Split(content, "\n")

	markerAt := -1
	found := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == SectionMarker {
			if markerAt < 0 {
				markerAt = i
			}
			found++
		}
	}

	switch {
	case found == 0:
		return "", "", 0, fmt.Errorf("%w: %q not found", ErrMissingMarker, SectionMarker)
	case found > 1:
		return "", "", 0, fmt.Errorf("%w: %q found %d times", ErrMissingMarker, SectionMarker, found)
	}

	schemaText := strings.TrimSpace(strings.Join(lines[:markerAt], "\n"))
	mappingText := strings.Join(lines[markerAt+1:], "\n")
	return schemaText, mappingText, markerAt + 2, nil
}

func parseMappings(text string, firstLine int, options parseOptions) ([]FieldMapping, error) {
	var mappings []FieldMapping

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := firstLine - 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m, err := parseMappingLine(line, lineNo, options)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read mapping section: %v", ErrConfig, err)
	}

	return mappings, nil
}

func parseMappingLine(line string, lineNo int, options parseOptions) (FieldMapping, error) {
	lhs, pattern, ok := strings.Cut(line, "=")
	if !ok {
		return FieldMapping{}, &InvalidPatternError{Field: strings.TrimSpace(line), Line: lineNo, Reason: "expected <field> = <pattern>"}
	}

	field, group, err := parseFieldRef(strings.TrimSpace(lhs))
	if err != nil {
		return FieldMapping{}, &InvalidPatternError{Field: strings.TrimSpace(lhs), Line: lineNo, Reason: err.Error()}
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return FieldMapping{}, &InvalidPatternError{Field: field, Line: lineNo, Reason: "empty pattern"}
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return FieldMapping{}, &InvalidPatternError{Field: field, Line: lineNo, Reason: err.Error()}
	}
	re.MatchTimeout = options.matchTimeout

	// Group numbers include the implicit whole-match group 0.
	groups := len(re.GetGroupNumbers()) - 1
	if groups < 1 {
		return FieldMapping{}, &InvalidPatternError{Field: field, Line: lineNo, Reason: "pattern has no capture group"}
	}
	if group > groups {
		return FieldMapping{}, &InvalidPatternError{
			Field:  field,
			Line:   lineNo,
			Reason: fmt.Sprintf("capture group %d out of range, pattern has %d", group, groups),
		}
	}

	return FieldMapping{Field: field, Pattern: pattern, Group: group, re: re}, nil
}

// parseFieldRef parses "name" or "name[group]".
func parseFieldRef(ref string) (string, int, error) {
	name, rest, hasGroup := strings.Cut(ref, "[")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("empty field name")
	}
	if strings.ContainsAny(name, " \t") {
		return "", 0, fmt.Errorf("field name %q contains whitespace", name)
	}
	if !hasGroup {
		return name, 1, nil
	}

	index, ok := strings.CutSuffix(strings.TrimSpace(rest), "]")
	if !ok {
		return "", 0, fmt.Errorf("unterminated capture group index")
	}
	group, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || group < 1 {
		return "", 0, fmt.Errorf("capture group index must be a positive integer, got %q", index)
	}
	return name, group, nil
}

func checkFieldSets(leaves []Leaf, mappings []FieldMapping) error {
	declared := lo.Map(mappings, func(m FieldMapping, _ int) string { return m.Field })
	expected := leafPaths(leaves)

	mismatch := &MismatchError{
		Missing:   lo.Without(expected, declared...),
		Extra:     lo.Without(lo.Uniq(declared), expected...),
		Duplicate: lo.FindDuplicates(declared),
	}
	if len(mismatch.Missing) > 0 || len(mismatch.Extra) > 0 || len(mismatch.Duplicate) > 0 {
		return mismatch
	}
	return nil
}
