package filters

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation of one parameter mapping.
type ValidationError struct {
	Filter   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter %q: invalid parameters: %s", e.Filter, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// JSONSchema returns the JSON Schema document describing a complete
// parameter mapping for the filter.
func (r *Registry) JSONSchema(name string) (map[string]any, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return jsonSchemaFor(d), nil
}

// Validate checks params against the filter's schema: enumerations must be
// one of the declared choices, numbers must lie in range, every declared
// parameter must be present and no other key may appear.
func (r *Registry) Validate(name string, params Params) error {
	d, ok := r.defs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}

	doc := map[string]any(params)
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(jsonSchemaFor(d)),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return &ValidationError{Filter: name, Problems: problems}
}

func jsonSchemaFor(d Definition) map[string]any {
	props := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))

	for _, p := range d.Params {
		required = append(required, p.Name)
		switch p.Kind {
		case KindEnum:
			choices := make([]any, 0, len(p.Choices))
			for _, c := range p.Choices {
				choices = append(choices, c)
			}
			props[p.Name] = map[string]any{"type": "string", "enum": choices}
		case KindNumeric:
			props[p.Name] = map[string]any{"type": "number", "minimum": p.Min, "maximum": p.Max}
		default:
			props[p.Name] = map[string]any{"type": "string"}
		}
	}

	schema := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                d.Name,
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
