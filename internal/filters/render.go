package filters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type segment struct {
	text  string
	param string
}

// parseTemplate splits a template into literal text and {name} placeholders.
// Braces that do not enclose an identifier are kept as literal text.
func parseTemplate(tmpl string) []segment {
	var out []segment
	rest := tmpl
	var lit strings.Builder

	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			lit.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open+1:], '}')
		if closing < 0 {
			lit.WriteString(rest)
			break
		}
		name := rest[open+1 : open+1+closing]
		if !isIdentifier(name) {
			lit.WriteString(rest[:open+1])
			rest = rest[open+1:]
			continue
		}

		lit.WriteString(rest[:open])
		if lit.Len() > 0 {
			out = append(out, segment{text: lit.String()})
			lit.Reset()
		}
		out = append(out, segment{param: name})
		rest = rest[open+1+closing+1:]
	}

	if lit.Len() > 0 {
		out = append(out, segment{text: lit.String()})
	}
	return out
}

// Placeholders returns the distinct placeholder names of a template in order
// of first appearance.
func Placeholders(tmpl string) []string {
	var out []string
	for _, s := range parseTemplate(tmpl) {
		if s.param != "" && !slices.Contains(out, s.param) {
			out = append(out, s.param)
		}
	}
	return out
}

// Render substitutes every placeholder of the template with its value from
// params. A placeholder without a value yields *MissingParameterError and a
// key the schema does not declare yields *UnexpectedParameterError; in both
// cases no text is returned.
func (d Definition) Render(params Params) (string, error) {
	var b strings.Builder
	b.Grow(len(d.Template))

	for _, s := range parseTemplate(d.Template) {
		if s.param == "" {
			b.WriteString(s.text)
			continue
		}
		v, ok := params[s.param]
		if !ok || v == nil {
			return "", &MissingParameterError{Filter: d.Name, Param: s.param}
		}
		b.WriteString(FormatValue(v))
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, ok := d.Params.Lookup(k); !ok {
			return "", &UnexpectedParameterError{Filter: d.Name, Param: k}
		}
	}

	return b.String(), nil
}

// FormatValue renders a parameter value as template text. Numbers use the
// shortest locale-independent decimal form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
