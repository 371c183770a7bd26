package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"photopro/internal/filters"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits command arguments on whitespace. Double, single and
// typographic quotes group words into one argument.
func splitArgs(s string) ([]string, error) {
	var (
		out     []string
		buf     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote || (quote == '“' && r == '”') {
				quote = 0
				continue
			}
			buf.WriteRune(r)
		case r == '"' || r == '\'' || r == '“':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				out = append(out, buf.String())
				buf.Reset()
				inToken = false
			}
		default:
			buf.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inToken {
		out = append(out, buf.String())
	}
	return out, nil
}

// parseSetArgs reads "<filter> key=value ..." into the filter name and the
// raw values.
func parseSetArgs(args string) (string, map[string]string, error) {
	tokens, err := splitArgs(args)
	if err != nil {
		return "", nil, err
	}
	if len(tokens) == 0 {
		return "", nil, errors.New("usage: /set <filter> key=value ...")
	}

	filter := normalizeFilterName(tokens[0])
	values := make(map[string]string, len(tokens)-1)
	for _, tok := range tokens[1:] {
		key, value, ok := strings.Cut(tok, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return "", nil, fmt.Errorf("expected key=value, got %q", tok)
		}
		values[key] = strings.TrimSpace(value)
	}
	return filter, values, nil
}

func normalizeFilterName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// coerceValues converts raw text values to the types the schema declares.
// Enum values are matched case-insensitively and returned in their declared
// spelling.
func coerceValues(filter string, schema filters.Schema, raw map[string]string) (filters.Params, error) {
	out := make(filters.Params, len(raw))
	for key, value := range raw {
		p, ok := schema.Lookup(key)
		if !ok {
			return nil, &filters.UnexpectedParameterError{Filter: filter, Param: key}
		}

		switch p.Kind {
		case filters.KindNumeric:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a number, got %q", filters.ErrInvalidParameter, key, value)
			}
			out[key] = f
		case filters.KindEnum:
			choice, ok := matchChoice(p.Choices, value)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be one of %s", filters.ErrInvalidParameter, key, strings.Join(p.Choices, ", "))
			}
			out[key] = choice
		default:
			out[key] = value
		}
	}
	return out, nil
}

func matchChoice(choices []string, value string) (string, bool) {
	for _, c := range choices {
		if strings.EqualFold(c, value) {
			return c, true
		}
	}
	return "", false
}
