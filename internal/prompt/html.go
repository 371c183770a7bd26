package prompt

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderHTML converts a composed prompt to an HTML preview. Raw HTML in the
// input is omitted from the output.
func RenderHTML(prompt string) (string, error) {
	if prompt == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(prompt), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
