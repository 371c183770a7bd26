package gemini

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrEmptyResponse = errors.New("gemini returned neither text nor images")
	ErrNoCandidates  = errors.New("no candidates in gemini response")
)

// APIError is a non-2xx answer from the generateContent endpoint.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API %s: %s", e.Status, e.Body)
}

// Temporary reports whether a later attempt may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type ImageInput struct {
	Data     []byte
	MimeType string
}

type Image struct {
	MimeType string
	Data     []byte
}

// DataURL returns the image as a base64 data URL.
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

type Response struct {
	Texts    []string
	Images   []Image
	Attempts int
}

func (r Response) Text() string {
	return strings.TrimSpace(strings.Join(r.Texts, "\n"))
}
