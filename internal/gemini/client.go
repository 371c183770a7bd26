package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultModel      = "gemini-2.0-flash-preview-image-generation"
	DefaultMaxRetries = 3
	DefaultBackoff    = time.Second
)

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	// MaxRetries is the total number of attempts per request.
	MaxRetries int
	// Backoff is the wait before the second attempt; it doubles after every
	// failed attempt.
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	model      string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		model:      model,
		maxRetries: maxRetries,
		backoff:    backoff,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

func (c *Client) Model() string { return c.model }

// Enhance sends the instruction and the image to the model and returns the
// generated images and commentary. Failed attempts are retried with
// exponential backoff up to the configured attempt count; client errors
// other than 429 are not retried.
func (c *Client) Enhance(ctx context.Context, prompt string, image ImageInput) (Response, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Response{}, ErrEmptyPrompt
	}
	if len(image.Data) == 0 {
		return Response{}, errors.New("image is empty")
	}

	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(image.Data)
	}

	req := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: prompt},
				{InlineData: &blob{Data: base64.StdEncoding.EncodeToString(image.Data), MimeType: mimeType}},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(wait):
			}
		}

		c.logger.Info("gemini request", "model", c.model, "attempt", attempt+1, "max_attempts", c.maxRetries)
		attempts++
		resp, err := c.generateContent(ctx, c.model, req)
		if err != nil && isUnknownFieldError(err, "responseModalities") {
			req.GenerationConfig.ResponseModalities = nil
			resp, err = c.generateContent(ctx, c.model, req)
		}
		if err == nil {
			resp.Attempts = attempt + 1
			if len(resp.Texts) == 0 && len(resp.Images) == 0 {
				return resp, ErrEmptyResponse
			}
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("gemini attempt failed", "attempt", attempt+1, "err", err)
		if !retryable(ctx, err) {
			break
		}
	}

	return Response{}, fmt.Errorf("gemini failed after %d attempts: %w", attempts, lastErr)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (Response, error) {
	if c.httpClient == nil {
		return Response{}, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return Response{}, &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       strings.TrimSpace(string(rawBody)),
		}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return Response{}, ErrNoCandidates
	}

	return extractParts(decoded)
}

func extractParts(resp generateContentResponse) (Response, error) {
	var out Response
	for _, p := range resp.Candidates[0].Content.Parts {
		if strings.TrimSpace(p.Text) != "" {
			out.Texts = append(out.Texts, p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(stripDataURLPrefix(p.InlineData.Data))
			if err != nil {
				return Response{}, fmt.Errorf("decode inline image: %w", err)
			}
			mimeType := p.InlineData.MimeType
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}
			out.Images = append(out.Images, Image{MimeType: mimeType, Data: data})
		}
	}
	return out, nil
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

var dataURLRegex = regexp.MustCompile(`^data:([^;]+);base64,`)

// DecodeDataURL splits a base64 data URL into its MIME type and payload.
func DecodeDataURL(dataURL string) (ImageInput, bool) {
	dataURL = strings.TrimSpace(dataURL)
	matches := dataURLRegex.FindStringSubmatch(dataURL)
	if len(matches) != 2 {
		return ImageInput{}, false
	}
	data, err := base64.StdEncoding.DecodeString(stripDataURLPrefix(dataURL))
	if err != nil || len(data) == 0 {
		return ImageInput{}, false
	}
	return ImageInput{Data: data, MimeType: matches[1]}, true
}

func stripDataURLPrefix(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		return value[idx+1:]
	}
	return value
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
