// Package enhance runs uploaded photos through preparation and the image
// model and records the outcome in the session store.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"photopro/internal/gemini"
	"photopro/internal/imaging"
	"photopro/internal/metrics"
	"photopro/internal/session"
)

var (
	ErrNoImages    = errors.New("no images to enhance")
	ErrEmptyPrompt = errors.New("no instruction: the prompt is empty")
)

// Enhancer is the model call; *gemini.Client implements it.
type Enhancer interface {
	Enhance(ctx context.Context, prompt string, image gemini.ImageInput) (gemini.Response, error)
}

type Upload struct {
	Filename string
	Data     []byte
}

type Result struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	Prompt     string         `json:"-"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Images     []gemini.Image `json:"-"`
	Texts      []string       `json:"texts,omitempty"`
	SavedPaths []string       `json:"saved_paths,omitempty"`
	Attempts   int            `json:"attempts"`
	Duration   time.Duration  `json:"duration"`
	Timestamp  time.Time      `json:"timestamp"`
}

type Batch struct {
	Results []Result
	Stats   session.Stats
}

type Options struct {
	Gemini        Enhancer
	Images        *imaging.Processor
	Sessions      *session.Store
	MaxConcurrent int
	// OutputDir, when set, receives a copy of every generated image.
	OutputDir string
	Logger    *slog.Logger
}

type Service struct {
	gem           Enhancer
	images        *imaging.Processor
	sessions      *session.Store
	maxConcurrent int
	outputDir     string
	logger        *slog.Logger
}

func New(opts Options) *Service {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	images := opts.Images
	if images == nil {
		images = imaging.New(imaging.DefaultConfig(), opts.Logger)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		gem:           opts.Gemini,
		images:        images,
		sessions:      opts.Sessions,
		maxConcurrent: maxConcurrent,
		outputDir:     strings.TrimSpace(opts.OutputDir),
		logger:        logger,
	}
}

// Process enhances every upload with the same prompt. Uploads are handled
// concurrently up to MaxConcurrent at a time; results keep upload order. A
// failing image does not stop the others.
func (s *Service) Process(ctx context.Context, sessionID string, uploads []Upload, prompt string) (Batch, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Batch{}, ErrEmptyPrompt
	}
	if len(uploads) == 0 {
		return Batch{}, ErrNoImages
	}

	results := make([]Result, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, up := range uploads {
		g.Go(func() error {
			results[i] = s.processOne(gctx, up, prompt)
			return nil
		})
	}
	_ = g.Wait()

	batch := Batch{Results: results}
	if s.sessions != nil {
		entries := make([]session.Entry, 0, len(results))
		for _, r := range results {
			entries = append(entries, toEntry(r))
		}
		s.sessions.Record(sessionID, entries...)
		batch.Stats = s.sessions.Stats(sessionID)
	}
	return batch, nil
}

func (s *Service) processOne(ctx context.Context, up Upload, prompt string) Result {
	start := time.Now()
	res := Result{
		ID:        uuid.NewString()[:8],
		Filename:  up.Filename,
		Prompt:    prompt,
		Timestamp: start,
	}
	logger := s.logger.With("id", res.ID, "filename", up.Filename)
	logger.Info("enhancement started")

	err := s.run(ctx, up, prompt, &res, logger)

	res.Duration = time.Since(start)
	res.Success = err == nil
	if err != nil {
		res.Error = err.Error()
		logger.Error("enhancement failed", "err", err, "duration", res.Duration)
	} else {
		logger.Info("enhancement completed", "images", len(res.Images), "duration", res.Duration)
	}
	metrics.ObserveEnhancement(res.Success, len(res.Images), res.Duration)
	return res
}

func (s *Service) run(ctx context.Context, up Upload, prompt string, res *Result, logger *slog.Logger) error {
	if s.gem == nil {
		return errors.New("image model is not configured")
	}

	prepared, err := s.images.Prepare(up.Data)
	if err != nil {
		return err
	}
	if prepared.Resized {
		logger.Info("image resized", "width", prepared.Width, "height", prepared.Height)
	}

	resp, err := s.gem.Enhance(ctx, prompt, gemini.ImageInput{Data: prepared.Data, MimeType: prepared.MimeType})
	if err != nil {
		return err
	}
	res.Images = resp.Images
	res.Texts = resp.Texts
	res.Attempts = resp.Attempts

	if s.outputDir != "" && len(resp.Images) > 0 {
		paths, err := s.save(res.ID, res.Timestamp, resp.Images)
		if err != nil {
			// The images are still returned to the caller.
			logger.Warn("saving enhanced images failed", "err", err)
		}
		res.SavedPaths = paths
	}
	return nil
}

func (s *Service) save(id string, ts time.Time, images []gemini.Image) ([]string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(images))
	for i, img := range images {
		name := fmt.Sprintf("enhanced_%s_%s_%d%s", id, ts.Format("20060102_150405"), i+1, extensionFor(img.MimeType))
		path := filepath.Join(s.outputDir, name)
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func toEntry(r Result) session.Entry {
	return session.Entry{
		ID:        r.ID,
		Filename:  r.Filename,
		Prompt:    r.Prompt,
		Success:   r.Success,
		Error:     r.Error,
		Images:    len(r.Images),
		Texts:     r.Texts,
		Duration:  r.Duration,
		Timestamp: r.Timestamp,
	}
}
