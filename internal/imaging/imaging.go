// Package imaging validates uploaded photos and normalises them before they
// are sent to the model.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidImage      = errors.New("invalid image")
	ErrTooLarge          = errors.New("image too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

const maxPixels = 100_000_000

type Config struct {
	MaxSide      int
	Quality      int
	MaxFileBytes int64
	Formats      []string
}

func DefaultConfig() Config {
	return Config{
		MaxSide:      1024,
		Quality:      95,
		MaxFileBytes: 20 << 20,
		Formats:      []string{"jpeg", "png", "webp", "tiff", "bmp", "gif"},
	}
}

// Prepared is an image ready for upload.
type Prepared struct {
	Data         []byte
	MimeType     string
	Width        int
	Height       int
	SourceFormat string
	Resized      bool
}

type Processor struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Processor {
	def := DefaultConfig()
	if cfg.MaxSide <= 0 {
		cfg.MaxSide = def.MaxSide
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = def.Quality
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = def.MaxFileBytes
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = def.Formats
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{cfg: cfg, logger: logger}
}

func (p *Processor) Config() Config { return p.cfg }

// Prepare checks size and format, shrinks the image to fit MaxSide and
// re-encodes it: JPEG at the configured quality, or PNG when the source has
// transparency.
func (p *Processor) Prepare(data []byte) (Prepared, error) {
	if len(data) == 0 {
		return Prepared{}, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if int64(len(data)) > p.cfg.MaxFileBytes {
		return Prepared{}, fmt.Errorf("%w: %.2fMB > %dMB", ErrTooLarge,
			float64(len(data))/(1<<20), p.cfg.MaxFileBytes>>20)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Prepared{}, fmt.Errorf("%w: unrecognised data", ErrUnsupportedFormat)
		}
		return Prepared{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if !slices.Contains(p.cfg.Formats, format) {
		return Prepared{}, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat,
			strings.ToUpper(format), strings.ToUpper(strings.Join(p.cfg.Formats, ", ")))
	}
	if cfg.Width*cfg.Height > maxPixels {
		return Prepared{}, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Prepared{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	out := Prepared{SourceFormat: format}
	img := src
	if w, h := Fit(src.Bounds().Dx(), src.Bounds().Dy(), p.cfg.MaxSide); w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		img = dst
		out.Resized = true
		p.logger.Debug("image resized", "from_w", src.Bounds().Dx(), "from_h", src.Bounds().Dy(), "to_w", w, "to_h", h)
	}
	out.Width, out.Height = img.Bounds().Dx(), img.Bounds().Dy()

	var buf bytes.Buffer
	if hasAlpha(img) {
		if err := png.Encode(&buf, img); err != nil {
			return Prepared{}, fmt.Errorf("encode png: %w", err)
		}
		out.MimeType = "image/png"
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.cfg.Quality}); err != nil {
			return Prepared{}, fmt.Errorf("encode jpeg: %w", err)
		}
		out.MimeType = "image/jpeg"
	}
	out.Data = buf.Bytes()
	return out, nil
}

// Fit scales w×h down to fit inside a maxSide square, keeping the aspect
// ratio. Images already inside the bound are returned unchanged.
func Fit(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		return maxSide, max(nh, 1)
	}
	nw := w * maxSide / h
	return max(nw, 1), maxSide
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
