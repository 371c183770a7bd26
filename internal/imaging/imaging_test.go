package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{800, 600, 1024, 800, 600},
		{2048, 1024, 1024, 1024, 512},
		{1000, 3000, 1024, 341, 1024},
		{1024, 1024, 1024, 1024, 1024},
		{5000, 2, 1024, 1024, 1},
	}
	for _, tc := range tests {
		w, h := Fit(tc.w, tc.h, tc.max)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("Fit(%d, %d, %d) = %dx%d, want %dx%d", tc.w, tc.h, tc.max, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestPrepare_DownscalesToJPEG(t *testing.T) {
	p := New(Config{MaxSide: 64}, nil)

	out, err := p.Prepare(encodePNG(t, solid(200, 100, color.RGBA{200, 10, 10, 255})))
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if !out.Resized || out.Width != 64 || out.Height != 32 {
		t.Errorf("got %dx%d resized=%v, want 64x32 resized", out.Width, out.Height, out.Resized)
	}
	if out.MimeType != "image/jpeg" || out.SourceFormat != "png" {
		t.Errorf("MimeType = %s, SourceFormat = %s", out.MimeType, out.SourceFormat)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestPrepare_KeepsTransparencyAsPNG(t *testing.T) {
	p := New(DefaultConfig(), nil)

	out, err := p.Prepare(encodePNG(t, solid(10, 10, color.NRGBA{0, 0, 0, 0})))
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if out.MimeType != "image/png" || out.Resized {
		t.Errorf("MimeType = %s, Resized = %v", out.MimeType, out.Resized)
	}
}

func TestPrepare_BMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, solid(8, 8, color.White)); err != nil {
		t.Fatal(err)
	}

	out, err := New(DefaultConfig(), nil).Prepare(buf.Bytes())
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if out.SourceFormat != "bmp" {
		t.Errorf("SourceFormat = %s, want bmp", out.SourceFormat)
	}
}

func TestPrepare_Errors(t *testing.T) {
	small := New(Config{MaxFileBytes: 10}, nil)
	jpegOnly := New(Config{Formats: []string{"jpeg"}}, nil)
	img := encodePNG(t, solid(4, 4, color.Black))

	tests := []struct {
		name string
		p    *Processor
		data []byte
		want error
	}{
		{"empty", New(DefaultConfig(), nil), nil, ErrInvalidImage},
		{"garbage", New(DefaultConfig(), nil), []byte("definitely not an image"), ErrUnsupportedFormat},
		{"too large", small, img, ErrTooLarge},
		{"format not allowed", jpegOnly, img, ErrUnsupportedFormat},
		{"truncated", New(DefaultConfig(), nil), img[:len(img)/2], ErrInvalidImage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.p.Prepare(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("Prepare error = %v, want %v", err, tc.want)
			}
		})
	}
}
