package handlers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"photopro/internal/filters"
	"photopro/internal/prompt"
	"photopro/internal/session"
)

func TestFormatStats(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	got := formatStats(session.Stats{TotalImages: 4, Successful: 3, Failed: 1}, []session.Entry{
		{Filename: "a.jpg", Success: true, Duration: 1500 * time.Millisecond, Timestamp: ts},
		{Filename: "b.jpg", Timestamp: ts},
	})

	for _, want := range []string{"Processed: 4", "Success rate: 75.0%", "✅ 13:04:05 a.jpg (1.5s)", "❌ 13:04:05 b.jpg"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats text missing %q:\n%s", want, got)
		}
	}
}

func TestFormatSkipped(t *testing.T) {
	if got := formatSkipped(nil); got != "" {
		t.Errorf("formatSkipped(nil) = %q", got)
	}
	got := formatSkipped([]prompt.Skip{
		{Filter: "glow", Reason: filters.ErrUnknownFilter},
		{Filter: "vignette", Reason: &filters.MissingParameterError{Filter: "vignette", Param: "intensity"}},
		{Filter: "x", Reason: errors.New("boom")},
	})
	want := "glow (unknown_filter), vignette (missing_parameter), x (other)"
	if !strings.HasSuffix(got, want) {
		t.Errorf("formatSkipped = %q, want suffix %q", got, want)
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey(12345); got != "tg:12345" {
		t.Errorf("sessionKey = %q", got)
	}
}
