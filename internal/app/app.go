// Package app wires the services shared by the web server and the bot.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"photopro/internal/config"
	"photopro/internal/enhance"
	"photopro/internal/filters"
	"photopro/internal/gemini"
	"photopro/internal/httpclient"
	"photopro/internal/imaging"
	"photopro/internal/metrics"
	"photopro/internal/prompt"
	"photopro/internal/session"
)

type App struct {
	Config config.Config
	UI     config.UI
	Logger *slog.Logger

	HTTPClient *http.Client
	Registry   *filters.Registry
	Composer   *prompt.Composer
	Library    *prompt.Library
	Sessions   *session.Store
	Gemini     *gemini.Client
	Enhancer   *enhance.Service
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	ui, err := config.LoadUI(cfg.UIConfigPath)
	if err != nil {
		return nil, err
	}

	registry, err := filters.Default()
	if err != nil {
		return nil, fmt.Errorf("filter registry: %w", err)
	}

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Model:      cfg.GeminiModel,
		MaxRetries: cfg.GeminiMaxRetries,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	sessions := session.NewStore(session.Options{MaxHistory: cfg.MaxHistory})

	library := prompt.NewLibrary(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	if err := addPresets(library, ui.Presets); err != nil {
		return nil, err
	}

	images := imaging.DefaultConfig()
	images.MaxSide = cfg.ImageMaxSize
	images.Quality = cfg.ImageQuality

	return &App{
		Config:     cfg,
		UI:         ui,
		Logger:     logger,
		HTTPClient: httpClient,
		Registry:   registry,
		Composer: prompt.New(prompt.Options{
			Registry: registry,
			Logger:   logger,
			OnSkip: func(s prompt.Skip) {
				metrics.ObserveSkippedFilter(prompt.SkipReason(s.Reason))
			},
		}),
		Library:  library,
		Sessions: sessions,
		Gemini:   gem,
		Enhancer: enhance.New(enhance.Options{
			Gemini:        gem,
			Images:        imaging.New(images, logger),
			Sessions:      sessions,
			MaxConcurrent: cfg.MaxConcurrent,
			OutputDir:     cfg.OutputDir,
			Logger:        logger,
		}),
	}, nil
}

func addPresets(lib *prompt.Library, presets []config.PresetCategory) error {
	for _, p := range presets {
		if _, ok := lib.Prompts(p.Key); !ok {
			if err := lib.AddCategory(p.Key, p.Label, p.Prompts); err != nil {
				return fmt.Errorf("preset category %q: %w", p.Key, err)
			}
			continue
		}
		for _, text := range p.Prompts {
			if err := lib.Add(p.Key, text); err != nil {
				return fmt.Errorf("preset category %q: %w", p.Key, err)
			}
		}
	}
	return nil
}

// PruneSessions drops idle sessions every interval until ctx is done.
func (a *App) PruneSessions(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.Sessions.PruneIdle(a.Config.SessionIdle); n > 0 {
				a.Logger.Info("idle sessions pruned", "count", n, "remaining", a.Sessions.Len())
			}
		}
	}
}

func NewLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}
