// Package web serves the PhotoPro HTTP API and the browser UI.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photopro/internal/config"
	"photopro/internal/enhance"
	"photopro/internal/filters"
	"photopro/internal/metrics"
	"photopro/internal/prompt"
	"photopro/internal/session"
)

//go:embed static/*
var staticFS embed.FS

const (
	sessionCookie         = "photopro_session"
	defaultMaxUploadBytes = 100 << 20
)

type Options struct {
	Registry *filters.Registry
	Composer *prompt.Composer
	Library  *prompt.Library
	Sessions *session.Store
	Enhancer *enhance.Service
	UI       config.UI

	RequestTimeout time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// errorHandler writes the response for err and reports whether it did.
type errorHandler func(w http.ResponseWriter, err error) bool

type Server struct {
	registry *filters.Registry
	composer *prompt.Composer
	library  *prompt.Library
	sessions *session.Store
	enhancer *enhance.Service
	ui       config.UI

	requestTimeout time.Duration
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandlers  []errorHandler
}

type apiError struct {
	Error string `json:"error"`
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 240 * time.Second
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	s := &Server{
		registry:       opts.Registry,
		composer:       opts.Composer,
		library:        opts.Library,
		sessions:       opts.Sessions,
		enhancer:       opts.Enhancer,
		ui:             opts.UI,
		requestTimeout: timeout,
		maxUploadBytes: maxUpload,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(filters.ErrUnknownFilter, http.StatusNotFound),
		sentinelHandler(errUnknownCategory, http.StatusNotFound),
		sentinelHandler(errTooLarge, http.StatusRequestEntityTooLarge),
		sentinelHandler(errBadRequest, http.StatusBadRequest),
		sentinelHandler(enhance.ErrEmptyPrompt, http.StatusBadRequest),
		sentinelHandler(enhance.ErrNoImages, http.StatusBadRequest),
		sentinelHandler(filters.ErrInvalidParameter, http.StatusBadRequest),
	}
	return s
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(withLogging(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/ui", s.handleUI)
		r.Get("/categories", s.handleCategories)
		r.Get("/filters", s.handleSearchFilters)
		r.Get("/filters/{name}", s.handleFilter)
		r.Post("/compose", s.handleCompose)

		r.Get("/prompts", s.handlePromptCategories)
		r.Get("/prompts/{category}", s.handlePrompts)
		r.Get("/prompts/{category}/random", s.handleRandomPrompt)

		r.Post("/enhance", s.handleEnhance)
		r.Get("/stats", s.handleStats)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
	})

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(staticSub)))

	return r
}

// sessionID returns the caller's session id, issuing a cookie on first use.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		s.sessions.Touch(c.Value, "")
		return c.Value
	}

	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.sessions.Touch(id, "")
	return id
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", "err", err)
	writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
}

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, apiError{Error: err.Error()})
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonRecoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered", "panic", rvr, "path", r.URL.Path)
					writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func withLogging(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", chiMiddleware.GetReqID(r.Context()),
				"dur_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
