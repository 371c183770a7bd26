package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"photopro/internal/enhance"
	"photopro/internal/filters"
	"photopro/internal/gemini"
	"photopro/internal/prompt"
	"photopro/internal/session"
)

var (
	errBadRequest      = errors.New("bad request")
	errUnknownCategory = errors.New("unknown prompt category")
	errTooLarge        = errors.New("upload too large")
)

type filterInfo struct {
	Name     string         `json:"name"`
	Label    string         `json:"label"`
	Category string         `json:"category,omitempty"`
	Template string         `json:"template,omitempty"`
	Params   filters.Schema `json:"params"`
	Defaults filters.Params `json:"defaults"`
}

type categoryInfo struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Icon    string       `json:"icon"`
	Filters []filterInfo `json:"filters"`
}

type skipInfo struct {
	Filter string `json:"filter"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

type composeRequest struct {
	Mode       string             `json:"mode"`
	Custom     string             `json:"custom"`
	Selections []prompt.Selection `json:"selections"`
}

type composeResponse struct {
	Mode     prompt.Mode `json:"mode"`
	Prompt   string      `json:"prompt"`
	HTML     string      `json:"html"`
	Skipped  []skipInfo  `json:"skipped"`
	Warnings []string    `json:"warnings,omitempty"`
}

type imageResult struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Images     []string `json:"images"`
	Texts      []string `json:"texts,omitempty"`
	Attempts   int      `json:"attempts"`
	DurationMS int64    `json:"duration_ms"`
}

type enhanceResponse struct {
	Prompt  string        `json:"prompt"`
	Skipped []skipInfo    `json:"skipped"`
	Results []imageResult `json:"results"`
	Stats   statsResponse `json:"stats"`
}

type statsResponse struct {
	session.Stats
	SuccessRate float64 `json:"success_rate"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ui)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.registry.Categories()
	out := make([]categoryInfo, 0, len(cats))
	for _, c := range cats {
		info := categoryInfo{Key: c.Key, Label: c.Label, Icon: c.Icon, Filters: make([]filterInfo, 0, len(c.Filters))}
		for _, name := range c.Filters {
			fi, err := s.filterInfo(name, false)
			if err != nil {
				s.handleError(w, err)
				return
			}
			info.Filters = append(info.Filters, fi)
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearchFilters(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Search(r.URL.Query().Get("q"))
	out := make([]filterInfo, 0, len(names))
	for _, name := range names {
		fi, err := s.filterInfo(name, false)
		if err != nil {
			s.handleError(w, err)
			return
		}
		out = append(out, fi)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fi, err := s.filterInfo(name, true)
	if err != nil {
		s.handleError(w, err)
		return
	}
	schema, err := s.registry.JSONSchema(name)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		filterInfo
		JSONSchema map[string]any `json:"json_schema"`
	}{fi, schema})
}

func (s *Server) filterInfo(name string, withTemplate bool) (filterInfo, error) {
	def, err := s.registry.Definition(name)
	if err != nil {
		return filterInfo{}, err
	}
	defaults, err := s.registry.Defaults(name)
	if err != nil {
		return filterInfo{}, err
	}
	cat, _ := s.registry.CategoryOf(name)

	fi := filterInfo{
		Name:     name,
		Label:    filters.Label(name),
		Category: cat,
		Params:   def.Params,
		Defaults: defaults,
	}
	if fi.Params == nil {
		fi.Params = filters.Schema{}
	}
	if withTemplate {
		fi.Template = def.Template
	}
	return fi, nil
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err))
		return
	}
	mode, err := prompt.ParseMode(req.Mode)
	if err != nil {
		s.handleError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	res := s.composer.Build(prompt.Request{Mode: mode, Custom: req.Custom, Selections: req.Selections})
	html, err := prompt.RenderHTML(res.Prompt)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := composeResponse{
		Mode:    mode,
		Prompt:  res.Prompt,
		HTML:    html,
		Skipped: skipInfos(res.Skipped),
	}
	if mode != prompt.ModeCustom {
		resp.Warnings = s.validationWarnings(req.Selections)
	}
	writeJSON(w, http.StatusOK, resp)
}

// validationWarnings reports out-of-range or unknown-choice values. They do
// not stop composition.
func (s *Server) validationWarnings(sels []prompt.Selection) []string {
	var out []string
	for _, sel := range sels {
		err := s.registry.Validate(sel.Filter, sel.Params)
		var verr *filters.ValidationError
		if errors.As(err, &verr) {
			out = append(out, verr.Error())
		}
	}
	return out
}

func skipInfos(skips []prompt.Skip) []skipInfo {
	out := make([]skipInfo, 0, len(skips))
	for _, sk := range skips {
		out = append(out, skipInfo{Filter: sk.Filter, Reason: prompt.SkipReason(sk.Reason), Detail: sk.Reason.Error()})
	}
	return out
}

func (s *Server) handlePromptCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.library.Categories())
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	prompts, ok := s.library.Prompts(category)
	if !ok {
		s.handleError(w, fmt.Errorf("%w: %q", errUnknownCategory, category))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "prompts": prompts})
}

func (s *Server) handleRandomPrompt(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	text, ok := s.library.Random(category)
	if !ok {
		s.handleError(w, fmt.Errorf("%w: %q", errUnknownCategory, category))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": category, "prompt": text})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.handleError(w, fmt.Errorf("%w: limit is %d bytes", errTooLarge, tooLarge.Limit))
			return
		}
		s.handleError(w, fmt.Errorf("%w: invalid multipart form", errBadRequest))
		return
	}

	mode, err := prompt.ParseMode(r.FormValue("mode"))
	if err != nil {
		s.handleError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	var sels []prompt.Selection
	if raw := strings.TrimSpace(r.FormValue("selections")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sels); err != nil {
			s.handleError(w, fmt.Errorf("%w: invalid selections: %v", errBadRequest, err))
			return
		}
	}

	uploads, err := readUploads(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	built := s.composer.Build(prompt.Request{Mode: mode, Custom: r.FormValue("custom"), Selections: sels})

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	batch, err := s.enhancer.Process(ctx, sid, uploads, built.Prompt)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := enhanceResponse{
		Prompt:  built.Prompt,
		Skipped: skipInfos(built.Skipped),
		Results: make([]imageResult, 0, len(batch.Results)),
		Stats:   toStatsResponse(batch.Stats),
	}
	for _, res := range batch.Results {
		resp.Results = append(resp.Results, toImageResult(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

func readUploads(r *http.Request) ([]enhance.Upload, error) {
	if r.MultipartForm == nil {
		return nil, enhance.ErrNoImages
	}
	headers := r.MultipartForm.File["images"]
	previous := r.MultipartForm.Value["image_data"]
	if len(headers) == 0 && len(previous) == 0 {
		return nil, enhance.ErrNoImages
	}

	uploads := make([]enhance.Upload, 0, len(headers)+len(previous))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s", errBadRequest, fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s", errBadRequest, fh.Filename)
		}
		uploads = append(uploads, enhance.Upload{Filename: fh.Filename, Data: data})
	}

	// Earlier results sent back as data URLs, for chained enhancement.
	for i, v := range previous {
		img, ok := gemini.DecodeDataURL(v)
		if !ok {
			return nil, fmt.Errorf("%w: image_data %d is not a base64 data URL", errBadRequest, i+1)
		}
		uploads = append(uploads, enhance.Upload{Filename: fmt.Sprintf("previous_%d%s", i+1, extension(img.MimeType)), Data: img.Data})
	}
	return uploads, nil
}

func toImageResult(r enhance.Result) imageResult {
	out := imageResult{
		ID:         r.ID,
		Filename:   r.Filename,
		Success:    r.Success,
		Error:      r.Error,
		Images:     make([]string, 0, len(r.Images)),
		Texts:      r.Texts,
		Attempts:   r.Attempts,
		DurationMS: r.Duration.Milliseconds(),
	}
	for _, img := range r.Images {
		out.Images = append(out.Images, img.DataURL())
	}
	return out
}

func toStatsResponse(st session.Stats) statsResponse {
	return statsResponse{Stats: st, SuccessRate: st.SuccessRate()}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	writeJSON(w, http.StatusOK, toStatsResponse(s.sessions.Stats(sid)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.handleError(w, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}

	entries := s.sessions.History(sid, limit)
	if entries == nil {
		entries = []session.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	s.sessions.Clear(sid)
	w.WriteHeader(http.StatusNoContent)
}

func extension(mimeType string) string {
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		return "." + sub
	}
	return ""
}
