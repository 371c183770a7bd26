package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photopro/internal/config"
	"photopro/internal/enhance"
	"photopro/internal/filters"
	"photopro/internal/gemini"
	"photopro/internal/prompt"
	"photopro/internal/session"
)

type echoEnhancer struct {
	prompts []string
}

func (e *echoEnhancer) Enhance(ctx context.Context, p string, img gemini.ImageInput) (gemini.Response, error) {
	e.prompts = append(e.prompts, p)
	return gemini.Response{
		Texts:    []string{"ok"},
		Images:   []gemini.Image{{MimeType: "image/png", Data: []byte{1, 2, 3}}},
		Attempts: 1,
	}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *echoEnhancer) {
	t.Helper()
	return newTestServerWithLimit(t, 0)
}

func newTestServerWithLimit(t *testing.T, maxUpload int64) (*httptest.Server, *echoEnhancer) {
	t.Helper()
	reg, err := filters.Default()
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewStore(session.Options{})
	fake := &echoEnhancer{}

	s := New(Options{
		Registry: reg,
		Composer: prompt.New(prompt.Options{Registry: reg}),
		Library:  prompt.NewLibrary(rand.New(rand.NewPCG(1, 2))),
		Sessions: sessions,
		Enhancer: enhance.New(enhance.Options{Gemini: fake, Sessions: sessions, MaxConcurrent: 1}),
		UI:       config.DefaultUI(),

		MaxUploadBytes: maxUpload,
	})
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, fake
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCategories(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/categories")
	if err != nil {
		t.Fatal(err)
	}
	var cats []categoryInfo
	decode(t, resp, &cats)

	if len(cats) != 7 || cats[0].Key != "basic" {
		t.Fatalf("categories = %+v", cats)
	}
	if f := cats[0].Filters[0]; f.Name != "brightness" || f.Label != "Brightness" || f.Defaults["direction"] != "Increase" {
		t.Errorf("first filter = %+v", f)
	}
}

func TestFilter(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/filters/vignette", http.StatusOK},
		{"/api/filters/vintage", http.StatusOK},
		{"/api/filters/glow", http.StatusNotFound},
	}
	for _, tc := range tests {
		resp, err := http.Get(ts.URL + tc.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Errorf("GET %s = %d, want %d", tc.path, resp.StatusCode, tc.status)
		}
	}

	resp, err := http.Get(ts.URL + "/api/filters/add_text")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Template   string         `json:"template"`
		JSONSchema map[string]any `json:"json_schema"`
	}
	decode(t, resp, &body)
	if !strings.Contains(body.Template, "{") {
		t.Errorf("template = %q", body.Template)
	}
	if body.JSONSchema["type"] != "object" {
		t.Errorf("json_schema = %v", body.JSONSchema)
	}
}

func TestSearchFilters(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/filters?q=vign")
	if err != nil {
		t.Fatal(err)
	}
	var hits []filterInfo
	decode(t, resp, &hits)
	if len(hits) == 0 || hits[0].Name != "vignette" {
		t.Errorf("search hits = %+v", hits)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCompose(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/compose", composeRequest{
		Custom: "Make it pop",
		Selections: []prompt.Selection{
			{Filter: "vintage"},
			{Filter: "glow"},
			{Filter: "brightness", Params: filters.Params{"direction": "Increase", "amount": 9.0, "purpose": "balance exposure"}},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out composeResponse
	decode(t, resp, &out)

	if out.Mode != prompt.ModeCombined {
		t.Errorf("mode = %q", out.Mode)
	}
	if !strings.HasPrefix(out.Prompt, "Make it pop\n\nAdditionally, apply these filters:\n"+prompt.Preamble) {
		t.Errorf("prompt = %q", out.Prompt)
	}
	if !strings.Contains(out.HTML, "<strong>Vintage:</strong>") {
		t.Errorf("html = %q", out.HTML)
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Filter != "glow" || out.Skipped[0].Reason != "unknown_filter" {
		t.Errorf("skipped = %+v", out.Skipped)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the out-of-range amount", out.Warnings)
	}
}

func TestCompose_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/compose", map[string]string{"mode": "sideways"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown mode status = %d", resp.StatusCode)
	}

	resp, err := http.Post(ts.URL+"/api/compose", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", resp.StatusCode)
	}
}

func TestPrompts(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/prompts")
	if err != nil {
		t.Fatal(err)
	}
	var cats []prompt.LibraryCategory
	decode(t, resp, &cats)
	if len(cats) == 0 {
		t.Fatal("no prompt categories")
	}

	resp, err = http.Get(ts.URL + "/api/prompts/" + cats[0].Key + "/random")
	if err != nil {
		t.Fatal(err)
	}
	var random map[string]string
	decode(t, resp, &random)
	if random["prompt"] == "" {
		t.Errorf("random = %v", random)
	}

	resp, err = http.Get(ts.URL + "/api/prompts/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown category status = %d", resp.StatusCode)
	}
}

func multipartBody(t *testing.T, fields map[string]string, files int) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := 0; i < files; i++ {
		fw, err := mw.CreateFormFile("images", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(img.Bytes())
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestEnhance(t *testing.T) {
	ts, fake := newTestServer(t)

	body, ctype := multipartBody(t, map[string]string{
		"mode":       "filters",
		"custom":     "ignored",
		"selections": `[{"filter":"vintage"}]`,
	}, 2)
	resp, err := http.Post(ts.URL+"/api/enhance", ctype, body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}

	var out enhanceResponse
	decode(t, resp, &out)
	if len(out.Results) != 2 || !out.Results[0].Success {
		t.Fatalf("results = %+v", out.Results)
	}
	if got := out.Results[0].Images[0]; got != "data:image/png;base64,AQID" {
		t.Errorf("image = %q", got)
	}
	if out.Stats.TotalImages != 2 || out.Stats.SuccessRate != 100 {
		t.Errorf("stats = %+v", out.Stats)
	}
	if len(fake.prompts) != 2 || strings.Contains(fake.prompts[0], "ignored") {
		t.Errorf("prompts = %q", fake.prompts)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/history", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var hist []session.Entry
	decode(t, resp, &hist)
	if len(hist) != 2 {
		t.Errorf("history = %+v", hist)
	}

	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/history", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/stats", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var st statsResponse
	decode(t, resp, &st)
	if st.TotalImages != 0 {
		t.Errorf("stats after clear = %+v", st)
	}
}

func TestEnhance_Rejects(t *testing.T) {
	ts, fake := newTestServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  int
	}{
		{"no instruction", map[string]string{"mode": "custom"}, 1},
		{"no images", map[string]string{"custom": "brighter"}, 0},
		{"bad selections", map[string]string{"selections": "{"}, 1},
		{"bad image data", map[string]string{"custom": "brighter", "image_data": "data:image/png;base64,!!"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, ctype := multipartBody(t, tc.fields, tc.files)
			resp, err := http.Post(ts.URL+"/api/enhance", ctype, body)
			if err != nil {
				t.Fatal(err)
			}
			var e apiError
			decode(t, resp, &e)
			if resp.StatusCode != http.StatusBadRequest || e.Error == "" {
				t.Errorf("status = %d, error = %q", resp.StatusCode, e.Error)
			}
		})
	}
	if len(fake.prompts) != 0 {
		t.Errorf("model called %d times", len(fake.prompts))
	}
}

func TestEnhance_UploadTooLarge(t *testing.T) {
	ts, fake := newTestServerWithLimit(t, 1024)

	body, ctype := multipartBody(t, map[string]string{"custom": strings.Repeat("x", 4096)}, 1)
	resp, err := http.Post(ts.URL+"/api/enhance", ctype, body)
	if err != nil {
		t.Fatal(err)
	}
	var e apiError
	decode(t, resp, &e)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
	if !strings.Contains(e.Error, "upload too large") {
		t.Errorf("error = %q", e.Error)
	}
	if len(fake.prompts) != 0 {
		t.Errorf("model called %d times", len(fake.prompts))
	}
}

func TestEnhance_ImageData(t *testing.T) {
	ts, fake := newTestServer(t)

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	dataURL := gemini.Image{MimeType: "image/png", Data: img.Bytes()}.DataURL()

	body, ctype := multipartBody(t, map[string]string{"mode": "custom", "custom": "sharper", "image_data": dataURL}, 0)
	resp, err := http.Post(ts.URL+"/api/enhance", ctype, body)
	if err != nil {
		t.Fatal(err)
	}
	var out enhanceResponse
	decode(t, resp, &out)
	if len(out.Results) != 1 || out.Results[0].Filename != "previous_1.png" || !out.Results[0].Success {
		t.Errorf("results = %+v", out.Results)
	}
	if len(fake.prompts) != 1 || fake.prompts[0] != "sharper" {
		t.Errorf("prompts = %q", fake.prompts)
	}
}

func TestHealthAndStatic(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/", "/metrics", "/api/ui"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "internal error") {
		t.Errorf("recovered response = %d %s", rec.Code, rec.Body.String())
	}
}
