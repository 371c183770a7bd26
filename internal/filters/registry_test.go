package filters

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return r
}

func TestDefault_Consistent(t *testing.T) {
	r := mustDefault(t)
	if err := r.CheckConsistency(); err != nil {
		t.Fatalf("CheckConsistency() = %v", err)
	}
}

func TestRegistry_EveryCategoryFilterResolves(t *testing.T) {
	r := mustDefault(t)

	for _, c := range r.Categories() {
		for _, name := range c.Filters {
			if _, err := r.Template(name); err != nil {
				t.Errorf("Template(%q) error: %v", name, err)
			}
			if _, err := r.Schema(name); err != nil {
				t.Errorf("Schema(%q) error: %v", name, err)
			}
		}
	}
}

func TestRegistry_EveryFilterInExactlyOneCategory(t *testing.T) {
	r := mustDefault(t)

	counts := map[string]int{}
	for _, c := range r.Categories() {
		for _, name := range c.Filters {
			counts[name]++
		}
	}
	for _, name := range r.Search("") {
		if counts[name] != 1 {
			t.Errorf("filter %q appears in %d categories, want 1", name, counts[name])
		}
	}
	if got, want := len(r.FilterNames()), len(r.Search("")); got != want {
		t.Errorf("FilterNames() has %d names, definition table has %d", got, want)
	}
}

func TestRegistry_CategoryOrder(t *testing.T) {
	r := mustDefault(t)

	var keys []string
	for _, c := range r.Categories() {
		keys = append(keys, c.Key)
	}
	want := []string{"basic", "color", "artistic", "effects", "ai", "transform", "overlay"}
	if !slices.Equal(keys, want) {
		t.Errorf("category keys = %v, want %v", keys, want)
	}
}

func TestRegistry_UnknownFilter(t *testing.T) {
	r := mustDefault(t)

	if _, err := r.Template("nope"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Template(nope) error = %v, want ErrUnknownFilter", err)
	}
	if _, err := r.Schema("nope"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Schema(nope) error = %v, want ErrUnknownFilter", err)
	}
	if _, err := r.Defaults("nope"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Defaults(nope) error = %v, want ErrUnknownFilter", err)
	}
}

func TestRegistry_ParameterFreeFilters(t *testing.T) {
	r := mustDefault(t)

	for _, name := range []string{"vintage", "cinematic", "black_white", "portrait", "auto_enhance", "face_retouch"} {
		s, err := r.Schema(name)
		if err != nil {
			t.Fatalf("Schema(%q) error: %v", name, err)
		}
		if s == nil || len(s) != 0 {
			t.Errorf("Schema(%q) = %v, want empty non-nil schema", name, s)
		}
	}
}

func TestRegistry_SchemaIsCopied(t *testing.T) {
	r := mustDefault(t)

	s, _ := r.Schema("brightness")
	s[0].Choices[0] = "mutated"
	s[1].Max = 99

	again, _ := r.Schema("brightness")
	if again[0].Choices[0] != "Increase" || again[1].Max != 2.0 {
		t.Errorf("registry schema was mutated through a returned copy: %+v", again)
	}
}

func TestNew_DetectsDrift(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		cats    []Category
		wantErr string
	}{
		{
			name:    "category references unknown filter",
			defs:    []Definition{{Name: "a", Template: "A."}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a", "ghost"}}},
			wantErr: "ghost",
		},
		{
			name:    "filter missing from categories",
			defs:    []Definition{{Name: "a", Template: "A."}, {Name: "b", Template: "B."}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}},
			wantErr: `filter "b" is not listed in any category`,
		},
		{
			name:    "filter in two categories",
			defs:    []Definition{{Name: "a", Template: "A."}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}, {Key: "y", Label: "Y", Filters: []string{"a"}}},
			wantErr: "listed in 2 categories",
		},
		{
			name:    "placeholder without schema",
			defs:    []Definition{{Name: "a", Template: "Do {thing}."}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}},
			wantErr: "placeholder {thing} has no schema entry",
		},
		{
			name:    "schema key unused",
			defs:    []Definition{{Name: "a", Template: "A.", Params: Schema{enum("thing", "one")}}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}},
			wantErr: `parameter "thing" is not used`,
		},
		{
			name:    "default out of range",
			defs:    []Definition{{Name: "a", Template: "{n}", Params: Schema{slider("n", 0, 1, 2, 0.1, "")}}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}},
			wantErr: "outside",
		},
		{
			name:    "enum without choices",
			defs:    []Definition{{Name: "a", Template: "{e}", Params: Schema{enum("e")}}},
			cats:    []Category{{Key: "x", Label: "X", Filters: []string{"a"}}},
			wantErr: "no choices",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.defs, tc.cats)
			if err == nil {
				t.Fatal("New() should fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("New() error = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestNew_DuplicateDefinition(t *testing.T) {
	_, err := New([]Definition{{Name: "a", Template: "A."}, {Name: "a", Template: "B."}}, nil)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("New() error = %v, want duplicate definition error", err)
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"brightness":             "Brightness",
		"shadows_highlights":     "Shadows Highlights",
		"glitch_pixelate_sketch": "Glitch Pixelate Sketch",
		"hsl":                    "Hsl",
		"unknown_filter_xyz":     "Unknown Filter Xyz",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaults_CompleteAndValid(t *testing.T) {
	r := mustDefault(t)

	for _, name := range r.FilterNames() {
		t.Run(name, func(t *testing.T) {
			params, err := r.Defaults(name)
			if err != nil {
				t.Fatalf("Defaults error: %v", err)
			}
			schema, _ := r.Schema(name)
			if len(params) != len(schema) {
				t.Fatalf("Defaults has %d entries, schema has %d", len(params), len(schema))
			}
			if err := r.Validate(name, params); err != nil {
				t.Errorf("Validate(defaults) = %v", err)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	r := mustDefault(t)

	got := r.Search("vign")
	if len(got) == 0 || got[0] != "vignette" {
		t.Errorf("Search(vign) = %v, want vignette first", got)
	}

	if got := r.Search("zzzzqqq"); len(got) != 0 {
		t.Errorf("Search(zzzzqqq) = %v, want no matches", got)
	}

	if got := r.Search("  "); len(got) != len(r.FilterNames()) {
		t.Errorf("Search(blank) returned %d filters, want all %d", len(got), len(r.FilterNames()))
	}
}
