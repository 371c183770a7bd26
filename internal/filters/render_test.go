package filters

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		tmpl string
		want []string
	}{
		{"No placeholders here.", nil},
		{"{a} and {b} and {a}", []string{"a", "b"}},
		{"Literal {not valid} braces {x1}", []string{"x1"}},
		{"Unclosed {brace", nil},
		{"{}{9x}{_ok}", []string{"_ok"}},
	}
	for _, tc := range tests {
		if got := Placeholders(tc.tmpl); !slices.Equal(got, tc.want) {
			t.Errorf("Placeholders(%q) = %v, want %v", tc.tmpl, got, tc.want)
		}
	}
}

func TestDefinition_Render(t *testing.T) {
	def := Definition{
		Name:     "demo",
		Template: "Set {a} to {n} {a}; keep {not valid}.",
		Params:   Schema{enum("a", "x", "y"), slider("n", 0, 10, 1, 0.5, "px")},
	}

	got, err := def.Render(Params{"a": "x", "n": 2.5})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if want := "Set x to 2.5 x; keep {not valid}."; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestDefinition_RenderMissing(t *testing.T) {
	def := Definition{Name: "demo", Template: "{a} {b}", Params: Schema{text("a", "", ""), text("b", "", "")}}

	for _, params := range []Params{nil, {"a": "only"}, {"a": "x", "b": nil}} {
		got, err := def.Render(params)
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("Render(%v) error = %v, want ErrMissingParameter", params, err)
		}
		if got != "" {
			t.Errorf("Render(%v) returned partial text %q", params, got)
		}
		var mpe *MissingParameterError
		if errors.As(err, &mpe) && mpe.Filter != "demo" {
			t.Errorf("MissingParameterError.Filter = %q, want demo", mpe.Filter)
		}
	}
}

func TestDefinition_RenderUnexpected(t *testing.T) {
	def := Definition{Name: "demo", Template: "{a}", Params: Schema{text("a", "", "")}}

	_, err := def.Render(Params{"a": "x", "zzz": 1})
	var upe *UnexpectedParameterError
	if !errors.As(err, &upe) || upe.Param != "zzz" {
		t.Fatalf("Render error = %v, want UnexpectedParameterError for zzz", err)
	}
	if !errors.Is(err, ErrUnexpectedParameter) {
		t.Errorf("error should match ErrUnexpectedParameter")
	}
}

func TestDefinition_RenderParameterFree(t *testing.T) {
	r := mustDefault(t)
	def, err := r.Definition("vintage")
	if err != nil {
		t.Fatal(err)
	}
	got, err := def.Render(Params{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != def.Template {
		t.Errorf("parameter-free render changed the template")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Increase", "Increase"},
		{1.5, "1.5"},
		{float64(25), "25"},
		{-0.5, "-0.5"},
		{0.1, "0.1"},
		{float32(0.05), "0.05"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(3), "3"},
		{true, "true"},
		{json.Number("1920"), "1920"},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
