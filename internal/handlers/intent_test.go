package handlers

import (
	"errors"
	"reflect"
	"testing"

	"photopro/internal/filters"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  brightness   amount=1.5 ", []string{"brightness", "amount=1.5"}},
		{`add_text text="Hello world" position=Center`, []string{"add_text", "text=Hello world", "position=Center"}},
		{"mood 'golden hour'", []string{"mood", "golden hour"}},
		{"caption text=“big sale”", []string{"caption", "text=big sale"}},
		{`x=""`, []string{"x="}},
	}
	for _, tc := range tests {
		got, err := splitArgs(tc.in)
		if err != nil {
			t.Fatalf("splitArgs(%q) error: %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := splitArgs(`text="open`); !errors.Is(err, errUnterminatedQuote) {
		t.Errorf("unterminated quote error = %v", err)
	}
}

func TestParseSetArgs(t *testing.T) {
	filter, values, err := parseSetArgs(`Color-Temperature Amount=10 note="a b"`)
	if err != nil {
		t.Fatalf("parseSetArgs error: %v", err)
	}
	if filter != "color_temperature" {
		t.Errorf("filter = %q", filter)
	}
	if !reflect.DeepEqual(values, map[string]string{"amount": "10", "note": "a b"}) {
		t.Errorf("values = %v", values)
	}

	for _, bad := range []string{"", "brightness amount", "brightness =3"} {
		if _, _, err := parseSetArgs(bad); err == nil {
			t.Errorf("parseSetArgs(%q) should fail", bad)
		}
	}
}

func TestCoerceValues(t *testing.T) {
	reg, err := filters.Default()
	if err != nil {
		t.Fatal(err)
	}
	schema, err := reg.Schema("brightness")
	if err != nil {
		t.Fatal(err)
	}

	got, err := coerceValues("brightness", schema, map[string]string{"amount": "1.5", "direction": "decrease"})
	if err != nil {
		t.Fatalf("coerceValues error: %v", err)
	}
	if got["amount"] != 1.5 || got["direction"] != "Decrease" {
		t.Errorf("coerced = %v", got)
	}

	tests := []struct {
		raw  map[string]string
		want error
	}{
		{map[string]string{"amount": "lots"}, filters.ErrInvalidParameter},
		{map[string]string{"direction": "sideways"}, filters.ErrInvalidParameter},
		{map[string]string{"glow": "1"}, filters.ErrUnexpectedParameter},
	}
	for _, tc := range tests {
		if _, err := coerceValues("brightness", schema, tc.raw); !errors.Is(err, tc.want) {
			t.Errorf("coerceValues(%v) error = %v, want %v", tc.raw, err, tc.want)
		}
	}
}
