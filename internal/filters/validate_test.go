package filters

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	r := mustDefault(t)

	valid := Params{"direction": "Increase", "amount": 1.5, "purpose": "balance exposure"}

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", valid, false},
		{"json number", Params{"direction": "Decrease", "amount": json.Number("0.3"), "purpose": "balance exposure"}, false},
		{"unknown choice", Params{"direction": "Sideways", "amount": 1.0, "purpose": "balance exposure"}, true},
		{"above max", Params{"direction": "Increase", "amount": 9.0, "purpose": "balance exposure"}, true},
		{"below min", Params{"direction": "Increase", "amount": 0.0, "purpose": "balance exposure"}, true},
		{"number as string", Params{"direction": "Increase", "amount": "1.0", "purpose": "balance exposure"}, true},
		{"missing key", Params{"direction": "Increase", "amount": 1.0}, true},
		{"extra key", Params{"direction": "Increase", "amount": 1.0, "purpose": "balance exposure", "x": "y"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := r.Validate("brightness", tc.params)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("Validate error = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate error = %v, want nil", err)
			}
		})
	}
}

func TestValidate_ParameterFree(t *testing.T) {
	r := mustDefault(t)

	if err := r.Validate("vintage", nil); err != nil {
		t.Errorf("Validate(vintage, nil) = %v", err)
	}
	if err := r.Validate("vintage", Params{"x": 1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Validate(vintage, extra) = %v, want ErrInvalidParameter", err)
	}
}

func TestValidate_FreeTextAcceptsEmpty(t *testing.T) {
	r := mustDefault(t)

	params, _ := r.Defaults("sky_replacement")
	params["custom_sky_type"] = ""
	if err := r.Validate("sky_replacement", params); err != nil {
		t.Errorf("Validate with empty free text = %v", err)
	}
}

func TestJSONSchema(t *testing.T) {
	r := mustDefault(t)

	s, err := r.JSONSchema("add_text")
	if err != nil {
		t.Fatal(err)
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties has type %T", s["properties"])
	}
	fontSize, ok := props["font_size"].(map[string]any)
	if !ok {
		t.Fatalf("font_size property missing")
	}
	if fontSize["minimum"] != 8.0 || fontSize["maximum"] != 200.0 {
		t.Errorf("font_size bounds = %v..%v, want 8..200", fontSize["minimum"], fontSize["maximum"])
	}
	if s["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", s["additionalProperties"])
	}

	if _, err := r.JSONSchema("nope"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("JSONSchema(nope) error = %v", err)
	}
}
