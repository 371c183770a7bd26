// Package filters holds the static registry of image-adjustment filters: their
// natural-language templates, typed parameter schemas and presentation
// categories.
package filters

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownFilter       = errors.New("unknown filter")
	ErrMissingParameter    = errors.New("missing parameter")
	ErrUnexpectedParameter = errors.New("unexpected parameter")
	ErrInvalidParameter    = errors.New("invalid parameter")
)

type Kind string

const (
	KindEnum    Kind = "enum"
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

const (
	WidgetSlider = "slider"
	WidgetNumber = "number"
)

// Param describes one placeholder of a filter template. Only the fields of
// its Kind are meaningful.
type Param struct {
	Name string
	Kind Kind

	Choices []string

	Min     float64
	Max     float64
	Default float64
	Step    float64
	Unit    string
	Widget  string

	TextDefault string
	Placeholder string
}

func (p Param) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name": p.Name,
		"kind": p.Kind,
	}
	switch p.Kind {
	case KindEnum:
		out["choices"] = p.Choices
	case KindNumeric:
		out["min"] = p.Min
		out["max"] = p.Max
		out["default"] = p.Default
		out["step"] = p.Step
		out["unit"] = p.Unit
		out["widget"] = p.Widget
	case KindText:
		out["default"] = p.TextDefault
		out["placeholder"] = p.Placeholder
	}
	return json.Marshal(out)
}

type paramWire struct {
	Name        string          `json:"name"`
	Kind        Kind            `json:"kind"`
	Choices     []string        `json:"choices"`
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Default     json.RawMessage `json:"default"`
	Step        float64         `json:"step"`
	Unit        string          `json:"unit"`
	Widget      string          `json:"widget"`
	Placeholder string          `json:"placeholder"`
}

// UnmarshalJSON reads the form written by MarshalJSON. The type of
// "default" depends on the kind.
func (p *Param) UnmarshalJSON(data []byte) error {
	var w paramWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Param{Name: w.Name, Kind: w.Kind}
	switch w.Kind {
	case KindEnum:
		out.Choices = w.Choices
	case KindNumeric:
		out.Min, out.Max, out.Step = w.Min, w.Max, w.Step
		out.Unit, out.Widget = w.Unit, w.Widget
		if len(w.Default) > 0 {
			if err := json.Unmarshal(w.Default, &out.Default); err != nil {
				return fmt.Errorf("param %s: numeric default: %w", w.Name, err)
			}
		}
	case KindText:
		out.Placeholder = w.Placeholder
		if len(w.Default) > 0 {
			if err := json.Unmarshal(w.Default, &out.TextDefault); err != nil {
				return fmt.Errorf("param %s: text default: %w", w.Name, err)
			}
		}
	default:
		return fmt.Errorf("param %s: unknown kind %q", w.Name, w.Kind)
	}
	*p = out
	return nil
}

// DefaultValue is the value a UI should preselect for the parameter.
func (p Param) DefaultValue() any {
	switch p.Kind {
	case KindEnum:
		if len(p.Choices) == 0 {
			return ""
		}
		return p.Choices[0]
	case KindNumeric:
		return p.Default
	default:
		return p.TextDefault
	}
}

type Schema []Param

func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		out = append(out, p.Name)
	}
	return out
}

// Params maps parameter names to caller-chosen values. Values are strings,
// numbers, booleans or json.Number.
type Params map[string]any

type Definition struct {
	Name     string
	Template string
	Params   Schema
}

type Category struct {
	Key     string
	Label   string
	Icon    string
	Filters []string
}

// MissingParameterError reports a template placeholder with no supplied value.
type MissingParameterError struct {
	Filter string
	Param  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("filter %q: missing parameter %q", e.Filter, e.Param)
}

func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// UnexpectedParameterError reports a supplied value that the filter does not
// declare.
type UnexpectedParameterError struct {
	Filter string
	Param  string
}

func (e *UnexpectedParameterError) Error() string {
	return fmt.Sprintf("filter %q: unexpected parameter %q", e.Filter, e.Param)
}

func (e *UnexpectedParameterError) Is(target error) bool {
	return target == ErrUnexpectedParameter
}

func enum(name string, choices ...string) Param {
	return Param{Name: name, Kind: KindEnum, Choices: choices}
}

func slider(name string, min, max, def, step float64, unit string) Param {
	return Param{Name: name, Kind: KindNumeric, Min: min, Max: max, Default: def, Step: step, Unit: unit, Widget: WidgetSlider}
}

func number(name string, min, max, def float64, unit string) Param {
	return Param{Name: name, Kind: KindNumeric, Min: min, Max: max, Default: def, Step: 1, Unit: unit, Widget: WidgetNumber}
}

func text(name, def, placeholder string) Param {
	return Param{Name: name, Kind: KindText, TextDefault: def, Placeholder: placeholder}
}
