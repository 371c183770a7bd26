package filters

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"unicode"
)

// Registry is the read-only filter table. It is safe for concurrent use.
type Registry struct {
	defs       map[string]Definition
	order      []string
	categories []Category
	categoryOf map[string]string
	index      []string
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return New(builtinDefinitions(), builtinCategories())
})

// Default returns the built-in registry. The error is non-nil only if the
// built-in tables are out of sync, which callers should treat as fatal.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// New builds a registry from definitions and categories and runs
// CheckConsistency on the result.
func New(defs []Definition, categories []Category) (*Registry, error) {
	r := &Registry{
		defs:       make(map[string]Definition, len(defs)),
		categoryOf: make(map[string]string),
	}

	for _, d := range defs {
		if d.Name == "" {
			return nil, errors.New("filter definition with empty name")
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("duplicate filter definition %q", d.Name)
		}
		d.Params = cloneSchema(d.Params)
		r.defs[d.Name] = d
		r.order = append(r.order, d.Name)
	}

	for _, c := range categories {
		c.Filters = slices.Clone(c.Filters)
		r.categories = append(r.categories, c)
		for _, name := range c.Filters {
			if _, ok := r.categoryOf[name]; !ok {
				r.categoryOf[name] = c.Key
			}
		}
	}

	r.index = buildSearchIndex(r)

	if err := r.CheckConsistency(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Definition(name string) (Definition, error) {
	d, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	d.Params = cloneSchema(d.Params)
	return d, nil
}

func (r *Registry) Template(name string) (string, error) {
	d, ok := r.defs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return d.Template, nil
}

// Schema returns the ordered parameter schema of a filter. Parameter-free
// filters return an empty schema.
func (r *Registry) Schema(name string) (Schema, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	if d.Params == nil {
		return Schema{}, nil
	}
	return cloneSchema(d.Params), nil
}

// Categories returns the curated presentation grouping in display order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		c.Filters = slices.Clone(c.Filters)
		out = append(out, c)
	}
	return out
}

func (r *Registry) Category(key string) (Category, bool) {
	for _, c := range r.categories {
		if c.Key == key {
			c.Filters = slices.Clone(c.Filters)
			return c, true
		}
	}
	return Category{}, false
}

// CategoryOf returns the key of the category holding the filter.
func (r *Registry) CategoryOf(name string) (string, bool) {
	key, ok := r.categoryOf[name]
	return key, ok
}

// FilterNames returns the union of filter names across all categories,
// sorted.
func (r *Registry) FilterNames() []string {
	out := make([]string, 0, len(r.categoryOf))
	for name := range r.categoryOf {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Defaults returns a complete parameter mapping for the filter built from
// its schema defaults.
func (r *Registry) Defaults(name string) (Params, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	out := make(Params, len(d.Params))
	for _, p := range d.Params {
		out[p.Name] = p.DefaultValue()
	}
	return out, nil
}

// CheckConsistency verifies that the category table and the definition
// table agree and that every template matches its schema.
func (r *Registry) CheckConsistency() error {
	var errs []error

	seen := make(map[string]int)
	for _, c := range r.categories {
		for _, name := range c.Filters {
			seen[name]++
			if _, err := r.Template(name); err != nil {
				errs = append(errs, fmt.Errorf("category %q: %w", c.Label, err))
				continue
			}
			if _, err := r.Schema(name); err != nil {
				errs = append(errs, fmt.Errorf("category %q: %w", c.Label, err))
			}
		}
	}

	for _, name := range r.order {
		switch n := seen[name]; {
		case n == 0:
			errs = append(errs, fmt.Errorf("filter %q is not listed in any category", name))
		case n > 1:
			errs = append(errs, fmt.Errorf("filter %q is listed in %d categories", name, n))
		}
		errs = append(errs, checkDefinition(r.defs[name])...)
	}

	return errors.Join(errs...)
}

func checkDefinition(d Definition) []error {
	var errs []error

	placeholders := Placeholders(d.Template)
	declared := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		if declared[p.Name] {
			errs = append(errs, fmt.Errorf("filter %q: parameter %q declared twice", d.Name, p.Name))
		}
		declared[p.Name] = true

		switch p.Kind {
		case KindEnum:
			if len(p.Choices) == 0 {
				errs = append(errs, fmt.Errorf("filter %q: enum parameter %q has no choices", d.Name, p.Name))
			}
		case KindNumeric:
			if p.Min > p.Max || p.Default < p.Min || p.Default > p.Max {
				errs = append(errs, fmt.Errorf("filter %q: parameter %q default %v outside [%v, %v]", d.Name, p.Name, p.Default, p.Min, p.Max))
			}
			if p.Step < 0 {
				errs = append(errs, fmt.Errorf("filter %q: parameter %q has negative step", d.Name, p.Name))
			}
		case KindText:
		default:
			errs = append(errs, fmt.Errorf("filter %q: parameter %q has unknown kind %q", d.Name, p.Name, p.Kind))
		}

		if !slices.Contains(placeholders, p.Name) {
			errs = append(errs, fmt.Errorf("filter %q: parameter %q is not used by the template", d.Name, p.Name))
		}
	}

	for _, name := range placeholders {
		if !declared[name] {
			errs = append(errs, fmt.Errorf("filter %q: placeholder {%s} has no schema entry", d.Name, name))
		}
	}

	return errs
}

// Label turns a filter name into its display form: underscores become
// spaces and every word is title-cased.
func Label(name string) string {
	out := make([]rune, 0, len(name))
	prevLetter := false
	for _, r := range name {
		if r == '_' {
			r = ' '
		}
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		out = append(out, r)
	}
	return string(out)
}

func cloneSchema(s Schema) Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for i, p := range s {
		p.Choices = slices.Clone(p.Choices)
		out[i] = p
	}
	return out
}
