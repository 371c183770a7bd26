package filters

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

func buildSearchIndex(r *Registry) []string {
	labels := make(map[string]string, len(r.categories))
	for _, c := range r.categories {
		labels[c.Key] = c.Label
	}

	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, fmt.Sprintf("%s %s %s", name, Label(name), labels[r.categoryOf[name]]))
	}
	return out
}

// Search returns filter names matching query, best match first. An empty
// query returns every filter in table order.
func (r *Registry) Search(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]string, len(r.order))
		copy(out, r.order)
		return out
	}

	matches := fuzzy.Find(query, r.index)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, r.order[m.Index])
	}
	return out
}
