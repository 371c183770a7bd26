// Package prompt turns filter selections into the instruction text sent to
// the image model and merges it with free-text prompts.
package prompt

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"photopro/internal/filters"
)

const (
	Preamble = "Apply the following image processing filters and adjustments:"
	Closing  = "Ensure all adjustments work harmoniously together to create a cohesive and visually appealing result. Maintain the natural look of the image while applying the specified enhancements."

	mergeConnective = "\n\nAdditionally, apply these filters:\n"
)

// Selection is one chosen filter with its parameter values.
type Selection struct {
	Filter string         `json:"filter"`
	Params filters.Params `json:"params,omitempty"`
}

// Skip records a selection that did not make it into the prompt.
type Skip struct {
	Filter string
	Reason error
}

type Result struct {
	Prompt  string
	Skipped []Skip
}

type Options struct {
	Registry *filters.Registry
	Logger   *slog.Logger
	// OnSkip, when set, is called once per skipped selection.
	OnSkip func(Skip)
}

// Composer is stateless apart from its configuration and safe for
// concurrent use.
type Composer struct {
	registry *filters.Registry
	logger   *slog.Logger
	onSkip   func(Skip)
}

func New(opts Options) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Composer{
		registry: opts.Registry,
		logger:   logger,
		onSkip:   opts.OnSkip,
	}
}

// Compose renders every selection in order and wraps the blocks with the
// fixed preamble and closing sentence. Selections that name an unknown
// filter or cannot be rendered are left out and reported in Result.Skipped.
// When nothing renders the prompt is empty.
func (c *Composer) Compose(selections []Selection) Result {
	var res Result
	blocks := make([]string, 0, len(selections))

	for _, sel := range selections {
		text, err := c.render(sel)
		if err != nil {
			c.skip(&res, sel.Filter, err)
			continue
		}
		blocks = append(blocks, "**"+filters.Label(sel.Filter)+":** "+text)
	}

	if len(blocks) == 0 {
		return res
	}

	var b strings.Builder
	b.WriteString(Preamble)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(Closing)
	res.Prompt = b.String()
	return res
}

func (c *Composer) render(sel Selection) (string, error) {
	if c.registry == nil {
		return "", filters.ErrUnknownFilter
	}
	def, err := c.registry.Definition(sel.Filter)
	if err != nil {
		return "", err
	}
	return def.Render(sel.Params)
}

func (c *Composer) skip(res *Result, filter string, err error) {
	s := Skip{Filter: filter, Reason: err}
	res.Skipped = append(res.Skipped, s)
	c.logger.Warn("filter skipped", "filter", filter, "err", err)
	if c.onSkip != nil {
		c.onSkip(s)
	}
}

// SkipReason classifies a skip for labels and API responses.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, filters.ErrUnknownFilter):
		return "unknown_filter"
	case errors.Is(err, filters.ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, filters.ErrUnexpectedParameter):
		return "unexpected_parameter"
	default:
		return "other"
	}
}

// Merge joins a free-text prompt with a composed filter prompt. Either part
// may be empty.
func Merge(custom, filterPrompt string) string {
	custom = strings.TrimSpace(custom)
	switch {
	case custom != "" && filterPrompt != "":
		return custom + mergeConnective + filterPrompt
	case custom != "":
		return custom
	default:
		return filterPrompt
	}
}
