package prompt

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeCustom   Mode = "custom"
	ModeFilters  Mode = "filters"
	ModeCombined Mode = "combined"
)

// ParseMode accepts the mode names case-insensitively. An empty string
// selects ModeCombined.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeCombined, nil
	case ModeCustom, ModeFilters, ModeCombined:
		return m, nil
	default:
		return "", fmt.Errorf("unknown prompt mode %q", s)
	}
}

type Request struct {
	Mode       Mode
	Custom     string
	Selections []Selection
}

// Build produces the final prompt for a request. Custom mode ignores the
// selections, filters mode ignores the custom text and combined mode merges
// both.
func (c *Composer) Build(req Request) Result {
	switch req.Mode {
	case ModeCustom:
		return Result{Prompt: strings.TrimSpace(req.Custom)}
	case ModeFilters:
		return c.Compose(req.Selections)
	default:
		res := c.Compose(req.Selections)
		res.Prompt = Merge(req.Custom, res.Prompt)
		return res
	}
}
