package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed ui.default.yaml
var defaultUI []byte

// UI is the user-facing copy shared by the web page and the bot.
type UI struct {
	App struct {
		PageTitle string `yaml:"page_title" json:"page_title"`
		PageIcon  string `yaml:"page_icon" json:"page_icon"`
		Header    string `yaml:"header" json:"header"`
		Subtitle  string `yaml:"subtitle" json:"subtitle"`
	} `yaml:"app" json:"app"`

	Bot struct {
		Welcome       string `yaml:"welcome" json:"welcome"`
		Help          string `yaml:"help" json:"help"`
		NoSelection   string `yaml:"no_selection" json:"no_selection"`
		Processing    string `yaml:"processing" json:"processing"`
		Failed        string `yaml:"failed" json:"failed"`
		HistoryClear  string `yaml:"history_cleared" json:"history_cleared"`
		SelectionsOff string `yaml:"selections_reset" json:"selections_reset"`
	} `yaml:"bot" json:"bot"`

	// Presets extend the built-in prompt library. A known key adds prompts
	// to that category.
	Presets []PresetCategory `yaml:"presets" json:"-"`
}

type PresetCategory struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Prompts []string `yaml:"prompts"`
}

// DefaultUI returns the built-in copy.
func DefaultUI() UI {
	var ui UI
	if err := yaml.Unmarshal(defaultUI, &ui); err != nil {
		panic(fmt.Sprintf("embedded ui.default.yaml: %v", err))
	}
	return ui
}

// LoadUI reads the copy from path and fills any missing entry from the
// built-in defaults. A missing file is not an error.
func LoadUI(path string) (UI, error) {
	ui := DefaultUI()
	if path == "" {
		return ui, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return ui, nil
	}
	if err != nil {
		return UI{}, fmt.Errorf("failed to read ui config %s: %w", path, err)
	}

	// Decoding over the defaults keeps every key the file leaves out.
	if err := yaml.Unmarshal(data, &ui); err != nil {
		return UI{}, fmt.Errorf("failed to parse ui config %s: %w", path, err)
	}
	return ui, nil
}
