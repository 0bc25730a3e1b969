// Package styles defines the visual styling for homekeep's terminal
// output. Styles use semantic names and adaptive colors loaded from an
// embedded YAML definition, so every command renders consistently.
package styles

import (
	_ "embed"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// registry maps semantic names to lipgloss styles
var registry map[string]lipgloss.Style

// colorEnabled is false when stdout is not a terminal
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func init() {
	var cfg Config
	if err := yaml.Unmarshal(embeddedStyles, &cfg); err != nil {
		panic("styles: invalid embedded styles.yaml: " + err.Error())
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry = make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		style := lipgloss.NewStyle().Bold(def.Bold).Italic(def.Italic)
		if c, ok := colors[def.Foreground]; ok {
			style = style.Foreground(c)
		}
		registry[name] = style
	}
}

// Render styles text with the named style. Unknown names and
// non-terminal output fall back to plain text.
func Render(name, text string) string {
	if !colorEnabled {
		return text
	}
	style, ok := registry[name]
	if !ok {
		return text
	}
	return style.Render(text)
}

// Has reports whether a style name is defined
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}
