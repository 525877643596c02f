package ui

import (
	_ "embed"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color as written in styles.yaml
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style as written in styles.yaml
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	MarginLeft int    `yaml:"marginLeft,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
}

// StylesConfig is the complete styles document
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Theme maps semantic names (action names, Path, Error, ...) to lipgloss styles
type Theme struct {
	styles map[string]lipgloss.Style
}

//go:embed styles.yaml
var embeddedStyles []byte

// DefaultTheme returns the theme built from the embedded styles.yaml.
// A broken embedded file degrades to unstyled output.
func DefaultTheme() *Theme {
	theme, err := LoadTheme(embeddedStyles)
	if err != nil {
		return &Theme{styles: map[string]lipgloss.Style{}}
	}
	return theme
}

// LoadTheme builds a theme from styles YAML
func LoadTheme(data []byte) (*Theme, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	theme := &Theme{styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		theme.styles[name] = buildStyle(def, colors)
	}
	return theme, nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	return style
}

// Get returns the named style, or an empty style when the name is unknown
func (t *Theme) Get(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Has reports whether the theme defines the named style
func (t *Theme) Has(name string) bool {
	_, ok := t.styles[name]
	return ok
}
