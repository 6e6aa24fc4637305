// Package theme defines the built-in color palettes.
package theme

import "todo/internal/priority"

// Default is the palette used when none is configured or the configured
// name is unknown.
const Default = "catppuccin"

// Colors is a palette of #RRGGBB hex colors.
type Colors struct {
	PriorityHigh   string
	PriorityMedium string
	PriorityLow    string
	Success        string
	Muted          string
	Border         string
	Highlight      string
	Overdue        string
	Project        string
	Context        string
	Date           string
	Text           string
	TextDim        string
	Background     string
	Selection      string
}

// Theme is a named palette.
type Theme struct {
	Key    string // config value, e.g. "tokyoNight"
	Name   string // display name
	Colors Colors
}

var (
	Catppuccin = Theme{Key: "catppuccin", Name: "Catppuccin", Colors: Colors{
		PriorityHigh: "#f38ba8", PriorityMedium: "#fab387", PriorityLow: "#89b4fa",
		Success: "#a6e3a1", Muted: "#6c7086", Border: "#45475a", Highlight: "#cba6f7",
		Overdue: "#eba0ac", Project: "#cba6f7", Context: "#94e2d5", Date: "#f9e2af",
		Text: "#cdd6f4", TextDim: "#a6adc8", Background: "#1e1e2e", Selection: "#313244",
	}}
	Dracula = Theme{Key: "dracula", Name: "Dracula", Colors: Colors{
		PriorityHigh: "#ff5555", PriorityMedium: "#ffb86c", PriorityLow: "#8be9fd",
		Success: "#50fa7b", Muted: "#6272a4", Border: "#44475a", Highlight: "#ff79c6",
		Overdue: "#ff5555", Project: "#bd93f9", Context: "#ff79c6", Date: "#f1fa8c",
		Text: "#f8f8f2", TextDim: "#bfbfbf", Background: "#282a36", Selection: "#44475a",
	}}
	Nord = Theme{Key: "nord", Name: "Nord", Colors: Colors{
		PriorityHigh: "#bf616a", PriorityMedium: "#d08770", PriorityLow: "#81a1c1",
		Success: "#a3be8c", Muted: "#4c566a", Border: "#434c5e", Highlight: "#88c0d0",
		Overdue: "#bf616a", Project: "#b48ead", Context: "#8fbcbb", Date: "#ebcb8b",
		Text: "#eceff4", TextDim: "#d8dee9", Background: "#2e3440", Selection: "#3b4252",
	}}
	Gruvbox = Theme{Key: "gruvbox", Name: "Gruvbox", Colors: Colors{
		PriorityHigh: "#fb4934", PriorityMedium: "#fe8019", PriorityLow: "#83a598",
		Success: "#b8bb26", Muted: "#928374", Border: "#504945", Highlight: "#fabd2f",
		Overdue: "#cc241d", Project: "#d3869b", Context: "#8ec07c", Date: "#fabd2f",
		Text: "#ebdbb2", TextDim: "#a89984", Background: "#282828", Selection: "#3c3836",
	}}
	TokyoNight = Theme{Key: "tokyoNight", Name: "Tokyo Night", Colors: Colors{
		PriorityHigh: "#f7768e", PriorityMedium: "#ff9e64", PriorityLow: "#7aa2f7",
		Success: "#9ece6a", Muted: "#565f89", Border: "#3b4261", Highlight: "#bb9af7",
		Overdue: "#db4b4b", Project: "#bb9af7", Context: "#7dcfff", Date: "#e0af68",
		Text: "#c0caf5", TextDim: "#a9b1d6", Background: "#1a1b26", Selection: "#283457",
	}}
	Solarized = Theme{Key: "solarized", Name: "Solarized Dark", Colors: Colors{
		PriorityHigh: "#dc322f", PriorityMedium: "#cb4b16", PriorityLow: "#268bd2",
		Success: "#859900", Muted: "#586e75", Border: "#073642", Highlight: "#b58900",
		Overdue: "#dc322f", Project: "#6c71c4", Context: "#2aa198", Date: "#b58900",
		Text: "#93a1a1", TextDim: "#839496", Background: "#002b36", Selection: "#073642",
	}}
	OneDark = Theme{Key: "oneDark", Name: "One Dark", Colors: Colors{
		PriorityHigh: "#e06c75", PriorityMedium: "#d19a66", PriorityLow: "#61afef",
		Success: "#98c379", Muted: "#5c6370", Border: "#3e4451", Highlight: "#c678dd",
		Overdue: "#be5046", Project: "#c678dd", Context: "#56b6c2", Date: "#e5c07b",
		Text: "#abb2bf", TextDim: "#828997", Background: "#282c34", Selection: "#3e4451",
	}}
	Monokai = Theme{Key: "monokai", Name: "Monokai", Colors: Colors{
		PriorityHigh: "#f92672", PriorityMedium: "#fd971f", PriorityLow: "#66d9ef",
		Success: "#a6e22e", Muted: "#75715e", Border: "#49483e", Highlight: "#ae81ff",
		Overdue: "#f92672", Project: "#ae81ff", Context: "#66d9ef", Date: "#e6db74",
		Text: "#f8f8f2", TextDim: "#cfcfc2", Background: "#272822", Selection: "#49483e",
	}}
)

var all = []Theme{Catppuccin, Dracula, Nord, Gruvbox, TokyoNight, Solarized, OneDark, Monokai}

// Names returns the config keys of all built-in themes in display order.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Key
	}
	return names
}

// Get looks up a theme by config key.
func Get(key string) (Theme, bool) {
	for _, t := range all {
		if t.Key == key {
			return t, true
		}
	}
	return Theme{}, false
}

// Exists reports whether key names a built-in theme.
func Exists(key string) bool {
	_, ok := Get(key)
	return ok
}

// Lookup returns the named theme, or the default one.
func Lookup(key string) Theme {
	if t, ok := Get(key); ok {
		return t
	}
	return Catppuccin
}

// Next returns the theme after key, wrapping around.
func Next(key string) Theme {
	for i, t := range all {
		if t.Key == key {
			return all[(i+1)%len(all)]
		}
	}
	return Catppuccin
}

// PriorityColor buckets a priority into the palette: A-C (0-2) high, D-F
// (3-5) medium, anything else low. An unset priority is muted.
func PriorityColor(p string, c Colors) string {
	if p == "" {
		return c.Muted
	}
	switch rank := priority.Rank(p); {
	case rank <= 2:
		return c.PriorityHigh
	case rank <= 5:
		return c.PriorityMedium
	}
	return c.PriorityLow
}
