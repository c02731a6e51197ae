// Package themes holds the panel's palettes and text scales.
package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors the panel renders with.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	Muted      lipgloss.Color
}

// Default is the default palette.
var Default = Palette{
	Primary:    lipgloss.Color("#7c3aed"),
	Secondary:  lipgloss.Color("#a78bfa"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Info:       lipgloss.Color("#3b82f6"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),
}

// CatppuccinMocha is the Catppuccin Mocha palette.
var CatppuccinMocha = Palette{
	Primary:    lipgloss.Color("#cba6f7"),
	Secondary:  lipgloss.Color("#f5c2e7"),
	Success:    lipgloss.Color("#a6e3a1"),
	Warning:    lipgloss.Color("#f9e2af"),
	Error:      lipgloss.Color("#f38ba8"),
	Info:       lipgloss.Color("#89dceb"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),
}

// GetPalette returns a palette by name, falling back to Default.
func GetPalette(name string) Palette {
	switch strings.ToLower(name) {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// FontScale approximates the plugin's font sizes in a terminal.
type FontScale int

const (
	ScaleNormal FontScale = iota
	ScaleSmall
	ScaleLarge
)

// ParseFontScale maps small, normal or large to a FontScale.
func ParseFontScale(name string) FontScale {
	switch strings.ToLower(name) {
	case "small":
		return ScaleSmall
	case "large":
		return ScaleLarge
	default:
		return ScaleNormal
	}
}

func (s FontScale) String() string {
	switch s {
	case ScaleSmall:
		return "small"
	case ScaleLarge:
		return "large"
	default:
		return "normal"
	}
}

// Presentation is the injected look of the panel.
type Presentation struct {
	Palette   Palette
	FontScale FontScale
}

// NewPresentation builds a Presentation from configuration names.
func NewPresentation(fontType, palette string) Presentation {
	return Presentation{
		Palette:   GetPalette(palette),
		FontScale: ParseFontScale(fontType),
	}
}

// Styles are the lipgloss styles derived from a Presentation.
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Link     lipgloss.Style
	Box      lipgloss.Style
	Spinner  lipgloss.Style
	Selected lipgloss.Style
}

// Styles derives the panel styles. Small text drops padding and emphasis;
// large text adds spacing and upper-cases headings.
func (p Presentation) Styles() Styles {
	pal := p.Palette
	s := Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(pal.Primary).
			MarginBottom(1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(pal.Secondary),
		Label: lipgloss.NewStyle().
			Foreground(pal.Muted),
		Value: lipgloss.NewStyle().
			Foreground(pal.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(pal.Muted).
			Italic(true),
		Warning: lipgloss.NewStyle().
			Foreground(pal.Warning).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(pal.Error).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(pal.Success),
		Link: lipgloss.NewStyle().
			Foreground(pal.Info).
			Underline(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pal.Border).
			Padding(1, 2),
		Spinner: lipgloss.NewStyle().
			Foreground(pal.Primary),
		Selected: lipgloss.NewStyle().
			Foreground(pal.Primary).
			Bold(true),
	}

	switch p.FontScale {
	case ScaleSmall:
		s.Title = s.Title.Bold(false).MarginBottom(0)
		s.Heading = s.Heading.Bold(false)
		s.Box = s.Box.Padding(0, 1)
	case ScaleLarge:
		s.Title = s.Title.Transform(strings.ToUpper).MarginBottom(2)
		s.Heading = s.Heading.Transform(strings.ToUpper).Underline(true)
		s.Value = s.Value.Bold(true)
		s.Box = s.Box.Padding(2, 4)
	}

	return s
}

// SectionGap is the number of blank lines between panel sections.
func (p Presentation) SectionGap() int {
	switch p.FontScale {
	case ScaleSmall:
		return 0
	case ScaleLarge:
		return 2
	default:
		return 1
	}
}
