package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"sctl/internal/grid"
)

// Dashboard color palette
const (
	ColorBorder = lipgloss.Color("#2A2A4A")

	ColorActive   = lipgloss.Color("#39FF14") // neon green
	ColorInactive = lipgloss.Color("#6B6B8D") // purple-gray
	ColorFailed   = lipgloss.Color("#FF0055") // hot red-pink
	ColorUnknown  = lipgloss.Color("#B4B4D0") // lavender gray
	ColorErrored  = lipgloss.Color("#FFAA00") // electric amber

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97") // neon pink
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorBorder).
			Bold(true)

	HostStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	RefreshingStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	UnreachableStyle = lipgloss.NewStyle().
				Foreground(ColorFailed).
				Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1)
)

// Status glyphs
const (
	GlyphActive      = "◉"
	GlyphInactive    = "◌"
	GlyphFailed      = "✗"
	GlyphUnknown     = "◐"
	GlyphErrored     = "◔"
	GlyphUnreachable = "⚠"
)

// statusStyle maps a status to its display style.
func statusStyle(s grid.Status) lipgloss.Style {
	switch s.Kind {
	case grid.StatusActive:
		return lipgloss.NewStyle().Foreground(ColorActive)
	case grid.StatusInactive:
		return lipgloss.NewStyle().Foreground(ColorInactive)
	case grid.StatusFailed:
		return lipgloss.NewStyle().Foreground(ColorFailed).Bold(true)
	case grid.StatusError:
		return lipgloss.NewStyle().Foreground(ColorErrored)
	default:
		return lipgloss.NewStyle().Foreground(ColorUnknown)
	}
}

// statusGlyph maps a status to its indicator character.
func statusGlyph(s grid.Status) string {
	switch s.Kind {
	case grid.StatusActive:
		return GlyphActive
	case grid.StatusInactive:
		return GlyphInactive
	case grid.StatusFailed:
		return GlyphFailed
	case grid.StatusError:
		return GlyphErrored
	default:
		return GlyphUnknown
	}
}
