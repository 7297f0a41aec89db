package components

import "github.com/charmbracelet/lipgloss"

// Styles holds all shared Lipgloss styles used by the shell.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Panel       lipgloss.Style
	Prompt      lipgloss.Style
	Output      lipgloss.Style
	Footer      lipgloss.Style
	AccentColor lipgloss.AdaptiveColor

	// Markup maps story markup codes ("lb", "yb", ...) to styles.
	Markup map[string]lipgloss.Style
}

// DefaultStyles returns a Styles populated with the linuxstory palette.
// Uses AdaptiveColor to work in both light and dark terminals.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#7B2FBE", Dark: "#B476F0"}
	cyan := lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	success := lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	errColor := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	warn := lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	blue := lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#93C5FD"}
	white := lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Success: lipgloss.NewStyle().
			Foreground(success),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(errColor),

		Warning: lipgloss.NewStyle().
			Foreground(warn),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),

		Output: lipgloss.NewStyle(),

		Footer: lipgloss.NewStyle().
			Foreground(muted),

		AccentColor: accent,

		Markup: map[string]lipgloss.Style{
			"lb": lipgloss.NewStyle().Bold(true).Foreground(blue),
			"yb": lipgloss.NewStyle().Bold(true).Foreground(warn),
			"rb": lipgloss.NewStyle().Bold(true).Foreground(errColor),
			"gb": lipgloss.NewStyle().Bold(true).Foreground(success),
			"wb": lipgloss.NewStyle().Bold(true).Foreground(white),
		},
	}
}
