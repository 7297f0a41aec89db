package components

import "github.com/charmbracelet/lipgloss"

const bannerArt = ` _ _                          _
| (_)_ __  _   ___  __  ___| |_ ___  _ __ _   _
| | | '_ \| | | \ \/ / / __| __/ _ \| '__| | | |
| | | | | | |_| |>  <  \__ \ || (_) | |  | |_| |
|_|_|_| |_|\__,_/_/\_\ |___/\__\___/|_|   \__, |
                                          |___/`

// RenderBanner returns the styled title banner.
func RenderBanner(styles Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(bannerArt),
		styles.Muted.Render("  Type the commands the story asks for. Ctrl+C quits."),
	)
}
