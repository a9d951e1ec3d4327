package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const logo = `┏━┓┏━┓╻ ╻┏━┓┏━╸┏━╸┏━┓┏━┓╺┳┓
┗━┓┃ ┃┃ ┃┣┳┛┃  ┣╸ ┣━┛┣━┫ ┃┃
┗━┛┗━┛┗━┛╹┗╸┗━╸┗━╸╹  ╹ ╹╺┻┛`

// renderHeader draws the title on the left and the product name with its
// version on the right
func renderHeader(styles Styles, width int, title, version string) string {
	right := styles.Title.Render("SourcePad") + " " + styles.Description.Render("v"+version)
	left := styles.Title.Render(title)

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	return styles.Padding.Width(width).Render(line)
}

// renderLogo draws the start page banner
func renderLogo(styles Styles, width int, version string) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render(logo),
		styles.Description.Render("v"+version),
	)
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(block)
}
