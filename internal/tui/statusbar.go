package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(shown, total int, filterLabel string, width int, filtering bool) string {
	left := fmt.Sprintf(" %d events", shown)
	if shown != total {
		left = fmt.Sprintf(" %d of %d events", shown, total)
	}
	if filterLabel != "All" {
		left += " · " + filterLabel
	}

	right := " n new date  f filter  o open  ? help  q quit "
	if filtering {
		right = " ←/→ move  space toggle  esc done "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "

	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
