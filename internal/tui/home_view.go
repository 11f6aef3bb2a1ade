package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/timeportal/internal/history"
)

var asciiLogo = []string{
	`╔╦╗╦╔╦╗╔═╗  ╔═╗╔═╗╦═╗╔╦╗╔═╗╦  `,
	` ║ ║║║║║╣   ╠═╝║ ║╠╦╝ ║ ╠═╣║  `,
	` ╩ ╩╩ ╩╚═╝  ╩  ╚═╝╩╚═ ╩ ╩ ╩╩═╝`,
}

// renderIdleScreen draws the date prompt together with recent searches and
// the last message, if any.
func renderIdleScreen(width, height int, input, message string, recent []history.Entry, updateVersion string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)
	dim := helpDimStyle

	var lines []string

	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Enter a date to discover something unique!"))
	lines = append(lines, "")
	lines = append(lines, input)

	if message != "" {
		lines = append(lines, "")
		lines = append(lines, messageStyle.Render(message))
	}

	if len(recent) > 0 {
		lines = append(lines, "")
		lines = append(lines, dim.Render("Recent searches"))
		for i, e := range recent {
			if i == 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("  %s  %s", labelStyle.Render(e.Date), dim.Render(outcomeLabel(e))))
		}
	}

	if updateVersion != "" {
		lines = append(lines, "")
		lines = append(lines, logoStyle.Render("Update available: v"+updateVersion))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}

func outcomeLabel(e history.Entry) string {
	switch e.Outcome {
	case "match":
		return fmt.Sprintf("%d for that year", e.FactCount)
	case "fallback":
		return fmt.Sprintf("%d from that day", e.FactCount)
	case history.OutcomeError:
		return "failed"
	default:
		return "nothing found"
	}
}

func renderSearchingScreen(width, height int, spin, date string) string {
	text := spin + " " + lipgloss.NewStyle().Foreground(colorText).Render("Opening the portal to "+date+"...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
