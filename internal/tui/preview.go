package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/timeportal/internal/facts"
)

func renderPreview(f *facts.EventRecord, width, height, scroll int) string {
	if f == nil {
		return lipglossCenter("Select an event", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(yearLabel(*f))
	category := previewCategoryStyle.Render(string(f.Category))

	text := f.Text
	if text == "" {
		text = "(No description available)"
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(text, contentWidth))

	parts := []string{title, category, body}

	for _, p := range f.Pages {
		if p.Title == "" && p.Extract == "" {
			continue
		}
		parts = append(parts, "")
		if p.Title != "" {
			parts = append(parts, previewPageStyle.Render(p.Title))
		}
		if p.Extract != "" {
			parts = append(parts, previewBodyStyle.Width(contentWidth).Render(wrapText(p.Extract, contentWidth)))
		}
	}

	if img := f.Image(); img != "" {
		parts = append(parts, previewLinkStyle.Width(contentWidth).Render("Image: "+img))
	}
	if link := f.Link(); link != "" {
		parts = append(parts, previewLinkStyle.Width(contentWidth).Render(fmt.Sprintf("Learn more: %s", link)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
