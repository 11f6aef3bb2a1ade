package tui

import (
	"strings"

	"github.com/matheuskafuri/timeportal/internal/facts"
)

// yearLabel renders a fact's year the way the prototypes did, "?" when absent.
func yearLabel(f facts.EventRecord) string {
	if f.Year == "" {
		return "?"
	}
	return string(f.Year)
}

func renderListItem(f facts.EventRecord, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	head := yearLabel(f)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(head, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(head, width-4))
	}
	title += " " + itemCategoryStyle.Render(string(f.Category))

	text := "  " + itemTextStyle.Render(truncateStr(f.Text, width-2))

	return title + "\n" + text
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleWindow returns the [start, end) range of items to draw so that
// cursor stays on screen.
func visibleWindow(total, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func renderList(items []facts.EventRecord, cursor int, height int, width int) string {
	if len(items) == 0 {
		return lipglossCenter("No events to show", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	start, end := visibleWindow(len(items), cursor, height/3)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
