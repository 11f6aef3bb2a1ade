package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/timeportal/internal/facts"
)

// filterBar narrows the displayed facts to some categories. It only affects
// what is shown, never which facts were selected.
type filterBar struct {
	categories   []facts.Category
	active       map[facts.Category]bool
	filterMode   bool
	filterCursor int
}

func newFilterBar() filterBar {
	return filterBar{
		categories: facts.Categories,
		active:     make(map[facts.Category]bool),
	}
}

func (f *filterBar) toggle(c facts.Category) {
	if f.active[c] {
		delete(f.active, c)
	} else {
		f.active[c] = true
	}
}

func (f *filterBar) toggleCurrent() {
	if f.filterCursor < len(f.categories) {
		f.toggle(f.categories[f.filterCursor])
	}
}

func (f *filterBar) reset() {
	f.active = make(map[facts.Category]bool)
	f.filterCursor = 0
	f.filterMode = false
}

// apply returns the facts in active categories, preserving order. No active
// category means all.
func (f *filterBar) apply(all []facts.EventRecord) []facts.EventRecord {
	if len(f.active) == 0 {
		return all
	}
	var out []facts.EventRecord
	for _, rec := range all {
		if f.active[rec.Category] {
			out = append(out, rec)
		}
	}
	return out
}

func (f *filterBar) activeLabel() string {
	if len(f.active) == 0 {
		return "All"
	}
	var names []string
	for _, c := range f.categories {
		if f.active[c] {
			names = append(names, string(c))
		}
	}
	return strings.Join(names, ", ")
}

func (f *filterBar) render(width int, counts map[facts.Category]int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	// "All" tab
	if len(f.active) == 0 {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, c := range f.categories {
		style := tabInactiveStyle
		if f.active[c] {
			style = tabActiveStyle
		}
		label := string(c)
		if n := counts[c]; n > 0 {
			label += " " + strconv.Itoa(n)
		}
		if f.filterMode && i == f.filterCursor {
			label = "[" + label + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

func categoryCounts(all []facts.EventRecord) map[facts.Category]int {
	counts := make(map[facts.Category]int)
	for _, rec := range all {
		counts[rec.Category]++
	}
	return counts
}
