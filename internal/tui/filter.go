package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// filterBar selects at most one category. No selection means all.
type filterBar struct {
	categories   []string
	active       string
	filterMode   bool
	filterCursor int
}

func newFilterBar(categories []string) filterBar {
	return filterBar{categories: categories}
}

func (f *filterBar) setCategories(categories []string) {
	f.categories = categories
	found := false
	for _, c := range categories {
		if c == f.active {
			found = true
		}
	}
	if !found {
		f.active = ""
	}
	if f.filterCursor >= len(categories) {
		f.filterCursor = max(0, len(categories)-1)
	}
}

func (f *filterBar) toggle(c string) {
	if f.active == c {
		f.active = ""
	} else {
		f.active = c
	}
}

func (f *filterBar) toggleCurrent() {
	if f.filterCursor < len(f.categories) {
		f.toggle(f.categories[f.filterCursor])
	}
}

func (f *filterBar) activeLabel() string {
	if f.active == "" {
		return "All"
	}
	return f.active
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	if f.active == "" {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, c := range f.categories {
		style := tabInactiveStyle
		if f.active == c {
			style = tabActiveStyle
		}
		label := c
		if f.filterMode && i == f.filterCursor {
			label = "[" + c + "]"
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
		if lipgloss.Width(candidate) > width-1 && row != "" {
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
