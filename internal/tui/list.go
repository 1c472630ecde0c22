package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/category"
	"github.com/jhellingsdata/search-app/internal/search"
)

// displayDate renders a YYYY-MM-DD date as "14 Sep 2022", passing through
// anything it cannot parse.
func displayDate(s string) string {
	t, ok := brush.ParseDate(s, time.UTC)
	if !ok {
		return s
	}
	return t.Format("2 Jan 2006")
}

func categoryStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(category.For(name))))
}

func renderListItem(r search.Result, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(r.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(r.Title, width-4))
	}

	meta := "  "
	if r.MainCategory != "" {
		meta += categoryStyle(r.MainCategory).Render(r.MainCategory) + " "
	}
	meta += itemDateStyle.Render("· " + displayDate(r.Date))
	if r.Score > 0 {
		meta += itemDateStyle.Render(fmt.Sprintf(" · %.2f", r.Score))
	}

	return title + "\n" + meta
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

func renderList(results []search.Result, cursor int, height int, width int, empty string) string {
	if len(results) == 0 {
		return lipglossCenter(empty, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(results) {
		end = len(results)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(results[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
