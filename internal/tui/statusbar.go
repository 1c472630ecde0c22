package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	shown      int
	total      int
	query      string
	category   string
	dragging   bool
	searching  bool
	refreshing bool
	inSearch   bool
}

func renderStatusBar(s statusInfo, width int) string {
	left := fmt.Sprintf(" %d of %d", s.shown, s.total)
	if s.query != "" {
		left += " results"
	} else {
		left += " articles"
	}
	if s.category != "All" {
		left += " · " + s.category
	}
	if s.searching {
		left += " (searching...)"
	}
	if s.refreshing {
		left += " (refreshing...)"
	}

	right := " drag chart to filter  c clear  / search  f category  ? help  q quit "
	switch {
	case s.inSearch:
		right = " esc cancel  enter search "
	case s.dragging:
		right = " release to apply "
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
	return statusBarStyle.Width(width).Render(fmt.Sprintf("%*s", gap, "") + right)
}
