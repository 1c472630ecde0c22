package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhellingsdata/search-app/internal/search"
)

func renderPreview(r *search.Result, width, height, scroll int) string {
	if r == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(r.Title)

	meta := displayDate(r.Date)
	if r.MainCategory != "" {
		meta = categoryStyle(r.MainCategory).Render(r.MainCategory) + itemDateStyle.Render(" · "+meta)
	} else {
		meta = itemDateStyle.Render(meta)
	}
	if len(r.SecondaryCategories) > 0 {
		meta += "\n" + itemDateStyle.Render(strings.Join(r.SecondaryCategories, ", "))
	}

	teaser := r.Teaser
	if teaser == "" {
		teaser = "(No teaser available)"
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(teaser, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + r.URL)

	content := lipgloss.JoinVertical(lipgloss.Left, title, meta, "", body, "", link)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

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
		if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
