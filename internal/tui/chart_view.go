package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhellingsdata/search-app/internal/brush"
)

const (
	glyphResult  = '●'
	glyphInRange = '•'
	glyphDimmed  = '·'
	glyphAxis    = '─'
	glyphTick    = '┴'
)

type cellBg int

const (
	bgNone cellBg = iota
	bgBrush
	bgHandle
)

type cell struct {
	r     rune
	style lipgloss.Style
	bg    cellBg
}

// cellOf maps a scene x coordinate to a column. The right edge of the
// domain (x == width) lands in the last column.
func cellOf(x float64, width int) int {
	c := int(x)
	if c < 0 {
		return 0
	}
	if c >= width {
		return width - 1
	}
	return c
}

// chartRows is the number of terminal rows the chart occupies: the plot,
// the axis line and the label line.
func chartRows(s brush.Scene) int {
	return int(s.Size.Height) + 2
}

// renderChart draws a scene one cell per pixel. Search results are drawn
// after other points so they stay visible when they share a cell.
func renderChart(s brush.Scene) string {
	width := int(s.Size.Width)
	rows := int(s.Size.Height)
	if width <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, width)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' ', style: lipgloss.NewStyle()}
		}
	}

	for _, results := range []bool{false, true} {
		for _, p := range s.Points {
			// Points dated outside the domain have no column.
			if p.IsSearchResult != results || p.X < 0 || p.X > s.Size.Width {
				continue
			}
			row := int(p.Y)
			if row >= rows {
				row = rows - 1
			}
			if row < 0 {
				row = 0
			}
			r, style := pointGlyph(p)
			grid[row][cellOf(p.X, width)] = cell{r: r, style: style}
		}
	}

	if s.Brush.Visible {
		c0, c1 := cellOf(s.Brush.X0, width), cellOf(s.Brush.X1, width)
		for _, line := range grid {
			for c := c0; c <= c1; c++ {
				line[c].bg = bgBrush
			}
			line[c0].bg = bgHandle
			line[c1].bg = bgHandle
		}
	}

	var b strings.Builder
	for _, line := range grid {
		for _, c := range line {
			style := c.style
			switch c.bg {
			case bgBrush:
				style = style.Background(colorBrushBg)
			case bgHandle:
				style = style.Background(colorHandleBg)
			}
			b.WriteString(style.Render(string(c.r)))
		}
		b.WriteByte('\n')
	}
	axis, labels := renderAxis(s.Axis, width)
	b.WriteString(axis)
	b.WriteByte('\n')
	b.WriteString(labels)
	return b.String()
}

func pointGlyph(p brush.Point) (rune, lipgloss.Style) {
	dimmed := p.Style.Opacity < 1
	if p.Style.Fill == brush.FillAccent {
		if dimmed {
			return glyphResult, pointAccentStyle.Bold(false).Faint(true)
		}
		return glyphResult, pointAccentStyle
	}
	if dimmed {
		return glyphDimmed, pointDimStyle
	}
	if p.Style.Stroke {
		return glyphInRange, pointStyle.Bold(true)
	}
	return glyphInRange, pointStyle
}

// renderAxis returns the tick line and the label line. Labels that would
// overlap the previous one or run off the edge are dropped.
func renderAxis(axis brush.Axis, width int) (string, string) {
	line := []rune(strings.Repeat(string(glyphAxis), width))
	labels := []rune(strings.Repeat(" ", width))
	next := 0
	for _, t := range axis.Ticks {
		c := cellOf(t.X, width)
		line[c] = glyphTick
		lr := []rune(t.Label)
		if c < next || c+len(lr) > width {
			continue
		}
		copy(labels[c:], lr)
		next = c + len(lr) + 1
	}
	return axisStyle.Render(string(line)), axisLabelStyle.Render(string(labels))
}
