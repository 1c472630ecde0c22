package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhellingsdata/search-app/internal/search"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2022-09-14", "14 Sep 2022"},
		{"2020-05-01", "1 May 2020"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := displayDate(tt.input); got != tt.want {
			t.Errorf("displayDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := renderList(nil, 0, 9, 40, "No articles in range")
	if !strings.Contains(got, "No articles in range") {
		t.Errorf("empty list = %q, want placeholder", got)
	}
}

func TestRenderListMarksCursor(t *testing.T) {
	results := []search.Result{
		{Title: "Energy prices", Date: "2022-09-14"},
		{Title: "Jobs after covid", Date: "2020-06-02"},
	}
	got := renderList(results, 1, 9, 40, "")
	if !strings.Contains(got, "> Jobs after covid") {
		t.Errorf("selected item not marked:\n%s", got)
	}
	if strings.Contains(got, "> Energy prices") {
		t.Errorf("unselected item marked:\n%s", got)
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	var results []search.Result
	for _, title := range []string{"one", "two", "three", "four", "five"} {
		results = append(results, search.Result{Title: title, Date: "2021-01-01"})
	}
	// Room for two items.
	got := renderList(results, 4, 6, 40, "")
	if !strings.Contains(got, "> five") || !strings.Contains(got, "four") {
		t.Errorf("list not scrolled to cursor:\n%s", got)
	}
	if strings.Contains(got, "one") {
		t.Errorf("list shows item above the window:\n%s", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(got, "\n") {
		if lipgloss.Width(line) > 10 {
			t.Errorf("line %q wider than 10", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapText lost words: %q", got)
	}
}

func TestFilterBarToggle(t *testing.T) {
	f := newFilterBar([]string{"Economics", "Health"})
	if f.activeLabel() != "All" {
		t.Fatalf("activeLabel = %q, want All", f.activeLabel())
	}
	f.toggle("Health")
	if f.active != "Health" {
		t.Errorf("active = %q, want Health", f.active)
	}
	f.toggle("Health")
	if f.active != "" {
		t.Errorf("second toggle left %q active", f.active)
	}

	f.filterCursor = 1
	f.toggleCurrent()
	if f.active != "Health" {
		t.Errorf("toggleCurrent picked %q", f.active)
	}
}

func TestFilterBarSetCategoriesDropsMissing(t *testing.T) {
	f := newFilterBar([]string{"Economics", "Health", "Trade"})
	f.toggle("Trade")
	f.filterCursor = 2
	f.setCategories([]string{"Economics"})
	if f.active != "" {
		t.Errorf("active = %q after its category vanished", f.active)
	}
	if f.filterCursor != 0 {
		t.Errorf("filterCursor = %d, want 0", f.filterCursor)
	}
}

func TestFilterBarRenderFitsOneLine(t *testing.T) {
	f := newFilterBar([]string{"Economics", "Health", "Trade", "Climate", "Inequality", "Money"})
	got := f.render(30)
	if strings.Contains(got, "\n") {
		t.Errorf("filter bar wrapped:\n%s", got)
	}
}
