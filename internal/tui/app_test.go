package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/config"
	"github.com/jhellingsdata/search-app/internal/search"
)

type fakeStore struct {
	mu        sync.Mutex
	articles  []cache.Article
	upserted  []cache.Article
	refreshed bool
}

func (s *fakeStore) GetArticles(cache.QueryOpts) ([]cache.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cache.Article(nil), s.articles...), nil
}

func (s *fakeStore) UpsertArticles(articles []cache.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, articles...)
	return nil
}

func (s *fakeStore) SetLastRefresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = true
	return nil
}

type fakeSearcher struct {
	mu       sync.Mutex
	requests []search.Request
	resp     search.Response
	err      error
}

func (s *fakeSearcher) Search(_ context.Context, req search.Request) (search.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

var testNow = time.Date(2024, time.May, 1, 15, 0, 0, 0, time.UTC)

func testCorpus() []cache.Article {
	return []cache.Article{
		{Slug: "rates", Title: "Interest rates rise", URL: "https://example.com/rates", Date: "2023-11-02", MainCategory: "Money"},
		{Slug: "energy", Title: "Energy prices", URL: "https://example.com/energy", Date: "2022-09-14", MainCategory: "Economics"},
		{Slug: "brexit", Title: "Brexit and trade", URL: "https://example.com/brexit", Date: "2021-03-01", MainCategory: "Trade"},
		{Slug: "covid", Title: "Jobs after covid", URL: "https://example.com/covid", Date: "2020-06-02", MainCategory: "Economics"},
	}
}

// newTestApp returns an app sized to a 102-column terminal, which gives a
// 100-pixel chart, with the test corpus loaded.
func newTestApp(t *testing.T, opts RunOpts) (*App, *fakeStore, *fakeSearcher) {
	t.Helper()
	store := &fakeStore{articles: testCorpus()}
	s := &fakeSearcher{}
	opts.Cfg = &config.Config{}
	opts.Store = store
	opts.Searcher = s
	opts.Now = func() time.Time { return testNow }
	opts.Source = rand.NewPCG(1, 2)

	a := NewApp(opts)
	a.Update(tea.WindowSizeMsg{Width: 102, Height: 40})
	a.Update(a.loadCorpusCmd()())
	return a, store, s
}

func mouse(action tea.MouseAction, col int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: chartTop + 1, Action: action, Button: tea.MouseButtonLeft}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds its messages back, skipping spinner ticks.
func runCmd(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(a, c)
		}
		return
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return
	}
	a.Update(msg)
}

func drag(a *App, from, to int) {
	a.Update(mouse(tea.MouseActionPress, chartLeft+from))
	a.Update(mouse(tea.MouseActionMotion, chartLeft+to))
	a.Update(mouse(tea.MouseActionRelease, chartLeft+to))
}

func TestAppMountsChartOnResize(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	s := a.chart.Scene()
	if !s.Ready() {
		t.Fatal("chart not ready after WindowSizeMsg")
	}
	if s.Size.Width != 100 {
		t.Errorf("chart width = %v, want 100", s.Size.Width)
	}
	if len(s.Points) != 4 {
		t.Errorf("points = %d, want 4", len(s.Points))
	}
	if !a.fullRange() {
		t.Errorf("initial range = %s..%s, want the whole domain", a.minDate, a.maxDate)
	}
	if len(a.visible) != 4 {
		t.Errorf("visible = %d, want 4", len(a.visible))
	}
}

func TestAppDragCommitsRange(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})

	// The right half of the domain: roughly May 2022 onwards.
	drag(a, 50, 100)

	if a.chart.Dragging() {
		t.Fatal("still dragging after release")
	}
	if a.maxDate != "2024-05-01" {
		t.Errorf("maxDate = %s, want the domain end", a.maxDate)
	}
	if a.minDate <= "2022-01-01" || a.minDate >= "2022-09-14" {
		t.Errorf("minDate = %s, want mid 2022", a.minDate)
	}
	if !a.chart.Scene().Brush.Visible {
		t.Error("brush overlay hidden after commit")
	}
	var titles []string
	for _, r := range a.visible {
		titles = append(titles, r.Title)
	}
	if got := strings.Join(titles, ","); got != "Interest rates rise,Energy prices" {
		t.Errorf("visible = %s", got)
	}
}

func TestAppClickClears(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{From: "2021-01-01", To: "2021-12-31"})
	if len(a.visible) != 1 {
		t.Fatalf("visible = %d, want 1", len(a.visible))
	}

	// A click away from the selection is a zero-width drag.
	a.Update(mouse(tea.MouseActionPress, chartLeft+90))
	a.Update(mouse(tea.MouseActionRelease, chartLeft+90))

	if !a.fullRange() {
		t.Errorf("range = %s..%s after click, want the whole domain", a.minDate, a.maxDate)
	}
	if a.chart.Scene().Brush.Visible {
		t.Error("brush overlay still drawn after clear")
	}
	if len(a.visible) != 4 {
		t.Errorf("visible = %d, want 4", len(a.visible))
	}
}

func TestAppClearKey(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{From: "2021-01-01", To: "2021-12-31"})
	a.Update(key("c"))
	if !a.fullRange() {
		t.Errorf("range = %s..%s after c, want the whole domain", a.minDate, a.maxDate)
	}
}

func TestAppIgnoresPressOutsideChart(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.Update(tea.MouseMsg{X: chartLeft + 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if a.chart.Dragging() {
		t.Error("press on the header started a drag")
	}
	a.Update(tea.MouseMsg{X: chartLeft + 10, Y: chartTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if a.chart.Dragging() {
		t.Error("wheel started a drag")
	}
}

func TestAppIgnoresMotionWithoutPress(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.Update(mouse(tea.MouseActionMotion, chartLeft+40))
	a.Update(mouse(tea.MouseActionRelease, chartLeft+60))
	if !a.fullRange() {
		t.Errorf("range = %s..%s, want unchanged", a.minDate, a.maxDate)
	}
}

func TestAppSearchHighlightsAndFilters(t *testing.T) {
	a, _, s := newTestApp(t, RunOpts{From: "2022-01-01", To: "2024-05-01"})
	s.resp = search.Response{Results: []search.Result{
		{Title: "Energy prices", Date: "2022-09-14", MainCategory: "Economics"},
		{Title: "Jobs after covid", Date: "2020-06-02", MainCategory: "Economics"},
	}}

	a.Update(key("/"))
	for _, r := range "energy" {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	if !a.searching {
		t.Error("searching not set")
	}

	runCmd(a, cmd)

	if len(s.requests) != 1 || s.requests[0].Query != "energy" || s.requests[0].TopK != 10 {
		t.Fatalf("requests = %+v", s.requests)
	}
	if s.requests[0].DateFrom != "" || s.requests[0].DateTo != "" {
		t.Errorf("search sent date bounds: %+v", s.requests[0])
	}

	// Both results are highlighted, only the in-range one is listed.
	var highlighted int
	for _, p := range a.chart.Scene().Points {
		if p.IsSearchResult {
			highlighted++
		}
	}
	if highlighted != 2 {
		t.Errorf("highlighted = %d, want 2", highlighted)
	}
	if len(a.visible) != 1 || a.visible[0].Title != "Energy prices" {
		t.Errorf("visible = %+v", a.visible)
	}
}

func TestAppDropsStaleSearch(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.query = "energy"
	a.startSearch()
	stale := a.searchSeq
	a.startSearch()

	a.Update(searchDoneMsg{seq: stale, resp: search.Response{Results: []search.Result{{Title: "stale", Date: "2022-01-01"}}}})
	if len(a.results) != 0 {
		t.Errorf("stale response applied: %+v", a.results)
	}
	if !a.searching {
		t.Error("stale response ended the search")
	}

	a.Update(searchDoneMsg{seq: a.searchSeq, resp: search.Response{Results: []search.Result{{Title: "Energy prices", Date: "2022-09-14"}}}})
	if len(a.results) != 1 || a.searching {
		t.Errorf("latest response not applied: results=%d searching=%v", len(a.results), a.searching)
	}
}

func TestAppSearchError(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.query = "energy"
	a.startSearch()
	a.Update(searchDoneMsg{seq: a.searchSeq, err: search.ErrNoAPI})
	if !errors.Is(a.err, search.ErrNoAPI) {
		t.Errorf("err = %v, want ErrNoAPI", a.err)
	}
	if a.searching {
		t.Error("searching still set after error")
	}
}

func TestAppEscClearsSearch(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.query = "energy"
	a.startSearch()
	a.Update(searchDoneMsg{seq: a.searchSeq, resp: search.Response{Results: []search.Result{{Title: "Energy prices", Date: "2022-09-14"}}}})

	a.Update(key("esc"))
	if a.query != "" || a.results != nil {
		t.Errorf("search not cleared: query=%q results=%v", a.query, a.results)
	}
	for _, p := range a.chart.Scene().Points {
		if p.IsSearchResult {
			t.Fatal("highlight left after clearing search")
		}
	}
	if len(a.visible) != 4 {
		t.Errorf("visible = %d, want the corpus", len(a.visible))
	}
}

func TestAppCategoryFilter(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	if got := strings.Join(a.filterBar.categories, ","); got != "Economics,Money,Trade" {
		t.Fatalf("categories = %s", got)
	}

	a.Update(key("f"))
	a.Update(key("1"))
	a.Update(key("esc"))

	if a.filterBar.active != "Economics" {
		t.Fatalf("active = %q", a.filterBar.active)
	}
	if len(a.visible) != 2 {
		t.Errorf("visible = %d, want 2", len(a.visible))
	}
}

func TestAppCategoryChangeResearches(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.query = "energy"
	a.startSearch()
	seq := a.searchSeq

	a.mode = modeFilter
	_, cmd := a.handleFilterKey(key("2"))
	if cmd == nil || a.searchSeq != seq+1 {
		t.Errorf("category change did not re-run the search (seq %d -> %d)", seq, a.searchSeq)
	}
}

func TestAppRefresh(t *testing.T) {
	a, store, _ := newTestApp(t, RunOpts{})
	_, cmd := a.Update(key("r"))
	if cmd == nil || !a.refreshing {
		t.Fatal("r did not start a refresh")
	}
	msg := a.doRefresh()()
	if _, ok := msg.(refreshDoneMsg); !ok {
		t.Fatalf("doRefresh returned %T", msg)
	}
	if !store.refreshed {
		t.Error("last refresh not recorded")
	}
	_, cmd = a.Update(msg)
	if a.refreshing {
		t.Error("refreshing still set")
	}
	if cmd == nil {
		t.Error("no corpus reload after refresh")
	}
}

func TestAppCorpusReloadKeepsRange(t *testing.T) {
	a, store, _ := newTestApp(t, RunOpts{From: "2022-01-01", To: "2024-05-01"})
	store.articles = append(store.articles, cache.Article{Slug: "new", Title: "New article", Date: "2024-04-30"})
	a.Update(a.loadCorpusCmd()())

	if a.minDate != "2022-01-01" {
		t.Errorf("minDate = %s after reload", a.minDate)
	}
	if len(a.chart.Scene().Points) != 5 {
		t.Errorf("points = %d, want 5", len(a.chart.Scene().Points))
	}
	if len(a.visible) != 3 {
		t.Errorf("visible = %d, want 3", len(a.visible))
	}
}

func TestAppDayRollFollowsDomainEnd(t *testing.T) {
	now := testNow
	store := &fakeStore{articles: testCorpus()}
	a := NewApp(RunOpts{
		Cfg:      &config.Config{},
		Store:    store,
		Searcher: &fakeSearcher{},
		From:     "2023-01-01",
		Now:      func() time.Time { return now },
		Source:   rand.NewPCG(1, 2),
	})
	a.Update(tea.WindowSizeMsg{Width: 102, Height: 40})

	now = now.Add(24 * time.Hour)
	a.Update(dayTickMsg{})

	if a.maxDate != "2024-05-02" {
		t.Errorf("maxDate = %s, want the new domain end", a.maxDate)
	}
	if got := brush.FormatDate(a.chart.Scene().Domain.End); got != "2024-05-02" {
		t.Errorf("chart domain end = %s", got)
	}
}

func TestAppNavigation(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	a.Update(key("j"))
	a.Update(key("j"))
	if a.cursor != 2 {
		t.Errorf("cursor = %d, want 2", a.cursor)
	}
	a.Update(key("k"))
	if a.cursor != 1 {
		t.Errorf("cursor = %d, want 1", a.cursor)
	}
	if r := a.selected(); r == nil || r.Title != "Energy prices" {
		t.Errorf("selected = %+v", r)
	}
}

func TestAppResizeRebuildsChart(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	structural := a.chart.Passes().Structural

	a.Update(tea.WindowSizeMsg{Width: 102, Height: 30})
	if a.chart.Passes().Structural != structural {
		t.Error("height-only resize rebuilt the chart")
	}

	a.Update(tea.WindowSizeMsg{Width: 62, Height: 30})
	if got := a.chart.Scene().Size.Width; got != 60 {
		t.Errorf("chart width = %v, want 60", got)
	}
	if a.chart.Passes().Structural != structural+1 {
		t.Errorf("structural passes = %d, want %d", a.chart.Passes().Structural, structural+1)
	}
	if !a.fullRange() {
		t.Error("resize changed the committed range")
	}
}

func TestAppQuitUnmountsChart(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	before := a.chart.Scene().Size
	a.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	if a.chart.Scene().Size != before {
		t.Error("chart resized after unmount")
	}
}

func TestAppViewLayout(t *testing.T) {
	a, _, _ := newTestApp(t, RunOpts{})
	lines := strings.Split(a.View(), "\n")
	if len(lines) < chartTop+chartRows(a.chart.Scene()) {
		t.Fatalf("view has %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "searchapp") || !strings.Contains(lines[0], "All dates") {
		t.Errorf("header = %q", lines[0])
	}
	axis := lines[chartTop+int(a.chart.Scene().Size.Height)]
	if !strings.Contains(axis, string(glyphAxis)) {
		t.Errorf("axis not on row %d: %q", chartTop+int(a.chart.Scene().Size.Height), axis)
	}
}
