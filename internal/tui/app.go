package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhellingsdata/search-app/internal/browser"
	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/config"
	"github.com/jhellingsdata/search-app/internal/debug"
	"github.com/jhellingsdata/search-app/internal/feed"
	"github.com/jhellingsdata/search-app/internal/search"
	"github.com/jhellingsdata/search-app/internal/snapshot"
	"github.com/jhellingsdata/search-app/internal/watch"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

const (
	// Rows above the chart: header, search line, category bar.
	chartTop  = 3
	chartLeft = 1

	dayTickInterval = time.Hour
)

// Store is the part of the article cache the browser reads and writes.
type Store interface {
	GetArticles(opts cache.QueryOpts) ([]cache.Article, error)
	UpsertArticles(articles []cache.Article) error
	SetLastRefresh() error
}

type App struct {
	cfg      *config.Config
	store    Store
	searcher search.Searcher
	watcher  *watch.Watcher
	fetcher  feed.Fetcher
	now      func() time.Time

	chart     *brush.Chart
	minDate   string
	maxDate   string
	domainEnd string
	changed   bool
	corpus    []cache.Article
	articles  *brush.ArticleSet

	query      string
	results    []search.Result
	highlights []brush.SearchResult
	searchSeq  int
	visible    []search.Result

	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	searching     bool
	refreshing    bool
	previewScroll int
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg      *config.Config
	Store    Store
	Searcher search.Searcher
	// Watcher, when set, re-imports its file into Store on every change.
	Watcher *watch.Watcher
	Fetcher feed.Fetcher
	// From and To are the initial committed range. Empty means the whole domain.
	From  string
	To    string
	Query string
	Now   func() time.Time
	// Source seeds point jitter; nil is random.
	Source rand.Source
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search articles..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = feed.NewRSSFetcher()
	}

	a := &App{
		cfg:         opts.Cfg,
		store:       opts.Store,
		searcher:    opts.Searcher,
		watcher:     opts.Watcher,
		fetcher:     fetcher,
		now:         now,
		filterBar:   newFilterBar(nil),
		searchInput: ti,
		spinner:     sp,
	}

	a.minDate, a.maxDate = brush.Domain(now()).Strings()
	a.domainEnd = a.maxDate
	if opts.From != "" {
		a.minDate = opts.From
	}
	if opts.To != "" {
		a.maxDate = opts.To
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		a.query = q
		a.searchInput.SetValue(q)
	}

	a.chart = brush.NewChart(brush.Options{
		Layout:          opts.Cfg.ChartLayout(),
		HandleTolerance: 1,
		Source:          opts.Source,
		Now:             now,
		OnChange:        a.onRangeChange,
	})
	a.chart.SetProps(a.props())
	a.chart.Mount(a.chartWidth)
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadCorpusCmd(), dayTick()}
	if a.query != "" {
		cmds = append(cmds, a.startSearch())
	}
	if a.watcher != nil {
		cmds = append(cmds, waitForChange(a.watcher))
	}
	return tea.Batch(cmds...)
}

// onRangeChange runs inside a chart gesture. The new range is applied once
// the gesture returns, so the chart is never re-entered.
func (a *App) onRangeChange(start, end string) {
	a.minDate, a.maxDate = start, end
	a.changed = true
}

func (a *App) flushRangeChange() {
	if !a.changed {
		return
	}
	a.changed = false
	debug.Log("tui: range %s to %s", a.minDate, a.maxDate)
	a.chart.SetProps(a.props())
	a.cursor = 0
	a.previewScroll = 0
	a.recomputeVisible()
}

func (a *App) props() brush.Props {
	return brush.Props{
		MinDate:       a.minDate,
		MaxDate:       a.maxDate,
		Articles:      a.articles,
		SearchResults: a.highlights,
	}
}

func (a *App) chartWidth() float64 {
	if a.width <= 0 {
		return 0
	}
	return float64(a.width - 2*chartLeft)
}

// fullRange reports whether the committed range is the whole domain.
func (a *App) fullRange() bool {
	start, end := brush.Domain(a.now()).Strings()
	return a.minDate == start && a.maxDate == end
}

// recomputeVisible rebuilds the list: search results when a query is
// active, otherwise the corpus, in both cases limited to the committed
// range and the category filter.
func (a *App) recomputeVisible() {
	cat := a.filterBar.active
	var out []search.Result
	if a.query != "" {
		for _, r := range search.WithinRange(a.results, a.minDate, a.maxDate) {
			if cat != "" && r.MainCategory != cat {
				continue
			}
			out = append(out, r)
		}
	} else {
		for _, art := range a.corpus {
			if art.Date < a.minDate || art.Date > a.maxDate {
				continue
			}
			if cat != "" && art.MainCategory != cat {
				continue
			}
			out = append(out, search.Result{
				Title:        art.Title,
				URL:          art.URL,
				Date:         art.Date,
				MainCategory: art.MainCategory,
				Teaser:       art.Teaser,
			})
		}
	}
	a.visible = out
	if a.cursor >= len(a.visible) {
		a.cursor = max(0, len(a.visible)-1)
	}
}

func (a *App) loadCorpusCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		articles, err := store.GetArticles(cache.QueryOpts{})
		if err != nil {
			return errMsg{err: err}
		}
		return corpusLoadedMsg{articles: articles}
	}
}

// startSearch issues a corpus-wide search for the current query. Only the
// response to the latest request is applied.
func (a *App) startSearch() tea.Cmd {
	a.searchSeq++
	a.searching = true
	seq := a.searchSeq
	req := search.Request{
		Query:    a.query,
		TopK:     a.cfg.GetTopK(),
		Category: a.filterBar.active,
	}
	s := a.searcher
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := s.Search(ctx, req)
		return searchDoneMsg{seq: seq, resp: resp, err: err}
	}
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) clearSearch() {
	a.searchSeq++
	a.searching = false
	a.query = ""
	a.results = nil
	a.highlights = nil
	a.searchInput.SetValue("")
	a.chart.SetProps(a.props())
	a.cursor = 0
	a.recomputeVisible()
}

func (a *App) doRefresh() tea.Cmd {
	sources := a.cfg.EnabledSources()
	store := a.store
	fetcher := a.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result := feed.FetchAllWith(ctx, fetcher, sources)

		if err := store.UpsertArticles(result.Articles); err != nil {
			return refreshDoneMsg{errs: append(result.Errors, err)}
		}
		if err := store.SetLastRefresh(); err != nil {
			debug.Log("tui: recording refresh: %v", err)
		}

		return refreshDoneMsg{count: len(result.Articles), errs: result.Errors}
	}
}

func (a *App) importSnapshotCmd() tea.Cmd {
	store := a.store
	path := a.watcher.Path()
	return func() tea.Msg {
		res, err := snapshot.Import(store, path)
		return snapshotImportedMsg{imported: res.Imported, err: err}
	}
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return snapshotChangedMsg{}
	}
}

func dayTick() tea.Cmd {
	return tea.Tick(dayTickInterval, func(time.Time) tea.Msg {
		return dayTickMsg{}
	})
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) shutdown() {
	a.chart.Unmount()
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.chart.Resized()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case corpusLoadedMsg:
		a.corpus = msg.articles
		items := make([]brush.Article, len(msg.articles))
		for i, art := range msg.articles {
			items[i] = brush.Article{Title: art.Title, Date: art.Date}
		}
		a.articles = brush.NewArticleSet(items)
		a.filterBar.setCategories(corpusCategories(msg.articles))
		a.chart.SetProps(a.props())
		a.recomputeVisible()
		return a, nil

	case searchDoneMsg:
		if msg.seq != a.searchSeq {
			return a, nil
		}
		a.searching = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.results = msg.resp.Results
		a.highlights = search.Highlights(msg.resp.Results)
		a.chart.SetProps(a.props())
		a.cursor = 0
		a.previewScroll = 0
		a.recomputeVisible()
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		if len(msg.errs) > 0 {
			a.err = fmt.Errorf("refresh: %d feed(s) failed: %w", len(msg.errs), msg.errs[0])
		}
		return a, a.loadCorpusCmd()

	case snapshotChangedMsg:
		if a.watcher == nil {
			return a, nil
		}
		return a, a.importSnapshotCmd()

	case snapshotImportedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			debug.Log("tui: imported %d articles from snapshot", msg.imported)
		}
		return a, tea.Batch(a.loadCorpusCmd(), waitForChange(a.watcher))

	case dayTickMsg:
		a.rollDomain()
		return a, dayTick()

	case spinner.TickMsg:
		if a.searching || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// rollDomain lets the chart pick up a new day. A committed range that
// ended on the old last day follows the domain end.
func (a *App) rollDomain() {
	a.chart.Refresh()
	_, end := brush.Domain(a.now()).Strings()
	if end == a.domainEnd {
		return
	}
	followed := a.maxDate == a.domainEnd
	a.domainEnd = end
	if followed && !a.chart.Dragging() {
		a.maxDate = end
		a.chart.SetProps(a.props())
		a.recomputeVisible()
	}
}

func (a *App) inChart(col, row int) bool {
	s := a.chart.Scene()
	if !s.Ready() {
		return false
	}
	return row >= chartTop && row < chartTop+chartRows(s) &&
		col >= chartLeft && col < chartLeft+int(s.Size.Width)
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.mode != modeNormal {
		return a, nil
	}
	x := float64(msg.X - chartLeft)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !a.inChart(msg.X, msg.Y) {
			return a, nil
		}
		a.chart.Press(x)
	case tea.MouseActionMotion:
		if !a.chart.Dragging() {
			return a, nil
		}
		a.chart.Move(x)
	case tea.MouseActionRelease:
		if !a.chart.Dragging() {
			return a, nil
		}
		a.chart.Release(x)
	}
	a.flushRangeChange()
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		a.shutdown()
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		a.shutdown()
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.visible)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if r := a.selected(); r != nil && r.URL != "" {
			return a, openBrowserCmd(r.URL)
		}
		return a, nil
	case "c":
		a.chart.Clear()
		a.flushRangeChange()
		return a, nil
	case "esc":
		if a.query != "" {
			a.clearSearch()
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.doRefresh(), a.spinner.Tick)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue(a.query)
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		q := strings.TrimSpace(a.searchInput.Value())
		if q == "" {
			a.clearSearch()
			return a, nil
		}
		a.query = q
		return a, a.startSearch()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.categories)-1 {
			a.filterBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		return a, a.categoryChanged()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.categories) {
			a.filterBar.toggle(a.filterBar.categories[idx])
			return a, a.categoryChanged()
		}
		return a, nil
	}
	return a, nil
}

// categoryChanged re-runs an active search, since top_k applies after the
// category filter on the backend.
func (a *App) categoryChanged() tea.Cmd {
	a.cursor = 0
	a.recomputeVisible()
	if a.query != "" {
		return a.startSearch()
	}
	return nil
}

func (a *App) selected() *search.Result {
	if a.cursor < len(a.visible) {
		return &a.visible[a.cursor]
	}
	return nil
}

func corpusCategories(articles []cache.Article) []string {
	seen := make(map[string]bool)
	var out []string
	for _, art := range articles {
		if art.MainCategory == "" || seen[art.MainCategory] {
			continue
		}
		seen[art.MainCategory] = true
		out = append(out, art.MainCategory)
	}
	slices.Sort(out)
	return out
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  searchapp")
	}

	if a.mode == modeHelp {
		return a.withBottomBar(a.renderHelp(), "? close  ctrl+c quit")
	}

	// Header
	headerLeft := headerStyle.Render("searchapp")
	rangeLabel := displayDate(a.minDate) + " – " + displayDate(a.maxDate)
	if a.fullRange() {
		rangeLabel = "All dates"
	}
	if a.chart.Dragging() {
		sel := a.chart.Selected()
		rangeLabel = displayDate(brush.FormatDate(sel.Start)) + " – " + displayDate(brush.FormatDate(sel.End))
	}
	headerRight := headerRangeStyle.Render(rangeLabel)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	searchLine := a.searchInput.View()
	if a.searching {
		searchLine = a.spinner.View() + " " + searchLine
	}

	filter := a.filterBar.render(a.width)

	// Chart, indented so that column chartLeft is pixel 0.
	scene := a.chart.Scene()
	rows := chartRows(scene)
	var chartLines []string
	if scene.Ready() {
		pad := strings.Repeat(" ", chartLeft)
		for _, line := range strings.Split(renderChart(scene), "\n") {
			chartLines = append(chartLines, pad+line)
		}
	} else {
		rows = int(a.chart.Options().Height) + 2
		chartLines = make([]string, rows)
	}
	chart := strings.Join(chartLines, "\n")

	statusHeight := 1
	contentHeight := a.height - chartTop - rows - statusHeight - 2 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap

	// List pane
	innerListW := listWidth - 4 // border + padding
	empty := "No articles in range"
	if a.query != "" {
		empty = "No results in range"
	}
	listContent := renderList(a.visible, a.cursor, contentHeight, innerListW, empty)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(a.selected(), innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	total := len(a.corpus)
	if a.query != "" {
		total = len(a.results)
	}
	status := renderStatusBar(statusInfo{
		shown:      len(a.visible),
		total:      total,
		query:      a.query,
		category:   a.filterBar.activeLabel(),
		dragging:   a.chart.Dragging(),
		searching:  a.searching,
		refreshing: a.refreshing,
		inSearch:   a.mode == modeSearch,
	}, a.width)

	if a.err != nil {
		status = errorStyle.Width(a.width).Render(" " + a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, searchLine, filter, chart, content, status)
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:max(a.height-1, 0)]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("searchapp")
	dim := helpDimStyle

	help := title + dim.Render(" keyboard and mouse") + "\n\n" +
		dim.Render("Date range") + "\n" +
		"  drag on chart  Select a date range\n" +
		"  drag handle    Resize the selection\n" +
		"  drag inside    Move the selection\n" +
		"  click          Clear the selection\n" +
		"  c              Clear the selection\n\n" +
		dim.Render("Articles") + "\n" +
		"  j/k, ↑/↓       Navigate the list\n" +
		"  tab            Switch focus between list and preview\n" +
		"  o, enter       Open article in browser\n" +
		"  /              Search\n" +
		"  esc            Clear the search\n" +
		"  f              Category filter mode\n" +
		"  r              Refresh feeds\n\n" +
		dim.Render("Filter Mode") + "\n" +
		"  ←/→, h/l       Move between categories\n" +
		"  space/enter    Select category\n" +
		"  1-9            Select category by number\n" +
		"  esc, f         Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?              Toggle this help\n" +
		"  q, ctrl+c      Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	if opts.Watcher != nil {
		if err := opts.Watcher.Start(); err != nil {
			return fmt.Errorf("watching %s: %w", opts.Watcher.Path(), err)
		}
	}
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	app.shutdown()
	return err
}
