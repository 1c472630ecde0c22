package brush

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/jhellingsdata/search-app/internal/debug"
)

// Point is a plotted article with its render attributes.
type Point struct {
	PlottedPoint
	X, Y            float64
	IsSearchResult  bool
	InSelectedRange bool
	Style           PointStyle
}

// Axis is the tick configuration of one structural pass.
type Axis struct {
	Interval TickInterval
	Ticks    []Tick
}

// BrushOverlay is the drawn selection. Visible is false when handles are unset.
type BrushOverlay struct {
	Visible bool
	X0, X1  float64
}

// Scene is an immutable description of what to draw.
type Scene struct {
	Size     Size
	Domain   DateRange
	Axis     Axis
	Points   []Point
	Brush    BrushOverlay
	Selected DateRange
}

// Ready reports whether there is anything to draw.
func (s Scene) Ready() bool { return s.Size.Ready() }

// Props are the parent-owned inputs.
type Props struct {
	MinDate       string
	MaxDate       string
	Articles      *ArticleSet
	SearchResults []SearchResult
}

type Options struct {
	Layout          LayoutOptions
	HandleTolerance float64
	// Source seeds vertical jitter. Nil reseeds randomly on every Mount.
	Source   rand.Source
	Now      func() time.Time
	OnChange ChangeFunc
}

func DefaultOptions() Options {
	return Options{Layout: DefaultLayoutOptions(), HandleTolerance: 3}
}

// PassCounts counts completed render passes.
type PassCounts struct {
	Structural int
	Styling    int
}

type structuralKey struct {
	domainStart, domainEnd time.Time
	size                   Size
	articles               *ArticleSet
	results                int
}

// Chart orchestrates the brush: a structural pass rebuilds axis, points and
// overlay when domain, size, articles or results change; a styling pass
// restyles existing points when only the live selection moves.
type Chart struct {
	opts     Options
	layout   *Layout
	assigner *PositionAssigner
	ctl      *Controller

	props          Props
	resultsVersion int

	scene  Scene
	key    structuralKey
	built  bool
	passes PassCounts
}

func NewChart(opts Options) *Chart {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Chart{
		opts:     opts,
		layout:   NewLayout(opts.Layout),
		assigner: NewPositionAssigner(NewJitter(opts.Source)),
	}
	c.ctl = NewController(opts.HandleTolerance, c.onChange)
	return c
}

func (c *Chart) onChange(start, end string) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(start, end)
	}
}

// Mount starts observing the container through measure and renders.
func (c *Chart) Mount(measure func() float64) {
	if c.opts.Source == nil {
		c.assigner = NewPositionAssigner(NewJitter(nil))
	}
	c.built = false
	c.layout.Mount(measure, func(Size) { c.render() })
}

// Unmount stops resize observation. Later resize calls are no-ops.
func (c *Chart) Unmount() {
	c.layout.Unmount()
}

// Resized re-measures the container after it or the window changed size.
func (c *Chart) Resized() { c.layout.Resized() }

// Refresh re-runs the structural pass if the domain moved (today advanced).
func (c *Chart) Refresh() {
	if c.layout.Mounted() {
		c.render()
	}
}

// SetProps applies new parent inputs, running whichever pass they require.
func (c *Chart) SetProps(p Props) {
	prev := c.props
	c.props = p
	if !slices.Equal(prev.SearchResults, p.SearchResults) {
		c.resultsVersion++
	}

	restyle := c.ctl.SetCommitted(p.MinDate, p.MaxDate)
	if c.layout.Mounted() && c.render() {
		return
	}
	if restyle {
		c.restyle()
	}
}

// Press, Move, Release and Clear feed pointer gestures to the controller.
// None of them triggers a structural pass.
func (c *Chart) Press(x float64) {
	if c.ctl.Press(x) {
		c.restyle()
	}
}

func (c *Chart) Move(x float64) {
	if c.ctl.state != Dragging {
		return
	}
	c.ctl.Move(x)
	c.restyle()
}

func (c *Chart) Release(x float64) State {
	st := c.ctl.Release(x)
	if st == Committed || st == Cleared {
		c.restyle()
	}
	return st
}

func (c *Chart) Clear() State {
	st := c.ctl.Clear()
	if st == Cleared {
		c.restyle()
	}
	return st
}

func (c *Chart) State() State           { return c.ctl.State() }
func (c *Chart) Selected() DateRange    { return c.ctl.Selected() }
func (c *Chart) Size() Size             { return c.layout.Size() }
func (c *Chart) Passes() PassCounts     { return c.passes }
func (c *Chart) Dragging() bool         { return c.ctl.State() == Dragging }
func (c *Chart) Options() LayoutOptions { return c.opts.Layout }

// Scene returns a copy of the current scene.
func (c *Chart) Scene() Scene {
	s := c.scene
	s.Points = slices.Clone(c.scene.Points)
	return s
}

// render is the structural pass. It reports whether a rebuild happened.
func (c *Chart) render() bool {
	size := c.layout.Size()
	if !size.Ready() {
		c.scene = Scene{}
		c.built = false
		return false
	}

	domain := Domain(c.opts.Now())
	key := structuralKey{
		domainStart: domain.Start,
		domainEnd:   domain.End,
		size:        size,
		articles:    c.props.Articles,
		results:     c.resultsVersion,
	}
	if c.built && key == c.key {
		return false
	}

	scale, err := NewTimeScale(domain, size.Width)
	if err != nil {
		debug.Log("brush: skipping render: %v", err)
		c.scene = Scene{}
		c.built = false
		return false
	}
	start := time.Now()

	plotted := c.assigner.Assign(c.props.Articles, domain.Start.Location())
	points := make([]Point, len(plotted))
	for i, pp := range plotted {
		isResult := IsSearchResult(pp.Article, c.props.SearchResults)
		radius, fill := markerStyle(isResult)
		points[i] = Point{
			PlottedPoint:   pp,
			X:              scale.ToPixel(pp.Time),
			Y:              pp.VerticalOffset * size.Height,
			IsSearchResult: isResult,
			Style:          PointStyle{Radius: radius, Fill: fill},
		}
	}

	interval := c.opts.Layout.AxisInterval(size.Width)
	c.scene = Scene{
		Size:   size,
		Domain: domain,
		Axis:   Axis{Interval: interval, Ticks: scale.Ticks(interval)},
		Points: points,
	}
	c.ctl.SetScale(scale)
	c.applySelection()

	c.key = key
	c.built = true
	c.passes.Structural++
	debug.LogTiming("brush: structural pass", time.Since(start))
	return true
}

// restyle is the styling pass.
func (c *Chart) restyle() {
	if !c.built {
		return
	}
	c.applySelection()
	c.passes.Styling++
}

func (c *Chart) applySelection() {
	sel := c.ctl.Selected()
	for i := range c.scene.Points {
		p := &c.scene.Points[i]
		p.InSelectedRange = sel.Contains(p.Time)
		p.Style.applyRange(p.InSelectedRange)
	}
	c.scene.Selected = sel
	if r, ok := c.ctl.Selection(); ok {
		c.scene.Brush = BrushOverlay{Visible: true, X0: r.X0, X1: r.X1}
	} else {
		c.scene.Brush = BrushOverlay{}
	}
}
