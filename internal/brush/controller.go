package brush

import "fmt"

// State is the brush gesture state. Committed and Cleared are transient:
// Release and Clear report them and the controller settles back to Idle.
type State int

const (
	Idle State = iota
	Dragging
	Committed
	Cleared
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cleared:
		return "cleared"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ChangeFunc receives a committed range as YYYY-MM-DD strings.
type ChangeFunc func(start, end string)

// PixelRange is a drawn selection, X0 <= X1.
type PixelRange struct {
	X0, X1 float64
}

func (r PixelRange) Width() float64 { return r.X1 - r.X0 }

type dragKind int

const (
	dragNew dragKind = iota
	dragMove
	dragResizeStart
	dragResizeEnd
)

type drag struct {
	kind   dragKind
	anchor float64
	pressX float64
	origin PixelRange
}

// Controller owns the in-progress selection. The parent owns the committed
// range and pushes it in through SetCommitted; the controller only reports
// back through onChange, once per finished gesture.
type Controller struct {
	scale     TimeScale
	ready     bool
	state     State
	tolerance float64

	sel  *PixelRange // nil means handles are not drawn
	live DateRange
	drag drag

	minDate, maxDate string
	emitted          [2]string
	hasEmitted       bool

	onChange ChangeFunc
}

func NewController(tolerance float64, onChange ChangeFunc) *Controller {
	return &Controller{tolerance: tolerance, onChange: onChange}
}

func (c *Controller) State() State { return c.state }

// Selected is the live range that drives point styling.
func (c *Controller) Selected() DateRange { return c.live }

// Selection returns the drawn handles, if any.
func (c *Controller) Selection() (PixelRange, bool) {
	if c.sel == nil {
		return PixelRange{}, false
	}
	return *c.sel, true
}

// SetScale installs the scale of a new structural pass. An in-progress drag
// is re-projected into the new pixel space; otherwise the committed range is
// re-applied as the initial handle position.
func (c *Controller) SetScale(s TimeScale) {
	old := c.scale
	c.scale = s
	c.ready = true
	if c.state != Dragging {
		c.applyCommitted()
		return
	}

	remap := func(x float64) float64 { return s.Clamp(s.ToPixel(old.ToDate(x))) }
	c.drag.anchor = remap(c.drag.anchor)
	c.drag.pressX = remap(c.drag.pressX)
	c.drag.origin = PixelRange{X0: remap(c.drag.origin.X0), X1: remap(c.drag.origin.X1)}
	if c.sel != nil {
		c.sel = &PixelRange{X0: remap(c.sel.X0), X1: remap(c.sel.X1)}
	}
}

// SetCommitted records the parent's range. It reports whether the live range
// or handles changed. The echo of our own last emission is recorded without
// redrawing, and nothing is redrawn mid-gesture.
//
// Only the first call after an emission can be its echo. Later calls are
// external even when they repeat the emitted pair.
func (c *Controller) SetCommitted(minDate, maxDate string) bool {
	echo := c.hasEmitted && c.emitted == [2]string{minDate, maxDate}
	c.hasEmitted = false
	if minDate == c.minDate && maxDate == c.maxDate {
		return false
	}
	c.minDate, c.maxDate = minDate, maxDate

	if echo {
		return false
	}
	if c.state == Dragging {
		return false
	}
	return c.applyCommitted()
}

func (c *Controller) applyCommitted() bool {
	if !c.ready {
		return false
	}
	domain := c.scale.Domain()
	prevLive, prevSel := c.live, c.sel

	r, ok := ParseRange(c.minDate, c.maxDate, domain.Start.Location())
	switch {
	case !ok, !r.Within(domain):
		// Unparseable or out-of-domain ranges leave the brush unset instead
		// of clamping.
		c.live = domain
		c.sel = nil
	case r.Equal(domain):
		c.live = r
		c.sel = nil
	default:
		c.live = r
		c.sel = &PixelRange{X0: c.scale.ToPixel(r.Start), X1: c.scale.ToPixel(r.End)}
	}
	return !prevLive.Equal(c.live) || !samePixels(prevSel, c.sel)
}

// Press starts a gesture: on a handle it resizes that edge, inside the
// selection it moves it, anywhere else it starts a new selection.
func (c *Controller) Press(x float64) bool {
	if !c.ready || c.state == Dragging {
		return false
	}
	x = c.scale.Clamp(x)
	d := drag{kind: dragNew, anchor: x, pressX: x}

	if c.sel != nil {
		s := *c.sel
		nearStart := abs(x-s.X0) <= c.tolerance
		nearEnd := abs(x-s.X1) <= c.tolerance
		switch {
		case nearEnd && (!nearStart || x >= s.X1):
			d.kind, d.anchor = dragResizeEnd, s.X0
		case nearStart:
			d.kind, d.anchor = dragResizeStart, s.X1
		case x > s.X0 && x < s.X1:
			d.kind, d.origin = dragMove, s
		}
	}

	c.drag = d
	c.state = Dragging
	if d.kind == dragNew {
		c.sel = &PixelRange{X0: x, X1: x}
	}
	return true
}

// Move updates the selection and, when it is non-empty, the live range.
// It reports whether the live range changed.
func (c *Controller) Move(x float64) bool {
	if c.state != Dragging {
		return false
	}
	x = c.scale.Clamp(x)

	var next PixelRange
	switch c.drag.kind {
	case dragMove:
		dx := x - c.drag.pressX
		if c.drag.origin.X0+dx < 0 {
			dx = -c.drag.origin.X0
		}
		if c.drag.origin.X1+dx > c.scale.Width() {
			dx = c.scale.Width() - c.drag.origin.X1
		}
		next = PixelRange{X0: c.drag.origin.X0 + dx, X1: c.drag.origin.X1 + dx}
	default:
		next = PixelRange{X0: min(c.drag.anchor, x), X1: max(c.drag.anchor, x)}
	}
	c.sel = &next

	if next.Width() <= 0 {
		return false
	}
	r := c.rangeOf(next)
	if r.Equal(c.live) {
		return false
	}
	c.live = r
	return true
}

// Release ends the gesture at x. A non-empty selection is committed and
// emitted; an empty one clears to the full domain.
func (c *Controller) Release(x float64) State {
	if c.state != Dragging {
		return c.state
	}
	c.Move(x)
	if c.sel == nil || c.sel.Width() <= 0 {
		return c.clear()
	}
	c.live = c.rangeOf(*c.sel)
	c.state = Idle
	c.emit(c.live)
	return Committed
}

// Clear is the explicit clear gesture. It ends any drag without committing.
func (c *Controller) Clear() State {
	if !c.ready {
		return c.state
	}
	return c.clear()
}

func (c *Controller) clear() State {
	c.sel = nil
	c.live = c.scale.Domain()
	c.state = Idle
	c.emit(c.live)
	return Cleared
}

func (c *Controller) emit(r DateRange) {
	start, end := r.Strings()
	c.emitted = [2]string{start, end}
	c.hasEmitted = true
	if c.onChange != nil {
		c.onChange(start, end)
	}
}

// rangeOf inverts a pixel selection to whole days inside the domain.
func (c *Controller) rangeOf(p PixelRange) DateRange {
	domain := c.scale.Domain()
	start := roundToDay(c.scale.ToDate(p.X0))
	end := roundToDay(c.scale.ToDate(p.X1))
	if start.Before(domain.Start) {
		start = domain.Start
	}
	if end.After(domain.End) {
		end = domain.End
	}
	return DateRange{Start: start, End: end}
}

func samePixels(a, b *PixelRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
