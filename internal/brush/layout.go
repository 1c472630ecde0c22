package brush

// LayoutOptions fixes the chart geometry. Units are whatever the drawing
// layer uses as a pixel.
type LayoutOptions struct {
	Height       float64
	MinWidth     float64
	CompactWidth float64 // below this the axis switches to yearly ticks
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Height: 130, MinWidth: 300, CompactWidth: 450}
}

// AxisInterval picks tick density for a width.
func (o LayoutOptions) AxisInterval(width float64) TickInterval {
	if width < o.CompactWidth {
		return Yearly
	}
	return HalfYearly
}

// Size is the measured drawing area. A zero width means not ready to draw.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) Ready() bool { return s.Width > 0 }

// Layout measures the container and reports size changes. Nothing fires
// after Unmount.
type Layout struct {
	opts     LayoutOptions
	size     Size
	measure  func() float64
	onResize func(Size)
}

func NewLayout(opts LayoutOptions) *Layout {
	return &Layout{opts: opts}
}

func (l *Layout) Options() LayoutOptions { return l.opts }
func (l *Layout) Size() Size             { return l.size }
func (l *Layout) Mounted() bool          { return l.measure != nil }

// Mount subscribes to resizes and measures immediately.
func (l *Layout) Mount(measure func() float64, onResize func(Size)) {
	l.measure = measure
	l.onResize = onResize
	l.size = Size{}
	l.recompute()
}

// Unmount releases the subscription.
func (l *Layout) Unmount() {
	l.measure = nil
	l.onResize = nil
}

// Resized re-measures the container. Hosts call it for container and window
// resizes alike.
func (l *Layout) Resized() { l.recompute() }

func (l *Layout) recompute() {
	if l.measure == nil {
		return
	}
	next := l.compute(l.measure())
	if next == l.size {
		return
	}
	l.size = next
	if l.onResize != nil {
		l.onResize(next)
	}
}

func (l *Layout) compute(width float64) Size {
	if width <= 0 {
		return Size{Height: l.opts.Height}
	}
	if width < l.opts.MinWidth {
		width = l.opts.MinWidth
	}
	return Size{Width: width, Height: l.opts.Height}
}
