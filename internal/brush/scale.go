package brush

import (
	"errors"
	"time"
)

// ErrNotReady is returned when the layout has no usable width yet.
var ErrNotReady = errors.New("brush: no drawable width")

// TimeScale maps dates in a domain linearly onto [0, width].
// It is rebuilt on every structural pass and never cached beyond it.
type TimeScale struct {
	domain DateRange
	width  float64
}

func NewTimeScale(domain DateRange, width float64) (TimeScale, error) {
	if width <= 0 || !domain.End.After(domain.Start) {
		return TimeScale{}, ErrNotReady
	}
	return TimeScale{domain: domain, width: width}, nil
}

func (s TimeScale) Domain() DateRange { return s.domain }
func (s TimeScale) Width() float64    { return s.width }

func (s TimeScale) span() float64 {
	return float64(s.domain.End.Sub(s.domain.Start))
}

// ToPixel maps t onto the pixel axis. Dates outside the domain extrapolate.
func (s TimeScale) ToPixel(t time.Time) float64 {
	return float64(t.Sub(s.domain.Start)) / s.span() * s.width
}

// ToDate is the inverse of ToPixel.
func (s TimeScale) ToDate(x float64) time.Time {
	return s.domain.Start.Add(time.Duration(x / s.width * s.span()))
}

// Resolution is the duration covered by one pixel.
func (s TimeScale) Resolution() time.Duration {
	return time.Duration(s.span() / s.width)
}

// Clamp restricts x to the drawable range.
func (s TimeScale) Clamp(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > s.width:
		return s.width
	default:
		return x
	}
}

// TickInterval selects axis tick spacing.
type TickInterval int

const (
	HalfYearly TickInterval = iota
	Yearly
)

func (i TickInterval) months() int {
	if i == Yearly {
		return 12
	}
	return 6
}

func (i TickInterval) String() string {
	if i == Yearly {
		return "yearly"
	}
	return "half-yearly"
}

// Tick is one labelled axis position.
type Tick struct {
	X     float64
	Time  time.Time
	Label string
}

// Ticks returns the interval boundaries (Jan 1, and Jul 1 for half-yearly)
// that fall inside the domain.
func (s TimeScale) Ticks(interval TickInterval) []Tick {
	step := interval.months()
	layout := "Jan 2006"
	if interval == Yearly {
		layout = "2006"
	}

	start := s.domain.Start
	t := time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, start.Location())
	for t.Before(start) {
		t = t.AddDate(0, step, 0)
	}

	var ticks []Tick
	for !t.After(s.domain.End) {
		ticks = append(ticks, Tick{X: s.ToPixel(t), Time: t, Label: t.Format(layout)})
		t = t.AddDate(0, step, 0)
	}
	return ticks
}
