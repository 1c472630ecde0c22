package brush

import (
	"time"
)

// DateLayout is the form of every date crossing the component boundary.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar-date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Domain returns the fixed outer bound of the axis: 2020-05-01 through the
// start of today, in now's location.
func Domain(now time.Time) DateRange {
	return DateRange{
		Start: time.Date(2020, time.May, 1, 0, 0, 0, 0, now.Location()),
		End:   startOfDay(now),
	}
}

// Contains reports whether t falls within r, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Within reports whether r lies entirely inside outer.
func (r DateRange) Within(outer DateRange) bool {
	return outer.Contains(r.Start) && outer.Contains(r.End)
}

func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// Strings formats both bounds as YYYY-MM-DD in their own location.
func (r DateRange) Strings() (string, string) {
	return FormatDate(r.Start), FormatDate(r.End)
}

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseRange parses a committed min/max pair. Both must parse and be ordered.
func ParseRange(min, max string, loc *time.Location) (DateRange, bool) {
	start, ok := ParseDate(min, loc)
	if !ok {
		return DateRange{}, false
	}
	end, ok := ParseDate(max, loc)
	if !ok || end.Before(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// roundToDay snaps t to the nearest local midnight.
func roundToDay(t time.Time) time.Time {
	return startOfDay(t.Add(12 * time.Hour))
}
