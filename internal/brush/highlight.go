package brush

// SearchResult identifies a highlighted article. Matching is by exact
// (Title, Date) equality; there is no stable identifier.
type SearchResult struct {
	Title string
	Date  string
}

// IsSearchResult is a linear scan over results.
func IsSearchResult(a Article, results []SearchResult) bool {
	for _, r := range results {
		if r.Title == a.Title && r.Date == a.Date {
			return true
		}
	}
	return false
}

// Fill is the marker colour role.
type Fill int

const (
	FillNeutral Fill = iota
	FillAccent
)

const (
	resultRadius = 3.5
	baseRadius   = 2

	inRangeStrokeWidth = 1
	dimmedOpacity      = 0.3
)

// PointStyle carries the render attributes of one marker. Radius and Fill
// come from the structural pass; Stroke, StrokeWidth and Opacity from the
// styling pass.
type PointStyle struct {
	Radius      float64
	Fill        Fill
	Stroke      bool
	StrokeWidth float64
	Opacity     float64
}

func markerStyle(isResult bool) (float64, Fill) {
	if isResult {
		return resultRadius, FillAccent
	}
	return baseRadius, FillNeutral
}

func (s *PointStyle) applyRange(inRange bool) {
	if inRange {
		s.Stroke = true
		s.StrokeWidth = inRangeStrokeWidth
		s.Opacity = 1
		return
	}
	s.Stroke = false
	s.StrokeWidth = 0
	s.Opacity = dimmedOpacity
}
