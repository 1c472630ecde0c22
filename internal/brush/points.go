package brush

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jhellingsdata/search-app/internal/debug"
)

const (
	minOffset   = 0.1
	maxOffset   = 0.9
	offsetMean  = 0.5
	offsetSigma = 0.15
)

// Article is one corpus entry as seen by the chart.
type Article struct {
	Title string
	Date  string // YYYY-MM-DD
}

// ArticleSet is an immutable article sequence. Its pointer identity is what
// decides whether vertical positions are regenerated.
type ArticleSet struct {
	items []Article
}

func NewArticleSet(items []Article) *ArticleSet {
	return &ArticleSet{items: slices.Clone(items)}
}

func (s *ArticleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the backing slice; callers must not modify it.
func (s *ArticleSet) Items() []Article {
	if s == nil {
		return nil
	}
	return s.items
}

// PlottedPoint is an article placed on the chart.
type PlottedPoint struct {
	Article
	Time           time.Time
	VerticalOffset float64 // in [0.1, 0.9]
}

// Jitter draws vertical offsets from N(0.5, 0.15) clamped to [0.1, 0.9].
type Jitter struct {
	dist distuv.Normal
}

// NewJitter owns src for its lifetime. A nil src gets a freshly seeded PCG.
func NewJitter(src rand.Source) *Jitter {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Jitter{dist: distuv.Normal{Mu: offsetMean, Sigma: offsetSigma, Src: src}}
}

func (j *Jitter) Offset() float64 {
	return math.Min(maxOffset, math.Max(minOffset, j.dist.Rand()))
}

// PositionAssigner memoises offsets per ArticleSet so that drags and resizes
// never reshuffle the scatter.
type PositionAssigner struct {
	jitter *Jitter
	set    *ArticleSet
	loc    *time.Location
	points []PlottedPoint
}

func NewPositionAssigner(j *Jitter) *PositionAssigner {
	return &PositionAssigner{jitter: j}
}

// Assign returns one point per article with a parseable date. Offsets are
// kept when only the location changes.
func (p *PositionAssigner) Assign(set *ArticleSet, loc *time.Location) []PlottedPoint {
	if set == p.set && p.points != nil {
		if loc != p.loc {
			for i := range p.points {
				t, _ := ParseDate(p.points[i].Date, loc)
				p.points[i].Time = t
			}
			p.loc = loc
		}
		return p.points
	}

	points := make([]PlottedPoint, 0, set.Len())
	for _, a := range set.Items() {
		t, ok := ParseDate(a.Date, loc)
		if !ok {
			debug.Log("brush: skipping %q with unparseable date %q", a.Title, a.Date)
			continue
		}
		points = append(points, PlottedPoint{Article: a, Time: t, VerticalOffset: p.jitter.Offset()})
	}

	p.set = set
	p.loc = loc
	p.points = points
	return points
}
