package search

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Breakdown shows how each component contributed to a local result's score.
type Breakdown struct {
	TitleMatch float64
	Density    float64
	Recency    float64
	Depth      float64
	Final      float64
}

const (
	weightTitle   = 0.40
	weightDensity = 0.30
	weightRecency = 0.20
	weightDepth   = 0.10
)

// recencyHalfLife is long because the corpus spans years, not days.
const recencyHalfLife = 365 * 24 * time.Hour

// Score ranks an article for the given query terms on a 0.0–1.0 scale.
// Zero means no term matched and the article is not a result.
func Score(terms []string, title, teaser string, published, now time.Time) Breakdown {
	titleWords := words(title)
	bodyWords := append(titleWords, words(teaser)...)
	if len(terms) == 0 || len(bodyWords) == 0 {
		return Breakdown{}
	}

	titleHits, bodyHits := 0, 0
	matched := 0
	for _, term := range terms {
		inTitle := contains(titleWords, term)
		n := count(bodyWords, term)
		if inTitle {
			titleHits++
		}
		if n > 0 {
			matched++
		}
		bodyHits += n
	}
	if matched == 0 {
		return Breakdown{}
	}

	b := Breakdown{
		TitleMatch: float64(titleHits) / float64(len(terms)),
		Density:    math.Min(float64(bodyHits)/float64(len(bodyWords))*5, 1),
		Recency:    recencyScore(published, now),
		Depth:      depthScore(len(bodyWords)),
	}
	raw := b.TitleMatch*weightTitle +
		b.Density*weightDensity +
		b.Recency*weightRecency +
		b.Depth*weightDepth
	// Partial matches rank below articles matching every term.
	raw *= float64(matched) / float64(len(terms))
	b.Final = math.Round(raw*1000) / 1000
	return b
}

func recencyScore(published, now time.Time) float64 {
	if published.IsZero() {
		return 0
	}
	age := now.Sub(published)
	if age < 0 {
		age = 0
	}
	return math.Exp(math.Ln2 * -age.Hours() / recencyHalfLife.Hours())
}

func depthScore(n int) float64 {
	switch {
	case n >= 60:
		return 1.0
	case n >= 25:
		return 0.6
	default:
		return 0.2
	}
}

// Terms splits a query into lowercase words, dropping duplicates and very
// short words.
func Terms(query string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range words(query) {
		if len([]rune(w)) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func words(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func contains(ws []string, term string) bool {
	return count(ws, term) > 0
}

// count matches whole words and simple prefixes, so "price" finds "prices".
func count(ws []string, term string) int {
	n := 0
	for _, w := range ws {
		if w == term || (len(term) >= 4 && strings.HasPrefix(w, term)) {
			n++
		}
	}
	return n
}
