// Package classify infers a main category for articles that arrive without
// one, so they still get a colour and a place in the category filter.
package classify

import (
	"strings"
	"unicode"
)

// Categories in canonical order. Ties go to the earlier one.
var Categories = []string{
	"Coronavirus",
	"Energy",
	"Money & Finance",
	"Jobs & Work",
	"Trade & Migration",
	"Climate & Environment",
	"Health",
	"Global Economy",
}

var categoryKeywords = map[string][]string{
	"Coronavirus": {
		"covid", "coronavirus", "pandemic", "lockdown", "furlough", "vaccine",
		"vaccination", "social distancing",
	},
	"Energy": {
		"energy", "gas", "oil", "electricity", "fuel", "renewable", "nuclear",
		"price cap", "power station",
	},
	"Money & Finance": {
		"interest", "inflation", "bank", "monetary", "mortgage", "bond",
		"central bank", "bank of england", "quantitative easing", "debt",
	},
	"Jobs & Work": {
		"jobs", "unemployment", "employment", "wages", "labour", "workers",
		"job retention", "minimum wage", "vacancies",
	},
	"Trade & Migration": {
		"trade", "brexit", "tariff", "exports", "imports", "migration",
		"customs", "supply chain", "free trade",
	},
	"Climate & Environment": {
		"climate", "carbon", "emissions", "environment", "net zero",
		"biodiversity", "green",
	},
	"Health": {
		"health", "nhs", "hospital", "wellbeing", "mental health", "obesity",
	},
	"Global Economy": {
		"global", "china", "russia", "ukraine", "eurozone", "imf",
		"developing countries", "world economy",
	},
}

// Classify picks the category whose keywords best match title and teaser.
// Title matches count double. It returns "" when nothing matches.
func Classify(title, teaser string) string {
	titleTokens := tokenize(title)
	teaserTokens := tokenize(teaser)
	titleLower := strings.ToLower(title)
	teaserLower := strings.ToLower(teaser)

	best := ""
	bestScore := 0
	for _, cat := range Categories {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(kw, " ") {
				if strings.Contains(titleLower, kw) {
					score += 2
				}
				if strings.Contains(teaserLower, kw) {
					score++
				}
				continue
			}
			score += 2 * countPrefix(titleTokens, kw)
			score += countPrefix(teaserTokens, kw)
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}

// countPrefix counts tokens starting with kw, so "vaccine" also matches
// "vaccines".
func countPrefix(tokens []string, kw string) int {
	n := 0
	for _, t := range tokens {
		if strings.HasPrefix(t, kw) {
			n++
		}
	}
	return n
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
