// Package category maps article categories to display colours.
package category

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Colour is a hex colour string such as "#E4572E".
type Colour string

var colours = map[string]Colour{
	"business & industry":      "#E4572E",
	"cities & communities":     "#F3A712",
	"climate & environment":    "#29BF12",
	"coronavirus":              "#D7263D",
	"education & skills":       "#00A6ED",
	"energy":                   "#FF9914",
	"global economy":           "#3E8EDE",
	"health":                   "#EF476F",
	"jobs & work":              "#7B2CBF",
	"money & finance":          "#06A77D",
	"politics & institutions":  "#5C6BC0",
	"poverty & inequality":     "#C05299",
	"trade & migration":        "#1B998B",
	"transport & travel":       "#F46036",
	"trust & society":          "#8D99AE",
	"uk economy":               "#2E86AB",
	"public finances":          "#A23B72",
	"housing":                  "#B5838D",
	"productivity & growth":    "#4F772D",
	"technology & innovation":  "#3A86FF",
	"inflation & prices":       "#FB5607",
	"banking & financial risk": "#118AB2",
}

// fallback colours are assigned to unknown categories by name hash so a
// category keeps its colour between runs.
var fallback = []Colour{"#8338EC", "#FF006E", "#3A86FF", "#FB5607", "#06D6A0", "#FFBE0B"}

// Neutral is used for articles without a category.
const Neutral Colour = "#9B9B9B"

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " and ", " & ")
	return strings.Join(strings.Fields(name), " ")
}

// For returns the colour of a category. Lookup ignores case, spacing and
// "and" versus "&".
func For(name string) Colour {
	key := normalize(name)
	if key == "" {
		return Neutral
	}
	if c, ok := colours[key]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return fallback[h.Sum32()%uint32(len(fallback))]
}

// Known reports whether the category has a dedicated colour.
func Known(name string) bool {
	_, ok := colours[normalize(name)]
	return ok
}

// Resolve matches user input against a list of category names: first
// exactly (after normalisation), then by unique prefix.
func Resolve(input string, names []string) (string, error) {
	key := normalize(input)
	if key == "" {
		return "", fmt.Errorf("empty category")
	}
	var prefix []string
	for _, n := range names {
		nk := normalize(n)
		if nk == key {
			return n, nil
		}
		if strings.HasPrefix(nk, key) {
			prefix = append(prefix, n)
		}
	}
	switch len(prefix) {
	case 1:
		return prefix[0], nil
	case 0:
		return "", fmt.Errorf("unknown category %q", input)
	default:
		sort.Strings(prefix)
		return "", fmt.Errorf("ambiguous category %q (matches: %s)", input, strings.Join(prefix, ", "))
	}
}
