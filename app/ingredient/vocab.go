package ingredient

import (
	"regexp"
	"sort"
	"strings"
)

var volumeUnits = []string{
	"teaspoon", "tsp",
	"tablespoon", "tbsp",
	"cup",
	"fluid ounce", "fl oz",
	"pint", "pt",
	"quart", "qt",
	"gallon", "gal",
	"milliliter", "ml",
	"liter", "l",
}

var weightUnits = []string{"ounce", "oz", "pound", "lb", "gram", "g", "kilogram", "kg"}

var countUnits = []string{"unit", "head", "clove", "stalk", "bunch", "slice", "piece"}

// numberPattern matches integers, decimals, simple fractions and the unicode
// vulgar fractions that recipe sites commonly emit.
const numberPattern = `(?:\d+\s*/\s*\d+)|(?:\d*\.?\d+)|[¼½¾]`

var (
	amountRe   *regexp.Regexp
	unitSet    map[string]struct{}
	vulgarFrac = map[string]float64{"¼": 0.25, "½": 0.5, "¾": 0.75}
)

func init() {
	all := make([]string, 0, len(volumeUnits)+len(weightUnits)+len(countUnits))
	all = append(all, volumeUnits...)
	all = append(all, weightUnits...)
	all = append(all, countUnits...)

	// Longer spellings first so "tablespoon" never half-matches as "tbsp"
	// leftovers or "l" inside "lb".
	sort.Slice(all, func(i, j int) bool {
		return len(all[i]) > len(all[j])
	})

	unitSet = make(map[string]struct{}, len(all))
	for _, u := range all {
		unitSet[u] = struct{}{}
	}

	amountRe = regexp.MustCompile(
		`(?i)^\s*(` + numberPattern + `)\s*((?:` + strings.Join(all, "|") + `)s?\b)?`)
}

// canonicalUnit lowercases a matched unit token and strips a plural "s" when
// the singular form is part of the vocabulary.
func canonicalUnit(unitText string) string {
	u := strings.ToLower(strings.TrimSpace(unitText))
	if u == "" {
		return ""
	}
	if singular := strings.TrimSuffix(u, "s"); singular != u {
		if _, ok := unitSet[singular]; ok {
			return singular
		}
	}
	return u
}
