package grading

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/organizer/core/course"
)

// minSimilarity is the smallest similarity ratio for a weighted category to be suggested.
const minSimilarity = .6

// CategorySuggestion reports an assignment category that the course does not weight,
// and so never counts towards the grade.
type CategorySuggestion struct {
	Category    string
	Assignments int
	// Closest is the most similar weighted category, "" when none is similar enough.
	Closest string
}

// SuggestCategories lists the categories of `as` missing from the grading scheme of `c`, sorted by name.
func SuggestCategories(c course.Course, as []course.Assignment) []CategorySuggestion {
	counts := make(map[string]int)
	for _, a := range as {
		cat := strings.TrimSpace(a.Category)
		if cat == "" {
			continue
		}
		if _, ok := c.GradingScheme[cat]; ok {
			continue
		}
		counts[cat]++
	}

	weighted := c.Categories()
	out := make([]CategorySuggestion, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategorySuggestion{Category: cat, Assignments: n, Closest: closest(cat, weighted)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func closest(cat string, candidates []string) string {
	var (
		best      string
		bestRatio float64
	)
	needle := strings.Split(strings.ToLower(cat), "")
	for _, cand := range candidates {
		ratio := difflib.NewMatcher(needle, strings.Split(strings.ToLower(cand), "")).Ratio()
		if ratio >= minSimilarity && ratio > bestRatio {
			best, bestRatio = cand, ratio
		}
	}
	return best
}
