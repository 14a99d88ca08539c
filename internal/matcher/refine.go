package matcher

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"business-idea-workers/internal/models"
)

// SortKey selects the ordering applied by SortResults.
type SortKey string

const (
	SortByMatch   SortKey = "match"
	SortByBudget  SortKey = "budget"
	SortByRevenue SortKey = "revenue"

	// DifficultyAll disables difficulty filtering.
	DifficultyAll = "all"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

// FilterByDifficulty returns the results whose difficulty equals difficulty.
// An empty value or DifficultyAll keeps everything.
func FilterByDifficulty(results []models.MatchResult, difficulty string) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if difficulty == "" || difficulty == DifficultyAll || string(r.Difficulty) == difficulty {
			out = append(out, r)
		}
	}
	return out
}

// SortResults returns a re-ordered copy of results. The sort is stable.
func SortResults(results []models.MatchResult, key SortKey) ([]models.MatchResult, error) {
	out := append([]models.MatchResult(nil), results...)

	var less func(i, j int) bool
	switch key {
	case SortByMatch, "":
		less = func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore }
	case SortByBudget:
		less = func(i, j int) bool { return out[i].MinBudget < out[j].MinBudget }
	case SortByRevenue:
		less = func(i, j int) bool { return RevenueFigure(out[i].Revenue) > RevenueFigure(out[j].Revenue) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
	}

	sort.SliceStable(out, less)
	return out, nil
}

// RevenueFigure reads every digit of a revenue descriptor as one number, so
// "$2,000-$8,000/month" becomes 20008000. Descriptors without digits yield 0.
func RevenueFigure(revenue string) float64 {
	var b strings.Builder
	for _, r := range revenue {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
