package matcher

import (
	"sort"

	"business-idea-workers/internal/models"
)

const (
	// InclusionThreshold is exclusive: a score must be strictly greater to be kept.
	InclusionThreshold = 0.3
	MaxResults         = 6
)

// Generate scores every idea against profile and returns at most MaxResults
// matches above InclusionThreshold, best first. Ties keep catalog order. An
// empty, non-nil slice means nothing qualified.
func Generate(profile *models.Profile, ideas []models.IdeaTemplate) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(ideas))
	for i := range ideas {
		idea := &ideas[i]
		score := Score(idea, profile)
		if score <= InclusionThreshold {
			continue
		}
		results = append(results, models.MatchResult{
			IdeaTemplate:      idea.Clone(),
			MatchScore:        score,
			PersonalizedNotes: Notes(idea, profile),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}
