package refineresults

import "business-idea-workers/internal/models"

type Input struct {
	Ideas      []models.MatchResult `json:"ideas"`
	Difficulty string               `json:"difficulty"`
	SortBy     string               `json:"sortBy"`
}

type Output struct {
	Ideas []models.MatchResult `json:"ideas"`
	Count int                  `json:"count"`
}
