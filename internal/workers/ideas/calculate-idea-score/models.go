package calculateideascore

import (
	"business-idea-workers/internal/matcher"
	"business-idea-workers/internal/models"
)

type Input struct {
	IdeaID  string          `json:"ideaId"`
	Profile *models.Profile `json:"profile"`
}

type Output struct {
	IdeaID            string                 `json:"ideaId"`
	MatchScore        float64                `json:"matchScore"`
	Breakdown         matcher.ScoreBreakdown `json:"breakdown"`
	PersonalizedNotes []string               `json:"personalizedNotes"`
	Qualifies         bool                   `json:"qualifies"`
}
