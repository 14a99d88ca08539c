package generateideas

import "business-idea-workers/internal/models"

type Input struct {
	Profile   *models.Profile `json:"profile"`
	SessionID string          `json:"sessionId,omitempty"`
}

type Output struct {
	Ideas        []models.MatchResult `json:"ideas"`
	TotalMatches int                  `json:"totalMatches"`
	HasMatches   bool                 `json:"hasMatches"`
}
