package sendideareport

import "business-idea-workers/internal/models"

type Input struct {
	Channel   string               `json:"channel"`
	Recipient string               `json:"recipient"`
	Name      string               `json:"name,omitempty"`
	Ideas     []models.MatchResult `json:"ideas"`
}

type Output struct {
	MessageID         string `json:"messageId"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	Channel           string `json:"channel"`
	SentAt            string `json:"sentAt"`
}
