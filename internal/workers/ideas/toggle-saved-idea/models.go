package togglesavedidea

type Input struct {
	SessionID string `json:"sessionId"`
	IdeaID    string `json:"ideaId"`
}

type Output struct {
	IdeaID       string   `json:"ideaId"`
	Saved        bool     `json:"saved"`
	SavedIdeaIDs []string `json:"savedIdeaIds"`
}
