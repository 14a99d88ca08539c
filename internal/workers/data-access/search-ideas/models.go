package searchideas

type Input struct {
	Keywords   string  `json:"keywords"`
	Category   string  `json:"category"`
	Difficulty string  `json:"difficulty"`
	MaxBudget  float64 `json:"maxBudget"`
	Size       int     `json:"size"`
}

type Output struct {
	IdeaIDs   []string `json:"ideaIds"`
	TotalHits int64    `json:"totalHits"`
	Took      int64    `json:"took"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				ID string `json:"id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
