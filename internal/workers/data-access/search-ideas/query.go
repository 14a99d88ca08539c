package searchideas

// buildQuery turns the search form into an Elasticsearch bool query. Free
// text is scored; category, difficulty and budget only filter.
func buildQuery(input *Input, size int) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if input.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Keywords,
				"fields": []string{"title^3", "description", "category", "skills"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{
			"match_all": map[string]interface{}{},
		})
	}

	if input.Category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category.keyword": input.Category},
		})
	}
	if input.Difficulty != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"difficulty.keyword": input.Difficulty},
		})
	}
	if input.MaxBudget > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"minBudget": map[string]interface{}{"lte": input.MaxBudget},
			},
		})
	}

	return map[string]interface{}{
		"size":    size,
		"_source": []string{"id"},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

func resolveSize(requested, fallback int) int {
	switch {
	case requested <= 0:
		if fallback <= 0 {
			return DefaultSize
		}
		return fallback
	case requested > MaxSize:
		return MaxSize
	}
	return requested
}
