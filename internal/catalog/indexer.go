package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultIndex = "business_ideas"

// Indexer mirrors the catalog into Elasticsearch so ideas can be found by
// free-text search. Documents use the idea id as document id, so re-indexing
// overwrites instead of duplicating.
type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	return &Indexer{client: client, index: index}
}

// IndexAll writes every catalog idea and returns how many were indexed.
func (x *Indexer) IndexAll(ctx context.Context, c *Catalog) (int, error) {
	count := 0
	for _, idea := range c.ideas {
		body, err := json.Marshal(idea)
		if err != nil {
			return count, fmt.Errorf("marshal idea %s: %w", idea.ID, err)
		}

		req := esapi.IndexRequest{
			Index:      x.index,
			DocumentID: idea.ID,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, x.client)
		if err != nil {
			return count, fmt.Errorf("index idea %s: %w", idea.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return count, fmt.Errorf("index idea %s: %s", idea.ID, res.Status())
		}
		count++
	}

	refresh := esapi.IndicesRefreshRequest{Index: []string{x.index}}
	res, err := refresh.Do(ctx, x.client)
	if err != nil {
		return count, fmt.Errorf("refresh index %s: %w", x.index, err)
	}
	res.Body.Close()

	return count, nil
}
