package searchideas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/validation"
	"business-idea-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeES struct {
	mu       sync.Mutex
	status   int
	body     string
	delay    time.Duration
	lastPath string
	lastBody map[string]interface{}
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.lastPath = r.URL.Path
	f.lastBody = nil
	_ = json.Unmarshal(raw, &f.lastBody)
	status, body, delay := f.status, f.body, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(delay):
		}
	}

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func setupES(t *testing.T, fake *fakeES) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func createTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	idea := func(id string) models.IdeaTemplate {
		return models.IdeaTemplate{
			ID:            id,
			Title:         id,
			MinBudget:     100,
			MaxBudget:     1000,
			Difficulty:    models.DifficultyBeginner,
			LocationTypes: []models.LocationType{models.LocationOnline},
		}
	}
	cat, err := catalog.New([]models.IdeaTemplate{idea("online-tutoring"), idea("content-writing-agency")})
	require.NoError(t, err)
	return cat
}

func newTestHandler(t *testing.T, client *elasticsearch.Client) *Handler {
	t.Helper()
	validator, err := validation.NewValidator(nil)
	require.NoError(t, err)
	cfg := &Config{Index: "business_ideas", Timeout: 5 * time.Second, DefaultSize: 10}
	return NewHandler(cfg, client, createTestCatalog(t), validator, logger.NewTestLogger(t))
}

const hitsResponse = `{
  "took": 4,
  "hits": {
    "total": {"value": 3, "relation": "eq"},
    "hits": [
      {"_id": "online-tutoring", "_score": 2.1, "_source": {"id": "online-tutoring"}},
      {"_id": "retired-idea", "_score": 1.4, "_source": {"id": "retired-idea"}},
      {"_id": "content-writing-agency", "_score": 0.9, "_source": {}}
    ]
  }
}`

// ==========================
// Execute Tests
// ==========================

func TestExecute_ReturnsCatalogIDs(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: hitsResponse}
	h := newTestHandler(t, setupES(t, fake))

	out, err := h.Execute(context.Background(), &Input{Keywords: "writing", Size: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"online-tutoring", "content-writing-agency"}, out.IdeaIDs)
	assert.Equal(t, int64(3), out.TotalHits)
	assert.Equal(t, int64(4), out.Took)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "/business_ideas/_search", fake.lastPath)
	assert.Equal(t, float64(3), fake.lastBody["size"])
}

func TestExecute_NoHits(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: `{"took":1,"hits":{"total":{"value":0},"hits":[]}}`}
	h := newTestHandler(t, setupES(t, fake))

	out, err := h.Execute(context.Background(), &Input{Keywords: "submarines"})
	require.NoError(t, err)
	assert.NotNil(t, out.IdeaIDs)
	assert.Empty(t, out.IdeaIDs)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, float64(10), fake.lastBody["size"])
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		fake      *fakeES
		input     *Input
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{
			name:     "missing index",
			fake:     &fakeES{status: http.StatusNotFound, body: `{"error":{"type":"index_not_found_exception"},"status":404}`},
			input:    &Input{},
			wantCode: apperrors.ErrCodeIndexNotFound,
		},
		{
			name:      "bad request",
			fake:      &fakeES{status: http.StatusBadRequest, body: `{"error":{"type":"parsing_exception"},"status":400}`},
			input:     &Input{Keywords: "x"},
			wantCode:  apperrors.ErrCodeSearchQueryFailed,
			retryable: true,
		},
		{
			name:      "malformed body",
			fake:      &fakeES{status: http.StatusOK, body: `{"hits":`},
			input:     &Input{},
			wantCode:  apperrors.ErrCodeSearchQueryFailed,
			retryable: true,
		},
		{
			name:     "negative budget",
			fake:     &fakeES{status: http.StatusOK, body: hitsResponse},
			input:    &Input{MaxBudget: -10},
			wantCode: apperrors.ErrCodeInputValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, setupES(t, tt.fake))

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: hitsResponse, delay: 2 * time.Second}
	h := newTestHandler(t, setupES(t, fake))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Keywords: "slow"})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeSearchTimeout, stdErr.Code)
}

func TestExecute_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{addr}, DisableRetry: true})
	require.NoError(t, err)
	h := newTestHandler(t, client)

	_, err = h.Execute(context.Background(), &Input{})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeElasticsearchConnectionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
