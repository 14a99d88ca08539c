package generateideas

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/validation"
	"business-idea-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}

func createTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.IdeaTemplate{
		{
			ID:            "web-design-studio",
			Title:         "Web Design Studio",
			Description:   "Build websites for local businesses",
			Category:      "Technology",
			MinBudget:     1000,
			MaxBudget:     5000,
			Revenue:       "$3,000-$10,000/month",
			Difficulty:    models.DifficultyBeginner,
			Skills:        []string{"design", "programming"},
			LocationTypes: []models.LocationType{models.LocationOnline, models.LocationUrban},
		},
		{
			ID:            "home-bakery",
			Title:         "Home Bakery",
			Description:   "Sell baked goods from a licensed home kitchen",
			Category:      "Food",
			MinBudget:     2000,
			MaxBudget:     10000,
			Revenue:       "$1,000-$4,000/month",
			Difficulty:    models.DifficultyBeginner,
			Skills:        []string{"baking"},
			LocationTypes: []models.LocationType{models.LocationUrban, models.LocationSuburban},
		},
		{
			ID:            "real-estate-investing",
			Title:         "Real Estate Investing",
			Description:   "Buy and rent residential property",
			Category:      "Real Estate",
			MinBudget:     100000,
			MaxBudget:     500000,
			Revenue:       "$5,000-$20,000/month",
			Difficulty:    models.DifficultyAdvanced,
			Skills:        []string{"finance", "negotiation"},
			LocationTypes: []models.LocationType{models.LocationUrban},
		},
	})
	require.NoError(t, err)
	return cat
}

func createTestProfile() *models.Profile {
	return &models.Profile{
		Budget:         5000,
		Interests:      []string{"technology"},
		Skills:         []string{"design"},
		Location:       models.LocationOnline,
		Experience:     models.ExperienceBeginner,
		TimeCommitment: models.TimeCommitmentPartTime,
	}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newTestHandler(t *testing.T, rdb *redis.Client) *Handler {
	validator, err := validation.NewValidator(nil)
	require.NoError(t, err)
	return NewHandler(createTestConfig(), createTestCatalog(t), rdb, validator, logger.NewTestLogger(t))
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_RanksQualifyingIdeas(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{Profile: createTestProfile()})
	require.NoError(t, err)

	require.Len(t, out.Ideas, 2)
	assert.Equal(t, 2, out.TotalMatches)
	assert.True(t, out.HasMatches)
	assert.Equal(t, "web-design-studio", out.Ideas[0].ID)
	assert.InDelta(t, 0.875, out.Ideas[0].MatchScore, 1e-9)
	assert.Equal(t, "home-bakery", out.Ideas[1].ID)
	assert.InDelta(t, 0.45, out.Ideas[1].MatchScore, 1e-9)
	assert.Contains(t, out.Ideas[0].PersonalizedNotes,
		"Perfect starter business with manageable complexity and learning curve.")
}

func TestExecute_NoMatches(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{Profile: &models.Profile{
		Budget:         0,
		Location:       models.LocationRural,
		Experience:     models.ExperienceAdvanced,
		TimeCommitment: models.TimeCommitmentFullTime,
	}})
	require.NoError(t, err)

	assert.NotNil(t, out.Ideas)
	assert.Empty(t, out.Ideas)
	assert.False(t, out.HasMatches)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ideas":[]`)
}

func TestExecute_InvalidProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
	}{
		{name: "missing profile", profile: nil},
		{name: "negative budget", profile: &models.Profile{
			Budget: -1, Location: models.LocationUrban, Experience: models.ExperienceBeginner,
			TimeCommitment: models.TimeCommitmentPartTime,
		}},
		{name: "unknown location", profile: &models.Profile{
			Budget: 100, Location: "moon", Experience: models.ExperienceBeginner,
			TimeCommitment: models.TimeCommitmentPartTime,
		}},
		{name: "unknown experience", profile: &models.Profile{
			Budget: 100, Location: models.LocationUrban, Experience: "guru",
			TimeCommitment: models.TimeCommitmentPartTime,
		}},
	}

	h := newTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &Input{Profile: tt.profile})
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

// ==========================
// Cache Tests
// ==========================

func TestExecute_CachesResults(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)
	input := &Input{Profile: createTestProfile()}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	key, err := h.cacheKey(input)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))
	assert.Contains(t, key, h.catalog.Version())

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExecute_ServesFromCache(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)
	input := &Input{Profile: createTestProfile()}

	key, err := h.cacheKey(input)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, `{"ideas":[{"id":"cached-idea","matchScore":0.9}],"totalMatches":1,"hasMatches":true}`))

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out.Ideas, 1)
	assert.Equal(t, "cached-idea", out.Ideas[0].ID)
}

func TestExecute_IgnoresCorruptCacheEntry(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)
	input := &Input{Profile: createTestProfile()}

	key, err := h.cacheKey(input)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, "not-json"))

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalMatches)
}

func TestExecute_CacheUnavailable(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)
	mr.Close()

	out, err := h.Execute(context.Background(), &Input{Profile: createTestProfile(), SessionID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalMatches)
}

func TestCacheKey_DependsOnProfile(t *testing.T) {
	h := newTestHandler(t, nil)

	a, err := h.cacheKey(&Input{Profile: createTestProfile()})
	require.NoError(t, err)

	other := createTestProfile()
	other.Budget = 6000
	b, err := h.cacheKey(&Input{Profile: other})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, resultKeyPrefix)
}

// ==========================
// Session Tests
// ==========================

func TestExecute_StoresSessionResults(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)

	_, err := h.Execute(context.Background(), &Input{Profile: createTestProfile(), SessionID: "s-42"})
	require.NoError(t, err)

	ids, err := mr.List(sessionKeyPrefix + "s-42")
	require.NoError(t, err)
	assert.Equal(t, []string{"web-design-studio", "home-bakery"}, ids)
	assert.Equal(t, 10*time.Minute, mr.TTL(sessionKeyPrefix+"s-42"))
}

func TestExecute_SessionResultsReplaced(t *testing.T) {
	mr, rdb := setupRedis(t)
	h := newTestHandler(t, rdb)
	key := sessionKeyPrefix + "s-42"

	_, err := mr.Push(key, "stale-idea")
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{Profile: &models.Profile{
		Location: models.LocationRural, Experience: models.ExperienceAdvanced,
		TimeCommitment: models.TimeCommitmentFullTime,
	}, SessionID: "s-42"})
	require.NoError(t, err)

	assert.False(t, mr.Exists(key))
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkExecute(b *testing.B) {
	cat, err := catalog.Load(context.Background(), catalog.NewFileSource("../../../../configs/catalog.yaml"))
	if err != nil {
		b.Fatalf("load catalog: %v", err)
	}
	validator, err := validation.NewValidator(nil)
	if err != nil {
		b.Fatalf("validator: %v", err)
	}
	h := NewHandler(createTestConfig(), cat, nil, validator, logger.NewNoOpLogger())
	input := &Input{Profile: createTestProfile()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
