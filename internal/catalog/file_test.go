package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"business-idea-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
version: "1.0.0"
ideas:
  - id: online-tutoring
    title: Online Tutoring
    description: Teach students over video calls.
    category: Education
    minBudget: 100
    maxBudget: 1500
    revenue: "$1,000-$5,000/month"
    difficulty: Beginner
    timeToStart: 1 week
    skills: [teaching, communication]
    locationTypes: [online, rural]
    steps: [Pick subjects, List on marketplaces]
    pros: [Flexible hours]
    cons: [Seasonal demand]
    marketSize: $7B globally
`

const testCatalogJSON = `{
  "version": "1.0.0",
  "ideas": [
    {
      "id": "home-bakery",
      "title": "Home Bakery",
      "category": "Food",
      "minBudget": 2000,
      "maxBudget": 8000,
      "difficulty": "Intermediate",
      "skills": ["cooking"],
      "locationTypes": ["suburban"]
    }
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_YAML(t *testing.T) {
	src := NewFileSource(writeFile(t, "catalog.yaml", testCatalogYAML))

	ideas, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 1)

	idea := ideas[0]
	assert.Equal(t, "online-tutoring", idea.ID)
	assert.Equal(t, 100.0, idea.MinBudget)
	assert.Equal(t, 1500.0, idea.MaxBudget)
	assert.Equal(t, models.DifficultyBeginner, idea.Difficulty)
	assert.Equal(t, []string{"teaching", "communication"}, idea.Skills)
	assert.Equal(t, []models.LocationType{models.LocationOnline, models.LocationRural}, idea.LocationTypes)
	assert.Equal(t, "$7B globally", idea.MarketSize)
}

func TestFileSource_JSON(t *testing.T) {
	src := NewFileSource(writeFile(t, "catalog.json", testCatalogJSON))

	ideas, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "home-bakery", ideas[0].ID)
	assert.Equal(t, models.DifficultyIntermediate, ideas[0].Difficulty)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Malformed(t *testing.T) {
	src := NewFileSource(writeFile(t, "catalog.json", "{not json"))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestFileSource_Name(t *testing.T) {
	assert.Equal(t, "file:configs/catalog.yaml", NewFileSource("configs/catalog.yaml").Name())
}

func TestShippedCatalogIsValid(t *testing.T) {
	c, err := Load(context.Background(), NewFileSource("../../configs/catalog.yaml"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Len(), 10)
}
