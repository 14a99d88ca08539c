package catalog

import (
	"context"
	"errors"
	"testing"

	"business-idea-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ideaColumns = []string{
	"id", "title", "description", "category", "min_budget", "max_budget", "revenue",
	"difficulty", "time_to_start", "skills", "location_types", "steps", "pros", "cons", "market_size",
}

func TestPostgresSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(ideaColumns).
		AddRow("web-design-studio", "Web Design Studio", "Build sites", "Technology", 1000.0, 5000.0,
			"$2,000-$8,000/month", "Beginner", "1-2 weeks", "{programming,design}", "{online,urban}",
			[]byte(`["Build a portfolio","Find clients"]`), []byte(`["Low cost"]`), []byte(`["Competition"]`), "$40B").
		AddRow("saas-product", "SaaS Product", "Subscription software", "Technology", 10000.0, 50000.0,
			"$5,000-$50,000/month", "Advanced", "3-6 months", "{programming}", "{online}",
			nil, nil, nil, "$200B")

	mock.ExpectQuery("SELECT id, title").WillReturnRows(rows)

	ideas, err := NewPostgresSource(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 2)

	first := ideas[0]
	assert.Equal(t, "web-design-studio", first.ID)
	assert.Equal(t, 1000.0, first.MinBudget)
	assert.Equal(t, models.DifficultyBeginner, first.Difficulty)
	assert.Equal(t, []string{"programming", "design"}, first.Skills)
	assert.Equal(t, []models.LocationType{models.LocationOnline, models.LocationUrban}, first.LocationTypes)
	assert.Equal(t, []string{"Build a portfolio", "Find clients"}, first.Steps)
	assert.Equal(t, []string{"Low cost"}, first.Pros)

	second := ideas[1]
	assert.Equal(t, models.DifficultyAdvanced, second.Difficulty)
	assert.Nil(t, second.Steps)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title").WillReturnError(errors.New("connection refused"))

	_, err = NewPostgresSource(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query business_ideas")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_BadJSONColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(ideaColumns).
		AddRow("broken", "Broken", "", "Misc", 0.0, 10.0, "", "Beginner", "", "{}", "{online}",
			[]byte(`{"not":"a list"}`), nil, nil, "")
	mock.ExpectQuery("SELECT id, title").WillReturnRows(rows)

	_, err = NewPostgresSource(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idea broken steps")
}

func TestPostgresSource_FeedsCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(ideaColumns).
		AddRow("dup", "One", "", "Misc", 0.0, 10.0, "", "Beginner", "", "{}", "{online}", nil, nil, nil, "").
		AddRow("dup", "Two", "", "Misc", 0.0, 10.0, "", "Beginner", "", "{}", "{online}", nil, nil, nil, "")
	mock.ExpectQuery("SELECT id, title").WillReturnRows(rows)

	_, err = Load(context.Background(), NewPostgresSource(db))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
