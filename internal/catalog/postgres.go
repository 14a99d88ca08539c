package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"business-idea-workers/internal/models"

	"github.com/lib/pq"
)

const selectIdeasQuery = `
	SELECT id, title, description, category, min_budget, max_budget, revenue,
	       difficulty, time_to_start, skills, location_types, steps, pros, cons, market_size
	FROM business_ideas
	WHERE active = TRUE
	ORDER BY position, id`

// PostgresSource loads ideas from the business_ideas table. Skills and
// location types are text[] columns; steps, pros and cons are JSONB arrays.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string {
	return "postgres:business_ideas"
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.IdeaTemplate, error) {
	rows, err := s.db.QueryContext(ctx, selectIdeasQuery)
	if err != nil {
		return nil, fmt.Errorf("query business_ideas: %w", err)
	}
	defer rows.Close()

	var ideas []models.IdeaTemplate
	for rows.Next() {
		var (
			idea                  models.IdeaTemplate
			difficulty            string
			skills, locationTypes []string
			steps, pros, cons     []byte
		)
		if err := rows.Scan(
			&idea.ID, &idea.Title, &idea.Description, &idea.Category,
			&idea.MinBudget, &idea.MaxBudget, &idea.Revenue,
			&difficulty, &idea.TimeToStart,
			pq.Array(&skills), pq.Array(&locationTypes),
			&steps, &pros, &cons, &idea.MarketSize,
		); err != nil {
			return nil, fmt.Errorf("scan business idea: %w", err)
		}

		idea.Difficulty = models.Difficulty(difficulty)
		idea.Skills = skills
		for _, lt := range locationTypes {
			idea.LocationTypes = append(idea.LocationTypes, models.LocationType(lt))
		}
		if err := decodeList(steps, &idea.Steps); err != nil {
			return nil, fmt.Errorf("idea %s steps: %w", idea.ID, err)
		}
		if err := decodeList(pros, &idea.Pros); err != nil {
			return nil, fmt.Errorf("idea %s pros: %w", idea.ID, err)
		}
		if err := decodeList(cons, &idea.Cons); err != nil {
			return nil, fmt.Errorf("idea %s cons: %w", idea.ID, err)
		}

		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business_ideas: %w", err)
	}
	return ideas, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
