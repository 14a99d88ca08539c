// Package matcher ranks catalog ideas against a user profile.
//
// Everything here is a pure function of its arguments: no I/O, no logging and
// no shared mutable state, so concurrent callers need no coordination.
package matcher

import (
	"math"
	"strings"

	"business-idea-workers/internal/models"
)

const (
	CriterionBudget     = "budget"
	CriterionLocation   = "location"
	CriterionSkills     = "skills"
	CriterionExperience = "experience"
	CriterionInterest   = "interest"
)

// criterion scores one aspect of the fit as a fraction in [0,1] of its weight.
type criterion struct {
	name   string
	weight float64
	fit    func(idea *models.IdeaTemplate, profile *models.Profile) float64
}

// Weights sum to 1.0.
var criteria = []criterion{
	{name: CriterionBudget, weight: 0.30, fit: budgetFit},
	{name: CriterionLocation, weight: 0.20, fit: locationFit},
	{name: CriterionSkills, weight: 0.25, fit: skillFit},
	{name: CriterionExperience, weight: 0.15, fit: experienceFit},
	{name: CriterionInterest, weight: 0.10, fit: interestFit},
}

type Contribution struct {
	Criterion string  `json:"criterion"`
	Weight    float64 `json:"weight"`
	Fit       float64 `json:"fit"`
	Score     float64 `json:"score"`
}

type ScoreBreakdown struct {
	Contributions []Contribution `json:"contributions"`
	Total         float64        `json:"total"`
}

// Contribution returns the weighted score of the named criterion, 0 if absent.
func (b ScoreBreakdown) Contribution(name string) float64 {
	for _, c := range b.Contributions {
		if c.Criterion == name {
			return c.Score
		}
	}
	return 0
}

// Breakdown evaluates every criterion and returns the individual contributions
// along with the normalized total clamped to at most 1.
func Breakdown(idea *models.IdeaTemplate, profile *models.Profile) ScoreBreakdown {
	out := ScoreBreakdown{Contributions: make([]Contribution, 0, len(criteria))}

	var score, maxScore float64
	for _, c := range criteria {
		fit := c.fit(idea, profile)
		contribution := c.weight * fit
		score += contribution
		maxScore += c.weight
		out.Contributions = append(out.Contributions, Contribution{
			Criterion: c.name,
			Weight:    c.weight,
			Fit:       fit,
			Score:     contribution,
		})
	}

	if maxScore > 0 {
		out.Total = math.Min(score/maxScore, 1)
	}
	return out
}

// Score returns the compatibility of idea and profile in [0,1].
func Score(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	return Breakdown(idea, profile).Total
}

func budgetFit(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	if profile.Budget >= idea.MinBudget && profile.Budget <= idea.MaxBudget*1.5 {
		return 1
	}
	if profile.Budget >= idea.MinBudget*0.7 {
		return 0.7
	}
	return 0
}

func locationFit(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	if idea.SupportsLocation(profile.Location) {
		return 1
	}
	return 0
}

// skillFit counts idea skills the user either has or is interested in.
func skillFit(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	known := make(map[string]struct{}, len(profile.Skills)+len(profile.Interests))
	for _, s := range profile.Skills {
		known[s] = struct{}{}
	}
	for _, s := range profile.Interests {
		known[s] = struct{}{}
	}

	matches := 0
	for _, s := range idea.Skills {
		if _, ok := known[s]; ok {
			matches++
		}
	}
	return float64(matches) / float64(max(len(idea.Skills), 1))
}

// experienceFit never drops below 0.5: a two-level mismatch still earns half.
func experienceFit(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	diff := idea.Difficulty.Level() - profile.Experience.Level()
	switch {
	case diff == 0:
		return 1
	case diff == 1 || diff == -1:
		return 0.8
	default:
		return 0.5
	}
}

func interestFit(idea *models.IdeaTemplate, profile *models.Profile) float64 {
	category := strings.ToLower(idea.Category)
	title := strings.ToLower(idea.Title)
	description := strings.ToLower(idea.Description)

	for _, interest := range profile.Interests {
		needle := strings.ToLower(interest)
		if strings.Contains(category, needle) ||
			strings.Contains(title, needle) ||
			strings.Contains(description, needle) {
			return 1
		}
	}
	return 0
}
