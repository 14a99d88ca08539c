package matcher

import (
	"fmt"
	"strings"

	"business-idea-workers/internal/models"
)

const (
	NoteBudgetSurplus    = "Your budget allows for premium equipment and faster scaling opportunities."
	NoteBudgetShortfall  = "Consider starting smaller or seeking additional funding to meet recommended budget."
	NoteUrbanSynergy     = "Urban location provides high customer density and networking opportunities."
	NoteRuralOnline      = "Online business model overcomes rural location limitations effectively."
	NoteBeginnerFriendly = "Perfect starter business with manageable complexity and learning curve."
	NoteAdvancedLeverage = "Leverages your experience for a high-potential, sophisticated business opportunity."
)

// Notes returns the personalized remarks for idea in a fixed rule order. The
// result is never nil.
func Notes(idea *models.IdeaTemplate, profile *models.Profile) []string {
	notes := []string{}

	if profile.Budget > idea.MaxBudget {
		notes = append(notes, NoteBudgetSurplus)
	} else if profile.Budget < idea.MinBudget*1.2 {
		notes = append(notes, NoteBudgetShortfall)
	}

	if profile.Location == models.LocationUrban && idea.SupportsLocation(models.LocationUrban) {
		notes = append(notes, NoteUrbanSynergy)
	} else if profile.Location == models.LocationRural && idea.SupportsLocation(models.LocationOnline) {
		notes = append(notes, NoteRuralOnline)
	}

	if matching := matchingSkills(idea, profile); len(matching) > 0 {
		notes = append(notes, SkillNote(matching))
	}

	if profile.Experience == models.ExperienceBeginner && idea.Difficulty == models.DifficultyBeginner {
		notes = append(notes, NoteBeginnerFriendly)
	} else if profile.Experience == models.ExperienceAdvanced && idea.Difficulty == models.DifficultyAdvanced {
		notes = append(notes, NoteAdvancedLeverage)
	}

	return notes
}

// SkillNote renders the skill-match remark for the given skills.
func SkillNote(skills []string) string {
	return fmt.Sprintf("Your %s skills give you a strong foundation for this business.", strings.Join(skills, " and "))
}

// matchingSkills keeps idea order; interests do not count here.
func matchingSkills(idea *models.IdeaTemplate, profile *models.Profile) []string {
	var out []string
	for _, s := range idea.Skills {
		for _, ps := range profile.Skills {
			if s == ps {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
