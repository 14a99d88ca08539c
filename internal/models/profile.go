// internal/models/profile.go
package models

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

func (e Experience) Level() int {
	switch e {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceAdvanced:
		return 3
	}
	return 0
}

type TimeCommitment string

const (
	TimeCommitmentPartTime TimeCommitment = "part-time"
	TimeCommitmentFullTime TimeCommitment = "full-time"
)

// Profile is the per-submission user input. TimeCommitment is carried for the
// display layer only and does not take part in scoring.
type Profile struct {
	Budget         float64        `json:"budget"`
	Interests      []string       `json:"interests"`
	Skills         []string       `json:"skills"`
	Location       LocationType   `json:"location"`
	Experience     Experience     `json:"experience"`
	TimeCommitment TimeCommitment `json:"timeCommitment"`
}
