// internal/models/idea.go
package models

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Level returns the ordinal 1..3 used by experience matching, 0 if unknown.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	}
	return 0
}

func (d Difficulty) Valid() bool {
	return d.Level() != 0
}

type LocationType string

const (
	LocationUrban    LocationType = "urban"
	LocationSuburban LocationType = "suburban"
	LocationRural    LocationType = "rural"
	LocationOnline   LocationType = "online"
)

var LocationTypes = []LocationType{LocationUrban, LocationSuburban, LocationRural, LocationOnline}

func (l LocationType) Valid() bool {
	for _, v := range LocationTypes {
		if l == v {
			return true
		}
	}
	return false
}

// IdeaTemplate is a static catalog entry. Catalog entries are never mutated after load.
type IdeaTemplate struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"description"`
	Category      string         `json:"category" yaml:"category"`
	MinBudget     float64        `json:"minBudget" yaml:"minBudget"`
	MaxBudget     float64        `json:"maxBudget" yaml:"maxBudget"`
	Revenue       string         `json:"revenue" yaml:"revenue"`
	Difficulty    Difficulty     `json:"difficulty" yaml:"difficulty"`
	TimeToStart   string         `json:"timeToStart" yaml:"timeToStart"`
	Skills        []string       `json:"skills" yaml:"skills"`
	LocationTypes []LocationType `json:"locationTypes" yaml:"locationTypes"`
	Steps         []string       `json:"steps" yaml:"steps"`
	Pros          []string       `json:"pros" yaml:"pros"`
	Cons          []string       `json:"cons" yaml:"cons"`
	MarketSize    string         `json:"marketSize" yaml:"marketSize"`
}

func (i *IdeaTemplate) SupportsLocation(l LocationType) bool {
	for _, lt := range i.LocationTypes {
		if lt == l {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot reach back into catalog slices.
func (i IdeaTemplate) Clone() IdeaTemplate {
	out := i
	out.Skills = cloneStrings(i.Skills)
	out.Steps = cloneStrings(i.Steps)
	out.Pros = cloneStrings(i.Pros)
	out.Cons = cloneStrings(i.Cons)
	if i.LocationTypes != nil {
		out.LocationTypes = append([]LocationType(nil), i.LocationTypes...)
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
