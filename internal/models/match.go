// internal/models/match.go
package models

// MatchResult is an idea annotated for one profile. The embedded template is a
// copy; results are never written back to the catalog.
type MatchResult struct {
	IdeaTemplate
	MatchScore        float64  `json:"matchScore"`
	PersonalizedNotes []string `json:"personalizedNotes"`
}
