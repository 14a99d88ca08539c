// Package validation checks job variables against JSON schemas before any
// worker logic runs.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"business-idea-workers/internal/models"
	"business-idea-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every schema violation found in one document.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

// Validator holds the compiled input schema of each registered task type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the input schema of every activity in reg. Activities
// with an empty schema accept any input.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return v, nil
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema of %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// ValidateVariables checks raw job variables (a JSON object) against the
// task type's input schema.
func (v *Validator) ValidateVariables(taskType, variables string) error {
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	return check(schema, gojsonschema.NewStringLoader(variables))
}

const profileSchemaJSON = `{
  "type": "object",
  "properties": {
    "budget": { "type": "number", "minimum": 0 },
    "interests": { "type": ["array", "null"], "items": { "type": "string" } },
    "skills": { "type": ["array", "null"], "items": { "type": "string" } },
    "location": { "type": "string", "enum": ["urban", "suburban", "rural", "online"] },
    "experience": { "type": "string", "enum": ["beginner", "intermediate", "advanced"] },
    "timeCommitment": { "type": "string", "enum": ["part-time", "full-time"] }
  },
  "required": ["budget", "location", "experience", "timeCommitment"]
}`

var profileSchema = mustCompile(profileSchemaJSON)

// ValidateProfile rejects profiles with negative budgets or values outside
// the known location, experience and time commitment sets.
func ValidateProfile(p *models.Profile) error {
	if p == nil {
		return &Error{Fields: []FieldError{{Field: "profile", Message: "profile is required"}}}
	}
	return check(profileSchema, gojsonschema.NewGoLoader(p))
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &Error{Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, FieldError{Field: re.Field(), Message: re.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &Error{Fields: fields}
}

func mustCompile(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("validation: bad built-in schema: %v", err))
	}
	return schema
}
