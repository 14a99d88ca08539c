// Package catalog holds the immutable list of idea templates the matcher ranks
// against, and the sources it can be loaded from.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"business-idea-workers/internal/models"
)

var (
	ErrEmptyCatalog   = errors.New("catalog is empty")
	ErrInvalidCatalog = errors.New("catalog validation failed")
)

// Source supplies raw idea templates.
type Source interface {
	Load(ctx context.Context) ([]models.IdeaTemplate, error)
	Name() string
}

// Catalog is safe for concurrent use; nothing mutates it after New.
type Catalog struct {
	ideas   []models.IdeaTemplate
	index   map[string]int
	version string
}

// New validates ideas and returns a catalog holding a private copy of them.
func New(ideas []models.IdeaTemplate) (*Catalog, error) {
	if len(ideas) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := Validate(ideas); err != nil {
		return nil, err
	}

	c := &Catalog{
		ideas: make([]models.IdeaTemplate, len(ideas)),
		index: make(map[string]int, len(ideas)),
	}
	for i, idea := range ideas {
		c.ideas[i] = idea.Clone()
		c.index[idea.ID] = i
	}

	data, err := json.Marshal(c.ideas)
	if err != nil {
		return nil, fmt.Errorf("fingerprint catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	c.version = hex.EncodeToString(sum[:6])

	return c, nil
}

// Load reads ideas from src and builds a catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	ideas, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", src.Name(), err)
	}
	return New(ideas)
}

// Ideas returns a deep copy of the catalog in load order.
func (c *Catalog) Ideas() []models.IdeaTemplate {
	out := make([]models.IdeaTemplate, len(c.ideas))
	for i, idea := range c.ideas {
		out[i] = idea.Clone()
	}
	return out
}

func (c *Catalog) Get(id string) (models.IdeaTemplate, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.IdeaTemplate{}, false
	}
	return c.ideas[i].Clone(), true
}

// Version is a content fingerprint; it changes whenever any idea changes.
func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Len() int {
	return len(c.ideas)
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, idea := range c.ideas {
		if _, ok := seen[idea.Category]; ok {
			continue
		}
		seen[idea.Category] = struct{}{}
		out = append(out, idea.Category)
	}
	sort.Strings(out)
	return out
}

// Validate reports every entry that breaks the catalog invariants.
func Validate(ideas []models.IdeaTemplate) error {
	var errs []error
	seen := make(map[string]struct{}, len(ideas))

	for i, idea := range ideas {
		ref := fmt.Sprintf("ideas[%d]", i)
		if idea.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", ref))
		} else {
			ref = fmt.Sprintf("ideas[%d] (%s)", i, idea.ID)
			if _, dup := seen[idea.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate id", ref))
			}
			seen[idea.ID] = struct{}{}
		}
		if idea.Title == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", ref))
		}
		if idea.MinBudget < 0 {
			errs = append(errs, fmt.Errorf("%s: minBudget must not be negative", ref))
		}
		if idea.MinBudget > idea.MaxBudget {
			errs = append(errs, fmt.Errorf("%s: minBudget %.0f exceeds maxBudget %.0f", ref, idea.MinBudget, idea.MaxBudget))
		}
		if !idea.Difficulty.Valid() {
			errs = append(errs, fmt.Errorf("%s: unknown difficulty %q", ref, idea.Difficulty))
		}
		if len(idea.LocationTypes) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one location type is required", ref))
		}
		for _, lt := range idea.LocationTypes {
			if !lt.Valid() {
				errs = append(errs, fmt.Errorf("%s: unknown location type %q", ref, lt))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}
