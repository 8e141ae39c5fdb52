package config

import "fmt"

// RatingLevel is one entry of the likelihood or impact scale.
type RatingLevel struct {
	Score       int
	Name        string
	Description string
}

// Label renders the level in the canonical "N - Label" rating form.
func (l RatingLevel) Label() string {
	return fmt.Sprintf("%d - %s", l.Score, l.Name)
}

// CosoPrinciple is one catalogued COSO internal-control principle.
type CosoPrinciple struct {
	ID        string
	Name      string
	Component string
}

// Catalog holds the configured rating scales and the COSO principle
// reference data used by control validation.
type Catalog struct {
	Likelihood []RatingLevel
	Impact     []RatingLevel
	Principles []CosoPrinciple
}

// Principle looks up a COSO principle by ID.
func (c *Catalog) Principle(id string) (CosoPrinciple, bool) {
	for _, p := range c.Principles {
		if p.ID == id {
			return p, true
		}
	}
	return CosoPrinciple{}, false
}
