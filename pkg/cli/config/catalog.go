package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/grc-lab/attest/pkg/domain/model/config"
)

// Catalog holds the CLI flag and TOML schema for the rating scales and
// COSO principle reference data.
type Catalog struct {
	path string

	Likelihood []RatingLevel   `toml:"likelihood"`
	Impact     []RatingLevel   `toml:"impact"`
	Principles []CosoPrinciple `toml:"coso_principle"`
}

// RatingLevel is one entry of the likelihood or impact scale
type RatingLevel struct {
	Score       int    `toml:"score"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the RatingLevel is valid
func (l *RatingLevel) Validate() error {
	if l.Name == "" {
		return goerr.New("rating level name is required", goerr.V("score", l.Score))
	}
	if l.Score < 1 || l.Score > 5 {
		return goerr.New("rating score must be between 1 and 5",
			goerr.V("name", l.Name), goerr.V("score", l.Score))
	}
	return nil
}

// CosoPrinciple is one catalogued COSO principle
type CosoPrinciple struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	Component string `toml:"component"`
}

// Validate checks if the CosoPrinciple is valid
func (p *CosoPrinciple) Validate() error {
	if p.ID == "" {
		return goerr.New("COSO principle ID is required", goerr.V("name", p.Name))
	}
	if p.Component == "" {
		return goerr.New("COSO principle component is required", goerr.V("id", p.ID))
	}
	return nil
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the rating scale / COSO catalog TOML file",
			Sources:     cli.EnvVars("ATTEST_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Configure loads and validates the catalog. Without a path the
// built-in default scales are returned.
func (c *Catalog) Configure() (*domainConfig.Catalog, error) {
	if c.path == "" {
		return defaultCatalog(), nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", c.path))
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog file", goerr.V("path", c.path))
	}

	for i := range c.Likelihood {
		if err := c.Likelihood[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid likelihood level")
		}
	}
	for i := range c.Impact {
		if err := c.Impact[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid impact level")
		}
	}
	for i := range c.Principles {
		if err := c.Principles[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid COSO principle")
		}
	}

	return c.toCatalog(), nil
}

func (c *Catalog) toCatalog() *domainConfig.Catalog {
	catalog := &domainConfig.Catalog{}
	for _, l := range c.Likelihood {
		catalog.Likelihood = append(catalog.Likelihood, domainConfig.RatingLevel{
			Score:       l.Score,
			Name:        l.Name,
			Description: l.Description,
		})
	}
	for _, i := range c.Impact {
		catalog.Impact = append(catalog.Impact, domainConfig.RatingLevel{
			Score:       i.Score,
			Name:        i.Name,
			Description: i.Description,
		})
	}
	for _, p := range c.Principles {
		catalog.Principles = append(catalog.Principles, domainConfig.CosoPrinciple{
			ID:        p.ID,
			Name:      p.Name,
			Component: p.Component,
		})
	}
	return catalog
}

// defaultCatalog is the standard 1-5 scale and the 17 COSO principles.
func defaultCatalog() *domainConfig.Catalog {
	scale := []domainConfig.RatingLevel{
		{Score: 1, Name: "Very Low"},
		{Score: 2, Name: "Low"},
		{Score: 3, Name: "Medium"},
		{Score: 4, Name: "High"},
		{Score: 5, Name: "Very High"},
	}

	principles := []domainConfig.CosoPrinciple{
		{ID: "1", Name: "Demonstrates commitment to integrity and ethical values", Component: "Control Environment"},
		{ID: "2", Name: "Exercises oversight responsibility", Component: "Control Environment"},
		{ID: "3", Name: "Establishes structure, authority and responsibility", Component: "Control Environment"},
		{ID: "4", Name: "Demonstrates commitment to competence", Component: "Control Environment"},
		{ID: "5", Name: "Enforces accountability", Component: "Control Environment"},
		{ID: "6", Name: "Specifies suitable objectives", Component: "Risk Assessment"},
		{ID: "7", Name: "Identifies and analyzes risk", Component: "Risk Assessment"},
		{ID: "8", Name: "Assesses fraud risk", Component: "Risk Assessment"},
		{ID: "9", Name: "Identifies and analyzes significant change", Component: "Risk Assessment"},
		{ID: "10", Name: "Selects and develops control activities", Component: "Control Activities"},
		{ID: "11", Name: "Selects and develops general controls over technology", Component: "Control Activities"},
		{ID: "12", Name: "Deploys through policies and procedures", Component: "Control Activities"},
		{ID: "13", Name: "Uses relevant information", Component: "Information & Communication"},
		{ID: "14", Name: "Communicates internally", Component: "Information & Communication"},
		{ID: "15", Name: "Communicates externally", Component: "Information & Communication"},
		{ID: "16", Name: "Conducts ongoing and/or separate evaluations", Component: "Monitoring Activities"},
		{ID: "17", Name: "Evaluates and communicates deficiencies", Component: "Monitoring Activities"},
	}

	return &domainConfig.Catalog{
		Likelihood: scale,
		Impact:     scale,
		Principles: principles,
	}
}
