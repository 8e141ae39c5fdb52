package config

// NewCatalogForTest creates a Catalog config for testing purposes
func NewCatalogForTest(path string) *Catalog {
	return &Catalog{path: path}
}
