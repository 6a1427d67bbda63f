package repository

import "go-teeth-classifier/pkg/models"

// CatalogRepository defines read access to the per-label reference text
type CatalogRepository interface {
	// Lookup returns the entry for label, or the fallback entry for an unknown label
	Lookup(label models.ClassLabel) models.CatalogEntry

	// Get returns the entry for a label code and whether it exists
	Get(code string) (models.CatalogEntry, bool)

	// All returns every entry in label order
	All() []models.CatalogEntry

	// Suggest returns the known code closest to code, or "" when nothing is close
	Suggest(code string) string
}
