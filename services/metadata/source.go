package metadata

import (
	"context"

	"reelgrid/models"
)

// Source supplies descriptive metadata for titles. It is a pluggable
// capability: in Supabase-first mode the merger runs with Disabled and
// synthesizes fallback entries instead, and call sites never change when a
// real provider is switched on.
type Source interface {
	// Enabled reports whether lookups will do real work. Callers may use it
	// to skip queuing lookups entirely.
	Enabled() bool
	// FindByID fetches one entry by provider identifier.
	FindByID(ctx context.Context, id int64) (*models.CatalogEntry, error)
	// SearchByTitle returns candidate entries for a free-text title, best
	// first. An empty slice means no candidates, not an error.
	SearchByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error)
}

// Disabled is the no-op Source used when no metadata provider is configured.
// Every lookup reports no result without a network round-trip.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) FindByID(context.Context, int64) (*models.CatalogEntry, error) {
	return nil, nil
}

func (Disabled) SearchByTitle(context.Context, string) ([]models.CatalogEntry, error) {
	return nil, nil
}
