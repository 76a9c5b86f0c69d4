package horoscope

import (
	"context"
)

// Repository defines the operations for loading and persisting the catalog.
// The catalog is populated by an external editing process; this bot only
// reads it and rewrites it after pruning.
type Repository interface {
	// Load returns the full catalog. A missing or damaged store must load
	// as an empty catalog rather than fail the caller.
	Load(ctx context.Context) (Catalog, error)
	Save(ctx context.Context, c Catalog) error
}
