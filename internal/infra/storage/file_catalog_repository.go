package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

// FileCatalogRepository persists the horoscope catalog as a single JSON
// file: date -> sign -> text or style-keyed object. The file is edited by
// an external content process, so it is re-read from disk on every Load.
type FileCatalogRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileCatalogRepository(path string) *FileCatalogRepository {
	return &FileCatalogRepository{path: path}
}

func (r *FileCatalogRepository) Load(ctx context.Context) (horoscope.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		// missing catalog means nothing to deliver, not a failure
		return horoscope.Catalog{}, nil
	}
	var c horoscope.Catalog
	if err := json.Unmarshal(data, &c); err != nil || c == nil {
		// a damaged catalog loads as empty; the next prune rewrite heals it
		return horoscope.Catalog{}, nil
	}
	return c, nil
}

func (r *FileCatalogRepository) Save(ctx context.Context, c horoscope.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSONFile(r.path, c); err != nil {
		return fmt.Errorf("error saving catalog: %w", err)
	}
	return nil
}
