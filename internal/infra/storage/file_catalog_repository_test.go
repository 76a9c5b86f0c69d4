package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
)

func newCatalogRepo(t *testing.T) (*FileCatalogRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "horoscopes.json")
	return NewFileCatalogRepository(path), path
}

func TestCatalogMissingFileLoadsEmpty(t *testing.T) {
	repo, _ := newCatalogRepo(t)

	c, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestCatalogDamagedFileLoadsEmpty(t *testing.T) {
	repo, path := newCatalogRepo(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"2025-01-01": [what]`), 0o644))

	c, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestCatalogSurvivesSingleUnusableValue(t *testing.T) {
	repo, path := newCatalogRepo(t)
	raw := `{
		"2025-01-01": {"leo": [1, 2, 3], "virgo": "целый"},
		"2025-01-02": {"leo": {"classic": "тоже целый"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	c, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c, 2, "one bad value must not empty the catalog")

	text, ok := c.Resolve("2025-01-01", horoscope.SignVirgo, horoscope.StyleClassic)
	require.True(t, ok)
	assert.Equal(t, "целый", text)

	_, ok = c.Resolve("2025-01-01", horoscope.SignLeo, horoscope.StyleClassic)
	assert.False(t, ok)
}

func TestCatalogSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, path := newCatalogRepo(t)

	raw := `{
		"2025-01-01": {
			"leo": {"classic": "a", "uncensored": "b"},
			"virgo": "plain"
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	c, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	back, err := repo.Load(ctx)
	require.NoError(t, err)

	text, ok := back.Resolve("2025-01-01", horoscope.SignLeo, horoscope.StyleUncensored)
	require.True(t, ok)
	assert.Equal(t, "b", text)

	text, ok = back.Resolve("2025-01-01", horoscope.SignVirgo, horoscope.StyleClassic)
	require.True(t, ok)
	assert.Equal(t, "plain", text)
}
