package coldstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickplanet/server/internal/clickmodel"
)

func TestMemoryStoreSaveClickFirstWriteHasNoPrevious(t *testing.T) {
	s := NewMemoryStore()
	prev, err := s.SaveClick(context.Background(), 1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 10})
	require.NoError(t, err)
	assert.Nil(t, prev)

	tile, err := s.GetTile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, tile)
	assert.Equal(t, "fr", tile.CountryId)
}

func TestMemoryStoreSaveClickLastWriterWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 10})
	require.NoError(t, err)

	prev, err := s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "de", TimestampNs: 20})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "fr", prev.CountryId)

	tile, err := s.GetTile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "de", tile.CountryId)
}

func TestMemoryStoreSaveClickRejectsStaleWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 20})
	require.NoError(t, err)

	prev, err := s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "de", TimestampNs: 10})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "fr", prev.CountryId)

	tile, err := s.GetTile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "fr", tile.CountryId, "a stale write must not replace the existing record")
}

func TestMemoryStoreSaveClickRejectsEqualTimestamp(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 20})
	require.NoError(t, err)

	_, err = s.SaveClick(ctx, 1, clickmodel.Click{TileId: 1, CountryId: "de", TimestampNs: 20})
	require.NoError(t, err)

	tile, err := s.GetTile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "fr", tile.CountryId, "a tied timestamp favors the existing writer")
}

func TestMemoryStoreGetTileUnknownReturnsNil(t *testing.T) {
	s := NewMemoryStore()
	tile, err := s.GetTile(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, tile)
}

func TestMemoryStoreGetRangeAndGetAll(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, c := range []struct {
		tile uint32
		ctry string
	}{{1, "fr"}, {5, "de"}, {10, "it"}} {
		_, err := s.SaveClick(ctx, c.tile, clickmodel.Click{TileId: c.tile, CountryId: c.ctry, TimestampNs: 1})
		require.NoError(t, err)
	}

	ranged, err := s.GetRange(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, uint32(5), ranged[0].TileId)
	assert.Equal(t, uint32(10), ranged[1].TileId)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
