package coldstore

import (
	"context"
	"sort"
	"sync"

	"github.com/clickplanet/server/internal/clickmodel"
)

// MemoryStore is an in-memory Store used by tests that need a Cold Store
// without a live Redis instance.
type MemoryStore struct {
	mu    sync.Mutex
	tiles map[uint32]clickmodel.Ownership
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tiles: make(map[uint32]clickmodel.Ownership)}
}

func (s *MemoryStore) GetTile(_ context.Context, tileID uint32) (*clickmodel.Ownership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.tiles[tileID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *MemoryStore) GetRange(_ context.Context, start, end uint32) ([]clickmodel.Ownership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []clickmodel.Ownership
	for id, o := range s.tiles {
		if id >= start && id <= end {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TileId < out[j].TileId })
	return out, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]clickmodel.Ownership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clickmodel.Ownership, 0, len(s.tiles))
	for _, o := range s.tiles {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TileId < out[j].TileId })
	return out, nil
}

func (s *MemoryStore) SaveClick(_ context.Context, tileID uint32, click clickmodel.Click) (*clickmodel.Ownership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tiles[tileID]
	if ok {
		prev := existing
		if click.TimestampNs <= existing.TimestampNs {
			return &prev, nil
		}
		s.tiles[tileID] = clickmodel.Ownership{TileId: tileID, CountryId: click.CountryId, TimestampNs: click.TimestampNs}
		return &prev, nil
	}
	s.tiles[tileID] = clickmodel.Ownership{TileId: tileID, CountryId: click.CountryId, TimestampNs: click.TimestampNs}
	return nil, nil
}

var _ Store = (*MemoryStore)(nil)
