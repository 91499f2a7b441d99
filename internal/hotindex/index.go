// Package hotindex implements the in-memory, authoritative tile ownership
// map described in spec.md §4.2: a forward map tileId -> (country,
// timestamp) ordered by tile id, and a reverse map country -> set of tile
// ids maintained for the leaderboard. All reads and writes are safe for
// concurrent use.
package hotindex

import (
	"sync"
	"sync/atomic"

	"github.com/google/btree"

	"github.com/clickplanet/server/internal/clickmodel"
)

// ownershipValue is the immutable value swapped into a tileRecord by
// SaveClick. Pointers to it are safe to read without locking.
type ownershipValue struct {
	country     string
	timestampNs uint64
}

// tileRecord is the B-tree node: a stable key plus an atomically swappable
// value, so that updating an existing tile's owner never touches the
// tree's structural lock.
type tileRecord struct {
	tileID uint32
	value  atomic.Pointer[ownershipValue]
}

func lessTileRecord(a, b *tileRecord) bool {
	return a.tileID < b.tileID
}

// Index is the Hot Ownership Index. The zero value is not usable; use New.
type Index struct {
	treeMu sync.RWMutex
	tree   *btree.BTreeG[*tileRecord]

	revMu   sync.RWMutex
	reverse map[string]map[uint32]struct{}
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		tree:    btree.NewG(32, lessTileRecord),
		reverse: make(map[string]map[uint32]struct{}),
	}
}

// GetTile returns the current ownership of tileID, or nil if unowned.
func (idx *Index) GetTile(tileID uint32) *clickmodel.Ownership {
	idx.treeMu.RLock()
	rec, ok := idx.tree.Get(&tileRecord{tileID: tileID})
	idx.treeMu.RUnlock()
	if !ok {
		return nil
	}
	v := rec.value.Load()
	if v == nil {
		return nil
	}
	return &clickmodel.Ownership{TileId: tileID, CountryId: v.country, TimestampNs: v.timestampNs}
}

// GetAll returns every owned tile, ordered by tile id.
func (idx *Index) GetAll() []clickmodel.Ownership {
	var out []clickmodel.Ownership
	idx.treeMu.RLock()
	idx.tree.Ascend(func(rec *tileRecord) bool {
		v := rec.value.Load()
		if v != nil {
			out = append(out, clickmodel.Ownership{TileId: rec.tileID, CountryId: v.country, TimestampNs: v.timestampNs})
		}
		return true
	})
	idx.treeMu.RUnlock()
	return out
}

// GetRange returns every owned tile with start <= tileId <= end, ordered by
// tile id.
func (idx *Index) GetRange(start, end uint32) []clickmodel.Ownership {
	var out []clickmodel.Ownership
	idx.treeMu.RLock()
	idx.tree.AscendRange(&tileRecord{tileID: start}, &tileRecord{tileID: end + 1}, func(rec *tileRecord) bool {
		v := rec.value.Load()
		if v != nil {
			out = append(out, clickmodel.Ownership{TileId: rec.tileID, CountryId: v.country, TimestampNs: v.timestampNs})
		}
		return true
	})
	idx.treeMu.RUnlock()
	return out
}

// SaveClick applies click with last-writer-wins semantics: if no record
// exists for the tile, or the existing record's timestamp is strictly less
// than click.TimestampNs, the record is replaced. The previous ownership
// (if any) is always returned, whether or not the write took effect; applied
// reports whether click actually replaced it, so callers can tell a genuine
// ownership change from a stale click that lost LWW.
func (idx *Index) SaveClick(tileID uint32, click clickmodel.Click) (previous *clickmodel.Ownership, applied bool) {
	rec := idx.recordFor(tileID)

	for {
		old := rec.value.Load()
		if old != nil {
			prev := &clickmodel.Ownership{TileId: tileID, CountryId: old.country, TimestampNs: old.timestampNs}
			if click.TimestampNs <= old.timestampNs {
				return prev, false
			}
			next := &ownershipValue{country: click.CountryId, timestampNs: click.TimestampNs}
			if rec.value.CompareAndSwap(old, next) {
				return prev, true
			}
			continue
		}
		next := &ownershipValue{country: click.CountryId, timestampNs: click.TimestampNs}
		if rec.value.CompareAndSwap(nil, next) {
			return nil, true
		}
	}
}

// recordFor returns the tileRecord for tileID, inserting an empty one under
// the tree's write lock if absent.
func (idx *Index) recordFor(tileID uint32) *tileRecord {
	idx.treeMu.RLock()
	rec, ok := idx.tree.Get(&tileRecord{tileID: tileID})
	idx.treeMu.RUnlock()
	if ok {
		return rec
	}

	idx.treeMu.Lock()
	defer idx.treeMu.Unlock()
	if rec, ok = idx.tree.Get(&tileRecord{tileID: tileID}); ok {
		return rec
	}
	rec = &tileRecord{tileID: tileID}
	idx.tree.ReplaceOrInsert(rec)
	return rec
}

// Reindex moves tileID from oldCountry's reverse-index set (if non-empty)
// into newCountry's. Empty sets are purged so absent countries never
// appear in Leaderboard.
func (idx *Index) Reindex(tileID uint32, newCountry, oldCountry string) {
	idx.revMu.Lock()
	defer idx.revMu.Unlock()

	if newCountry != "" {
		set, ok := idx.reverse[newCountry]
		if !ok {
			set = make(map[uint32]struct{})
			idx.reverse[newCountry] = set
		}
		set[tileID] = struct{}{}
	}

	if oldCountry != "" && oldCountry != newCountry {
		if set, ok := idx.reverse[oldCountry]; ok {
			delete(set, tileID)
			if len(set) == 0 {
				delete(idx.reverse, oldCountry)
			}
		}
	}
}

// ScoreOf returns the number of tiles currently owned by country.
func (idx *Index) ScoreOf(country string) uint32 {
	idx.revMu.RLock()
	defer idx.revMu.RUnlock()
	return uint32(len(idx.reverse[country]))
}

// Leaderboard returns a snapshot of every country with a non-zero score.
func (idx *Index) Leaderboard() map[string]uint32 {
	idx.revMu.RLock()
	defer idx.revMu.RUnlock()
	out := make(map[string]uint32, len(idx.reverse))
	for country, set := range idx.reverse {
		out[country] = uint32(len(set))
	}
	return out
}
