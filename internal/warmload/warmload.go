// Package warmload implements the Repository Warm-Load (spec.md §4.8):
// a single sequential pass that populates the Hot Ownership Index from
// the Cold Store before the Click Service accepts any traffic.
package warmload

import (
	"context"
	"fmt"

	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/coldstore"
	"github.com/clickplanet/server/internal/hotindex"
)

// Load reads every Ownership from cold via a single streaming GetAll call
// and applies each to hot via SaveClick followed by Reindex, exactly as
// spec.md §4.8 prescribes. A failure here is meant to be fatal to process
// startup; Load itself only returns the error, leaving the fatal decision
// to the caller.
func Load(ctx context.Context, cold coldstore.Store, hot *hotindex.Index) error {
	ownerships, err := cold.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("warmload: read cold store snapshot: %w", err)
	}

	for _, o := range ownerships {
		click := clickmodel.Click{
			TileId:      o.TileId,
			CountryId:   o.CountryId,
			TimestampNs: o.TimestampNs,
		}
		hot.SaveClick(o.TileId, click)
		hot.Reindex(o.TileId, o.CountryId, "")
	}

	return nil
}
