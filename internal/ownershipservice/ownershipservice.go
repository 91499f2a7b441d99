// Package ownershipservice implements the Ownership Update Service
// (spec.md §4.5): the sole mutator of the Hot Ownership Index and sole
// producer of UpdateNotifications, fed concurrently by the durable Click
// Log consumer and the in-process fast-path broadcast. Grounded on the
// reference implementation's OwnershipUpdateService and
// jetstream_click_streamer.rs's ClickConsumer, merged into one service per
// spec.md §2's redesign.
package ownershipservice

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/coldstore"
	"github.com/clickplanet/server/internal/hotindex"
	"github.com/clickplanet/server/proto/clickpb"
)

// Config tunes per-source worker concurrency.
type Config struct {
	DurableWorkers int
	FastWorkers    int
}

// DefaultConfig returns 4 workers per source, the reference implementation's
// concurrent_processors default.
func DefaultConfig() Config {
	return Config{DurableWorkers: 4, FastWorkers: 4}
}

// Service applies clicks from both input sources to the Hot Ownership
// Index and emits UpdateNotifications for observed ownership changes.
type Service struct {
	log    clicklog.Log
	cold   coldstore.Store
	hot    *hotindex.Index
	fast   *broadcast.Bus[clickmodel.Click]
	notify *broadcast.Bus[clickmodel.UpdateNotification]
	cfg    Config
	logger *zap.Logger

	// OwnershipUpdates, if set, is incremented on every applied ownership
	// change; HotIndexTilesOwned, if set, is incremented on a tile's first
	// claim.
	OwnershipUpdates   prometheus.Counter
	HotIndexTilesOwned prometheus.Gauge
}

// New wires a Service. logger may be nil, in which case zap.NewNop is used.
func New(log clicklog.Log, cold coldstore.Store, hot *hotindex.Index, fast *broadcast.Bus[clickmodel.Click], notify *broadcast.Bus[clickmodel.UpdateNotification], cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DurableWorkers <= 0 {
		cfg.DurableWorkers = 1
	}
	if cfg.FastWorkers <= 0 {
		cfg.FastWorkers = 1
	}
	return &Service{log: log, cold: cold, hot: hot, fast: fast, notify: notify, cfg: cfg, logger: logger}
}

// Run drives both worker pools until ctx is done. It returns once every
// worker has exited.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	deliveries, err := s.log.Subscribe(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < s.cfg.DurableWorkers; i++ {
		g.Go(func() error {
			s.runDurable(ctx, deliveries)
			return nil
		})
	}

	sub := s.fast.Subscribe()
	for i := 0; i < s.cfg.FastWorkers; i++ {
		g.Go(func() error {
			s.runFast(ctx, sub)
			return nil
		})
	}

	<-ctx.Done()
	sub.Close()
	return g.Wait()
}

func (s *Service) runDurable(ctx context.Context, deliveries <-chan clicklog.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			s.handleDurable(ctx, d)
		}
	}
}

func (s *Service) handleDurable(ctx context.Context, d clicklog.Delivery) {
	defer func() {
		if err := d.Ack(); err != nil {
			s.logger.Error("ack failed", zap.String("subject", d.Subject), zap.Error(err))
		}
	}()

	var wire clickpb.Click
	if err := wire.UnmarshalVT(d.Payload); err != nil {
		s.logger.Warn("dropping undecodable click", zap.String("subject", d.Subject), zap.Error(err))
		return
	}
	click := clickmodel.Click{
		TileId:      uint32(wire.TileId),
		CountryId:   wire.CountryId,
		TimestampNs: wire.TimestampNs,
		ClickId:     wire.ClickId,
	}

	s.applyClick(click)

	if _, err := s.cold.SaveClick(ctx, click.TileId, click); err != nil {
		s.logger.Error("cold store persist failed", zap.Uint32("tile_id", click.TileId), zap.Error(err))
	}
}

func (s *Service) runFast(ctx context.Context, sub *broadcast.Subscription[clickmodel.Click]) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		click, ok := sub.Recv()
		if !ok {
			return
		}
		s.applyClick(click)
	}
}

// applyClick is the pure handler shared by both worker pools (spec.md
// §4.5): it writes click into the Hot Ownership Index, and if the owning
// country actually changed, maintains the reverse index and emits an
// UpdateNotification.
func (s *Service) applyClick(click clickmodel.Click) {
	previous, applied := s.hot.SaveClick(click.TileId, click)
	if !applied {
		// The click lost last-writer-wins against the stored record; the
		// forward map was left untouched, so the reverse index and any
		// notification must be too.
		return
	}

	oldCountry := ""
	changed := previous == nil
	if previous != nil {
		oldCountry = previous.CountryId
		changed = previous.CountryId != click.CountryId
	}
	if !changed {
		return
	}

	s.hot.Reindex(click.TileId, click.CountryId, oldCountry)
	s.notify.Send(clickmodel.UpdateNotification{
		TileId:            click.TileId,
		CountryId:         click.CountryId,
		PreviousCountryId: oldCountry,
	})

	if s.OwnershipUpdates != nil {
		s.OwnershipUpdates.Inc()
	}
	// A tile is created once on its first click and never deleted, so the
	// owned-tile gauge only ever needs to step up by one here rather than
	// re-scan the whole index.
	if s.HotIndexTilesOwned != nil && previous == nil {
		s.HotIndexTilesOwned.Inc()
	}
}
