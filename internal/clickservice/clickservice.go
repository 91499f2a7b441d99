// Package clickservice implements the Click Service (spec.md §4.2): the
// sole entry point for a player's click, responsible for stamping it with
// a server timestamp and id, durably publishing it to the Click Log, and
// fanning it out to the in-process fast path, grounded on the reference
// implementation's ClickService::process_click.
package clickservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/proto/clickpb"
)

// Clock returns the current time in nanoseconds since the Unix epoch. It
// exists so tests can supply a deterministic clock.
type Clock func() uint64

// RealClock is the production Clock.
func RealClock() uint64 { return uint64(time.Now().UnixNano()) }

// Service processes inbound clicks.
type Service struct {
	log   clicklog.Log
	fast  *broadcast.Bus[clickmodel.Click]
	clock Clock

	// ClicksIngested, if set, is incremented once per successfully
	// published click.
	ClicksIngested prometheus.Counter
}

// New returns a Service that publishes to log and fans out onto fast.
func New(log clicklog.Log, fast *broadcast.Bus[clickmodel.Click], clock Clock) *Service {
	if clock == nil {
		clock = RealClock
	}
	return &Service{log: log, fast: fast, clock: clock}
}

// ProcessClick stamps a claim for tileID by countryID, durably appends it
// to the Click Log, and publishes it on the fast path. It returns the
// stamped response (timestamp and click id) once the Click Log has
// accepted the write; the durable Ownership Update Service and any cold
// storage effects happen asynchronously downstream.
func (s *Service) ProcessClick(ctx context.Context, tileID uint32, countryID string) (*clickmodel.Click, error) {
	click := clickmodel.Click{
		TileId:      tileID,
		CountryId:   countryID,
		TimestampNs: s.clock(),
		ClickId:     uuid.NewString(),
	}

	payload, err := (&clickpb.Click{
		TileId:      int32(click.TileId),
		CountryId:   click.CountryId,
		TimestampNs: click.TimestampNs,
		ClickId:     click.ClickId,
	}).MarshalVT()
	if err != nil {
		return nil, fmt.Errorf("clickservice: encode click: %w", err)
	}

	if err := s.log.Publish(ctx, tileID, payload); err != nil {
		return nil, fmt.Errorf("clickservice: publish click: %w", err)
	}

	s.fast.Send(click)
	if s.ClicksIngested != nil {
		s.ClicksIngested.Inc()
	}

	return &click, nil
}
