package clickservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/proto/clickpb"
)

func fixedClock() uint64 { return 123456789 }

func TestProcessClickPublishesAndBroadcasts(t *testing.T) {
	log := clicklog.NewFakeLog(4)
	bus := broadcast.New[clickmodel.Click](4)
	sub := bus.Subscribe()
	defer sub.Close()

	svc := New(log, bus, fixedClock)

	got, err := svc.ProcessClick(context.Background(), 7, "fr")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got.TileId)
	assert.Equal(t, "fr", got.CountryId)
	assert.Equal(t, uint64(123456789), got.TimestampNs)
	assert.NotEmpty(t, got.ClickId)

	broadcasted, ok := sub.Recv()
	require.True(t, ok)
	assert.Equal(t, *got, broadcasted)

	deliveries, err := log.Subscribe(context.Background())
	require.NoError(t, err)
	d := <-deliveries

	var decoded clickpb.Click
	require.NoError(t, decoded.UnmarshalVT(d.Payload))
	assert.EqualValues(t, 7, decoded.TileId)
	assert.Equal(t, "fr", decoded.CountryId)
	assert.Equal(t, got.ClickId, decoded.ClickId)
}

func TestProcessClickPropagatesPublishError(t *testing.T) {
	bus := broadcast.New[clickmodel.Click](1)
	svc := New(failingLog{}, bus, fixedClock)

	_, err := svc.ProcessClick(context.Background(), 1, "de")
	assert.Error(t, err)
}

type failingLog struct{}

func (failingLog) Publish(ctx context.Context, tileID uint32, payload []byte) error {
	return assert.AnError
}
func (failingLog) Subscribe(ctx context.Context) (<-chan clicklog.Delivery, error) { return nil, nil }
func (failingLog) Close() error                                                    { return nil }
