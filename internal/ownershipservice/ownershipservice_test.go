package ownershipservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/coldstore"
	"github.com/clickplanet/server/internal/hotindex"
	"github.com/clickplanet/server/proto/clickpb"
)

func newHarness(t *testing.T) (*Service, *clicklog.FakeLog, *coldstore.MemoryStore, *hotindex.Index, *broadcast.Bus[clickmodel.Click], *broadcast.Subscription[clickmodel.UpdateNotification]) {
	log := clicklog.NewFakeLog(16)
	cold := coldstore.NewMemoryStore()
	hot := hotindex.New()
	fast := broadcast.New[clickmodel.Click](16)
	notify := broadcast.New[clickmodel.UpdateNotification](16)
	notifySub := notify.Subscribe()

	svc := New(log, cold, hot, fast, notify, Config{DurableWorkers: 2, FastWorkers: 2}, zaptest.NewLogger(t))
	return svc, log, cold, hot, fast, notifySub
}

func TestApplyClickEmitsNotificationOnCountryChange(t *testing.T) {
	svc, _, _, hot, _, notifySub := newHarness(t)

	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 10})
	n, ok := notifySub.Recv()
	require.True(t, ok)
	assert.Equal(t, clickmodel.UpdateNotification{TileId: 1, CountryId: "fr", PreviousCountryId: ""}, n)

	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "de", TimestampNs: 20})
	n, ok = notifySub.Recv()
	require.True(t, ok)
	assert.Equal(t, clickmodel.UpdateNotification{TileId: 1, CountryId: "de", PreviousCountryId: "fr"}, n)

	assert.Equal(t, "de", hot.GetTile(1).CountryId)
}

func TestApplyClickSuppressesNotificationWhenCountryUnchanged(t *testing.T) {
	svc, _, _, _, _, notifySub := newHarness(t)

	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 10})
	_, ok := notifySub.Recv()
	require.True(t, ok)

	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 20})

	select {
	case <-time.After(50 * time.Millisecond):
	case n, ok := <-recvChan(notifySub):
		t.Fatalf("unexpected notification: %+v ok=%v", n, ok)
	}
}

func TestApplyClickIgnoresStaleClickWithDifferentCountry(t *testing.T) {
	svc, _, _, hot, _, notifySub := newHarness(t)

	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "de", TimestampNs: 20})
	_, ok := notifySub.Recv()
	require.True(t, ok)

	// A stale click for a different country must not move the reverse
	// index or emit a notification: the forward map never changed.
	svc.applyClick(clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 10})

	select {
	case <-time.After(50 * time.Millisecond):
	case n, ok := <-recvChan(notifySub):
		t.Fatalf("unexpected notification: %+v ok=%v", n, ok)
	}

	assert.Equal(t, "de", hot.GetTile(1).CountryId)
	assert.EqualValues(t, 1, hot.ScoreOf("de"))
	assert.EqualValues(t, 0, hot.ScoreOf("fr"))
}

func recvChan(sub *broadcast.Subscription[clickmodel.UpdateNotification]) <-chan clickmodel.UpdateNotification {
	ch := make(chan clickmodel.UpdateNotification, 1)
	go func() {
		if n, ok := sub.Recv(); ok {
			ch <- n
		}
	}()
	return ch
}

func TestRunDurablePathPersistsToColdStoreAndAcks(t *testing.T) {
	svc, log, cold, hot, _, notifySub := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = svc.Run(ctx)
		close(done)
	}()

	wire := &clickpb.Click{TileId: 5, CountryId: "it", TimestampNs: 99, ClickId: "abc"}
	payload, err := wire.MarshalVT()
	require.NoError(t, err)
	require.NoError(t, log.Publish(ctx, 5, payload))

	require.Eventually(t, func() bool {
		o := hot.GetTile(5)
		return o != nil && o.CountryId == "it"
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		o, err := cold.GetTile(ctx, 5)
		return err == nil && o != nil && o.CountryId == "it"
	}, time.Second, 5*time.Millisecond)

	n, ok := notifySub.Recv()
	require.True(t, ok)
	assert.Equal(t, uint32(5), n.TileId)
	assert.Equal(t, "it", n.CountryId)

	require.Eventually(t, func() bool { return len(log.Acked()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRunDurablePathDropsUndecodableMessage(t *testing.T) {
	svc, log, _, _, _, _ := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = svc.Run(ctx)
		close(done)
	}()

	require.NoError(t, log.Publish(ctx, 1, []byte{0xFF, 0xFF, 0xFF}))

	require.Eventually(t, func() bool { return len(log.Acked()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
