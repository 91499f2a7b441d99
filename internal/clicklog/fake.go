package clicklog

import (
	"context"
	"sync"
)

// FakeLog is an in-memory Log used by tests. Every Subscribe call shares
// the same work queue, mirroring a JetStream durable consumer's delivery
// semantics across a pool of pulling workers: each published message is
// handed to exactly one reader.
type FakeLog struct {
	mu      sync.Mutex
	queue   chan Delivery
	acked   []string
	closed  bool
	onAck   func(subject string)
}

// NewFakeLog returns a ready-to-use FakeLog with the given queue capacity.
func NewFakeLog(capacity int) *FakeLog {
	return &FakeLog{queue: make(chan Delivery, capacity)}
}

// Publish enqueues payload under tileID's subject. It never blocks the
// caller on a missing subscriber beyond the configured capacity.
func (f *FakeLog) Publish(ctx context.Context, tileID uint32, payload []byte) error {
	select {
	case f.queue <- Delivery{Subject: Subject(tileID), Payload: payload, Ack: func() error {
		f.mu.Lock()
		f.acked = append(f.acked, Subject(tileID))
		cb := f.onAck
		f.mu.Unlock()
		if cb != nil {
			cb(Subject(tileID))
		}
		return nil
	}}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns the shared delivery queue. It is safe to call from
// several goroutines to emulate concurrent durable-consumer workers.
func (f *FakeLog) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	return f.queue, nil
}

// Close marks the fake closed; pending deliveries are left in place so
// tests can assert on drained-vs-dropped behavior explicitly.
func (f *FakeLog) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Acked returns the subjects that have been acknowledged so far, in order.
func (f *FakeLog) Acked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.acked))
	copy(out, f.acked)
	return out
}

// OnAck installs a callback invoked synchronously whenever a delivery
// produced by this fake is acknowledged.
func (f *FakeLog) OnAck(cb func(subject string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onAck = cb
}

var _ Log = (*FakeLog)(nil)
