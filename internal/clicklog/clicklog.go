// Package clicklog is the Click Log: a named, durable, partitioned
// append-only stream with one subject per tile id, as specified in
// spec.md §4.3. It is the durable, at-least-once transport between the
// Click Service (sole publisher) and the Ownership Update Service (sole
// durable consumer).
package clicklog

import (
	"context"
	"fmt"
)

// StreamName is the JetStream stream backing the Click Log.
const StreamName = "CLICKS"

// SubjectPrefix is prepended to a tile id to form its publish subject.
const SubjectPrefix = "clicks.tile."

// Subject returns the publish subject for tileID.
func Subject(tileID uint32) string {
	return fmt.Sprintf("%s%d", SubjectPrefix, tileID)
}

// Delivery is one message handed to a durable consumer. Ack must be called
// exactly once after the message has been handled, per spec.md §4.3 and
// §4.5's ack-on-every-outcome policy.
type Delivery struct {
	Subject string
	Payload []byte
	Ack     func() error
}

// Log is the Click Log contract: a single publisher (the Click Service)
// and a single durable pull-consumer group (the Ownership Update
// Service's durable worker pool).
type Log interface {
	Publish(ctx context.Context, tileID uint32, payload []byte) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
	Close() error
}
