package clicklog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ConsumerName is the durable pull consumer that feeds the Ownership
// Update Service. Only one logical consumer of this name should ever be
// running; JetStream load-balances its deliveries across every process
// that opens it, which is how the durable-path workers fan out.
const ConsumerName = "tile-state-processor"

// Config tunes the durable consumer. Defaults mirror the reference
// implementation's ConsumerConfig.
type Config struct {
	AckWait              time.Duration
	MaxDeliver           int
	ConcurrentProcessors int
	StreamMaxAge         time.Duration
}

// DefaultConfig returns the reference tuning: 30s ack wait, at most 3 deliveries,
// 4 concurrent handlers, an 8 hour retention window.
func DefaultConfig() Config {
	return Config{
		AckWait:              30 * time.Second,
		MaxDeliver:           3,
		ConcurrentProcessors: 4,
		StreamMaxAge:         8 * time.Hour,
	}
}

// NATSLog is the Click Log backed by a NATS JetStream stream, grounded on
// the reference implementation's get_or_create_jet_stream and ClickConsumer.
type NATSLog struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
	cfg    Config
}

// Connect dials natsURL, then ensures the CLICKS stream exists with one
// subject per tile id and discard-oldest retention over cfg.StreamMaxAge.
func Connect(ctx context.Context, natsURL string, cfg Config) (*NATSLog, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("clicklog: connect: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("clicklog: jetstream: %w", err)
	}

	streamCfg := jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPrefix + "*"},
		MaxAge:   cfg.StreamMaxAge,
		Discard:  jetstream.DiscardOld,
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamCfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("clicklog: ensure stream: %w", err)
	}

	return &NATSLog{conn: conn, js: js, stream: stream, cfg: cfg}, nil
}

// Close closes the underlying NATS connection (a plain Close, not a Drain).
func (l *NATSLog) Close() error {
	l.conn.Close()
	return nil
}

// Publish appends payload to the stream on tileID's subject and blocks
// until the broker has durably stored it.
func (l *NATSLog) Publish(ctx context.Context, tileID uint32, payload []byte) error {
	_, err := l.js.Publish(ctx, Subject(tileID), payload)
	if err != nil {
		return fmt.Errorf("clicklog: publish: %w", err)
	}
	return nil
}

// Subscribe opens (or rejoins) the durable pull consumer and returns a
// channel of deliveries. The channel is closed once ctx is done; a failure
// of the underlying consume loop does not close it.
func (l *NATSLog) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       ConsumerName,
		Name:          ConsumerName,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       l.cfg.AckWait,
		MaxDeliver:    l.cfg.MaxDeliver,
	}

	consumer, err := l.stream.CreateOrUpdateConsumer(ctx, consumerCfg)
	if err != nil {
		return nil, fmt.Errorf("clicklog: create consumer: %w", err)
	}

	out := make(chan Delivery)
	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		select {
		case out <- Delivery{Subject: msg.Subject(), Payload: msg.Data(), Ack: msg.Ack}:
		case <-ctx.Done():
		}
	}, jetstream.PullMaxMessages(l.cfg.ConcurrentProcessors))
	if err != nil {
		return nil, fmt.Errorf("clicklog: consume: %w", err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Stop()
		close(out)
	}()

	return out, nil
}

// TileIDFromSubject extracts the tile id encoded by Subject. It returns
// an error if subject does not carry the expected prefix or the suffix
// is not a valid tile id.
func TileIDFromSubject(subject string) (uint32, error) {
	suffix, ok := strings.CutPrefix(subject, SubjectPrefix)
	if !ok {
		return 0, fmt.Errorf("clicklog: subject %q missing prefix %q", subject, SubjectPrefix)
	}
	id, err := strconv.ParseUint(suffix, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("clicklog: subject %q has non-numeric tile id: %w", subject, err)
	}
	return uint32(id), nil
}

var _ Log = (*NATSLog)(nil)
