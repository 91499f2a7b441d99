// Package config declares the server's command-line/environment
// configuration surface (SPEC_FULL.md §5), mirroring the reference
// implementation's clap(env = ...) derive macro one flag at a time via
// github.com/urfave/cli/v2's EnvVars.
package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

// Config is the fully resolved server configuration.
type Config struct {
	NATSURL              string
	RedisURL             string
	OTLPEndpoint         string
	ServiceName          string
	Port                 int
	OwnershipConcurrency int
	AckWait              time.Duration
}

// Flags returns the urfave/cli/v2 flag set backing Config, each carrying
// the environment variable fallback the original Rust binary recognized.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "nats-url", EnvVars: []string{"NATS_URL"}, Value: "nats://localhost:4222", Usage: "Click Log (NATS JetStream) endpoint"},
		&cli.StringFlag{Name: "redis-url", EnvVars: []string{"REDIS_URL"}, Value: "redis://localhost:6379", Usage: "Cold Store (Redis) endpoint"},
		&cli.StringFlag{Name: "otlp-endpoint", EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT", "OTLP_ENDPOINT"}, Value: "http://localhost:4317", Usage: "tracing exporter endpoint (behaviorally inert)"},
		&cli.StringFlag{Name: "service-name", EnvVars: []string{"SERVICE_NAME"}, Value: "clickplanet-server", Usage: "service name reported to the tracing exporter"},
		&cli.IntFlag{Name: "port", EnvVars: []string{"PORT"}, Value: 3000, Usage: "HTTP listen port"},
		&cli.IntFlag{Name: "ownership-concurrency", EnvVars: []string{"OWNERSHIP_CONCURRENCY"}, Value: 4, Usage: "worker count per Ownership Update Service input source"},
		&cli.DurationFlag{Name: "ack-wait", EnvVars: []string{"ACK_WAIT"}, Value: 30 * time.Second, Usage: "durable consumer ack-wait before redelivery"},
	}
}

// FromContext reads a resolved Config out of a cli.Context built from
// Flags.
func FromContext(c *cli.Context) Config {
	return Config{
		NATSURL:              c.String("nats-url"),
		RedisURL:             c.String("redis-url"),
		OTLPEndpoint:         c.String("otlp-endpoint"),
		ServiceName:          c.String("service-name"),
		Port:                 c.Int("port"),
		OwnershipConcurrency: c.Int("ownership-concurrency"),
		AckWait:              c.Duration("ack-wait"),
	}
}
