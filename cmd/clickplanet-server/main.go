// Command clickplanet-server runs the click ingestion and ownership
// fan-out pipeline: it wires the Cold Store, Hot Ownership Index, Click
// Log, Click Service, Ownership Update Service, notification
// broadcaster, and HTTP request surface together, warm-loads the index,
// and serves traffic until signaled to stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/clickservice"
	"github.com/clickplanet/server/internal/coldstore"
	"github.com/clickplanet/server/internal/config"
	"github.com/clickplanet/server/internal/hotindex"
	"github.com/clickplanet/server/internal/httpapi"
	"github.com/clickplanet/server/internal/metrics"
	"github.com/clickplanet/server/internal/ownershipservice"
	"github.com/clickplanet/server/internal/warmload"
)

// broadcastCapacity is the default bound K for both in-process
// broadcasters (spec.md §4.6).
const broadcastCapacity = 100_000

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "clickplanet-server: build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Name:  "clickplanet-server",
		Usage: "click ingestion and ownership fan-out pipeline",
		Flags: config.Flags(),
		Action: func(c *cli.Context) error {
			return run(c.Context, config.FromContext(c), logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("clickplanet-server exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	mtr := metrics.New(reg)

	cold, err := connectColdStore(ctx, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect cold store: %w", err)
	}
	defer func() { _ = cold.Close() }()

	hot := hotindex.New()
	logger.Info("warm-loading hot ownership index from cold store")
	if err := warmload.Load(ctx, cold, hot); err != nil {
		return fmt.Errorf("warm-load: %w", err)
	}
	tiles := hot.GetAll()
	mtr.HotIndexTilesOwned.Set(float64(len(tiles)))
	logger.Info("warm-load complete", zap.Int("tiles", len(tiles)))

	clog, err := connectClickLog(ctx, cfg.NATSURL, cfg.AckWait, cfg.OwnershipConcurrency, logger)
	if err != nil {
		return fmt.Errorf("connect click log: %w", err)
	}
	defer func() { _ = clog.Close() }()

	fastBus := broadcast.New[clickmodel.Click](broadcastCapacity)
	notifyBus := broadcast.New[clickmodel.UpdateNotification](broadcastCapacity)
	notifyBus.OnDrop(func() { mtr.BroadcastSubscribersDrop.Inc() })

	clickSvc := clickservice.New(clog, fastBus, clickservice.RealClock)
	clickSvc.ClicksIngested = mtr.ClicksIngested

	ownershipCfg := ownershipservice.Config{
		DurableWorkers: cfg.OwnershipConcurrency,
		FastWorkers:    cfg.OwnershipConcurrency,
	}
	ownershipSvc := ownershipservice.New(clog, cold, hot, fastBus, notifyBus, ownershipCfg, logger)
	ownershipSvc.OwnershipUpdates = mtr.OwnershipUpdates
	ownershipSvc.HotIndexTilesOwned = mtr.HotIndexTilesOwned

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", httpapi.New(clickSvc, hot, notifyBus, logger))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ownershipSvc.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", zap.Int("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// connectColdStore dials Redis with a bounded exponential backoff,
// matching SPEC_FULL.md §5's reconnect-at-startup use of
// cenkalti/backoff/v4.
func connectColdStore(ctx context.Context, redisURL string, logger *zap.Logger) (*coldstore.RedisStore, error) {
	var store *coldstore.RedisStore
	op := func() error {
		s, err := coldstore.NewRedisStore(redisURL)
		if err != nil {
			return err
		}
		store = s
		return nil
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.RetryNotify(op, bo, func(err error, d time.Duration) {
		logger.Warn("cold store connection attempt failed, retrying", zap.Error(err), zap.Duration("backoff", d))
	}); err != nil {
		return nil, err
	}
	return store, nil
}

// connectClickLog dials NATS and ensures the CLICKS stream exists, with
// the same bounded backoff as connectColdStore.
func connectClickLog(ctx context.Context, natsURL string, ackWait time.Duration, concurrentProcessors int, logger *zap.Logger) (*clicklog.NATSLog, error) {
	cfg := clicklog.DefaultConfig()
	cfg.AckWait = ackWait
	cfg.ConcurrentProcessors = concurrentProcessors

	var log *clicklog.NATSLog
	op := func() error {
		l, err := clicklog.Connect(ctx, natsURL, cfg)
		if err != nil {
			return err
		}
		log = l
		return nil
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.RetryNotify(op, bo, func(err error, d time.Duration) {
		logger.Warn("click log connection attempt failed, retrying", zap.Error(err), zap.Duration("backoff", d))
	}); err != nil {
		return nil, err
	}
	return log, nil
}
