// Command licitacionesd watches an inbox directory for notice files, extracts
// and stores them, and serves the HTTP API plus gRPC health.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/licitaciones/internal/app"
	"github.com/joseph-ayodele/licitaciones/internal/async"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/export"
	"github.com/joseph-ayodele/licitaciones/internal/ingest"
	"github.com/joseph-ayodele/licitaciones/internal/metrics"
	"github.com/joseph-ayodele/licitaciones/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("licitacionesd stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m := metrics.New()

	store, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	extractor := app.NewExtractor(cfg, logger, m)
	processor := app.NewProcessor(cfg, extractor, store, logger, m)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
		async.WithMetrics(m),
	)

	if err := os.MkdirAll(cfg.Ingest.Dir, 0o755); err != nil {
		return err
	}
	paths, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.Dir},
		AllowedExts: ingest.Extensions(cfg.Ingest.Extensions),
		InitialScan: cfg.Ingest.InitialScan,
		Debounce:    cfg.Ingest.Debounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	fed := make(chan struct{})
	go func() {
		defer close(fed)
		feed(ctx, paths, watchErrs, queue, logger)
	}()

	deps := server.Deps{
		Extractor:   extractor,
		Eligibility: eligibility.Evaluator{Logger: logger},
	}
	if store != nil {
		deps.Store = store
		deps.Export = export.NewService(store, logger)
	}
	httpSrv := server.NewHTTP(deps, logger)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	if store != nil {
		go watchStoreHealth(ctx, store, healthServer, storeCheckInterval, logger)
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("grpc.listen", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			serveErr <- err
		}
	}()
	go func() {
		logger.Info("http.listen", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.Start(cfg.Server.HTTPAddr); err != nil {
			serveErr <- err
		}
	}()
	logger.Info("licitacionesd.started", "inbox", cfg.Ingest.Dir, "open_only", cfg.Ingest.OpenOnly, "store", cfg.Database.Driver)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}
	logger.Info("licitacionesd.stopping")
	healthServer.Shutdown()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http.shutdown", "error", err)
	}
	cancel()
	<-fed
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	return runErr
}

const (
	storeService       = "licitaciones.Store"
	storeCheckInterval = 30 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// watchStoreHealth publishes the database state as the storeService health status
// until ctx is done.
func watchStoreHealth(ctx context.Context, store pinger, hs *health.Server, every time.Duration, logger *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		st := grpc_health_v1.HealthCheckResponse_SERVING
		if err := store.Ping(ctx); err != nil && ctx.Err() == nil {
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			logger.Warn("store.unhealthy", "code", status.Code(common.GRPCError(err)), "error", err)
		}
		hs.SetServingStatus(storeService, st)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// feed enqueues watcher paths until the watcher closes its channels.
func feed(ctx context.Context, paths <-chan string, errs <-chan error, q async.Queue, logger *slog.Logger) {
	for paths != nil || errs != nil {
		select {
		case p, ok := <-paths:
			if !ok {
				paths = nil
				continue
			}
			job := async.Job{Path: p, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
			if err := q.Enqueue(ctx, job); err != nil {
				if errors.Is(err, async.ErrClosed) || ctx.Err() != nil {
					logger.Info("feed.stopped", "path", p)
					return
				}
				logger.Error("feed.enqueue", "path", p, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher.error", "error", err)
		}
	}
}
