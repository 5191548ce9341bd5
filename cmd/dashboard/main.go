package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/nuclear-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nuclear-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nuclear-dashboard/internal/adapter/tabular"
	"github.com/couchcryptid/nuclear-dashboard/internal/config"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
	"github.com/couchcryptid/nuclear-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader := tabular.NewFileReader(cfg.DatasetPath, cfg.DatasetSheet, logger.With("component", "reader"))
	p := pipeline.New(reader, logger.With("component", "pipeline"), metrics)

	// Kafka export is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher httpadapter.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger.With("component", "kafka"))
		publisher = kafkaPub
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaExportTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, publisher, metrics, logger.With("component", "http"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// HTTP server; /readyz reports not ready until the load completes.
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// A failed load is fatal and stops the server.
	g.Go(func() error {
		_, err := p.Load(gctx)
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("dashboard stopped with error", "error", err)
		exitCode = 1
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	stop()
	os.Exit(exitCode)
}
