// Command covidavg downloads cumulative COVID-19 case counts and prints how
// each chosen state's latest 7-day average of new cases compares to the week
// before.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/covid-averages/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/covid-averages/internal/adapter/kafka"
	"github.com/couchcryptid/covid-averages/internal/adapter/nytimes"
	"github.com/couchcryptid/covid-averages/internal/adapter/prompt"
	"github.com/couchcryptid/covid-averages/internal/config"
	"github.com/couchcryptid/covid-averages/internal/observability"
	"github.com/couchcryptid/covid-averages/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(context.Background(), cfg, logger, metrics, os.Stdin, os.Stdout); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source := nytimes.NewClient(cfg.SourceURL, cfg.RegionField, cfg.CountField, cfg.SourceTimeout, logger)
	selector := prompt.New(in, out)

	// A nil *Writer must not become a non-nil pipeline.Loader.
	var loader pipeline.Loader
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loader = writer
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(source, selector, loader, out, logger, metrics)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Serve(ctx, cfg.ShutdownTimeout); err != nil {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	logger.Info("fetching dataset", "url", cfg.SourceURL)
	return p.Run(ctx)
}
