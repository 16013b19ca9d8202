package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/healthanalyzer"
	natsInfra "github.com/dreschagin/marine-dashboard/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/postgres"
	"github.com/dreschagin/marine-dashboard/pkg/config"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

func main() {
	baseCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base config: %v\n", err)
		os.Exit(1)
	}

	analyzerCfg, err := healthanalyzer.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load analyzer config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info(
		"Starting ocean health analyzer",
		"interval", analyzerCfg.Interval.String(),
		"window", analyzerCfg.Window.String(),
		"retention", analyzerCfg.Retention.String(),
		"port", analyzerCfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var measurements repository.MeasurementRepository
	if baseCfg.Database.Enabled {
		db, err := postgres.Open(ctx, baseCfg.Database.DSN(), postgres.PoolConfig{
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		})
		if err != nil {
			log.Error("Failed to connect to database", err)
			os.Exit(1)
		}
		defer db.Close()
		measurements = postgres.NewMeasurementRepository(db)
	} else {
		// Без общей БД анализатор видит только пустое хранилище
		log.Warn("Database is disabled, analyzer runs on an empty in-memory repository")
		measurements = memory.NewMeasurementRepository()
	}

	aggregator, err := service.NewMetricsAggregator(healthPolicy(baseCfg.Health))
	if err != nil {
		log.Error("Invalid ocean health policy", err)
		os.Exit(1)
	}

	appMetrics := metrics.NewDefault()

	var publisher port.MetricsPublisher
	if baseCfg.CloudWatch.MetricsEnabled {
		publisherImpl, initErr := cloudwatch.NewMetricsPublisher(ctx, cloudwatch.MetricsPublisherConfig{
			Namespace:         baseCfg.CloudWatch.MetricsNamespace,
			Region:            baseCfg.CloudWatch.Region,
			Endpoint:          baseCfg.CloudWatch.Endpoint,
			AccessKeyID:       baseCfg.CloudWatch.AccessKeyID,
			SecretAccessKey:   baseCfg.CloudWatch.SecretAccessKey,
			DefaultDimensions: baseCfg.CloudWatch.MetricsDimensions,
			BufferSize:        baseCfg.CloudWatch.MetricsBufferSize,
			FlushInterval:     baseCfg.CloudWatch.MetricsFlushInterval,
			StorageResolution: baseCfg.CloudWatch.MetricsStorageResolution,
			OnFlushError: func(err error) {
				log.Warn("CloudWatch metrics flush failed", "error", err.Error())
			},
		})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		publisher = publisherImpl
	}

	svc := healthanalyzer.NewService(
		measurements,
		aggregator,
		analyzerCfg.Window,
		analyzerCfg.Locations,
		analyzerCfg.Retention,
	)
	runner := healthanalyzer.NewRunner(svc, log, analyzerCfg.Interval, appMetrics, publisher)
	handler := healthanalyzer.NewHandler(runner, appMetrics.Handler())

	if _, err := runner.RunOnce(ctx); err != nil {
		log.Error("Initial analyzer cycle failed", err)
	}

	go runner.Start(ctx)

	// Новые измерения запускают внеочередной цикл; события поверх идущего цикла схлопываются
	if baseCfg.NATS.Enabled {
		subscriber, err := natsInfra.NewSubscriber(baseCfg.NATS.URL, "ocean-health-analyzer", log)
		if err != nil {
			log.Warn("Failed to connect to NATS, running on schedule only", "error", err.Error())
		} else {
			defer subscriber.Close()

			trigger := make(chan struct{}, 1)
			err = subscriber.Subscribe(port.SubjectMeasurementsRecorded, func(natsInfra.Envelope) {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
			if err != nil {
				log.Warn("Failed to subscribe to measurement events", "error", err.Error())
			}

			go func() {
				for {
					select {
					case <-trigger:
						_, _ = runner.RunOnce(ctx)
					case <-ctx.Done():
						return
					}
				}
			}()
			log.Info("Subscribed to measurement events", "subject", port.SubjectMeasurementsRecorded)
		}
	}

	server := &http.Server{
		Addr:         ":" + analyzerCfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.Info("Ocean health analyzer HTTP server started", "port", analyzerCfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Ocean health analyzer HTTP server failed", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Ocean health analyzer HTTP server shutdown failed", err)
	}

	if publisher != nil {
		if err := publisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	log.Info("Ocean health analyzer stopped")
}

// healthPolicy переводит пороги из конфигурации в доменную политику
func healthPolicy(cfg config.HealthConfig) service.HealthPolicy {
	band := func(b config.BandConfig) service.PenaltyBand {
		return service.PenaltyBand{
			IdealMin:      b.IdealMin,
			IdealMax:      b.IdealMax,
			MildMin:       b.MildMin,
			MildMax:       b.MildMax,
			MildPenalty:   b.MildPenalty,
			SeverePenalty: b.SeverePenalty,
		}
	}

	return service.HealthPolicy{
		Temperature: band(cfg.Temperature),
		PH:          band(cfg.PH),
		Salinity:    band(cfg.Salinity),
	}
}
