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

	"github.com/jmoiron/sqlx"

	// Application
	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	applicationPort "github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/application/usecase"

	// Domain
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"

	// Infrastructure
	redisCache "github.com/dreschagin/marine-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/identification/openai"
	kafkaInfra "github.com/dreschagin/marine-dashboard/internal/infrastructure/messaging/kafka"
	natsInfra "github.com/dreschagin/marine-dashboard/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/marine-dashboard/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	dynamodbRepo "github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/postgres"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/seed"
	s3storage "github.com/dreschagin/marine-dashboard/internal/infrastructure/storage/s3"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/timeseries/influxdb"

	// Interfaces
	httpInterface "github.com/dreschagin/marine-dashboard/internal/interfaces/http"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/marine-dashboard/pkg/config"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const ingestSourceKafka = "kafka"

// repositories - хранилища каталога и измерений, PostgreSQL или in-memory
type repositories struct {
	measurements repository.MeasurementRepository
	alerts       repository.AlertRepository
	species      repository.SpeciesRepository
	observations repository.ObservationRepository
	fisheries    repository.FisheriesRepository
	biodiversity repository.BiodiversityRepository
}

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Marine Biodiversity Dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Хранилище: PostgreSQL или in-memory
	var db *sqlx.DB
	var repos repositories
	if cfg.Database.Enabled {
		db, err = postgres.Open(ctx, cfg.Database.DSN(), postgres.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Error("Failed to connect to database", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("Database connected successfully")

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				log.Error("Failed to apply database migrations", err)
				os.Exit(1)
			}
			log.Info("Database migrations applied")
		}

		repos = repositories{
			measurements: postgres.NewMeasurementRepository(db),
			alerts:       postgres.NewAlertRepository(db),
			species:      postgres.NewSpeciesRepository(db),
			observations: postgres.NewObservationRepository(db),
			fisheries:    postgres.NewFisheriesRepository(db),
			biodiversity: postgres.NewBiodiversityRepository(db),
		}
	} else {
		log.Warn("Database is disabled, using in-memory repositories")
		repos = repositories{
			measurements: memory.NewMeasurementRepository(),
			alerts:       memory.NewAlertRepository(),
			species:      memory.NewSpeciesRepository(),
			observations: memory.NewObservationRepository(),
			fisheries:    memory.NewFisheriesRepository(),
			biodiversity: memory.NewBiodiversityRepository(),
		}
	}

	// 3.1. Демонстрационные данные в пустое хранилище
	if cfg.Dashboard.SeedSampleData {
		seeder := seed.New(seed.Repositories{
			Species:      repos.species,
			Observations: repos.observations,
			Measurements: repos.measurements,
			Fisheries:    repos.fisheries,
			Biodiversity: repos.biodiversity,
			Alerts:       repos.alerts,
		}, uint64(time.Now().UnixNano()), log)

		if _, err := seeder.Seed(ctx); err != nil {
			log.Error("Failed to seed sample data", err)
		}
	}

	// 4. Dependency Injection - Infrastructure Layer

	// WebSocket Hub
	hub := wsInfra.NewHub(log)

	// Prometheus
	appMetrics := metrics.NewDefault()
	appMetrics.RegisterWebSocketClients(hub.ClientCount)

	// Redis cache
	var cache applicationPort.Cache
	if cfg.Redis.Enabled {
		cacheImpl, initErr := redisCache.NewRedisCache(redisCache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if initErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", initErr.Error())
		} else {
			cache = cacheImpl
			defer cacheImpl.Close()
			log.Info("Redis cache initialized", "addr", cfg.Redis.Addr)
		}
	} else {
		log.Warn("Redis cache is disabled")
	}

	// 4.1. CloudWatch Integration

	// CloudWatch Metrics Publisher
	var metricsPublisher applicationPort.MetricsPublisher
	if cfg.CloudWatch.MetricsEnabled {
		publisherImpl, initErr := cloudwatch.NewMetricsPublisher(ctx, cloudwatch.MetricsPublisherConfig{
			Namespace:         cfg.CloudWatch.MetricsNamespace,
			Region:            cfg.CloudWatch.Region,
			Endpoint:          cfg.CloudWatch.Endpoint,
			AccessKeyID:       cfg.CloudWatch.AccessKeyID,
			SecretAccessKey:   cfg.CloudWatch.SecretAccessKey,
			DefaultDimensions: cfg.CloudWatch.MetricsDimensions,
			BufferSize:        cfg.CloudWatch.MetricsBufferSize,
			FlushInterval:     cfg.CloudWatch.MetricsFlushInterval,
			StorageResolution: cfg.CloudWatch.MetricsStorageResolution,
			OnFlushError: func(err error) {
				log.Warn("CloudWatch metrics flush failed", "error", err.Error())
			},
		})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", initErr)
			os.Exit(1)
		}
		metricsPublisher = publisherImpl
		log.Info("CloudWatch metrics publisher initialized")
	} else {
		log.Warn("CloudWatch metrics publishing is disabled")
	}

	// CloudWatch Logs Publisher
	var logsPublisher applicationPort.LogPublisher
	if cfg.CloudWatch.LogsEnabled {
		publisherImpl, initErr := cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroupName,
			LogStreamName:   cfg.CloudWatch.LogStreamName,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			BufferSize:      cfg.CloudWatch.LogsBufferSize,
			FlushInterval:   cfg.CloudWatch.LogsFlushInterval,
			AutoCreate:      true,
		})
		if initErr != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", initErr)
			os.Exit(1)
		}
		logsPublisher = publisherImpl
		log.SetHook(publisherImpl.LoggerHook())
		log.Info("CloudWatch logs publisher initialized")
	} else {
		log.Warn("CloudWatch logs publishing is disabled")
	}

	// 4.2. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisherImpl
			defer publisherImpl.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 4.3. InfluxDB зеркало измерений
	var timeseriesWriter applicationPort.TimeSeriesWriter
	var influxWriter *influxdb.Writer
	if cfg.InfluxDB.Enabled {
		writerImpl, initErr := influxdb.NewWriter(ctx, influxdb.Config{
			URL:           cfg.InfluxDB.URL,
			Token:         cfg.InfluxDB.Token,
			Org:           cfg.InfluxDB.Org,
			Bucket:        cfg.InfluxDB.Bucket,
			BatchSize:     uint(cfg.InfluxDB.BatchSize),
			FlushInterval: cfg.InfluxDB.FlushInterval,
		}, log)
		if initErr != nil {
			log.Warn("Failed to connect to InfluxDB, continuing without time-series mirror", "error", initErr.Error())
		} else {
			timeseriesWriter = writerImpl
			influxWriter = writerImpl
			log.Info("InfluxDB writer initialized", "bucket", cfg.InfluxDB.Bucket)
		}
	} else {
		log.Warn("InfluxDB mirror is disabled")
	}

	// 4.4. Хранилище изображений и история распознаваний
	var imageStorage applicationPort.ImageStorage
	if cfg.S3.Enabled {
		storageImpl, initErr := s3storage.NewImageStorage(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			URLMode:         s3storage.URLMode(cfg.S3.URLMode),
			PresignedTTL:    cfg.S3.PresignedTTL,
		})
		if initErr != nil {
			log.Error("Failed to initialize image storage", initErr)
			os.Exit(1)
		}
		imageStorage = storageImpl
		log.Info("S3 image storage initialized", "bucket", cfg.S3.Bucket)
	} else {
		log.Warn("S3 storage is disabled, identification images will not be kept")
	}

	var identificationRecords applicationPort.IdentificationRecordRepository
	if cfg.Dynamo.Enabled {
		repoImpl, initErr := dynamodbRepo.NewIdentificationRepository(ctx, dynamodbRepo.Config{
			TableName:       cfg.Dynamo.TableIdentifications,
			Region:          cfg.Dynamo.Region,
			Endpoint:        cfg.Dynamo.Endpoint,
			AccessKeyID:     cfg.Dynamo.AccessKeyID,
			SecretAccessKey: cfg.Dynamo.SecretAccessKey,
			StrongReads:     cfg.Dynamo.StrongReads,
			Retention:       cfg.Dynamo.Retention,
		})
		if initErr != nil {
			log.Error("Failed to initialize identification repository", initErr)
			os.Exit(1)
		}
		identificationRecords = repoImpl
		log.Info("Identification history initialized", "provider", "dynamodb")
	} else {
		identificationRecords = memory.NewIdentificationRecordRepository()
		log.Warn("DynamoDB is disabled, identification history is kept in memory")
	}

	// Распознавание видов: OpenAI при наличии ключа, иначе детерминированный mock
	identifier := openai.NewIdentifier(openai.Config{
		APIKey:    cfg.Identification.OpenAIAPIKey,
		Model:     cfg.Identification.OpenAIModel,
		BaseURL:   cfg.Identification.OpenAIBaseURL,
		Timeout:   cfg.Identification.Timeout,
		MaxTokens: cfg.Identification.MaxTokens,
	}, log)
	if cfg.Identification.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, using mock species identifier")
	}

	// 5. Dependency Injection - Domain Layer

	aggregator, err := service.NewMetricsAggregator(healthPolicy(cfg.Health))
	if err != nil {
		log.Error("Invalid ocean health policy", err)
		os.Exit(1)
	}
	validator := service.NewMeasurementValidator()

	// 6. Dependency Injection - Application Layer (Use Cases)

	getConditionsUC := usecase.NewGetOceanConditionsUseCase(
		repos.measurements,
		aggregator,
		cache, // Can be nil if Redis disabled
		usecase.OceanConditionsConfig{
			DefaultWindow: cfg.Dashboard.ConditionsWindow,
			MaxWindow:     cfg.Dashboard.MaxConditionsWindow,
			CacheTTL:      cfg.Dashboard.ConditionsCacheTTL,
		},
		log,
	)

	getOceanDataUC := usecase.NewGetOceanDataUseCase(
		repos.measurements,
		aggregator,
		usecase.OceanDataConfig{
			Window:       cfg.Dashboard.OceanDataWindow,
			MaxPoints:    cfg.Dashboard.OceanDataMaxPoints,
			MaxTrendDays: cfg.Dashboard.MaxTrendDays,
		},
		log,
	)

	recordMeasurementsUC := usecase.NewRecordMeasurementsUseCase(
		repos.measurements,
		repos.alerts,
		validator,
		aggregator,
		hub,
		getConditionsUC,
		metricsPublisher, // Can be nil if CloudWatch disabled
		eventPublisher,   // Can be nil if NATS disabled
		timeseriesWriter, // Can be nil if InfluxDB disabled
		cache,            // Can be nil if Redis disabled
		log,
	)

	getSpeciesUC := usecase.NewGetSpeciesUseCase(repos.species, log)
	getFisheriesUC := usecase.NewGetFisheriesUseCase(
		repos.fisheries,
		repos.species,
		aggregator,
		usecase.FisheriesConfig{},
		log,
	)
	getBiodiversityUC := usecase.NewGetBiodiversityUseCase(repos.biodiversity, log)

	getAlertsUC := usecase.NewGetAlertsUseCase(
		repos.alerts,
		usecase.AlertsConfig{
			DefaultLimit: cfg.Dashboard.AlertDisplayLimit,
			MaxLimit:     cfg.Dashboard.AlertMaxLimit,
		},
		log,
	)
	resolveAlertUC := usecase.NewResolveAlertUseCase(repos.alerts, eventPublisher, log)

	getSustainabilityUC := usecase.NewGetSustainabilityMetricsUseCase(
		usecase.SustainabilityRepositories{
			Species:      repos.species,
			Observations: repos.observations,
			Alerts:       repos.alerts,
			Fisheries:    repos.fisheries,
			Biodiversity: repos.biodiversity,
		},
		aggregator,
		cache, // Can be nil if Redis disabled
		usecase.SustainabilityConfig{
			Period:            cfg.Dashboard.SustainabilityRange,
			ObservationWindow: cfg.Dashboard.ObservationWindow,
			CacheTTL:          cfg.Dashboard.SustainabilityTTL,
		},
		log,
	)

	getOverviewUC := usecase.NewGetDashboardOverviewUseCase(getConditionsUC, getSustainabilityUC, getAlertsUC, log)

	identifySpeciesUC := usecase.NewIdentifySpeciesUseCase(
		identifier,
		repos.species,
		imageStorage, // Can be nil if S3 disabled
		identificationRecords,
		eventPublisher, // Can be nil if NATS disabled
		usecase.IdentifySpeciesConfig{KeyPrefix: cfg.S3.KeyPrefix},
		log,
	)
	listIdentificationsUC := usecase.NewListIdentificationsUseCase(
		identificationRecords,
		imageStorage,
		usecase.ListIdentificationsConfig{},
		log,
	)

	// 6.1. Kafka прием измерений
	var kafkaConsumer *kafkaInfra.Consumer
	if cfg.Kafka.Enabled {
		consumerImpl, initErr := kafkaInfra.NewConsumer(kafkaInfra.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			GroupID:      cfg.Kafka.GroupID,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, kafkaProcessor(recordMeasurementsUC, appMetrics), log)
		if initErr != nil {
			log.Error("Failed to initialize Kafka consumer", initErr)
			os.Exit(1)
		}
		kafkaConsumer = consumerImpl
		log.Info("Kafka consumer initialized", "topic", cfg.Kafka.Topic)
	} else {
		log.Warn("Kafka ingestion is disabled")
	}

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
		OnFailure:   appMetrics.AuthFailures.Inc,
	}

	handlers := httpInterface.Handlers{
		Dashboard: handler.NewDashboardHandler(
			getOverviewUC,
			getSpeciesUC,
			getFisheriesUC,
			getAlertsUC,
			cfg.Dashboard.RefreshInterval,
			log,
		),
		WebSocket:      handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log),
		Ocean:          handler.NewOceanAPIHandler(getOceanDataUC, getConditionsUC, log),
		Catalogue:      handler.NewCatalogueAPIHandler(getSpeciesUC, getFisheriesUC, getBiodiversityUC, log),
		Alerts:         handler.NewAlertsAPIHandler(getAlertsUC, resolveAlertUC, getSustainabilityUC, log),
		Measurements:   handler.NewMeasurementsAPIHandler(recordMeasurementsUC, appMetrics, 0, log),
		Identification: handler.NewIdentificationAPIHandler(identifySpeciesUC, listIdentificationsUC, appMetrics, log),
		HealthAnalyzer: handler.NewHealthAnalyzerAPIHandler(
			cfg.HealthAnalyzer.BaseURL,
			cfg.HealthAnalyzer.RequestTimeout,
			log,
		),
		Auth: handler.NewAuthAPIHandler(authConfig, log),
	}

	var rateLimiter *middleware.IPRateLimiter
	if cfg.Security.RateLimitRPS > 0 {
		rateLimiter = middleware.NewIPRateLimiter(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst)
		defer rateLimiter.Stop()
	}

	var ready httpInterface.ReadinessCheck
	if db != nil {
		ready = db.PingContext
	}

	// Router
	router := httpInterface.NewRouter(handlers, cfg.Security, appMetrics, rateLimiter, ready, log)

	// 8. Запускаем фоновые процессы

	// Запускаем WebSocket hub
	go hub.Run(ctx)
	log.Info("WebSocket hub started")

	if kafkaConsumer != nil {
		go func() {
			if err := kafkaConsumer.Consume(ctx); err != nil {
				log.Error("Kafka consumer stopped", err)
			}
		}()
	}

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Сначала перестаем принимать запросы, затем останавливаем фоновые процессы
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(shutdownCtx); err != nil {
			log.Error("Failed to close Kafka consumer", err)
		}
	}

	cancel()

	if influxWriter != nil {
		log.Info("Flushing InfluxDB write buffer...")
		influxWriter.Close()
	}

	// Flush CloudWatch buffers before shutdown
	if metricsPublisher != nil {
		log.Info("Flushing CloudWatch metrics buffer...")
		if err := metricsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
	}

	if logsPublisher != nil {
		log.Info("Flushing CloudWatch logs buffer...")
		log.SetHook(nil)
		if err := logsPublisher.Flush(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch logs", err)
		}
	}

	log.Info("Server stopped gracefully")
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

// kafkaProcessor записывает пакет из Kafka и считает результат в метриках
func kafkaProcessor(uc *usecase.RecordMeasurementsUseCase, m *metrics.Metrics) kafkaInfra.BatchProcessor {
	return func(ctx context.Context, inputs []dto.MeasurementInputDTO) error {
		result, err := uc.Execute(ctx, inputs)
		if err != nil {
			if errors.Is(err, service.ErrInvalidMeasurement) {
				m.MeasurementsRejected.WithLabelValues(ingestSourceKafka).Inc()
			}
			return err
		}

		m.MeasurementsRecorded.WithLabelValues(ingestSourceKafka).Add(float64(result.Recorded))
		m.AlertsRaised.Add(float64(result.AlertsRaised))
		return nil
	}
}
