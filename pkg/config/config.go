package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	NATS           NATSConfig
	Kafka          KafkaConfig
	InfluxDB       InfluxDBConfig
	S3             S3Config
	Dynamo         DynamoConfig
	CloudWatch     CloudWatchConfig
	Identification IdentificationConfig
	Health         HealthConfig
	Dashboard      DashboardConfig
	HealthAnalyzer HealthAnalyzerConfig
	Security       SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig - PostgreSQL. При Enabled = false используются in-memory репозитории.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	GroupID      string
	BatchSize    int
	BatchTimeout time.Duration
}

type InfluxDBConfig struct {
	Enabled       bool
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     int
	FlushInterval time.Duration
}

type S3Config struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
	URLMode         string
	PresignedTTL    time.Duration
}

type DynamoConfig struct {
	Enabled              bool
	TableIdentifications string
	Region               string
	Endpoint             string
	AccessKeyID          string
	SecretAccessKey      string
	StrongReads          bool
	Retention            time.Duration
}

type CloudWatchConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string

	MetricsEnabled           bool
	MetricsNamespace         string
	MetricsDimensions        map[string]string
	MetricsBufferSize        int
	MetricsFlushInterval     time.Duration
	MetricsStorageResolution int32

	LogsEnabled       bool
	LogGroupName      string
	LogStreamName     string
	LogsBufferSize    int
	LogsFlushInterval time.Duration
}

type IdentificationConfig struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
	MaxTokens     int
}

// BandConfig - пороги и штрафы одного параметра индекса здоровья
type BandConfig struct {
	IdealMin      float64
	IdealMax      float64
	MildMin       float64
	MildMax       float64
	MildPenalty   float64
	SeverePenalty float64
}

type HealthConfig struct {
	Temperature BandConfig
	PH          BandConfig
	Salinity    BandConfig
}

type DashboardConfig struct {
	ConditionsWindow    time.Duration
	MaxConditionsWindow time.Duration
	ConditionsCacheTTL  time.Duration
	OceanDataWindow     time.Duration
	OceanDataMaxPoints  int
	MaxTrendDays        int
	AlertDisplayLimit   int
	AlertMaxLimit       int
	SustainabilityTTL   time.Duration
	SustainabilityRange time.Duration
	ObservationWindow   time.Duration
	RefreshInterval     time.Duration
	SeedSampleData      bool
}

type HealthAnalyzerConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type SecurityConfig struct {
	AllowedOrigins []string
	AuthEnabled    bool
	AuthToken      string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv собирает конфигурацию из переменных окружения без чтения .env
func FromEnv() (*Config, error) {
	p := &parser{}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     p.duration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout:    p.duration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     p.duration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: p.duration("SERVER_SHUTDOWN_TIMEOUT", "30s"),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", true),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "marine"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    p.integer("DB_MAX_OPEN_CONNS", "25"),
			MaxIdleConns:    p.integer("DB_MAX_IDLE_CONNS", "5"),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", "5m"),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       p.integer("REDIS_DB", "0"),
			TTL:      p.duration("REDIS_TTL", "5m"),
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Kafka: KafkaConfig{
			Enabled:      getEnvBool("KAFKA_ENABLED", false),
			Brokers:      splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:        getEnv("KAFKA_TOPIC", "ocean.measurements"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "marine-dashboard"),
			BatchSize:    p.integer("KAFKA_BATCH_SIZE", "500"),
			BatchTimeout: p.duration("KAFKA_BATCH_TIMEOUT", "2s"),
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       getEnvBool("INFLUXDB_ENABLED", false),
			URL:           getEnv("INFLUXDB_URL", "http://localhost:8086"),
			Token:         getEnv("INFLUXDB_TOKEN", ""),
			Org:           getEnv("INFLUXDB_ORG", "marine"),
			Bucket:        getEnv("INFLUXDB_BUCKET", "ocean"),
			BatchSize:     p.integer("INFLUXDB_BATCH_SIZE", "500"),
			FlushInterval: p.duration("INFLUXDB_FLUSH_INTERVAL", "1s"),
		},
		S3: S3Config{
			Enabled:         getEnvBool("S3_ENABLED", false),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "identifications"),
			URLMode:         getEnv("S3_URL_MODE", "presigned"),
			PresignedTTL:    p.duration("S3_PRESIGNED_TTL", "15m"),
		},
		Dynamo: DynamoConfig{
			Enabled:              getEnvBool("DYNAMODB_ENABLED", false),
			TableIdentifications: getEnv("DYNAMODB_TABLE_IDENTIFICATIONS", "species_identifications"),
			Region:               getEnv("DYNAMODB_REGION", getEnv("AWS_REGION", "us-east-1")),
			Endpoint:             getEnv("DYNAMODB_ENDPOINT", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			StrongReads:          getEnvBool("DYNAMODB_STRONG_READS", false),
			Retention:            p.duration("DYNAMODB_RETENTION", "0s"),
		},
		CloudWatch: CloudWatchConfig{
			Region:          getEnv("CLOUDWATCH_REGION", getEnv("AWS_REGION", "us-east-1")),
			Endpoint:        getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

			MetricsEnabled:           getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			MetricsNamespace:         getEnv("CLOUDWATCH_METRICS_NAMESPACE", "MarineDashboard/Ocean"),
			MetricsDimensions:        p.keyValues("CLOUDWATCH_METRICS_DIMENSIONS", "Environment=dev"),
			MetricsBufferSize:        p.integer("CLOUDWATCH_METRICS_BUFFER_SIZE", "100"),
			MetricsFlushInterval:     p.duration("CLOUDWATCH_METRICS_FLUSH_INTERVAL", "10s"),
			MetricsStorageResolution: int32(p.integer("CLOUDWATCH_METRICS_STORAGE_RESOLUTION", "60")),

			LogsEnabled:       getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			LogGroupName:      getEnv("CLOUDWATCH_LOG_GROUP", "/marine-dashboard/app"),
			LogStreamName:     getEnv("CLOUDWATCH_LOG_STREAM", hostnameOr("marine-dashboard")),
			LogsBufferSize:    p.integer("CLOUDWATCH_LOGS_BUFFER_SIZE", "50"),
			LogsFlushInterval: p.duration("CLOUDWATCH_LOGS_FLUSH_INTERVAL", "5s"),
		},
		Identification: IdentificationConfig{
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout:       p.duration("OPENAI_TIMEOUT", "30s"),
			MaxTokens:     p.integer("OPENAI_MAX_TOKENS", "500"),
		},
		Health: HealthConfig{
			Temperature: p.band("TEMPERATURE", "18,27,15,30", "10,20"),
			PH:          p.band("PH", "7.8,8.3,7.5,8.5", "10,20"),
			Salinity:    p.band("SALINITY", "32,38,30,40", "5,15"),
		},
		Dashboard: DashboardConfig{
			ConditionsWindow:    p.duration("DASHBOARD_CONDITIONS_WINDOW", "24h"),
			MaxConditionsWindow: p.duration("DASHBOARD_MAX_CONDITIONS_WINDOW", "8760h"),
			ConditionsCacheTTL:  p.duration("DASHBOARD_CONDITIONS_CACHE_TTL", "1m"),
			OceanDataWindow:     p.duration("OCEAN_DATA_WINDOW", "720h"),
			OceanDataMaxPoints:  p.integer("OCEAN_DATA_MAX_POINTS", "1000"),
			MaxTrendDays:        p.integer("OCEAN_TREND_MAX_DAYS", "365"),
			AlertDisplayLimit:   p.integer("ALERT_DISPLAY_LIMIT", "10"),
			AlertMaxLimit:       p.integer("ALERT_MAX_LIMIT", "100"),
			SustainabilityTTL:   p.duration("SUSTAINABILITY_CACHE_TTL", "5m"),
			SustainabilityRange: p.duration("SUSTAINABILITY_PERIOD", "720h"),
			ObservationWindow:   p.duration("RECENT_OBSERVATION_WINDOW", "720h"),
			RefreshInterval:     p.duration("DASHBOARD_REFRESH_INTERVAL", "30s"),
			SeedSampleData:      getEnvBool("SEED_SAMPLE_DATA", false),
		},
		HealthAnalyzer: HealthAnalyzerConfig{
			BaseURL:        getEnv("HEALTH_ANALYZER_URL", ""),
			RequestTimeout: p.duration("HEALTH_ANALYZER_TIMEOUT", "6s"),
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			AuthEnabled:    getEnvBool("AUTH_ENABLED", false),
			AuthToken:      getEnv("AUTH_BEARER_TOKEN", ""),
			RateLimitRPS:   p.float("RATE_LIMIT_RPS", "20"),
			RateLimitBurst: p.integer("RATE_LIMIT_BURST", "40"),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	if cfg.Security.AuthEnabled && cfg.Security.AuthToken == "" {
		return nil, fmt.Errorf("AUTH_BEARER_TOKEN is required when AUTH_ENABLED=true")
	}
	if cfg.Dashboard.AlertDisplayLimit <= 0 || cfg.Dashboard.AlertDisplayLimit > cfg.Dashboard.AlertMaxLimit {
		return nil, fmt.Errorf("ALERT_DISPLAY_LIMIT must be between 1 and ALERT_MAX_LIMIT")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// parser запоминает первую ошибку разбора; после нее возвращаются нулевые значения
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) duration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	return value
}

func (p *parser) integer(key, fallback string) int {
	value, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	return value
}

func (p *parser) float(key, fallback string) float64 {
	value, err := strconv.ParseFloat(getEnv(key, fallback), 64)
	if err != nil {
		p.fail(key, err)
		return 0
	}
	return value
}

// keyValues разбирает "k1=v1,k2=v2"
func (p *parser) keyValues(key, fallback string) map[string]string {
	result := make(map[string]string)
	for _, item := range splitCSV(getEnv(key, fallback)) {
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			p.fail(key, fmt.Errorf("expected key=value, got %q", item))
			return nil
		}
		result[k] = v
	}
	return result
}

// band читает HEALTH_<NAME>_BANDS="idealMin,idealMax,mildMin,mildMax"
// и HEALTH_<NAME>_PENALTIES="mild,severe"
func (p *parser) band(name, bandsFallback, penaltiesFallback string) BandConfig {
	bandsKey := "HEALTH_" + name + "_BANDS"
	penaltiesKey := "HEALTH_" + name + "_PENALTIES"

	bands, err := parseFloats(getEnv(bandsKey, bandsFallback), 4)
	if err != nil {
		p.fail(bandsKey, err)
		return BandConfig{}
	}
	penalties, err := parseFloats(getEnv(penaltiesKey, penaltiesFallback), 2)
	if err != nil {
		p.fail(penaltiesKey, err)
		return BandConfig{}
	}

	return BandConfig{
		IdealMin:      bands[0],
		IdealMax:      bands[1],
		MildMin:       bands[2],
		MildMax:       bands[3],
		MildPenalty:   penalties[0],
		SeverePenalty: penalties[1],
	}
}

func parseFloats(raw string, want int) ([]float64, error) {
	parts := splitCSV(raw)
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", want, len(parts))
	}

	values := make([]float64, want)
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func hostnameOr(fallback string) string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return fallback
}
