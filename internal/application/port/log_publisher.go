package port

import (
	"context"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is a structured log entry shipped to an external log system.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Fields    map[string]interface{}
}

// LogPublisher ships application logs to an external observability platform.
type LogPublisher interface {
	Publish(ctx context.Context, entry LogEntry) error

	// PublishBatch sends multiple entries; implementations split by the backend's per-request limit.
	PublishBatch(ctx context.Context, entries []LogEntry) error

	// Flush publishes buffered entries. Called on shutdown.
	Flush(ctx context.Context) error
}
