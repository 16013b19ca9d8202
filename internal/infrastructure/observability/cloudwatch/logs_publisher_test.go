package cloudwatch

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

type fakeLogs struct {
	batches       [][]types.InputLogEvent
	tokens        []*string
	rejectFirst   bool
	groupsCreated int
	groupErr      error
}

func (f *fakeLogs) PutLogEvents(
	_ context.Context,
	params *cloudwatchlogs.PutLogEventsInput,
	_ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.tokens = append(f.tokens, params.SequenceToken)
	if f.rejectFirst {
		f.rejectFirst = false
		return nil, &types.InvalidSequenceTokenException{ExpectedSequenceToken: aws.String("expected")}
	}
	f.batches = append(f.batches, params.LogEvents)
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: aws.String("next")}, nil
}

func (f *fakeLogs) CreateLogGroup(
	_ context.Context,
	_ *cloudwatchlogs.CreateLogGroupInput,
	_ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.groupsCreated++
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(
	_ context.Context,
	_ *cloudwatchlogs.CreateLogStreamInput,
	_ ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func newTestLogsPublisher(client logsAPI, bufferSize int) *LogsPublisher {
	return newLogsPublisher(client, LogsPublisherConfig{
		LogGroupName:  "/marine/test",
		LogStreamName: "test-stream",
		BufferSize:    bufferSize,
	})
}

func decodeEvent(t *testing.T, event types.InputLogEvent) map[string]interface{} {
	t.Helper()
	var logData map[string]interface{}
	if err := json.Unmarshal([]byte(*event.Message), &logData); err != nil {
		t.Fatalf("Failed to parse log message as JSON: %v", err)
	}
	return logData
}

func TestConvertToLogEvent(t *testing.T) {
	timestamp := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	entry := port.LogEntry{
		Timestamp: timestamp,
		Level:     port.LogLevelInfo,
		Message:   "Measurements recorded",
		Fields: map[string]interface{}{
			"parameter": "ph",
			"count":     42,
		},
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}

	if event.Timestamp == nil || *event.Timestamp != timestamp.UnixMilli() {
		t.Errorf("Expected Timestamp=%d, got %v", timestamp.UnixMilli(), event.Timestamp)
	}

	logData := decodeEvent(t, event)
	if logData["level"] != "INFO" || logData["message"] != "Measurements recorded" {
		t.Errorf("Unexpected log data: %v", logData)
	}

	fields, ok := logData["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected fields to be a map")
	}
	if fields["parameter"] != "ph" {
		t.Errorf("Expected parameter=ph, got %v", fields["parameter"])
	}
	if count, ok := fields["count"].(float64); !ok || count != 42 {
		t.Errorf("Expected count=42, got %v", fields["count"])
	}
}

func TestConvertToLogEvent_NoFields(t *testing.T) {
	event, err := convertToLogEvent(port.LogEntry{
		Timestamp: time.Now(),
		Level:     port.LogLevelError,
		Message:   "Failed to save measurements",
	})
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}

	logData := decodeEvent(t, event)
	if _, ok := logData["fields"]; ok {
		t.Error("Expected no fields key")
	}
}

func TestConvertToLogEvent_Truncation(t *testing.T) {
	event, err := convertToLogEvent(port.LogEntry{
		Timestamp: time.Now(),
		Level:     port.LogLevelInfo,
		Message:   strings.Repeat("x", maxLogEventSize+1000),
	})
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}

	message := *event.Message
	if len(message) > maxLogEventSize {
		t.Errorf("Expected message truncated to %d bytes, got %d", maxLogEventSize, len(message))
	}
	if !strings.HasSuffix(message, "...") {
		t.Error("Expected truncation marker '...' at end of message")
	}
}

func TestLogsConfigDefaults(t *testing.T) {
	tests := []struct {
		name      string
		config    LogsPublisherConfig
		expectErr bool
	}{
		{"valid config", LogsPublisherConfig{LogGroupName: "/marine", LogStreamName: "s", Region: "us-east-1"}, false},
		{"missing log group", LogsPublisherConfig{LogStreamName: "s", Region: "us-east-1"}, true},
		{"missing log stream", LogsPublisherConfig{LogGroupName: "/marine", Region: "us-east-1"}, true},
		{"missing region", LogsPublisherConfig{LogGroupName: "/marine", LogStreamName: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.applyDefaults()
			if (err != nil) != tt.expectErr {
				t.Fatalf("applyDefaults() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err == nil && (cfg.BufferSize != 50 || cfg.FlushInterval != 5*time.Second) {
				t.Errorf("Unexpected defaults: %d %v", cfg.BufferSize, cfg.FlushInterval)
			}
		})
	}
}

func TestFlush_ChronologicalOrdering(t *testing.T) {
	client := &fakeLogs{}
	p := newTestLogsPublisher(client, 10)
	ctx := context.Background()

	now := time.Now()
	entries := []port.LogEntry{
		{Timestamp: now.Add(5 * time.Second), Level: port.LogLevelInfo, Message: "Third"},
		{Timestamp: now, Level: port.LogLevelInfo, Message: "First"},
		{Timestamp: now.Add(2 * time.Second), Level: port.LogLevelInfo, Message: "Second"},
	}
	if err := p.PublishBatch(ctx, entries); err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if len(client.batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(client.batches))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got := decodeEvent(t, client.batches[0][i])["message"]; got != want {
			t.Errorf("Event %d: expected %s, got %v", i, want, got)
		}
	}
	if len(p.buffer) != 0 {
		t.Errorf("Expected empty buffer after flush, got %d", len(p.buffer))
	}
}

func TestFlush_RetriesWithExpectedSequenceToken(t *testing.T) {
	client := &fakeLogs{rejectFirst: true}
	p := newTestLogsPublisher(client, 10)
	ctx := context.Background()

	if err := p.Publish(ctx, port.LogEntry{Timestamp: time.Now(), Level: port.LogLevelWarn, Message: "retry"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if len(client.tokens) != 2 || client.tokens[1] == nil || *client.tokens[1] != "expected" {
		t.Fatalf("Expected retry with expected token, got %v", client.tokens)
	}
	if p.sequenceToken == nil || *p.sequenceToken != "next" {
		t.Errorf("Expected sequence token to advance, got %v", p.sequenceToken)
	}
}

func TestEnsureLogGroupAndStream_IgnoresAlreadyExists(t *testing.T) {
	client := &fakeLogs{groupErr: &types.ResourceAlreadyExistsException{}}
	p := newTestLogsPublisher(client, 10)

	if err := p.ensureLogGroupAndStream(context.Background()); err != nil {
		t.Fatalf("Expected already-exists to be ignored, got %v", err)
	}
	if client.groupsCreated != 1 {
		t.Errorf("Expected one CreateLogGroup call, got %d", client.groupsCreated)
	}
}

func TestLoggerHook_BuffersEntry(t *testing.T) {
	p := newTestLogsPublisher(&fakeLogs{}, 10)

	p.LoggerHook()("WARN", "Severe ocean parameter deviation detected", map[string]interface{}{"parameter": "ph"})

	if len(p.buffer) != 1 || p.buffer[0].Level != port.LogLevelWarn {
		t.Fatalf("Expected buffered WARN entry, got %+v", p.buffer)
	}
}
