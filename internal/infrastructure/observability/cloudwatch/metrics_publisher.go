package cloudwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
)

const (
	// CloudWatch limits
	maxMetricsPerRequest = 1000
	maxRetries           = 3
	initialBackoff       = 100 * time.Millisecond

	healthScoreMetric = "ocean_health_score"
	unknownLocation   = "unknown"
)

// putMetricDataAPI is the subset of the CloudWatch client used by the publisher.
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisherConfig holds configuration for CloudWatch metrics publishing.
type MetricsPublisherConfig struct {
	Namespace         string            // CloudWatch namespace (e.g., "MarineDashboard/Ocean")
	Region            string            // AWS region (e.g., "us-east-1")
	Endpoint          string            // Optional endpoint override (for LocalStack)
	AccessKeyID       string            // AWS access key
	SecretAccessKey   string            // AWS secret key
	DefaultDimensions map[string]string // Default dimensions added to all metrics
	BufferSize        int               // Buffer size before auto-flush
	FlushInterval     time.Duration     // Automatic flush interval
	StorageResolution int32             // Storage resolution in seconds (1 or 60)

	// OnFlushError receives errors from the background flush loop.
	OnFlushError func(error)
}

// MetricsPublisher publishes ocean measurements and health scores to AWS CloudWatch.
// Implements port.MetricsPublisher.
type MetricsPublisher struct {
	client            putMetricDataAPI
	namespace         string
	defaultDimensions map[string]string
	storageResolution int32
	onFlushError      func(error)

	buffer     []types.MetricDatum
	bufferSize int
	mu         sync.Mutex

	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

func (c *MetricsPublisherConfig) applyDefaults() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 10 * time.Second
	}
	if c.StorageResolution != 1 && c.StorageResolution != 60 {
		c.StorageResolution = 60
	}
	return nil
}

// NewMetricsPublisher creates a new CloudWatch metrics publisher.
func NewMetricsPublisher(ctx context.Context, cfg MetricsPublisherConfig) (*MetricsPublisher, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	awsCfg, err := buildAWSConfig(ctx, cfg.Region, cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	p := newMetricsPublisher(cloudwatch.NewFromConfig(awsCfg), cfg)
	p.wg.Add(1)
	go p.flushLoop(cfg.FlushInterval)

	return p, nil
}

// newMetricsPublisher wires a publisher around an existing client without starting the flush loop.
func newMetricsPublisher(client putMetricDataAPI, cfg MetricsPublisherConfig) *MetricsPublisher {
	return &MetricsPublisher{
		client:            client,
		namespace:         cfg.Namespace,
		defaultDimensions: cfg.DefaultDimensions,
		storageResolution: cfg.StorageResolution,
		onFlushError:      cfg.OnFlushError,
		buffer:            make([]types.MetricDatum, 0, cfg.BufferSize),
		bufferSize:        cfg.BufferSize,
		stopCh:            make(chan struct{}),
	}
}

// PublishBatch buffers measurement points; the buffer is flushed when full or on the next tick.
func (p *MetricsPublisher) PublishBatch(ctx context.Context, points []*entity.MeasurementPoint) error {
	if len(points) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(points))
	for _, point := range points {
		if point == nil {
			continue
		}
		data = append(data, p.measurementDatum(point))
	}

	return p.enqueue(ctx, data...)
}

// PublishHealthScore buffers a computed ocean health score for a location.
func (p *MetricsPublisher) PublishHealthScore(ctx context.Context, location string, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("health score %d out of range", score)
	}
	if location == "" {
		location = unknownLocation
	}

	datum := types.MetricDatum{
		MetricName: aws.String(healthScoreMetric),
		Value:      aws.Float64(float64(score)),
		Unit:       types.StandardUnitNone,
		Timestamp:  aws.Time(time.Now().UTC()),
		Dimensions: p.dimensions(types.Dimension{
			Name:  aws.String("Location"),
			Value: aws.String(location),
		}),
		StorageResolution: aws.Int32(p.storageResolution),
	}

	return p.enqueue(ctx, datum)
}

func (p *MetricsPublisher) enqueue(ctx context.Context, data ...types.MetricDatum) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, datum := range data {
		p.buffer = append(p.buffer, datum)

		if len(p.buffer) >= p.bufferSize {
			if err := p.flushBufferUnsafe(ctx); err != nil {
				return fmt.Errorf("failed to flush buffer: %w", err)
			}
		}
	}
	return nil
}

// Flush forces immediate publication of all buffered metrics.
func (p *MetricsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushBufferUnsafe(ctx)
}

// Close stops the background flush goroutine and flushes remaining metrics.
func (p *MetricsPublisher) Close(ctx context.Context) error {
	close(p.stopCh)
	p.wg.Wait()

	return p.Flush(ctx)
}

func (p *MetricsPublisher) flushLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := p.Flush(ctx); err != nil && p.onFlushError != nil {
				p.onFlushError(err)
			}
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// flushBufferUnsafe flushes the buffer without locking (caller must hold lock).
// Chunks that were already sent are dropped from the buffer even if a later chunk fails.
func (p *MetricsPublisher) flushBufferUnsafe(ctx context.Context) error {
	for len(p.buffer) > 0 {
		end := maxMetricsPerRequest
		if end > len(p.buffer) {
			end = len(p.buffer)
		}

		if err := p.publishBatchWithRetry(ctx, p.buffer[:end]); err != nil {
			return fmt.Errorf("failed to publish chunk: %w", err)
		}
		p.buffer = p.buffer[end:]
	}

	p.buffer = make([]types.MetricDatum, 0, p.bufferSize)
	return nil
}

// publishBatchWithRetry publishes a batch of metrics with exponential backoff retry.
func (p *MetricsPublisher) publishBatchWithRetry(ctx context.Context, data []types.MetricDatum) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data,
		})
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// measurementDatum converts a measurement point to a CloudWatch MetricDatum.
func (p *MetricsPublisher) measurementDatum(point *entity.MeasurementPoint) types.MetricDatum {
	location := point.LocationName()
	if location == "" {
		location = unknownLocation
	}

	return types.MetricDatum{
		MetricName: aws.String(point.Parameter().String()),
		Value:      aws.Float64(point.Value()),
		Unit:       types.StandardUnitNone, // °C, PSU and pH have no CloudWatch unit
		Timestamp:  aws.Time(point.RecordedAt()),
		Dimensions: p.dimensions(
			types.Dimension{Name: aws.String("Location"), Value: aws.String(location)},
			types.Dimension{Name: aws.String("Unit"), Value: aws.String(point.Parameter().Unit())},
		),
		StorageResolution: aws.Int32(p.storageResolution),
	}
}

func (p *MetricsPublisher) dimensions(extra ...types.Dimension) []types.Dimension {
	dims := make([]types.Dimension, 0, len(p.defaultDimensions)+len(extra))
	for key, value := range p.defaultDimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(key),
			Value: aws.String(value),
		})
	}
	return append(dims, extra...)
}

// buildAWSConfig creates an AWS config with credentials.
func buildAWSConfig(ctx context.Context, region, endpoint, accessKeyID, secretAccessKey string) (aws.Config, error) {
	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretAccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, err
	}

	// LocalStack
	if endpoint != "" {
		cfg.BaseEndpoint = aws.String(endpoint)
	}

	return cfg, nil
}
