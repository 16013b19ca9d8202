// Package influxdb mirrors measurement points into an InfluxDB v2 bucket.
package influxdb

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

const measurementName = "ocean_measurement"

// Config for InfluxDB writer
type Config struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval time.Duration
}

// Writer implements port.TimeSeriesWriter using the non-blocking write API.
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   *logger.Logger
	done     chan struct{}
}

// NewWriter creates the client and verifies connectivity with a health check.
func NewWriter(ctx context.Context, cfg Config, log *logger.Logger) (*Writer, error) {
	if cfg.URL == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influxdb url, org and bucket are required")
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	options := influxdb2.DefaultOptions().
		SetBatchSize(cfg.BatchSize).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Health(healthCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	w := &Writer{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   log,
		done:     make(chan struct{}),
	}
	go w.drainErrors()

	log.Info("InfluxDB writer initialized", "url", cfg.URL, "bucket", cfg.Bucket)
	return w, nil
}

// drainErrors logs asynchronous write failures. The write API blocks if its
// error channel is not read.
func (w *Writer) drainErrors() {
	errs := w.writeAPI.Errors()
	for {
		select {
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.logger.Warn("InfluxDB write failed", "error", err.Error())
		case <-w.done:
			return
		}
	}
}

// WriteMeasurements queues points for the next batch write.
func (w *Writer) WriteMeasurements(ctx context.Context, points []*entity.MeasurementPoint) error {
	for _, p := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == nil {
			continue
		}
		w.writeAPI.WritePoint(pointFor(p))
	}
	return nil
}

// Flush forces all pending writes.
func (w *Writer) Flush() {
	w.writeAPI.Flush()
}

// Close flushes pending writes and releases the client.
func (w *Writer) Close() {
	w.writeAPI.Flush()
	close(w.done)
	w.client.Close()
}

func pointFor(p *entity.MeasurementPoint) *write.Point {
	location := p.LocationName()
	if location == "" {
		location = "unknown"
	}

	fields := map[string]interface{}{
		"value": p.Value(),
	}
	if loc, ok := p.Location(); ok {
		fields["latitude"] = loc.Latitude()
		fields["longitude"] = loc.Longitude()
	}

	return write.NewPoint(
		measurementName,
		map[string]string{
			"parameter": p.Parameter().String(),
			"unit":      p.Parameter().Unit(),
			"location":  location,
		},
		fields,
		p.RecordedAt(),
	)
}
