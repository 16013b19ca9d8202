// Package kafka consumes measurement batches from a Kafka topic and hands them to the ingestion use case.
package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Shopify/sarama"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// BatchProcessor records a batch of measurements.
type BatchProcessor func(ctx context.Context, inputs []dto.MeasurementInputDTO) error

// Config holds the consumer group settings.
type Config struct {
	Brokers      []string
	Topic        string
	GroupID      string
	BatchSize    int
	BatchTimeout time.Duration
}

// Consumer buffers decoded messages and flushes them by size or by timer.
type Consumer struct {
	config    Config
	group     sarama.ConsumerGroup
	processor BatchProcessor
	logger    *logger.Logger

	// One entry per Kafka message; a message may carry several points.
	buffer     [][]dto.MeasurementInputDTO
	buffered   int
	bufferLock sync.Mutex
	inflight   sync.WaitGroup
}

// NewConsumer creates a consumer group client.
func NewConsumer(cfg Config, processor BatchProcessor, log *logger.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" || cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka topic and group id are required")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	saramaConfig.Consumer.Fetch.Default = 1024 * 1024
	saramaConfig.Consumer.MaxWaitTime = 250 * time.Millisecond

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return newConsumer(cfg, group, processor, log), nil
}

func newConsumer(cfg Config, group sarama.ConsumerGroup, processor BatchProcessor, log *logger.Logger) *Consumer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 2 * time.Second
	}
	return &Consumer{
		config:    cfg,
		group:     group,
		processor: processor,
		logger:    log,
	}
}

// Consume blocks until ctx is cancelled or the group returns a fatal error.
func (c *Consumer) Consume(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Warn("Kafka consumer error", "error", err.Error())
		}
	}()

	flushTicker := time.NewTicker(c.config.BatchTimeout)
	defer flushTicker.Stop()

	go func() {
		for {
			select {
			case <-flushTicker.C:
				c.flush(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	handler := &groupHandler{consumer: c}
	c.logger.Info("Kafka consumer started", "topic", c.config.Topic, "group", c.config.GroupID)

	for {
		if err := c.group.Consume(ctx, []string{c.config.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka consume failed: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close flushes buffered messages, waits for in-flight batches and closes the group.
func (c *Consumer) Close(ctx context.Context) error {
	c.flush(ctx)
	c.inflight.Wait()
	return c.group.Close()
}

func (c *Consumer) add(ctx context.Context, inputs []dto.MeasurementInputDTO) {
	c.bufferLock.Lock()
	defer c.bufferLock.Unlock()

	c.buffer = append(c.buffer, inputs)
	c.buffered += len(inputs)

	if c.buffered >= c.config.BatchSize {
		c.flushLocked(ctx)
	}
}

func (c *Consumer) flush(ctx context.Context) {
	c.bufferLock.Lock()
	defer c.bufferLock.Unlock()

	c.flushLocked(ctx)
}

func (c *Consumer) flushLocked(ctx context.Context) {
	if c.buffered == 0 {
		return
	}

	messages := c.buffer
	c.buffer = nil
	c.buffered = 0

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.process(context.WithoutCancel(ctx), messages)
	}()
}

// process records the whole batch; if a point is invalid the batch is retried
// message by message so a single bad message does not drop its neighbours.
func (c *Consumer) process(ctx context.Context, messages [][]dto.MeasurementInputDTO) {
	var batch []dto.MeasurementInputDTO
	for _, m := range messages {
		batch = append(batch, m...)
	}

	err := c.processor(ctx, batch)
	if err == nil {
		c.logger.Debug("Kafka batch recorded", "points", len(batch), "messages", len(messages))
		return
	}
	if !errors.Is(err, service.ErrInvalidMeasurement) || len(messages) == 1 {
		c.logger.Error("Failed to record kafka batch", err, "points", len(batch))
		return
	}

	rejected := 0
	for _, m := range messages {
		if err := c.processor(ctx, m); err != nil {
			rejected++
			c.logger.Warn("Kafka message rejected", "points", len(m), "error", err.Error())
		}
	}
	c.logger.Info("Kafka batch recorded per message", "messages", len(messages), "rejected", rejected)
}

// decodeMessage accepts a single measurement object or an array of them.
func decodeMessage(value []byte) ([]dto.MeasurementInputDTO, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	if trimmed[0] == '[' {
		var inputs []dto.MeasurementInputDTO
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, err
		}
		if len(inputs) == 0 {
			return nil, fmt.Errorf("empty measurement array")
		}
		return inputs, nil
	}

	var input dto.MeasurementInputDTO
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, err
	}
	return []dto.MeasurementInputDTO{input}, nil
}

// groupHandler implements sarama.ConsumerGroupHandler
type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		inputs, err := decodeMessage(message.Value)
		if err != nil {
			h.consumer.logger.Warn("Skipping undecodable kafka message",
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err.Error(),
			)
			session.MarkMessage(message, "")
			continue
		}

		h.consumer.add(session.Context(), inputs)
		session.MarkMessage(message, "")
	}
	return nil
}
