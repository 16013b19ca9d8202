package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// Handler processes a decoded event envelope
type Handler func(envelope Envelope)

// Subscriber consumes domain events with plain core NATS subscriptions.
// Delivery is at-most-once, which is enough for triggering recomputation.
type Subscriber struct {
	nc     *nats.Conn
	subs   []*nats.Subscription
	logger *logger.Logger
}

func NewSubscriber(natsURL, name string, log *logger.Logger) (*Subscriber, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Subscriber{nc: nc, logger: log}, nil
}

// Subscribe registers a handler for a subject. Malformed envelopes are logged and dropped.
func (s *Subscriber) Subscribe(subject string, handler Handler) error {
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		var envelope Envelope
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			s.logger.Warn("Dropping malformed event", "subject", msg.Subject, "error", err.Error())
			return
		}
		handler(envelope)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.subs = append(s.subs, sub)
	s.logger.Info("Subscribed to NATS subject", "subject", subject)
	return nil
}

func (s *Subscriber) Close() error {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	return s.nc.Drain()
}
