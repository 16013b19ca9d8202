package port

import (
	"context"
)

// Domain event subjects
const (
	SubjectMeasurementsRecorded = "ocean.measurements.recorded"
	SubjectAlertRaised          = "ocean.alerts.raised"
	SubjectAlertResolved        = "ocean.alerts.resolved"
	SubjectSpeciesIdentified    = "ocean.species.identified"
)

// EventPublisher defines the interface for publishing domain events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker
	Close() error
}
