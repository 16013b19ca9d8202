package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

type recordFixture struct {
	uc       *RecordMeasurementsUseCase
	points   *memory.MeasurementRepository
	alerts   *memory.AlertRepository
	notifier *recordingNotifier
	events   *recordingEvents
	cache    *memoryCache
}

func newRecordFixture() *recordFixture {
	log := logger.New("error")
	aggregator := service.NewDefaultMetricsAggregator()
	f := &recordFixture{
		points:   memory.NewMeasurementRepository(),
		alerts:   memory.NewAlertRepository(),
		notifier: &recordingNotifier{},
		events:   &recordingEvents{},
		cache:    newMemoryCache(),
	}
	conditions := NewGetOceanConditionsUseCase(f.points, aggregator, nil, OceanConditionsConfig{}, log)
	f.uc = NewRecordMeasurementsUseCase(
		f.points,
		f.alerts,
		service.NewMeasurementValidator(),
		aggregator,
		f.notifier,
		conditions,
		nil,
		f.events,
		nil,
		f.cache,
		log,
	)
	return f
}

func floatPtr(v float64) *float64 { return &v }

func TestRecordMeasurementsUseCase_Success(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()

	res, err := f.uc.Execute(ctx, []dto.MeasurementInputDTO{
		{Parameter: "temperature", Value: 22.5, Latitude: floatPtr(-16.9), Longitude: floatPtr(145.8), LocationName: "Great Barrier Reef"},
		{Parameter: "ph", Value: 8.1, LocationName: "Great Barrier Reef"},
		{Parameter: "salinity", Value: 35},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Recorded != 3 || res.AlertsRaised != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	count, _ := f.points.Count(ctx)
	if count != 3 {
		t.Fatalf("expected 3 stored points, got %d", count)
	}

	if len(f.notifier.measurements) != 1 || len(f.notifier.measurements[0]) != 3 {
		t.Fatalf("expected one measurements broadcast with 3 points")
	}
	if len(f.notifier.conditions) != 1 {
		t.Fatalf("expected conditions broadcast")
	}
	if score := f.notifier.conditions[0].HealthScore; score == nil || *score != 100 {
		t.Fatalf("expected health score 100 for ideal values, got %v", score)
	}

	subjects := f.events.subjects()
	if len(subjects) != 1 || subjects[0] != port.SubjectMeasurementsRecorded {
		t.Fatalf("unexpected published subjects: %v", subjects)
	}

	if len(f.cache.deleted) != 2 {
		t.Fatalf("expected cache invalidation for 2 prefixes, got %v", f.cache.deleted)
	}
}

func TestRecordMeasurementsUseCase_SevereDeviationRaisesAlert(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()

	res, err := f.uc.Execute(ctx, []dto.MeasurementInputDTO{
		{Parameter: "temperature", Value: 33, LocationName: "Red Sea"},
		{Parameter: "temperature", Value: 34, LocationName: "Red Sea"},
		{Parameter: "ph", Value: 7.2, LocationName: "Red Sea"},
		// Мягкое отклонение не создает алерт
		{Parameter: "salinity", Value: 31, LocationName: "Red Sea"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.AlertsRaised != 2 {
		t.Fatalf("expected 2 alerts (temperature, ph), got %d", res.AlertsRaised)
	}

	active, _ := f.alerts.CountActive(ctx)
	if active != 2 {
		t.Fatalf("expected 2 stored alerts, got %d", active)
	}
	if len(f.notifier.alerts) != 2 {
		t.Fatalf("expected 2 alert broadcasts, got %d", len(f.notifier.alerts))
	}

	types := map[string]bool{}
	for _, a := range res.Alerts {
		types[a.Type] = true
		if a.Severity != "high" {
			t.Fatalf("expected severity high, got %s", a.Severity)
		}
		if !strings.Contains(a.Title, "Red Sea") {
			t.Fatalf("expected location in title, got %q", a.Title)
		}
	}
	if !types["temperature_anomaly"] || !types["ph_anomaly"] {
		t.Fatalf("unexpected alert types: %v", types)
	}

	raised := 0
	for _, s := range f.events.subjects() {
		if s == port.SubjectAlertRaised {
			raised++
		}
	}
	if raised != 2 {
		t.Fatalf("expected 2 alert events, got %d", raised)
	}
}

func TestRecordMeasurementsUseCase_AlertPerParameterAndLocation(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()

	res, err := f.uc.Execute(ctx, []dto.MeasurementInputDTO{
		{Parameter: "temperature", Value: 33, LocationName: "Red Sea"},
		{Parameter: "temperature", Value: 35, LocationName: "Red Sea"},
		{Parameter: "temperature", Value: 33, LocationName: "Persian Gulf"},
		{Parameter: "ph", Value: 7.1, LocationName: "Persian Gulf"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.AlertsRaised != 3 {
		t.Fatalf("expected 3 alerts (one per parameter and location), got %d", res.AlertsRaised)
	}

	titles := map[string]bool{}
	for _, a := range res.Alerts {
		titles[a.Title] = true
	}
	for _, want := range []string{
		"Temperature anomaly at Red Sea",
		"Temperature anomaly at Persian Gulf",
		"pH anomaly at Persian Gulf",
	} {
		if !titles[want] {
			t.Fatalf("missing alert %q in %v", want, titles)
		}
	}
}

func TestRecordMeasurementsUseCase_ValidationErrors(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		inputs  []dto.MeasurementInputDTO
		wantErr string
	}{
		{
			name:    "empty batch",
			inputs:  nil,
			wantErr: "batch is empty",
		},
		{
			name:    "unknown parameter",
			inputs:  []dto.MeasurementInputDTO{{Parameter: "turbidity", Value: 1}},
			wantErr: "point 0",
		},
		{
			name:    "latitude without longitude",
			inputs:  []dto.MeasurementInputDTO{{Parameter: "ph", Value: 8, Latitude: floatPtr(10)}},
			wantErr: "latitude and longitude",
		},
		{
			name:    "latitude out of range",
			inputs:  []dto.MeasurementInputDTO{{Parameter: "ph", Value: 8, Latitude: floatPtr(95), Longitude: floatPtr(0)}},
			wantErr: "point 0",
		},
		{
			name: "implausible value rejects whole batch",
			inputs: []dto.MeasurementInputDTO{
				{Parameter: "ph", Value: 8},
				{Parameter: "temperature", Value: 80},
			},
			wantErr: "point 1",
		},
		{
			name:    "timestamp in the future",
			inputs:  []dto.MeasurementInputDTO{{Parameter: "salinity", Value: 35, Timestamp: future}},
			wantErr: "point 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRecordFixture()
			_, err := f.uc.Execute(context.Background(), tc.inputs)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, service.ErrInvalidMeasurement) {
				t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}

			count, _ := f.points.Count(context.Background())
			if count != 0 {
				t.Fatalf("expected nothing stored, got %d", count)
			}
			if len(f.notifier.measurements) != 0 {
				t.Fatalf("expected no broadcast for rejected batch")
			}
		})
	}
}

func TestRecordMeasurementsUseCase_PublishErrorDoesNotFail(t *testing.T) {
	f := newRecordFixture()
	f.events.err = errors.New("nats down")

	res, err := f.uc.Execute(context.Background(), []dto.MeasurementInputDTO{
		{Parameter: "current_speed", Value: 1.2},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Recorded != 1 {
		t.Fatalf("expected 1 recorded point, got %d", res.Recorded)
	}
}
