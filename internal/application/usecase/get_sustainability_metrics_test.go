package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/service"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

type sustainabilityFixture struct {
	repos SustainabilityRepositories
	now   time.Time
}

func newSustainabilityFixture(t *testing.T) *sustainabilityFixture {
	t.Helper()
	return &sustainabilityFixture{
		repos: SustainabilityRepositories{
			Species:      memory.NewSpeciesRepository(),
			Observations: memory.NewObservationRepository(),
			Alerts:       memory.NewAlertRepository(),
			Fisheries:    memory.NewFisheriesRepository(),
			Biodiversity: memory.NewBiodiversityRepository(),
		},
		now: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *sustainabilityFixture) addSpecies(t *testing.T, name string, status valueobject.ConservationStatus, threat valueobject.ThreatLevel) *entity.Species {
	t.Helper()
	s, err := entity.NewSpecies(entity.SpeciesAttributes{
		ScientificName:     name,
		ConservationStatus: status,
		ThreatLevel:        threat,
	})
	if err != nil {
		t.Fatalf("NewSpecies() error = %v", err)
	}
	if err := f.repos.Species.Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return s
}

func (f *sustainabilityFixture) addCatch(t *testing.T, speciesID string, daysAgo int, score float64) {
	t.Helper()
	c, err := entity.NewFisheriesCatch(entity.CatchAttributes{
		SpeciesID:           speciesID,
		CatchAmount:         100,
		CatchDate:           f.now.AddDate(0, 0, -daysAgo),
		SustainabilityScore: &score,
	})
	if err != nil {
		t.Fatalf("NewFisheriesCatch() error = %v", err)
	}
	if err := f.repos.Fisheries.Save(context.Background(), c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func (f *sustainabilityFixture) useCase() *GetSustainabilityMetricsUseCase {
	uc := NewGetSustainabilityMetricsUseCase(f.repos, service.NewDefaultMetricsAggregator(), nil, SustainabilityConfig{}, logger.New("error"))
	uc.now = func() time.Time { return f.now }
	return uc
}

func TestGetSustainabilityMetricsUseCase_TrendAgainstPreviousPeriod(t *testing.T) {
	f := newSustainabilityFixture(t)
	turtle := f.addSpecies(t, "Chelonia mydas", valueobject.Endangered, valueobject.ThreatHigh)
	f.addSpecies(t, "Thunnus thynnus", valueobject.LeastConcern, valueobject.ThreatLow)

	// Текущий период: среднее 80, предыдущий: среднее 64
	f.addCatch(t, turtle.ID(), 5, 80)
	f.addCatch(t, turtle.ID(), 10, 80)
	f.addCatch(t, turtle.ID(), 40, 64)

	obs, _ := entity.NewSpeciesObservation(entity.ObservationAttributes{
		SpeciesID:  turtle.ID(),
		ObservedAt: f.now.Add(-24 * time.Hour),
	})
	_ = f.repos.Observations.Save(context.Background(), obs)

	alert, _ := entity.NewAlert(entity.AlertTypeOverfishing, valueobject.SeverityMedium, "Quota exceeded", "", "", nil)
	_ = f.repos.Alerts.Save(context.Background(), alert)

	res, err := f.useCase().Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.SustainabilityScore == nil || *res.SustainabilityScore != 80 {
		t.Fatalf("expected score 80, got %v", res.SustainabilityScore)
	}
	if res.Trend.Status != "improving" || res.Trend.Percentage != 25 {
		t.Fatalf("unexpected trend: %+v", res.Trend)
	}
	if res.TotalSpecies != 2 || res.ThreatenedSpecies != 1 || res.ThreatPercentage != 50 {
		t.Fatalf("unexpected species counts: %+v", res)
	}
	if res.RecentObservations != 1 || res.TotalActiveAlerts != 1 {
		t.Fatalf("unexpected observation/alert counts: %d/%d", res.RecentObservations, res.TotalActiveAlerts)
	}
	if len(res.ConservationStatusDistribution) != len(valueobject.AllConservationStatuses()) {
		t.Fatalf("expected every conservation status in distribution")
	}
	if res.AverageBiodiversity != nil {
		t.Fatalf("expected no biodiversity average without assessments")
	}
}

func TestGetSustainabilityMetricsUseCase_EmptyDataIsStable(t *testing.T) {
	f := newSustainabilityFixture(t)

	res, err := f.useCase().Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.ScoreAvailable || res.SustainabilityScore != nil {
		t.Fatalf("expected unavailable score")
	}
	if res.Trend.Status != "stable" || res.Trend.Percentage != 0 {
		t.Fatalf("expected stable 0%% trend, got %+v", res.Trend)
	}
	if res.ThreatPercentage != 0 {
		t.Fatalf("expected 0 threat percentage, got %v", res.ThreatPercentage)
	}
}

func TestGetSustainabilityMetricsUseCase_RegionalBiodiversity(t *testing.T) {
	f := newSustainabilityFixture(t)
	for _, a := range []entity.AssessmentAttributes{
		{RegionName: "Coral Triangle", SpeciesCount: 10, BiodiversityScore: 60, EcosystemHealth: valueobject.EcosystemFair, AssessedAt: f.now.AddDate(0, -2, 0)},
		{RegionName: "Coral Triangle", SpeciesCount: 10, BiodiversityScore: 90, EcosystemHealth: valueobject.EcosystemExcellent, AssessedAt: f.now.AddDate(0, -1, 0)},
		{RegionName: "Baltic Sea", SpeciesCount: 5, BiodiversityScore: 50, EcosystemHealth: valueobject.EcosystemPoor, AssessedAt: f.now.AddDate(0, -1, 0)},
	} {
		b, err := entity.NewBiodiversityAssessment(a)
		if err != nil {
			t.Fatalf("NewBiodiversityAssessment() error = %v", err)
		}
		_ = f.repos.Biodiversity.Save(context.Background(), b)
	}

	res, err := f.useCase().Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.AverageBiodiversity == nil || *res.AverageBiodiversity != 70 {
		t.Fatalf("expected average of latest assessments 70, got %v", res.AverageBiodiversity)
	}

	counts := map[string]int{}
	for _, c := range res.EcosystemHealthDistribution {
		counts[c.Category] = c.Count
	}
	if counts["excellent"] != 1 || counts["poor"] != 1 || counts["fair"] != 0 {
		t.Fatalf("unexpected ecosystem distribution: %v", counts)
	}
}

func TestGetSustainabilityMetricsUseCase_RecentObservationWindow(t *testing.T) {
	f := newSustainabilityFixture(t)
	turtle := f.addSpecies(t, "Chelonia mydas", valueobject.Endangered, valueobject.ThreatHigh)

	for _, daysAgo := range []int{20, 45} {
		obs, err := entity.NewSpeciesObservation(entity.ObservationAttributes{
			SpeciesID:  turtle.ID(),
			ObservedAt: f.now.AddDate(0, 0, -daysAgo),
		})
		if err != nil {
			t.Fatalf("NewSpeciesObservation() error = %v", err)
		}
		if err := f.repos.Observations.Save(context.Background(), obs); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	res, err := f.useCase().Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.RecentObservations != 1 {
		t.Fatalf("expected only the 20-day-old observation in the default window, got %d", res.RecentObservations)
	}

	uc := NewGetSustainabilityMetricsUseCase(f.repos, service.NewDefaultMetricsAggregator(), nil,
		SustainabilityConfig{ObservationWindow: 60 * 24 * time.Hour}, logger.New("error"))
	uc.now = func() time.Time { return f.now }

	res, err = uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.RecentObservations != 2 {
		t.Fatalf("expected both observations in a 60-day window, got %d", res.RecentObservations)
	}
}
