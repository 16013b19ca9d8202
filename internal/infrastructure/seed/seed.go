// Package seed fills an empty store with a sample marine dataset: the species catalogue,
// thirty days of ocean measurements, regional biodiversity assessments, field
// observations, fisheries catches and a set of alerts.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/repository"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// Repositories lists the stores the seeder writes to.
type Repositories struct {
	Species      repository.SpeciesRepository
	Observations repository.ObservationRepository
	Measurements repository.MeasurementRepository
	Fisheries    repository.FisheriesRepository
	Biodiversity repository.BiodiversityRepository
	Alerts       repository.AlertRepository
}

// Result reports what a Seed call wrote.
type Result struct {
	Skipped      bool
	Species      int
	Measurements int
	Assessments  int
	Observations int
	Catches      int
	Alerts       int
}

type Seeder struct {
	repos  Repositories
	rng    *rand.Rand
	now    func() time.Time
	logger *logger.Logger
}

// New creates a seeder. The same randSeed always produces the same dataset.
func New(repos Repositories, randSeed uint64, log *logger.Logger) *Seeder {
	return &Seeder{
		repos:  repos,
		rng:    rand.New(rand.NewPCG(randSeed, randSeed^0x9e3779b97f4a7c15)),
		now:    time.Now,
		logger: log,
	}
}

// Seed writes the sample dataset unless the species catalogue already has entries.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	existing, err := s.repos.Species.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count species: %w", err)
	}
	if existing > 0 {
		s.logger.Info("Sample data already present, skipping seed", "species", existing)
		return Result{Skipped: true}, nil
	}

	now := s.now().UTC()
	var res Result

	species, err := s.seedSpecies(ctx)
	if err != nil {
		return res, err
	}
	res.Species = len(species)

	if res.Measurements, err = s.seedMeasurements(ctx, now); err != nil {
		return res, err
	}
	if res.Assessments, err = s.seedAssessments(ctx, now); err != nil {
		return res, err
	}
	if res.Observations, err = s.seedObservations(ctx, species, now); err != nil {
		return res, err
	}
	if res.Catches, err = s.seedCatches(ctx, species, now); err != nil {
		return res, err
	}
	if res.Alerts, err = s.seedAlerts(ctx, now); err != nil {
		return res, err
	}

	s.logger.Info("Sample data seeded",
		"species", res.Species,
		"measurements", res.Measurements,
		"assessments", res.Assessments,
		"observations", res.Observations,
		"catches", res.Catches,
		"alerts", res.Alerts,
	)
	return res, nil
}

func (s *Seeder) seedSpecies(ctx context.Context) ([]*entity.Species, error) {
	created := make([]*entity.Species, 0, len(catalogue))
	for _, attrs := range catalogue {
		sp, err := entity.NewSpecies(attrs)
		if err != nil {
			return nil, fmt.Errorf("build species %s: %w", attrs.ScientificName, err)
		}
		if err := s.repos.Species.Save(ctx, sp); err != nil {
			return nil, fmt.Errorf("save species %s: %w", attrs.ScientificName, err)
		}
		created = append(created, sp)
	}
	return created, nil
}

// seedMeasurements writes 2-6 readings per day per region over the last 30 days.
// Each reading carries temperature, salinity, pH and the surface current.
func (s *Seeder) seedMeasurements(ctx context.Context, now time.Time) (int, error) {
	start := now.AddDate(0, 0, -30)
	total := 0

	for _, region := range oceanRegions {
		var points []*entity.MeasurementPoint

		for day := 0; day < 30; day++ {
			readings := 2 + s.rng.IntN(5)
			for i := 0; i < readings; i++ {
				at := start.AddDate(0, 0, day).
					Add(time.Duration(s.rng.IntN(24)) * time.Hour).
					Add(time.Duration(s.rng.IntN(60)) * time.Minute)

				loc, err := valueobject.NewLocation(
					region.lat+s.uniform(-2, 2),
					region.lng+s.uniform(-2, 2),
				)
				if err != nil {
					return total, fmt.Errorf("build location for %s: %w", region.name, err)
				}

				values := []struct {
					parameter valueobject.Parameter
					value     float64
				}{
					{valueobject.Temperature, max(0, region.temperature+s.uniform(-3, 3))},
					{valueobject.Salinity, max(0, region.salinity+s.uniform(-1, 1))},
					{valueobject.PH, min(8.5, max(6.5, region.ph+s.uniform(-0.3, 0.3)))},
					{valueobject.CurrentSpeed, s.uniform(0.1, 2.5)},
					{valueobject.CurrentDirection, s.uniform(0, 360)},
				}
				for _, v := range values {
					p, err := entity.NewMeasurementPoint(v.parameter, v.value, &loc, region.name, at)
					if err != nil {
						return total, fmt.Errorf("build %s measurement: %w", v.parameter, err)
					}
					points = append(points, p)
				}
			}
		}

		if err := s.repos.Measurements.SaveBatch(ctx, points); err != nil {
			return total, fmt.Errorf("save measurements for %s: %w", region.name, err)
		}
		total += len(points)
	}

	return total, nil
}

// seedAssessments writes three assessments per region between 30 and 365 days old.
func (s *Seeder) seedAssessments(ctx context.Context, now time.Time) (int, error) {
	total := 0
	for _, region := range biodiversityRegions {
		dates := make([]time.Time, 3)
		for i := range dates {
			dates[i] = now.AddDate(0, 0, -(30 + s.rng.IntN(336)))
		}
		slices.SortFunc(dates, time.Time.Compare)

		loc, err := valueobject.NewLocation(region.lat, region.lng)
		if err != nil {
			return total, fmt.Errorf("build location for %s: %w", region.name, err)
		}

		for i, at := range dates {
			score, speciesCount := region.score, region.speciesCount
			if i > 0 {
				score = min(100, max(0, score+s.uniform(-5, 5)))
				speciesCount = max(region.threatened, region.endemic, speciesCount+s.rng.IntN(21)-10)
			}

			a, err := entity.NewBiodiversityAssessment(entity.AssessmentAttributes{
				RegionName:        region.name,
				Location:          &loc,
				SpeciesCount:      speciesCount,
				EndemicSpecies:    region.endemic,
				ThreatenedSpecies: region.threatened,
				BiodiversityScore: score,
				EcosystemHealth:   region.health,
				AssessedAt:        at,
			})
			if err != nil {
				return total, fmt.Errorf("build assessment for %s: %w", region.name, err)
			}
			if err := s.repos.Biodiversity.Save(ctx, a); err != nil {
				return total, fmt.Errorf("save assessment for %s: %w", region.name, err)
			}
			total++
		}
	}
	return total, nil
}

// seedObservations writes 3-15 sightings per species over the last 60 days.
func (s *Seeder) seedObservations(ctx context.Context, species []*entity.Species, now time.Time) (int, error) {
	start := now.AddDate(0, 0, -60)
	total := 0

	for _, sp := range species {
		base := 0.75
		if sp.SpeciesType() == "fish" || sp.SpeciesType() == "mammal" {
			base = 0.85
		}

		count := 3 + s.rng.IntN(13)
		for i := 0; i < count; i++ {
			site := observationSites[s.rng.IntN(len(observationSites))]
			loc, err := valueobject.NewLocation(site.lat+s.uniform(-0.5, 0.5), site.lng+s.uniform(-0.5, 0.5))
			if err != nil {
				return total, fmt.Errorf("build location for %s: %w", site.name, err)
			}

			o, err := entity.NewSpeciesObservation(entity.ObservationAttributes{
				SpeciesID:         sp.ID(),
				Location:          &loc,
				ObservationCount:  1 + s.rng.IntN(12),
				ConfidenceLevel:   min(0.95, max(0.5, base+s.uniform(-0.15, 0.10))),
				ObservationMethod: pick(s.rng, observationMethods),
				ObserverType:      pick(s.rng, observerTypes),
				ObservedAt:        s.spreadDate(now, start, i, 61),
				Notes:             "Observation in " + site.name + " area",
			})
			if err != nil {
				return total, fmt.Errorf("build observation: %w", err)
			}
			if err := s.repos.Observations.Save(ctx, o); err != nil {
				return total, fmt.Errorf("save observation: %w", err)
			}
			total++
		}
	}
	return total, nil
}

// seedCatches writes 5-20 catches over the last 90 days for every fish species.
// Quota headroom depends on the species and the sustainability score on its threat level.
func (s *Seeder) seedCatches(ctx context.Context, species []*entity.Species, now time.Time) (int, error) {
	start := now.AddDate(0, 0, -90)
	total := 0

	for _, sp := range species {
		if sp.SpeciesType() != "fish" {
			continue
		}

		count := 5 + s.rng.IntN(16)
		for i := 0; i < count; i++ {
			area := fishingAreas[s.rng.IntN(len(fishingAreas))]
			loc, err := valueobject.NewLocation(area.lat+s.uniform(-2, 2), area.lng+s.uniform(-2, 2))
			if err != nil {
				return total, fmt.Errorf("build location for %s: %w", area.name, err)
			}

			amount, quota := s.catchAndQuota(sp.CommonName())
			score := s.sustainabilityFor(sp.ThreatLevel())

			c, err := entity.NewFisheriesCatch(entity.CatchAttributes{
				SpeciesID:           sp.ID(),
				SpeciesName:         sp.CommonName(),
				CatchAmount:         amount,
				FishingArea:         area.name,
				Location:            &loc,
				FishingMethod:       pick(s.rng, fishingMethods),
				VesselType:          pick(s.rng, vesselTypes),
				CatchDate:           s.spreadDate(now, start, i, 91),
				QuotaLimit:          &quota,
				SustainabilityScore: &score,
			})
			if err != nil {
				return total, fmt.Errorf("build catch: %w", err)
			}
			if err := s.repos.Fisheries.Save(ctx, c); err != nil {
				return total, fmt.Errorf("save catch: %w", err)
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) catchAndQuota(commonName string) (float64, float64) {
	name := strings.ToLower(commonName)
	switch {
	case strings.Contains(name, "tuna"):
		amount := s.uniform(50, 500)
		return amount, amount * s.uniform(1.2, 2.0)
	case strings.Contains(name, "cod"):
		amount := s.uniform(100, 800)
		return amount, amount * s.uniform(1.1, 1.8)
	default:
		amount := s.uniform(20, 300)
		return amount, amount * s.uniform(1.3, 2.5)
	}
}

func (s *Seeder) sustainabilityFor(threat valueobject.ThreatLevel) float64 {
	switch threat {
	case valueobject.ThreatCritical:
		return s.uniform(15, 35)
	case valueobject.ThreatHigh:
		return s.uniform(25, 50)
	case valueobject.ThreatMedium:
		return s.uniform(40, 70)
	default:
		return s.uniform(60, 85)
	}
}

func (s *Seeder) seedAlerts(ctx context.Context, now time.Time) (int, error) {
	for _, a := range sampleAlerts {
		loc, err := valueobject.NewLocation(a.lat, a.lng)
		if err != nil {
			return 0, fmt.Errorf("build location for %s: %w", a.location, err)
		}

		var resolvedAt *time.Time
		if a.resolvedAgo > 0 {
			t := now.Add(-a.resolvedAgo)
			resolvedAt = &t
		}

		alert := entity.ReconstructAlert(
			uuid.New().String(),
			a.alertType,
			a.severity,
			a.title,
			a.description,
			a.location,
			&loc,
			resolvedAt == nil,
			now.Add(-a.age),
			resolvedAt,
		)
		if err := s.repos.Alerts.Save(ctx, alert); err != nil {
			return 0, fmt.Errorf("save alert %q: %w", a.title, err)
		}
	}
	return len(sampleAlerts), nil
}

// spreadDate keeps the first record of every series within the last week so
// recent-activity figures never come out empty.
func (s *Seeder) spreadDate(now, start time.Time, i, days int) time.Time {
	if i == 0 {
		return now.Add(-time.Duration(1+s.rng.IntN(7*24)) * time.Hour)
	}
	return start.AddDate(0, 0, s.rng.IntN(days))
}

func (s *Seeder) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
