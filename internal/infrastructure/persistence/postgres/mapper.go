package postgres

import (
	"database/sql"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

// measurementRow представляет измерение в БД
type measurementRow struct {
	ID           string          `db:"id"`
	Parameter    string          `db:"parameter"`
	Value        float64         `db:"value"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	LocationName string          `db:"location_name"`
	RecordedAt   time.Time       `db:"recorded_at"`
	CreatedAt    time.Time       `db:"created_at"`
}

func toMeasurementRow(p *entity.MeasurementPoint) measurementRow {
	lat, lng := locationColumns(p.Location())
	return measurementRow{
		ID:           p.ID(),
		Parameter:    p.Parameter().String(),
		Value:        p.Value(),
		Latitude:     lat,
		Longitude:    lng,
		LocationName: p.LocationName(),
		RecordedAt:   p.RecordedAt(),
		CreatedAt:    p.CreatedAt(),
	}
}

func (r measurementRow) toEntity() *entity.MeasurementPoint {
	return entity.ReconstructMeasurementPoint(
		r.ID,
		valueobject.Parameter(r.Parameter),
		r.Value,
		locationFromColumns(r.Latitude, r.Longitude),
		r.LocationName,
		r.RecordedAt.UTC(),
		r.CreatedAt.UTC(),
	)
}

type speciesRow struct {
	ID                 string    `db:"id"`
	ScientificName     string    `db:"scientific_name"`
	CommonName         string    `db:"common_name"`
	SpeciesType        string    `db:"species_type"`
	ConservationStatus string    `db:"conservation_status"`
	ThreatLevel        string    `db:"threat_level"`
	PopulationTrend    string    `db:"population_trend"`
	Habitat            string    `db:"habitat"`
	DepthRange         string    `db:"depth_range"`
	GeographicRange    string    `db:"geographic_range"`
	Description        string    `db:"description"`
	CreatedAt          time.Time `db:"created_at"`
}

func toSpeciesRow(s *entity.Species) speciesRow {
	return speciesRow{
		ID:                 s.ID(),
		ScientificName:     s.ScientificName(),
		CommonName:         s.CommonName(),
		SpeciesType:        s.SpeciesType(),
		ConservationStatus: s.ConservationStatus().String(),
		ThreatLevel:        s.ThreatLevel().String(),
		PopulationTrend:    string(s.PopulationTrend()),
		Habitat:            s.Habitat(),
		DepthRange:         s.DepthRange(),
		GeographicRange:    s.GeographicRange(),
		Description:        s.Description(),
		CreatedAt:          s.CreatedAt(),
	}
}

func (r speciesRow) toEntity() *entity.Species {
	return entity.ReconstructSpecies(r.ID, entity.SpeciesAttributes{
		ScientificName:     r.ScientificName,
		CommonName:         r.CommonName,
		SpeciesType:        r.SpeciesType,
		ConservationStatus: valueobject.ConservationStatus(r.ConservationStatus),
		ThreatLevel:        valueobject.ThreatLevel(r.ThreatLevel),
		PopulationTrend:    valueobject.PopulationTrend(r.PopulationTrend),
		Habitat:            r.Habitat,
		DepthRange:         r.DepthRange,
		GeographicRange:    r.GeographicRange,
		Description:        r.Description,
	}, r.CreatedAt.UTC())
}

type observationRow struct {
	ID                string          `db:"id"`
	SpeciesID         string          `db:"species_id"`
	Latitude          sql.NullFloat64 `db:"latitude"`
	Longitude         sql.NullFloat64 `db:"longitude"`
	ObservationCount  int             `db:"observation_count"`
	ConfidenceLevel   float64         `db:"confidence_level"`
	ObservationMethod string          `db:"observation_method"`
	ObserverType      string          `db:"observer_type"`
	ObservedAt        time.Time       `db:"observed_at"`
	Notes             string          `db:"notes"`
}

func toObservationRow(o *entity.SpeciesObservation) observationRow {
	lat, lng := locationColumns(o.Location())
	return observationRow{
		ID:                o.ID(),
		SpeciesID:         o.SpeciesID(),
		Latitude:          lat,
		Longitude:         lng,
		ObservationCount:  o.ObservationCount(),
		ConfidenceLevel:   o.ConfidenceLevel(),
		ObservationMethod: o.ObservationMethod(),
		ObserverType:      o.ObserverType(),
		ObservedAt:        o.ObservedAt(),
		Notes:             o.Notes(),
	}
}

type catchRow struct {
	ID                  string          `db:"id"`
	SpeciesID           string          `db:"species_id"`
	SpeciesName         string          `db:"species_name"`
	CatchAmount         float64         `db:"catch_amount"`
	FishingArea         string          `db:"fishing_area"`
	Latitude            sql.NullFloat64 `db:"latitude"`
	Longitude           sql.NullFloat64 `db:"longitude"`
	FishingMethod       string          `db:"fishing_method"`
	VesselType          string          `db:"vessel_type"`
	CatchDate           time.Time       `db:"catch_date"`
	QuotaLimit          sql.NullFloat64 `db:"quota_limit"`
	SustainabilityScore sql.NullFloat64 `db:"sustainability_score"`
	CreatedAt           time.Time       `db:"created_at"`
}

func toCatchRow(c *entity.FisheriesCatch) catchRow {
	lat, lng := locationColumns(c.Location())
	quota, hasQuota := c.QuotaLimit()
	score, hasScore := c.SustainabilityScore()
	return catchRow{
		ID:                  c.ID(),
		SpeciesID:           c.SpeciesID(),
		CatchAmount:         c.CatchAmount(),
		FishingArea:         c.FishingArea(),
		Latitude:            lat,
		Longitude:           lng,
		FishingMethod:       c.FishingMethod(),
		VesselType:          c.VesselType(),
		CatchDate:           c.CatchDate(),
		QuotaLimit:          sql.NullFloat64{Float64: quota, Valid: hasQuota},
		SustainabilityScore: sql.NullFloat64{Float64: score, Valid: hasScore},
		CreatedAt:           c.CreatedAt(),
	}
}

func (r catchRow) toEntity() *entity.FisheriesCatch {
	return entity.ReconstructFisheriesCatch(r.ID, entity.CatchAttributes{
		SpeciesID:           r.SpeciesID,
		SpeciesName:         r.SpeciesName,
		CatchAmount:         r.CatchAmount,
		FishingArea:         r.FishingArea,
		Location:            locationFromColumns(r.Latitude, r.Longitude),
		FishingMethod:       r.FishingMethod,
		VesselType:          r.VesselType,
		CatchDate:           r.CatchDate.UTC(),
		QuotaLimit:          nullFloatPtr(r.QuotaLimit),
		SustainabilityScore: nullFloatPtr(r.SustainabilityScore),
	}, r.CreatedAt.UTC())
}

type assessmentRow struct {
	ID                string          `db:"id"`
	RegionName        string          `db:"region_name"`
	Latitude          sql.NullFloat64 `db:"latitude"`
	Longitude         sql.NullFloat64 `db:"longitude"`
	SpeciesCount      int             `db:"species_count"`
	EndemicSpecies    int             `db:"endemic_species"`
	ThreatenedSpecies int             `db:"threatened_species"`
	BiodiversityScore float64         `db:"biodiversity_score"`
	EcosystemHealth   string          `db:"ecosystem_health"`
	AssessedAt        time.Time       `db:"assessed_at"`
}

func toAssessmentRow(a *entity.BiodiversityAssessment) assessmentRow {
	lat, lng := locationColumns(a.Location())
	return assessmentRow{
		ID:                a.ID(),
		RegionName:        a.RegionName(),
		Latitude:          lat,
		Longitude:         lng,
		SpeciesCount:      a.SpeciesCount(),
		EndemicSpecies:    a.EndemicSpecies(),
		ThreatenedSpecies: a.ThreatenedSpecies(),
		BiodiversityScore: a.BiodiversityScore(),
		EcosystemHealth:   a.EcosystemHealth().String(),
		AssessedAt:        a.AssessedAt(),
	}
}

func (r assessmentRow) toEntity() *entity.BiodiversityAssessment {
	return entity.ReconstructBiodiversityAssessment(r.ID, entity.AssessmentAttributes{
		RegionName:        r.RegionName,
		Location:          locationFromColumns(r.Latitude, r.Longitude),
		SpeciesCount:      r.SpeciesCount,
		EndemicSpecies:    r.EndemicSpecies,
		ThreatenedSpecies: r.ThreatenedSpecies,
		BiodiversityScore: r.BiodiversityScore,
		EcosystemHealth:   valueobject.EcosystemHealth(r.EcosystemHealth),
		AssessedAt:        r.AssessedAt.UTC(),
	})
}

type alertRow struct {
	ID           string          `db:"id"`
	AlertType    string          `db:"alert_type"`
	Severity     string          `db:"severity"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	LocationName string          `db:"location_name"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	IsActive     bool            `db:"is_active"`
	CreatedAt    time.Time       `db:"created_at"`
	ResolvedAt   sql.NullTime    `db:"resolved_at"`
}

func toAlertRow(a *entity.Alert) alertRow {
	lat, lng := locationColumns(a.Location())
	resolvedAt, resolved := a.ResolvedAt()
	return alertRow{
		ID:           a.ID(),
		AlertType:    a.Type(),
		Severity:     a.Severity().String(),
		Title:        a.Title(),
		Description:  a.Description(),
		LocationName: a.LocationName(),
		Latitude:     lat,
		Longitude:    lng,
		IsActive:     a.IsActive(),
		CreatedAt:    a.CreatedAt(),
		ResolvedAt:   sql.NullTime{Time: resolvedAt, Valid: resolved},
	}
}

func (r alertRow) toEntity() *entity.Alert {
	var resolvedAt *time.Time
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time.UTC()
		resolvedAt = &t
	}
	return entity.ReconstructAlert(
		r.ID,
		r.AlertType,
		valueobject.Severity(r.Severity),
		r.Title,
		r.Description,
		r.LocationName,
		locationFromColumns(r.Latitude, r.Longitude),
		r.IsActive,
		r.CreatedAt.UTC(),
		resolvedAt,
	)
}

func locationColumns(loc valueobject.Location, ok bool) (sql.NullFloat64, sql.NullFloat64) {
	if !ok {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude(), Valid: true},
		sql.NullFloat64{Float64: loc.Longitude(), Valid: true}
}

// locationFromColumns восстанавливает координаты; неполная или невалидная пара дает nil
func locationFromColumns(lat, lng sql.NullFloat64) *valueobject.Location {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	loc, err := valueobject.NewLocation(lat.Float64, lng.Float64)
	if err != nil {
		return nil
	}
	return &loc
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
