package seed

import (
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
)

var catalogue = []entity.SpeciesAttributes{
	{
		ScientificName:     "Thunnus thynnus",
		CommonName:         "Atlantic Bluefin Tuna",
		SpeciesType:        "fish",
		ConservationStatus: valueobject.CriticallyEndangered,
		ThreatLevel:        valueobject.ThreatCritical,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Open ocean, temperate and subtropical waters",
		DepthRange:         "0-1000m",
		GeographicRange:    "North Atlantic Ocean",
		Description:        "Large, fast-swimming tuna highly valued by commercial fishing. Severely overfished populations.",
	},
	{
		ScientificName:     "Eubalaena glacialis",
		CommonName:         "North Atlantic Right Whale",
		SpeciesType:        "mammal",
		ConservationStatus: valueobject.CriticallyEndangered,
		ThreatLevel:        valueobject.ThreatCritical,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Coastal and shelf waters",
		DepthRange:         "0-200m",
		GeographicRange:    "North Atlantic Ocean",
		Description:        "One of the most endangered large whales. Threatened by ship strikes and gear entanglement.",
	},
	{
		ScientificName:     "Carcharodon carcharias",
		CommonName:         "Great White Shark",
		SpeciesType:        "fish",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatMedium,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Coastal surface waters",
		DepthRange:         "0-1200m",
		GeographicRange:    "Temperate waters worldwide",
		Description:        "Apex predator that keeps marine food webs in balance. Declining through overfishing and bycatch.",
	},
	{
		ScientificName:     "Chelonia mydas",
		CommonName:         "Green Sea Turtle",
		SpeciesType:        "reptile",
		ConservationStatus: valueobject.Endangered,
		ThreatLevel:        valueobject.ThreatHigh,
		PopulationTrend:    valueobject.PopulationIncreasing,
		Habitat:            "Coastal waters, seagrass beds",
		DepthRange:         "0-100m",
		GeographicRange:    "Tropical and subtropical oceans worldwide",
		Description:        "Large sea turtle recovering from near extinction. Threatened by plastic pollution and coastal development.",
	},
	{
		ScientificName:     "Gadus morhua",
		CommonName:         "Atlantic Cod",
		SpeciesType:        "fish",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatMedium,
		PopulationTrend:    valueobject.PopulationStable,
		Habitat:            "Continental shelf waters",
		DepthRange:         "0-600m",
		GeographicRange:    "North Atlantic Ocean",
		Description:        "Important commercial species recovering from historical overfishing.",
	},
	{
		ScientificName:     "Physeter macrocephalus",
		CommonName:         "Sperm Whale",
		SpeciesType:        "mammal",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatMedium,
		PopulationTrend:    valueobject.PopulationStable,
		Habitat:            "Deep ocean waters",
		DepthRange:         "0-3000m",
		GeographicRange:    "Deep waters worldwide",
		Description:        "Largest toothed whale. Threatened by ship noise and plastic pollution.",
	},
	{
		ScientificName:     "Acropora palmata",
		CommonName:         "Elkhorn Coral",
		SpeciesType:        "coral",
		ConservationStatus: valueobject.CriticallyEndangered,
		ThreatLevel:        valueobject.ThreatCritical,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Shallow tropical reefs",
		DepthRange:         "1-20m",
		GeographicRange:    "Caribbean Sea, Western Atlantic",
		Description:        "Reef-building coral severely threatened by acidification and warming.",
	},
	{
		ScientificName:     "Hippocampus erectus",
		CommonName:         "Lined Seahorse",
		SpeciesType:        "fish",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatMedium,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Seagrass beds, coral reefs",
		DepthRange:         "0-73m",
		GeographicRange:    "Western Atlantic Ocean",
		Description:        "Small fish threatened by habitat loss and collection for traditional medicine.",
	},
	{
		ScientificName:     "Caretta caretta",
		CommonName:         "Loggerhead Sea Turtle",
		SpeciesType:        "reptile",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatMedium,
		PopulationTrend:    valueobject.PopulationStable,
		Habitat:            "Open ocean, coastal waters",
		DepthRange:         "0-200m",
		GeographicRange:    "Temperate and tropical waters worldwide",
		Description:        "Long-lived sea turtle threatened by bycatch.",
	},
	{
		ScientificName:     "Salmo salar",
		CommonName:         "Atlantic Salmon",
		SpeciesType:        "fish",
		ConservationStatus: valueobject.Vulnerable,
		ThreatLevel:        valueobject.ThreatHigh,
		PopulationTrend:    valueobject.PopulationDecreasing,
		Habitat:            "Rivers, coastal waters",
		DepthRange:         "0-210m",
		GeographicRange:    "North Atlantic Ocean and rivers",
		Description:        "Anadromous fish whose wild stocks suffer from habitat loss and aquaculture.",
	},
	{
		ScientificName:     "Mytilus edulis",
		CommonName:         "Blue Mussel",
		SpeciesType:        "invertebrate",
		ConservationStatus: valueobject.LeastConcern,
		ThreatLevel:        valueobject.ThreatLow,
		PopulationTrend:    valueobject.PopulationStable,
		Habitat:            "Intertidal rocky shores",
		DepthRange:         "0-10m",
		GeographicRange:    "North Atlantic and North Pacific coasts",
		Description:        "Filter-feeding mollusk that keeps coastal water clear.",
	},
	{
		ScientificName:     "Laminaria hyperborea",
		CommonName:         "Cuvie Kelp",
		SpeciesType:        "algae",
		ConservationStatus: valueobject.LeastConcern,
		ThreatLevel:        valueobject.ThreatLow,
		PopulationTrend:    valueobject.PopulationStable,
		Habitat:            "Rocky subtidal zones",
		DepthRange:         "5-30m",
		GeographicRange:    "Northeast Atlantic Ocean",
		Description:        "Large brown alga forming underwater forests.",
	},
}

type oceanRegion struct {
	name        string
	lat, lng    float64
	temperature float64
	salinity    float64
	ph          float64
}

var oceanRegions = []oceanRegion{
	{"Gulf of Maine", 43.5, -69.0, 12, 32.5, 8.0},
	{"Sargasso Sea", 32.0, -64.0, 22, 36.5, 8.1},
	{"North Sea", 56.0, 3.0, 10, 35.0, 8.0},
	{"Caribbean Sea", 15.0, -75.0, 27, 36.0, 8.2},
	{"Mediterranean Sea", 40.0, 18.0, 20, 38.5, 8.1},
	{"Bering Sea", 58.0, -175.0, 4, 33.0, 7.9},
	{"Great Barrier Reef", -18.0, 147.0, 25, 35.5, 8.0},
	{"Norwegian Sea", 66.0, 2.0, 6, 34.8, 8.0},
}

type biodiversityRegion struct {
	name         string
	lat, lng     float64
	speciesCount int
	endemic      int
	threatened   int
	score        float64
	health       valueobject.EcosystemHealth
}

var biodiversityRegions = []biodiversityRegion{
	{"Caribbean Marine Ecosystem", 18.0, -78.0, 125, 23, 34, 72.5, valueobject.EcosystemGood},
	{"North Atlantic Continental Shelf", 42.0, -65.0, 89, 5, 18, 68.3, valueobject.EcosystemFair},
	{"Mediterranean Deep Sea", 38.5, 15.0, 156, 45, 28, 75.8, valueobject.EcosystemGood},
	{"Arctic Marine Region", 75.0, -100.0, 67, 12, 15, 58.2, valueobject.EcosystemFair},
	{"Pacific Northwest Coast", 48.5, -125.0, 198, 32, 42, 81.4, valueobject.EcosystemExcellent},
	{"Great Barrier Reef System", -16.0, 145.5, 234, 67, 56, 65.1, valueobject.EcosystemPoor},
}

type site struct {
	name     string
	lat, lng float64
}

var observationSites = []site{
	{"Florida Keys", 25.7, -80.2},
	{"Stellwagen Bank", 42.0, -70.0},
	{"Gulf of the Farallones", 37.8, -122.5},
	{"Great Barrier Reef", -25.3, 153.1},
	{"Norwegian Fjords", 60.0, 5.0},
	{"Bay of Fundy", 45.5, -62.0},
	{"North Sea", 55.0, 2.0},
	{"Caribbean Sea", 18.0, -77.0},
}

var fishingAreas = []site{
	{"Grand Banks", 45.0, -50.0},
	{"Georges Bank", 41.0, -67.5},
	{"North Sea", 56.0, 3.0},
	{"Barents Sea", 74.0, 40.0},
	{"Bering Sea", 58.0, -175.0},
	{"Gulf of Mexico", 26.0, -90.0},
}

var (
	observationMethods = []string{"visual", "camera", "sonar", "acoustic"}
	observerTypes      = []string{"researcher", "citizen", "ai_system"}
	vesselTypes        = []string{"trawler", "longliner", "purse_seiner", "gillnetter"}
	fishingMethods     = []string{"bottom_trawl", "pelagic_trawl", "longline", "purse_seine", "gillnet"}
)

type sampleAlert struct {
	alertType   string
	severity    valueobject.Severity
	title       string
	description string
	location    string
	lat, lng    float64
	age         time.Duration
	resolvedAgo time.Duration // 0 means still active
}

const oneDay = 24 * time.Hour

var sampleAlerts = []sampleAlert{
	{
		alertType:   entity.AlertTypeOverfishing,
		severity:    valueobject.SeverityHigh,
		title:       "Quota Exceeded: Atlantic Bluefin Tuna",
		description: "Catch quotas for Atlantic Bluefin Tuna have been exceeded by 25% in the Grand Banks region",
		location:    "Grand Banks",
		lat:         45.0,
		lng:         -50.0,
		age:         2 * oneDay,
	},
	{
		alertType:   entity.AlertTypeTemperatureAnomaly,
		severity:    valueobject.SeverityCritical,
		title:       "Extreme Temperature Rise in Caribbean",
		description: "Sea surface temperatures 3.2C above normal, triggering coral bleaching risk",
		location:    "Caribbean Sea",
		lat:         18.0,
		lng:         -78.0,
		age:         oneDay,
	},
	{
		alertType:   entity.AlertTypeBiodiversityRisk,
		severity:    valueobject.SeverityHigh,
		title:       "Declining Biodiversity: Great Barrier Reef",
		description: "Biodiversity index has dropped to 65.1, indicating ecosystem stress",
		location:    "Great Barrier Reef",
		lat:         -16.0,
		lng:         145.5,
		age:         3 * oneDay,
	},
	{
		alertType:   "species_threat",
		severity:    valueobject.SeverityCritical,
		title:       "North Atlantic Right Whale Population Crisis",
		description: "Only 340 individuals remaining, ship strikes reported in migration corridor",
		location:    "North Atlantic",
		lat:         42.0,
		lng:         -65.0,
		age:         6 * time.Hour,
	},
	{
		alertType:   "sustainability_risk",
		severity:    valueobject.SeverityMedium,
		title:       "Low Sustainability Score: North Sea Fishing",
		description: "Average sustainability score of 42% detected in North Sea commercial fishing",
		location:    "North Sea",
		lat:         56.0,
		lng:         3.0,
		age:         5 * oneDay,
	},
	{
		alertType:   entity.AlertTypePHAnomaly,
		severity:    valueobject.SeverityHigh,
		title:       "pH Levels Dropping in Arctic Waters",
		description: "Ocean pH has decreased to 7.8, threatening calcifying organisms",
		location:    "Arctic Ocean",
		lat:         75.0,
		lng:         -100.0,
		age:         oneDay,
	},
	{
		alertType:   entity.AlertTypeOverfishing,
		severity:    valueobject.SeverityMedium,
		title:       "Cod Overfishing Alert Resolved",
		description: "Fishing pressure reduced, quota compliance restored in Barents Sea",
		location:    "Barents Sea",
		lat:         74.0,
		lng:         40.0,
		age:         15 * oneDay,
		resolvedAgo: 7 * oneDay,
	},
}
