package valueobject

import (
	"fmt"
	"strings"
)

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ConservationStatus представляет статус охраны вида по шкале IUCN
type ConservationStatus string

const (
	LeastConcern         ConservationStatus = "least concern"
	NearThreatened       ConservationStatus = "near threatened"
	Vulnerable           ConservationStatus = "vulnerable"
	Endangered           ConservationStatus = "endangered"
	CriticallyEndangered ConservationStatus = "critically endangered"
	Extinct              ConservationStatus = "extinct"
	DataDeficient        ConservationStatus = "data deficient"
)

var conservationDisplay = map[ConservationStatus]DisplayAttributes{
	DataDeficient:        {Label: "Data Deficient", Color: ColorGray, Priority: 0},
	LeastConcern:         {Label: "Least Concern", Color: ColorGreen, Priority: 1},
	NearThreatened:       {Label: "Near Threatened", Color: ColorTeal, Priority: 2},
	Vulnerable:           {Label: "Vulnerable", Color: ColorYellow, Priority: 3},
	Endangered:           {Label: "Endangered", Color: ColorOrange, Priority: 4},
	CriticallyEndangered: {Label: "Critically Endangered", Color: ColorRed, Priority: 5},
	Extinct:              {Label: "Extinct", Color: ColorBlack, Priority: 6},
}

func (c ConservationStatus) Validate() error {
	if _, ok := conservationDisplay[c]; !ok {
		return fmt.Errorf("conservation status %q: %w", string(c), ErrUnknownCategory)
	}
	return nil
}

func (c ConservationStatus) Display() DisplayAttributes {
	return conservationDisplay[c]
}

func (c ConservationStatus) String() string {
	return string(c)
}

// ParseConservationStatus принимает также варианты с подчеркиванием ("least_concern")
func ParseConservationStatus(s string) (ConservationStatus, error) {
	cs := ConservationStatus(strings.ReplaceAll(normalizeCategory(s), "_", " "))
	if err := cs.Validate(); err != nil {
		return "", err
	}
	return cs, nil
}

func AllConservationStatuses() []ConservationStatus {
	return []ConservationStatus{
		DataDeficient, LeastConcern, NearThreatened, Vulnerable,
		Endangered, CriticallyEndangered, Extinct,
	}
}

// ThreatLevel представляет уровень угрозы для вида
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

var threatDisplay = map[ThreatLevel]DisplayAttributes{
	ThreatLow:      {Label: "Low", Color: ColorGreen, Priority: 1},
	ThreatMedium:   {Label: "Medium", Color: ColorYellow, Priority: 2},
	ThreatHigh:     {Label: "High", Color: ColorOrange, Priority: 3},
	ThreatCritical: {Label: "Critical", Color: ColorRed, Priority: 4},
}

func (t ThreatLevel) Validate() error {
	if _, ok := threatDisplay[t]; !ok {
		return fmt.Errorf("threat level %q: %w", string(t), ErrUnknownCategory)
	}
	return nil
}

func (t ThreatLevel) Display() DisplayAttributes {
	return threatDisplay[t]
}

func (t ThreatLevel) String() string {
	return string(t)
}

// IsThreatened сообщает, считается ли вид находящимся под угрозой (high или critical)
func (t ThreatLevel) IsThreatened() bool {
	return t == ThreatHigh || t == ThreatCritical
}

func ParseThreatLevel(s string) (ThreatLevel, error) {
	tl := ThreatLevel(normalizeCategory(s))
	if err := tl.Validate(); err != nil {
		return "", err
	}
	return tl, nil
}

func AllThreatLevels() []ThreatLevel {
	return []ThreatLevel{ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical}
}

// EcosystemHealth представляет качественную оценку состояния экосистемы
type EcosystemHealth string

const (
	EcosystemExcellent EcosystemHealth = "excellent"
	EcosystemGood      EcosystemHealth = "good"
	EcosystemFair      EcosystemHealth = "fair"
	EcosystemPoor      EcosystemHealth = "poor"
	EcosystemCritical  EcosystemHealth = "critical"
)

var ecosystemDisplay = map[EcosystemHealth]DisplayAttributes{
	EcosystemExcellent: {Label: "Excellent", Color: ColorGreen, Priority: 1},
	EcosystemGood:      {Label: "Good", Color: ColorTeal, Priority: 2},
	EcosystemFair:      {Label: "Fair", Color: ColorYellow, Priority: 3},
	EcosystemPoor:      {Label: "Poor", Color: ColorOrange, Priority: 4},
	EcosystemCritical:  {Label: "Critical", Color: ColorRed, Priority: 5},
}

func (e EcosystemHealth) Validate() error {
	if _, ok := ecosystemDisplay[e]; !ok {
		return fmt.Errorf("ecosystem health %q: %w", string(e), ErrUnknownCategory)
	}
	return nil
}

func (e EcosystemHealth) Display() DisplayAttributes {
	return ecosystemDisplay[e]
}

func (e EcosystemHealth) String() string {
	return string(e)
}

func ParseEcosystemHealth(s string) (EcosystemHealth, error) {
	eh := EcosystemHealth(normalizeCategory(s))
	if err := eh.Validate(); err != nil {
		return "", err
	}
	return eh, nil
}

func AllEcosystemHealth() []EcosystemHealth {
	return []EcosystemHealth{EcosystemExcellent, EcosystemGood, EcosystemFair, EcosystemPoor, EcosystemCritical}
}

// PopulationTrend представляет динамику численности популяции
type PopulationTrend string

const (
	PopulationIncreasing PopulationTrend = "increasing"
	PopulationStable     PopulationTrend = "stable"
	PopulationDecreasing PopulationTrend = "decreasing"
	PopulationUnknown    PopulationTrend = "unknown"
)

var populationDisplay = map[PopulationTrend]DisplayAttributes{
	PopulationIncreasing: {Label: "Increasing", Color: ColorGreen, Priority: 1},
	PopulationStable:     {Label: "Stable", Color: ColorBlue, Priority: 2},
	PopulationUnknown:    {Label: "Unknown", Color: ColorGray, Priority: 3},
	PopulationDecreasing: {Label: "Decreasing", Color: ColorRed, Priority: 4},
}

func (p PopulationTrend) Validate() error {
	if _, ok := populationDisplay[p]; !ok {
		return fmt.Errorf("population trend %q: %w", string(p), ErrUnknownCategory)
	}
	return nil
}

func (p PopulationTrend) Display() DisplayAttributes {
	return populationDisplay[p]
}

func (p PopulationTrend) String() string {
	return string(p)
}

func ParsePopulationTrend(s string) (PopulationTrend, error) {
	pt := PopulationTrend(normalizeCategory(s))
	if err := pt.Validate(); err != nil {
		return "", err
	}
	return pt, nil
}

func AllPopulationTrends() []PopulationTrend {
	return []PopulationTrend{PopulationIncreasing, PopulationStable, PopulationUnknown, PopulationDecreasing}
}
