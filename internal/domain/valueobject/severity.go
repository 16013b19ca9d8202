package valueobject

import "fmt"

// Severity представляет уровень важности алерта (Value Object)
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityDisplay = map[Severity]DisplayAttributes{
	SeverityLow:      {Label: "Low", Color: ColorGreen, Priority: 1},
	SeverityMedium:   {Label: "Medium", Color: ColorYellow, Priority: 2},
	SeverityHigh:     {Label: "High", Color: ColorOrange, Priority: 3},
	SeverityCritical: {Label: "Critical", Color: ColorRed, Priority: 4},
}

// Validate проверяет валидность уровня важности
func (s Severity) Validate() error {
	if _, ok := severityDisplay[s]; !ok {
		return fmt.Errorf("severity %q: %w", string(s), ErrUnknownCategory)
	}
	return nil
}

// Display возвращает атрибуты отображения.
// Для значений вне перечисления возвращается нулевое значение.
func (s Severity) Display() DisplayAttributes {
	return severityDisplay[s]
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity разбирает строку без учета регистра
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(normalizeCategory(s))
	if err := sev.Validate(); err != nil {
		return "", err
	}
	return sev, nil
}

// AllSeverities возвращает уровни в порядке возрастания приоритета
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}
