package valueobject

// TrendStatus представляет направление изменения показателя устойчивости
type TrendStatus string

const (
	TrendImproving TrendStatus = "improving"
	TrendDeclining TrendStatus = "declining"
	TrendStable    TrendStatus = "stable"
)

var trendDisplay = map[TrendStatus]DisplayAttributes{
	TrendImproving: {Label: "Improving", Color: ColorGreen, Priority: 1},
	TrendStable:    {Label: "Stable", Color: ColorGray, Priority: 2},
	TrendDeclining: {Label: "Declining", Color: ColorRed, Priority: 3},
}

func (t TrendStatus) Display() DisplayAttributes {
	return trendDisplay[t]
}

func (t TrendStatus) String() string {
	return string(t)
}

// Trend представляет сравнение двух последовательных значений (Value Object)
type Trend struct {
	Status     TrendStatus
	Percentage float64
}
