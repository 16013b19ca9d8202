package valueobject

// Deviation описывает отклонение параметра от идеального диапазона
type Deviation string

const (
	DeviationIdeal  Deviation = "ideal"
	DeviationMild   Deviation = "mild"
	DeviationSevere Deviation = "severe"
)

var deviationDisplay = map[Deviation]DisplayAttributes{
	DeviationIdeal:  {Label: "Ideal", Color: ColorGreen, Priority: 1},
	DeviationMild:   {Label: "Mild deviation", Color: ColorYellow, Priority: 2},
	DeviationSevere: {Label: "Severe deviation", Color: ColorRed, Priority: 3},
}

func (d Deviation) Display() DisplayAttributes {
	return deviationDisplay[d]
}

func (d Deviation) String() string {
	return string(d)
}
