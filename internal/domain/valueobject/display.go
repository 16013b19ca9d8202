package valueobject

// DisplayAttributes описывает, как категория отображается на дашборде
type DisplayAttributes struct {
	Label    string
	Color    string
	Priority int
}

// Палитра дашборда
const (
	ColorRed    = "#dc3545"
	ColorOrange = "#fd7e14"
	ColorYellow = "#ffc107"
	ColorGreen  = "#28a745"
	ColorTeal   = "#20c997"
	ColorBlue   = "#0d6efd"
	ColorGray   = "#6c757d"
	ColorBlack  = "#212529"
)
