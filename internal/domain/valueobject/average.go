package valueobject

import "fmt"

// Average представляет результат агрегации, который может отсутствовать.
// Нулевое значение Average означает "нет данных" и никогда не равно числу 0.
type Average struct {
	value     float64
	available bool
}

// NewAverage создает доступное значение
func NewAverage(value float64) Average {
	return Average{value: value, available: true}
}

// NoData возвращает маркер отсутствия данных
func NoData() Average {
	return Average{}
}

// Value возвращает значение и признак его наличия
func (a Average) Value() (float64, bool) {
	return a.value, a.available
}

// IsNoData сообщает, что агрегат посчитан по пустой выборке
func (a Average) IsNoData() bool {
	return !a.available
}

// Ptr возвращает nil для NoData, удобно для сериализации в null
func (a Average) Ptr() *float64 {
	if !a.available {
		return nil
	}
	v := a.value
	return &v
}

func (a Average) String() string {
	if !a.available {
		return "no data"
	}
	return fmt.Sprintf("%.2f", a.value)
}
