package valueobject

import (
	"errors"
	"time"
)

// TimeRange представляет временное окно выборки (Value Object)
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange создает TimeRange с валидацией
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, errors.New("start and end times cannot be zero")
	}

	if start.After(end) {
		return TimeRange{}, errors.New("start time must be before end time")
	}

	return TimeRange{start: start, end: end}, nil
}

// NewTimeRangeEndingAt создает окно длительностью d, заканчивающееся в end
func NewTimeRangeEndingAt(end time.Time, d time.Duration) (TimeRange, error) {
	if d <= 0 {
		return TimeRange{}, errors.New("duration must be positive")
	}
	return NewTimeRange(end.Add(-d), end)
}

// NewTimeRangeFromDuration создает окно от now-d до текущего момента
func NewTimeRangeFromDuration(d time.Duration) (TimeRange, error) {
	return NewTimeRangeEndingAt(time.Now(), d)
}

func (tr TimeRange) Start() time.Time {
	return tr.start
}

func (tr TimeRange) End() time.Time {
	return tr.end
}

func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.start)
}

// Previous возвращает предшествующее окно той же длительности
func (tr TimeRange) Previous() TimeRange {
	d := tr.Duration()
	return TimeRange{start: tr.start.Add(-d), end: tr.start}
}

// Contains проверяет, попадает ли момент в окно (границы включительно)
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.start) && !t.After(tr.end)
}

// Overlaps проверяет пересечение двух окон
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.start.Before(other.end) && other.start.Before(tr.end)
}
