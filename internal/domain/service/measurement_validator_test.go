package service

import (
	"math"
	"testing"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/domain/entity"
	"github.com/dreschagin/marine-dashboard/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementValidator(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewMeasurementValidator()
	v.now = func() time.Time { return now }

	loc, err := valueobject.NewLocation(43.5, -69)
	require.NoError(t, err)

	tests := []struct {
		name    string
		param   valueobject.Parameter
		value   float64
		at      time.Time
		wantErr bool
	}{
		{"valid temperature", valueobject.Temperature, 18.5, now, false},
		{"valid direction zero", valueobject.CurrentDirection, 0, now, false},
		{"direction 360 rejected", valueobject.CurrentDirection, 360, now, true},
		{"ph above 14", valueobject.PH, 14.2, now, true},
		{"negative salinity", valueobject.Salinity, -1, now, true},
		{"boiling ocean", valueobject.Temperature, 80, now, true},
		{"slight clock skew accepted", valueobject.Temperature, 20, now.Add(time.Minute), false},
		{"future timestamp", valueobject.Temperature, 20, now.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := entity.NewMeasurementPoint(tt.param, tt.value, &loc, "Gulf of Maine", tt.at)
			require.NoError(t, err)

			err = v.Validate(p)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMeasurement)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMeasurementValidatorBatchReportsIndex(t *testing.T) {
	v := NewMeasurementValidator()
	now := time.Now()
	good, err := entity.NewMeasurementPoint(valueobject.PH, 8.1, nil, "", now)
	require.NoError(t, err)
	bad, err := entity.NewMeasurementPoint(valueobject.PH, 15, nil, "", now)
	require.NoError(t, err)

	err = v.ValidateBatch([]*entity.MeasurementPoint{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "point 1")
	assert.ErrorIs(t, err, ErrInvalidMeasurement)

	assert.NoError(t, v.ValidateBatch([]*entity.MeasurementPoint{good}))
}

func TestIsReasonable(t *testing.T) {
	v := NewMeasurementValidator()
	assert.False(t, v.IsReasonable(valueobject.Temperature, math.NaN()))
	assert.False(t, v.IsReasonable(valueobject.Temperature, math.Inf(1)))
	assert.False(t, v.IsReasonable(valueobject.Parameter("oxygen"), 5))
	assert.True(t, v.IsReasonable(valueobject.CurrentSpeed, 1.4))
}

func TestNewMeasurementPointRejectsNonFinite(t *testing.T) {
	_, err := entity.NewMeasurementPoint(valueobject.Temperature, math.NaN(), nil, "", time.Now())
	assert.Error(t, err)
	_, err = entity.NewMeasurementPoint(valueobject.Parameter("oxygen"), 1, nil, "", time.Now())
	assert.ErrorIs(t, err, valueobject.ErrUnknownCategory)
}
