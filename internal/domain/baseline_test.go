package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseline(t *testing.T) {
	incidents := []IncidentRecord{
		{MethanePct: ptr(10), TemperatureC: ptr(30), HumidityPct: ptr(60), DensityKgM3: ptr(200)},
		{MethanePct: ptr(40), TemperatureC: ptr(34), HumidityPct: nil, DensityKgM3: ptr(400)},
		{MethanePct: ptr(20), TemperatureC: ptr(32), HumidityPct: ptr(70), DensityKgM3: ptr(300)},
		{MethanePct: nil, TemperatureC: ptr(28), HumidityPct: ptr(80), DensityKgM3: ptr(500)},
	}

	b, err := NewBaseline(incidents)
	require.NoError(t, err)

	assert.Equal(t, Stats{Median: 20, Mean: 70.0 / 3, Max: 40, Count: 3}, b.Methane)
	assert.Equal(t, Stats{Median: 31, Mean: 31, Max: 34, Count: 4}, b.Temperature)
	assert.Equal(t, 70.0, b.Humidity.Median)
	assert.Equal(t, 80.0, b.Humidity.Max)
	assert.Equal(t, 350.0, b.Density.Median)
}

func TestNewBaseline_Empty(t *testing.T) {
	_, err := NewBaseline(nil)
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestNewBaseline_ColumnWithoutValues(t *testing.T) {
	incidents := []IncidentRecord{
		{MethanePct: ptr(10), TemperatureC: ptr(30), DensityKgM3: ptr(200)},
	}
	_, err := NewBaseline(incidents)
	require.ErrorIs(t, err, ErrEmptyTable)
	assert.Contains(t, err.Error(), ColHumidity)
}
