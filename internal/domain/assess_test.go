package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assessNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

type assessFixture struct {
	assessor    *Assessor
	waste       *countingWaste
	temperature *countingClimate
	humidity    *countingClimate
}

func newAssessFixture(t *testing.T) assessFixture {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(assessNow))
	t.Cleanup(func() { SetClock(nil) })

	waste := &countingWaste{inner: newTestWasteSeries(t)}
	temperature := &countingClimate{inner: newTestClimate(t, "temperature", climateRecord(2019, 26))}
	humidity := &countingClimate{inner: newTestClimate(t, "humidity", climateRecord(2019, 54))}

	return assessFixture{
		assessor:    NewAssessor(waste, temperature, humidity, testBaseline(), discardLogger()),
		waste:       waste,
		temperature: temperature,
		humidity:    humidity,
	}
}

func TestAssess_WithRecordedClimate(t *testing.T) {
	f := newAssessFixture(t)

	a, err := f.assessor.Assess(context.Background(), Query{Date: time.Date(2019, time.February, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, assessNow, a.AssessedAt)
	assert.Empty(t, a.Warnings)
	assert.Equal(t, 500.0, a.Waste.Tonnage)
	assert.Equal(t, 25.0, a.Verdict.MethanePct)
	assert.Equal(t, 27.0, a.Verdict.TemperatureC)
	assert.Equal(t, 55.0, a.Verdict.HumidityPct)
	assert.Equal(t, MethaneFairlyHigh, a.Verdict.MethaneLevel)
	assert.Equal(t, RiskRelativelySafe, a.Verdict.Risk)
	assert.InDelta(t, 40.0, a.Verdict.EmissionTonsPerYear, 1e-9)
}

func TestAssess_FallbacksAreReported(t *testing.T) {
	f := newAssessFixture(t)

	a, err := f.assessor.Assess(context.Background(), Query{Date: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.True(t, a.HasWarning(WarnTemperatureFallback))
	assert.True(t, a.HasWarning(WarnHumidityFallback))
	assert.False(t, a.HasWarning(WarnWasteFallback))
	assert.Equal(t, DefaultTemperatureC, a.Verdict.TemperatureC)
	assert.Equal(t, testBaseline().Humidity.Mean, a.Verdict.HumidityPct)
}

func TestAssess_WasteFallbackIsReported(t *testing.T) {
	f := newAssessFixture(t)

	a, err := f.assessor.Assess(context.Background(), Query{Date: time.Date(2015, time.May, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.True(t, a.HasWarning(WarnWasteFallback))
	assert.True(t, a.Waste.Fallback)
	assert.Equal(t, 325.0, a.Waste.Tonnage)
}

func TestAssess_SuppliedValuesSkipPrediction(t *testing.T) {
	f := newAssessFixture(t)

	a, err := f.assessor.Assess(context.Background(), Query{
		Date:         time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
		TemperatureC: ptr(35),
		HumidityPct:  ptr(65),
	})
	require.NoError(t, err)

	assert.Empty(t, a.Warnings)
	assert.Equal(t, 35.0, a.Verdict.TemperatureC)
	assert.Equal(t, 65.0, a.Verdict.HumidityPct)
	assert.Zero(t, f.temperature.calls)
	assert.Zero(t, f.humidity.calls)
}

func TestAssess_ZeroDateMeansToday(t *testing.T) {
	f := newAssessFixture(t)

	a, err := f.assessor.Assess(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), a.Date)
	assert.Equal(t, 2021, a.Waste.SourceYear)
}

func TestAssess_RejectsBeforeLookup(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		field string
	}{
		{"one day in the future", Query{Date: time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC)}, "date"},
		{"temperature above range", Query{Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), TemperatureC: ptr(50.5)}, "temperature_c"},
		{"temperature below range", Query{TemperatureC: ptr(-1)}, "temperature_c"},
		{"humidity above range", Query{HumidityPct: ptr(101)}, "humidity_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAssessFixture(t)

			_, err := f.assessor.Assess(context.Background(), tt.query)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.True(t, IsValidationError(err))
			assert.Zero(t, f.waste.calls)
			assert.Zero(t, f.temperature.calls)
			assert.Zero(t, f.humidity.calls)
		})
	}
}

func TestAssess_TodayAccepted(t *testing.T) {
	f := newAssessFixture(t)

	_, err := f.assessor.Assess(context.Background(), Query{Date: time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)})
	require.NoError(t, err)
}

type failingWaste struct{}

func (failingWaste) PredictWaste(context.Context, int) (WasteEstimate, error) {
	return WasteEstimate{}, errors.New("model unavailable")
}

func TestAssess_PredictorError(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(assessNow))
	t.Cleanup(func() { SetClock(nil) })

	a := NewAssessor(failingWaste{}, nil, nil, testBaseline(), discardLogger())
	_, err := a.Assess(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
	assert.False(t, IsValidationError(err))
}

func TestParseQueryDate(t *testing.T) {
	d, err := ParseQueryDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseQueryDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseQueryDate("31/01/2024")
	assert.True(t, IsValidationError(err))
}
