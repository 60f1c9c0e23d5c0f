package domain

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(v float64) *float64 { return &v }

// wasteRecords yields yearly totals 2018=400, 2019=500, 2021=50 and a
// canonical region mean of 325.
func wasteRecords() []HistoricalRecord {
	return []HistoricalRecord{
		{Year: 2019, Region: "Sleman", Tonnage: 150},
		{Year: 2018, Region: "Sleman", Tonnage: 100},
		{Year: 2018, Region: CanonicalRegion, Tonnage: 300},
		{Year: 2019, Region: CanonicalRegion, Tonnage: 350},
		{Year: 2021, Region: "Bantul", Tonnage: 50},
	}
}

func newTestWasteSeries(t *testing.T) *WasteSeries {
	t.Helper()
	s, err := NewWasteSeries(wasteRecords(), "")
	require.NoError(t, err)
	return s
}

// climateRecord fills every month with base+monthIndex, leaving skip missing.
func climateRecord(year int, base float64, skip ...time.Month) MonthlyClimateRecord {
	rec := MonthlyClimateRecord{Year: year}
	for m := time.January; m <= time.December; m++ {
		rec.Months[m-1] = ptr(base + float64(m-1))
	}
	for _, m := range skip {
		rec.Months[m-1] = nil
	}
	return rec
}

func newTestClimate(t *testing.T, name string, records ...MonthlyClimateRecord) *ClimateSeries {
	t.Helper()
	s, err := NewClimateSeries(name, records)
	require.NoError(t, err)
	return s
}

// testBaseline has methane median 25, max 50 and humidity mean 60.
func testBaseline() Baseline {
	return Baseline{
		Methane:     Stats{Median: 25, Mean: 28, Max: 50, Count: 5},
		Temperature: Stats{Median: 30, Mean: 30, Max: 36, Count: 5},
		Humidity:    Stats{Median: 60, Mean: 60, Max: 80, Count: 5},
		Density:     Stats{Median: 300, Mean: 310, Max: 500, Count: 5},
	}
}

type countingWaste struct {
	inner WastePredictor
	calls int
}

func (c *countingWaste) PredictWaste(ctx context.Context, year int) (WasteEstimate, error) {
	c.calls++
	return c.inner.PredictWaste(ctx, year)
}

type countingClimate struct {
	inner ClimatePredictor
	calls int
}

func (c *countingClimate) PredictClimate(ctx context.Context, date time.Time) (float64, bool, error) {
	c.calls++
	return c.inner.PredictClimate(ctx, date)
}
