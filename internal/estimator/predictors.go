package estimator

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

// Feature names stored in the artifacts.
const (
	FeatureYear          = "year"
	FeatureAvgDailyWaste = "avg_daily_waste_tons"
	FeatureDateOrdinal   = "date_ordinal"
)

// ordinalEpoch is the proleptic Gregorian ordinal of 1970-01-01, counting
// 0001-01-01 as day 1.
const ordinalEpoch = 719163

// Ordinal returns the proleptic Gregorian day number of t's calendar date.
func Ordinal(t time.Time) int {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return int(days) + ordinalEpoch
}

// WasteRegressor predicts annual waste tonnage from [year, average daily waste].
// It implements domain.WastePredictor.
type WasteRegressor struct {
	model         *Model
	avgDailyWaste float64
}

// NewWasteRegressor binds a two-feature model to the configured average daily waste.
func NewWasteRegressor(m *Model, avgDailyWaste float64) (*WasteRegressor, error) {
	if len(m.Coefficients) != 2 {
		return nil, fmt.Errorf("waste model %q: %d coefficients, want 2: %w", m.Name, len(m.Coefficients), ErrFeatureMismatch)
	}
	if avgDailyWaste < 0 {
		return nil, fmt.Errorf("average daily waste %g must not be negative", avgDailyWaste)
	}
	return &WasteRegressor{model: m, avgDailyWaste: avgDailyWaste}, nil
}

// PredictWaste implements domain.WastePredictor.
func (r *WasteRegressor) PredictWaste(_ context.Context, year int) (domain.WasteEstimate, error) {
	f, err := r.Forecast(year, r.avgDailyWaste)
	if err != nil {
		return domain.WasteEstimate{}, err
	}
	return domain.WasteEstimate{Year: year, Tonnage: f.TotalTonnage}, nil
}

// TemperatureRegressor predicts daily temperature from the date ordinal. It
// implements domain.ClimatePredictor and always yields a value.
type TemperatureRegressor struct {
	model *Model
}

// NewTemperatureRegressor wraps a single-feature model.
func NewTemperatureRegressor(m *Model) (*TemperatureRegressor, error) {
	if len(m.Coefficients) != 1 {
		return nil, fmt.Errorf("temperature model %q: %d coefficients, want 1: %w", m.Name, len(m.Coefficients), ErrFeatureMismatch)
	}
	return &TemperatureRegressor{model: m}, nil
}

// PredictClimate implements domain.ClimatePredictor.
func (r *TemperatureRegressor) PredictClimate(_ context.Context, date time.Time) (float64, bool, error) {
	v, err := r.model.Predict([]float64{float64(Ordinal(date))})
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
