package estimator

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

// Forecasts may target any year or date, including the future.
const (
	minForecastYear = 1
	maxForecastYear = 9999
)

// WasteForecast is the regression estimate of one year's total waste.
type WasteForecast struct {
	Year          int     `json:"year"`
	AvgDailyWaste float64 `json:"avg_daily_waste_tons"`
	TotalTonnage  float64 `json:"predicted_total_waste_tonnage"`
}

// TemperatureForecast is the regression estimate of one day's temperature.
type TemperatureForecast struct {
	Date         string  `json:"date"`
	TemperatureC float64 `json:"predicted_daily_temperature_c"`
}

// Forecast predicts the total tonnage for year given an average daily waste.
// Unlike an assessment, the year may lie in the future.
func (r *WasteRegressor) Forecast(year int, avgDailyWaste float64) (WasteForecast, error) {
	if year < minForecastYear || year > maxForecastYear {
		return WasteForecast{}, &domain.ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("%d is outside [%d, %d]", year, minForecastYear, maxForecastYear),
		}
	}
	if math.IsNaN(avgDailyWaste) || math.IsInf(avgDailyWaste, 0) || avgDailyWaste < 0 {
		return WasteForecast{}, &domain.ValidationError{
			Field:  "avg_daily_waste",
			Reason: fmt.Sprintf("%g must be a non-negative number", avgDailyWaste),
		}
	}
	v, err := r.model.Predict([]float64{float64(year), avgDailyWaste})
	if err != nil {
		return WasteForecast{}, err
	}
	return WasteForecast{Year: year, AvgDailyWaste: avgDailyWaste, TotalTonnage: v}, nil
}

// AvgDailyWaste returns the configured default average daily waste.
func (r *WasteRegressor) AvgDailyWaste() float64 {
	return r.avgDailyWaste
}

// Forecast predicts the daily temperature for date, which may lie in the future.
func (r *TemperatureRegressor) Forecast(date time.Time) (TemperatureForecast, error) {
	if date.IsZero() {
		return TemperatureForecast{}, &domain.ValidationError{Field: "date", Reason: "is required"}
	}
	v, err := r.model.Predict([]float64{float64(Ordinal(date))})
	if err != nil {
		return TemperatureForecast{}, err
	}
	return TemperatureForecast{Date: date.Format(domain.QueryDateLayout), TemperatureC: v}, nil
}
