package domain

import (
	"context"
	"fmt"
	"time"
)

// ClimateSeries answers monthly temperature or humidity lookups. It implements
// ClimatePredictor and is read-only after construction.
type ClimateSeries struct {
	name  string
	years map[int]MonthlyClimateRecord
}

// NewClimateSeries indexes records by year. name labels the quantity
// ("temperature", "humidity") in errors and logs. A later record for the same
// year is ignored.
func NewClimateSeries(name string, records []MonthlyClimateRecord) (*ClimateSeries, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s series: %w", name, ErrEmptyTable)
	}
	years := make(map[int]MonthlyClimateRecord, len(records))
	for _, r := range records {
		if _, dup := years[r.Year]; dup {
			continue
		}
		years[r.Year] = r
	}
	return &ClimateSeries{name: name, years: years}, nil
}

// Name returns the quantity label.
func (s *ClimateSeries) Name() string {
	return s.name
}

// At returns the value recorded for the date's year and month. It returns
// false when the year has no record or the month cell is missing.
func (s *ClimateSeries) At(date time.Time) (float64, bool) {
	rec, ok := s.years[date.Year()]
	if !ok {
		return 0, false
	}
	return rec.Month(date.Month())
}

// PredictClimate implements ClimatePredictor.
func (s *ClimateSeries) PredictClimate(_ context.Context, date time.Time) (float64, bool, error) {
	v, ok := s.At(date)
	return v, ok, nil
}
