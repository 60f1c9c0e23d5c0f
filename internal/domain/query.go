package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Query input bounds and defaults.
const (
	MinTemperatureC     = 0.0
	MaxTemperatureC     = 50.0
	DefaultTemperatureC = 30.0

	MinHumidityPct = 0.0
	MaxHumidityPct = 100.0
)

// QueryDateLayout is the accepted textual form of a query date.
const QueryDateLayout = "2006-01-02"

// Query is a single risk question: the date to assess and optional observed
// temperature and humidity. A zero Date means today.
type Query struct {
	Date         time.Time `json:"date"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	HumidityPct  *float64  `json:"humidity_pct,omitempty"`
}

// Validate rejects dates after today and out-of-range temperature or humidity.
func (q Query) Validate(today time.Time) error {
	if !q.Date.IsZero() && dateOnly(q.Date).After(dateOnly(today)) {
		return &ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("%s is after today (%s)", q.Date.Format(QueryDateLayout), today.Format(QueryDateLayout)),
		}
	}
	if q.TemperatureC != nil {
		if err := checkRange("temperature_c", *q.TemperatureC, MinTemperatureC, MaxTemperatureC); err != nil {
			return err
		}
	}
	if q.HumidityPct != nil {
		if err := checkRange("humidity_pct", *q.HumidityPct, MinHumidityPct, MaxHumidityPct); err != nil {
			return err
		}
	}
	return nil
}

// ParseQueryDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseQueryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(QueryDateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", s)}
	}
	return t, nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%g outside [%g, %g]", v, lo, hi)}
	}
	return nil
}

// dateOnly drops the clock time and zone so calendar dates compare directly.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
