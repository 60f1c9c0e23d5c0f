package domain

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one incident metric.
type Stats struct {
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Baseline holds the reference statistics of the cleaned incident set. It is
// computed once at startup and shared read-only by every assessment.
type Baseline struct {
	Methane     Stats `json:"methane_pct"`
	Temperature Stats `json:"temperature_c"`
	Humidity    Stats `json:"humidity_pct"`
	Density     Stats `json:"density_kg_m3"`
}

// NewBaseline computes median, mean and max per metric over the non-missing
// incident values. Every metric needs at least one value.
func NewBaseline(incidents []IncidentRecord) (Baseline, error) {
	if len(incidents) == 0 {
		return Baseline{}, fmt.Errorf("baseline: %w", ErrEmptyTable)
	}

	pick := func(name string, get func(IncidentRecord) *float64) (Stats, error) {
		vals := make([]float64, 0, len(incidents))
		for _, inc := range incidents {
			if v := get(inc); v != nil {
				vals = append(vals, *v)
			}
		}
		if len(vals) == 0 {
			return Stats{}, fmt.Errorf("baseline %s: %w", name, ErrEmptyTable)
		}
		return summarize(vals), nil
	}

	var (
		b   Baseline
		err error
	)
	if b.Methane, err = pick(ColMethane, func(r IncidentRecord) *float64 { return r.MethanePct }); err != nil {
		return Baseline{}, err
	}
	if b.Temperature, err = pick(ColTemperature, func(r IncidentRecord) *float64 { return r.TemperatureC }); err != nil {
		return Baseline{}, err
	}
	if b.Humidity, err = pick(ColHumidity, func(r IncidentRecord) *float64 { return r.HumidityPct }); err != nil {
		return Baseline{}, err
	}
	if b.Density, err = pick(ColDensity, func(r IncidentRecord) *float64 { return r.DensityKgM3 }); err != nil {
		return Baseline{}, err
	}
	return b, nil
}

// summarize expects a non-empty slice. The median of an even count is the mean
// of the two middle values.
func summarize(vals []float64) Stats {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Median: median,
		Mean:   stat.Mean(sorted, nil),
		Max:    floats.Max(sorted),
		Count:  n,
	}
}
