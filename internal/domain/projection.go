package domain

import (
	"fmt"
	"sort"
)

// SeriesPoint is one point of the waste chart series.
type SeriesPoint struct {
	Year      int     `json:"year"`
	Region    string  `json:"region,omitempty"`
	Tonnage   float64 `json:"tonnage"`
	Projected bool    `json:"projected"`
	Missing   bool    `json:"missing,omitempty"`
}

// Project returns every historical record ordered by year followed by one
// projected point per year for horizon years past the last recorded year.
// Projected tonnage comes from WasteSeries.Lookup, so it repeats the latest
// recorded yearly total.
func Project(series *WasteSeries, horizon int) ([]SeriesPoint, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("projection horizon %d: must not be negative", horizon)
	}

	records := series.Records()
	out := make([]SeriesPoint, 0, len(records)+horizon)
	for _, r := range records {
		out = append(out, SeriesPoint{Year: r.Year, Region: r.Region, Tonnage: r.Tonnage, Missing: r.Missing})
	}

	_, last := series.YearRange()
	for year := last + 1; year <= last+horizon; year++ {
		est := series.Lookup(year)
		out = append(out, SeriesPoint{Year: year, Tonnage: est.Tonnage, Projected: true})
	}
	return out, nil
}

// ProductionPoint is the methane produced in one incident year.
type ProductionPoint struct {
	Year int     `json:"year"`
	Tons float64 `json:"tons"`
}

// AnnualMethaneProduction sums the daily methane production of the incidents
// per year, where an incident produces ten tons per methane percentage point.
// Incidents with a missing methane value add nothing.
func AnnualMethaneProduction(incidents []IncidentRecord) []ProductionPoint {
	totals := make(map[int]float64)
	for _, inc := range incidents {
		if inc.Date.IsZero() {
			continue
		}
		y := inc.Date.Year()
		if _, ok := totals[y]; !ok {
			totals[y] = 0
		}
		if inc.MethanePct != nil {
			totals[y] += *inc.MethanePct * 10
		}
	}

	out := make([]ProductionPoint, 0, len(totals))
	for y, tons := range totals {
		out = append(out, ProductionPoint{Year: y, Tons: tons})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
