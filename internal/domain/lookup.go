package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// WasteSeries answers waste tonnage lookups over the historical waste table.
// It implements WastePredictor and is read-only after construction.
type WasteSeries struct {
	records       []HistoricalRecord
	years         []int
	totals        map[int]float64
	region        string
	canonicalMean float64
}

// NewWasteSeries indexes records by year. canonicalRegion names the aggregate
// region whose mean tonnage backs lookups before the first recorded year; an
// empty name selects CanonicalRegion.
func NewWasteSeries(records []HistoricalRecord, canonicalRegion string) (*WasteSeries, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("waste series: %w", ErrEmptyTable)
	}
	if canonicalRegion == "" {
		canonicalRegion = CanonicalRegion
	}

	sorted := append([]HistoricalRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	totals := make(map[int]float64)
	var canonical []float64
	for _, r := range sorted {
		totals[r.Year] += r.Tonnage
		if !r.Missing && strings.EqualFold(r.Region, canonicalRegion) {
			canonical = append(canonical, r.Tonnage)
		}
	}
	if len(canonical) == 0 {
		return nil, fmt.Errorf("waste series %q: %w", canonicalRegion, ErrNoCanonicalRegion)
	}

	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)

	return &WasteSeries{
		records:       sorted,
		years:         years,
		totals:        totals,
		region:        canonicalRegion,
		canonicalMean: stat.Mean(canonical, nil),
	}, nil
}

// Lookup returns the summed tonnage of the latest recorded year at or before
// year. When year precedes every record, it returns the canonical region's mean
// annual tonnage with Fallback set.
func (s *WasteSeries) Lookup(year int) WasteEstimate {
	idx := sort.Search(len(s.years), func(i int) bool { return s.years[i] > year })
	if idx == 0 {
		return WasteEstimate{Year: year, Tonnage: s.canonicalMean, Fallback: true}
	}
	src := s.years[idx-1]
	return WasteEstimate{Year: year, Tonnage: s.totals[src], SourceYear: src}
}

// PredictWaste implements WastePredictor.
func (s *WasteSeries) PredictWaste(_ context.Context, year int) (WasteEstimate, error) {
	return s.Lookup(year), nil
}

// Records returns the historical records ordered by year.
func (s *WasteSeries) Records() []HistoricalRecord {
	return append([]HistoricalRecord(nil), s.records...)
}

// YearRange returns the first and last recorded year.
func (s *WasteSeries) YearRange() (first, last int) {
	return s.years[0], s.years[len(s.years)-1]
}

// CanonicalMean returns the canonical region's mean annual tonnage.
func (s *WasteSeries) CanonicalMean() float64 {
	return s.canonicalMean
}

// CanonicalRegion returns the region backing the fallback average.
func (s *WasteSeries) CanonicalRegion() string {
	return s.region
}
