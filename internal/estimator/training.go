package estimator

import (
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

// daysPerYear converts annual tonnage to an average daily figure.
const daysPerYear = 365.0

// WasteTrainingSet builds [year, average daily waste] rows from the canonical
// region's records, targeting the total tonnage recorded across all regions in
// that year.
func WasteTrainingSet(records []domain.HistoricalRecord, canonicalRegion string) ([][]float64, []float64) {
	if canonicalRegion == "" {
		canonicalRegion = domain.CanonicalRegion
	}
	totals := make(map[int]float64)
	for _, r := range records {
		totals[r.Year] += r.Tonnage
	}

	sorted := append([]domain.HistoricalRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	var (
		X [][]float64
		y []float64
	)
	for _, r := range sorted {
		if r.Missing || !strings.EqualFold(r.Region, canonicalRegion) {
			continue
		}
		X = append(X, []float64{float64(r.Year), r.Tonnage / daysPerYear})
		y = append(y, totals[r.Year])
	}
	return X, y
}

// TemperatureTrainingSet builds one [date ordinal] row per recorded month, dated
// on the 15th, targeting the monthly average.
func TemperatureTrainingSet(records []domain.MonthlyClimateRecord) ([][]float64, []float64) {
	var (
		X [][]float64
		y []float64
	)
	for _, r := range records {
		for m := time.January; m <= time.December; m++ {
			v, ok := r.Month(m)
			if !ok {
				continue
			}
			date := time.Date(r.Year, m, 15, 0, 0, 0, 0, time.UTC)
			X = append(X, []float64{float64(Ordinal(date))})
			y = append(y, v)
		}
	}
	return X, y
}
