package domain

import (
	"fmt"
	"strings"
	"time"
)

// Source table column names.
const (
	ColIncidentDate = "Tanggal Kejadian"
	ColMethane      = "Kandungan Metan (%)"
	ColTemperature  = "Suhu (C)"
	ColHumidity     = "Kelembaban (%)"
	ColDensity      = "Kepadatan/Densitas (kg/m)"

	ColYear        = "Tahun"
	ColRegion      = "Kabupaten/Kota"
	ColAnnualWaste = "Timbulan Sampah Tahunan(ton)"
)

// IncidentDateLayout is the time layout of the incident date column, e.g. "Friday,March 01,2019".
const IncidentDateLayout = "Monday,January 02,2006"

// CanonicalRegion is the aggregate region whose mean tonnage backs waste lookups
// for years before all records.
const CanonicalRegion = "Kartamantul-gupro"

// IncidentMetricColumns lists the incident columns cleaned by [Normalize].
var IncidentMetricColumns = []string{ColMethane, ColTemperature, ColHumidity, ColDensity}

// MonthColumn returns the climate table column for a calendar month, e.g. "Bulan March".
func MonthColumn(m time.Month) string {
	return "Bulan " + m.String()
}

// HistoricalRecord is one region's annual waste generation. Missing marks a
// row whose tonnage cell was blank; it counts as zero in yearly totals and is
// left out of the canonical region mean.
type HistoricalRecord struct {
	Year    int     `json:"year"`
	Region  string  `json:"region"`
	Tonnage float64 `json:"tonnage"`
	Missing bool    `json:"missing,omitempty"`
}

// MonthlyClimateRecord holds one year of monthly averages (temperature or humidity).
// Months is indexed by time.Month-1; nil marks a missing month.
type MonthlyClimateRecord struct {
	Year   int
	Months [12]*float64
}

// Month returns the value recorded for m, or false when it is missing.
func (r MonthlyClimateRecord) Month(m time.Month) (float64, bool) {
	if m < time.January || m > time.December {
		return 0, false
	}
	v := r.Months[m-1]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// IncidentRecord is a cleaned historical incident observation. Nil metrics were
// recorded as free text and are missing.
type IncidentRecord struct {
	Date         time.Time `json:"date"`
	MethanePct   *float64  `json:"methane_pct,omitempty"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	HumidityPct  *float64  `json:"humidity_pct,omitempty"`
	DensityKgM3  *float64  `json:"density_kg_m3,omitempty"`
}

// DerivedQuantities are the physical quantities computed for a single query.
type DerivedQuantities struct {
	WasteTonnage        float64 `json:"waste_tonnage"`
	MethanePct          float64 `json:"methane_pct"`
	DensityKgM3         float64 `json:"density_kg_m3"`
	EmissionTonsPerYear float64 `json:"emission_tons_per_year"`
}

// IncidentsFromTable normalizes the incident metric columns and converts each
// row to an IncidentRecord.
func IncidentsFromTable(t Table) ([]IncidentRecord, error) {
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("incidents: %w", ErrEmptyTable)
	}
	for _, col := range append([]string{ColIncidentDate}, IncidentMetricColumns...) {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("incidents: missing column %q", col)
		}
	}

	clean := Normalize(t, IncidentMetricColumns...)
	out := make([]IncidentRecord, 0, len(clean.Rows))
	for i, row := range clean.Rows {
		date, err := ParseIncidentDate(row[ColIncidentDate].String())
		if err != nil {
			return nil, fmt.Errorf("incidents row %d: %w", i+1, err)
		}
		out = append(out, IncidentRecord{
			Date:         date,
			MethanePct:   cellPtr(row[ColMethane]),
			TemperatureC: cellPtr(row[ColTemperature]),
			HumidityPct:  cellPtr(row[ColHumidity]),
			DensityKgM3:  cellPtr(row[ColDensity]),
		})
	}
	return out, nil
}

// ParseIncidentDate parses an incident date such as "Friday,March 01,2019".
func ParseIncidentDate(s string) (time.Time, error) {
	t, err := time.Parse(IncidentDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse incident date %q: %w", s, err)
	}
	return t, nil
}

// WasteRecordsFromTable normalizes the year and tonnage columns and converts the
// rows to HistoricalRecords. Rows with a missing tonnage are kept with Missing
// set so their year still appears in the series.
func WasteRecordsFromTable(t Table) ([]HistoricalRecord, error) {
	for _, col := range []string{ColRegion, ColYear, ColAnnualWaste} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("waste: missing column %q", col)
		}
	}

	clean := Normalize(t, ColYear, ColAnnualWaste)
	out := make([]HistoricalRecord, 0, len(clean.Rows))
	for i, row := range clean.Rows {
		year, ok := row[ColYear].Float()
		if !ok {
			return nil, fmt.Errorf("waste row %d: missing %s", i+1, ColYear)
		}
		tonnage, ok := row[ColAnnualWaste].Float()
		out = append(out, HistoricalRecord{
			Year:    int(year),
			Region:  strings.TrimSpace(row[ColRegion].String()),
			Tonnage: tonnage,
			Missing: !ok,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("waste: %w", ErrEmptyTable)
	}
	return out, nil
}

// ClimateRecordsFromTable normalizes the year and month columns of a monthly
// temperature or humidity table.
func ClimateRecordsFromTable(t Table) ([]MonthlyClimateRecord, error) {
	cols := []string{ColYear}
	for m := time.January; m <= time.December; m++ {
		cols = append(cols, MonthColumn(m))
	}
	for _, col := range cols {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("climate: missing column %q", col)
		}
	}

	clean := Normalize(t, cols...)
	out := make([]MonthlyClimateRecord, 0, len(clean.Rows))
	for i, row := range clean.Rows {
		year, ok := row[ColYear].Float()
		if !ok {
			return nil, fmt.Errorf("climate row %d: missing %s", i+1, ColYear)
		}
		rec := MonthlyClimateRecord{Year: int(year)}
		for m := time.January; m <= time.December; m++ {
			rec.Months[m-1] = cellPtr(row[MonthColumn(m)])
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("climate: %w", ErrEmptyTable)
	}
	return out, nil
}

func cellPtr(c Cell) *float64 {
	v, ok := c.Float()
	if !ok {
		return nil
	}
	return &v
}
