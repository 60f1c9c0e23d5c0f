// Package csvsource loads the incident, waste, and climate CSV tables into
// domain tables and records.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
)

// Paths locates the four backing tables.
type Paths struct {
	Incidents   string
	Waste       string
	Temperature string
	Humidity    string
}

// Dataset is the cleaned content of all backing tables.
type Dataset struct {
	Incidents   []domain.IncidentRecord
	Waste       []domain.HistoricalRecord
	Temperature []domain.MonthlyClimateRecord
	Humidity    []domain.MonthlyClimateRecord
}

// Load reads and cleans every table. Any failure is fatal for the caller.
func Load(p Paths) (*Dataset, error) {
	var ds Dataset

	t, err := ReadFile(p.Incidents)
	if err != nil {
		return nil, err
	}
	if ds.Incidents, err = domain.IncidentsFromTable(t); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Incidents, err)
	}

	if t, err = ReadFile(p.Waste); err != nil {
		return nil, err
	}
	if ds.Waste, err = domain.WasteRecordsFromTable(t); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Waste, err)
	}

	if t, err = ReadFile(p.Temperature); err != nil {
		return nil, err
	}
	if ds.Temperature, err = domain.ClimateRecordsFromTable(t); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Temperature, err)
	}

	if t, err = ReadFile(p.Humidity); err != nil {
		return nil, err
	}
	if ds.Humidity, err = domain.ClimateRecordsFromTable(t); err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Humidity, err)
	}

	return &ds, nil
}

// ReadFile reads one CSV file into a table.
func ReadFile(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses CSV with a header row. Cells are kept as text for the
// normalizer; blank cells are missing. Short rows are padded with missing cells.
func ReadTable(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, fmt.Errorf("no header: %w", domain.ErrEmptyTable)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = h
	}

	t := domain.Table{Columns: columns}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if blank(rec) {
			continue
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i >= len(rec) {
				row[col] = domain.MissingCell()
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				row[col] = domain.MissingCell()
				continue
			}
			row[col] = domain.TextCell(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
