package domain

import (
	"math"
	"strconv"
	"strings"
)

// CellKind tells whether a table cell holds raw text, a number, or nothing.
type CellKind uint8

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single value of a loaded table. Loaders produce text cells;
// [Normalize] turns the designated columns into number or missing cells.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

// TextCell wraps a raw string value.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell wraps a numeric value.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// MissingCell is an explicitly undefined value.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// Float returns the numeric value and true for number cells.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	return c.Num, true
}

// String returns the text of a text cell, the formatted number of a number
// cell, or "" for a missing cell.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Row maps column names to cells. An absent key reads as a missing cell.
type Row map[string]Cell

// Table is an in-memory tabular data set as handed over by a loader.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table header contains name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// clone copies the table deeply enough that cell replacement in the copy
// never reaches the original rows.
func (t Table) clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		r := make(Row, len(row))
		for k, v := range row {
			r[k] = v
		}
		out.Rows[i] = r
	}
	return out
}

// parseNumber parses a plain decimal number. Empty and non-finite values are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
