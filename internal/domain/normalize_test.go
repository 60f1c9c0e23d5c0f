package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func textTable(col string, values ...string) Table {
	t := Table{Columns: []string{col, "note"}}
	for _, v := range values {
		t.Rows = append(t.Rows, Row{col: TextCell(v), "note": TextCell("keep " + v)})
	}
	return t
}

func TestNormalize_RangeValues(t *testing.T) {
	in := textTable(ColMethane, "10-20", "30", "abc", "10-20", "")
	out := Normalize(in, ColMethane)

	assert.Equal(t, NumberCell(15), out.Rows[0][ColMethane])
	assert.Equal(t, NumberCell(30), out.Rows[1][ColMethane])
	assert.Equal(t, MissingCell(), out.Rows[2][ColMethane])
	assert.Equal(t, NumberCell(15), out.Rows[3][ColMethane])
	assert.Equal(t, MissingCell(), out.Rows[4][ColMethane])
}

func TestNormalize_Idempotent(t *testing.T) {
	in := textTable(ColDensity, "200-400", "350.5", "n/a", "1-2-3")
	once := Normalize(in, ColDensity)
	twice := Normalize(once, ColDensity)

	assert.Equal(t, once, twice)
}

func TestNormalize_DoesNotTouchUnlistedColumns(t *testing.T) {
	in := textTable(ColHumidity, "50-60", "x")
	out := Normalize(in, ColHumidity)

	assert.Equal(t, TextCell("keep 50-60"), out.Rows[0]["note"])
	assert.Equal(t, TextCell("keep x"), out.Rows[1]["note"])
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := textTable(ColHumidity, "50-60")
	_ = Normalize(in, ColHumidity)

	assert.Equal(t, TextCell("50-60"), in.Rows[0][ColHumidity])
}

func TestNormalize_UniformNumericColumn(t *testing.T) {
	in := textTable(ColTemperature, "31", " 28.5 ", "-5")
	out := Normalize(in, ColTemperature)

	assert.Equal(t, NumberCell(31), out.Rows[0][ColTemperature])
	assert.Equal(t, NumberCell(28.5), out.Rows[1][ColTemperature])
	assert.Equal(t, NumberCell(-5), out.Rows[2][ColTemperature])
}

func TestNormalize_AbsentCellBecomesMissing(t *testing.T) {
	in := Table{Columns: []string{ColMethane}, Rows: []Row{{}, {ColMethane: TextCell("12")}}}
	out := Normalize(in, ColMethane)

	assert.Equal(t, MissingCell(), out.Rows[0][ColMethane])
	assert.Equal(t, NumberCell(12), out.Rows[1][ColMethane])
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Cell
	}{
		{"integer range", "10-20", NumberCell(15)},
		{"spaced range", "10 - 21", NumberCell(15.5)},
		{"no separator", "high", MissingCell()},
		{"three parts", "1-2-3", MissingCell()},
		{"decimal ends", "1.5-2.5", MissingCell()},
		{"text ends", "a-b", MissingCell()},
		{"open range", "10-", MissingCell()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseRange(tt.in))
		})
	}
}
