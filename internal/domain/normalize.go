package domain

import (
	"strconv"
	"strings"
)

// Normalize returns a copy of t in which every listed column holds only number
// or missing cells. Columns that are not uniformly numeric first get their
// range values ("10-20") replaced by the mean of both integer ends; every
// remaining non-numeric value becomes missing. Unlisted columns are untouched.
// Normalizing an already normalized table is a no-op.
func Normalize(t Table, columns ...string) Table {
	out := t.clone()
	for _, col := range columns {
		normalizeColumn(out.Rows, col)
	}
	return out
}

func normalizeColumn(rows []Row, col string) {
	if !columnNumeric(rows, col) {
		replacements := make(map[string]Cell)
		for _, row := range rows {
			c := row[col]
			if c.Kind != CellText {
				continue
			}
			if _, ok := parseNumber(c.Text); ok {
				continue
			}
			if _, seen := replacements[c.Text]; seen {
				continue
			}
			replacements[c.Text] = parseRange(c.Text)
		}

		for _, row := range rows {
			c := row[col]
			if c.Kind != CellText {
				continue
			}
			if r, ok := replacements[c.Text]; ok {
				row[col] = r
			}
		}
	}

	for _, row := range rows {
		row[col] = coerceNumeric(row[col])
	}
}

// columnNumeric reports whether every present value of col is already a number
// or numeric text.
func columnNumeric(rows []Row, col string) bool {
	for _, row := range rows {
		c := row[col]
		if c.Kind != CellText {
			continue
		}
		if _, ok := parseNumber(c.Text); !ok {
			return false
		}
	}
	return true
}

// parseRange reads "a-b" with integer ends as (a+b)/2. Anything else,
// including "1-2-3" and non-integer ends, is missing.
func parseRange(s string) Cell {
	if !strings.Contains(s, "-") {
		return MissingCell()
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return MissingCell()
	}
	lower, errL := strconv.Atoi(strings.TrimSpace(parts[0]))
	upper, errU := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errL != nil || errU != nil {
		return MissingCell()
	}
	return NumberCell(float64(lower+upper) / 2)
}

func coerceNumeric(c Cell) Cell {
	switch c.Kind {
	case CellNumber:
		return c
	case CellText:
		if v, ok := parseNumber(c.Text); ok {
			return NumberCell(v)
		}
	}
	return MissingCell()
}
