package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentTable(rows ...[5]string) Table {
	t := Table{Columns: append([]string{ColIncidentDate}, IncidentMetricColumns...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, Row{
			ColIncidentDate: TextCell(r[0]),
			ColMethane:      TextCell(r[1]),
			ColTemperature:  TextCell(r[2]),
			ColHumidity:     TextCell(r[3]),
			ColDensity:      TextCell(r[4]),
		})
	}
	return t
}

func TestIncidentsFromTable(t *testing.T) {
	tbl := incidentTable(
		[5]string{"Friday,March 01,2019", "40-60", "32", "70", "450"},
		[5]string{"Tuesday,October 20,2020", "35", "unknown", "60-70", "300"},
	)

	incidents, err := IncidentsFromTable(tbl)
	require.NoError(t, err)
	require.Len(t, incidents, 2)

	first := incidents[0]
	assert.Equal(t, time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.MethanePct)
	assert.Equal(t, 50.0, *first.MethanePct)
	assert.Equal(t, 32.0, *first.TemperatureC)

	second := incidents[1]
	assert.Nil(t, second.TemperatureC)
	require.NotNil(t, second.HumidityPct)
	assert.Equal(t, 65.0, *second.HumidityPct)
}

func TestIncidentsFromTable_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := IncidentsFromTable(Table{Columns: []string{ColIncidentDate}})
		require.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("missing column", func(t *testing.T) {
		tbl := Table{Columns: []string{ColIncidentDate}, Rows: []Row{{}}}
		_, err := IncidentsFromTable(tbl)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ColMethane)
	})

	t.Run("bad date", func(t *testing.T) {
		tbl := incidentTable([5]string{"2019-03-01", "40", "32", "70", "450"})
		_, err := IncidentsFromTable(tbl)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
	})
}

func TestWasteRecordsFromTable(t *testing.T) {
	tbl := Table{
		Columns: []string{ColRegion, ColYear, ColAnnualWaste},
		Rows: []Row{
			{ColRegion: TextCell(" Sleman "), ColYear: TextCell("2019"), ColAnnualWaste: TextCell("150.5")},
			{ColRegion: TextCell(CanonicalRegion), ColYear: TextCell("2019"), ColAnnualWaste: TextCell("-")},
			{ColRegion: TextCell(CanonicalRegion), ColYear: TextCell("2020"), ColAnnualWaste: TextCell("300")},
		},
	}

	records, err := WasteRecordsFromTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, []HistoricalRecord{
		{Year: 2019, Region: "Sleman", Tonnage: 150.5},
		{Year: 2019, Region: CanonicalRegion, Missing: true},
		{Year: 2020, Region: CanonicalRegion, Tonnage: 300},
	}, records)
}

func TestClimateRecordsFromTable(t *testing.T) {
	cols := []string{ColYear}
	row := Row{ColYear: TextCell("2019")}
	for m := time.January; m <= time.December; m++ {
		cols = append(cols, MonthColumn(m))
		row[MonthColumn(m)] = TextCell("27")
	}
	row[MonthColumn(time.June)] = TextCell("26-28")
	row[MonthColumn(time.July)] = TextCell("?")

	records, err := ClimateRecordsFromTable(Table{Columns: cols, Rows: []Row{row}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	v, ok := records[0].Month(time.June)
	assert.True(t, ok)
	assert.Equal(t, 27.0, v)

	_, ok = records[0].Month(time.July)
	assert.False(t, ok)
}

func TestClimateRecordsFromTable_MissingMonthColumn(t *testing.T) {
	_, err := ClimateRecordsFromTable(Table{Columns: []string{ColYear}, Rows: []Row{{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bulan January")
}

func TestParseIncidentDate(t *testing.T) {
	d, err := ParseIncidentDate(" Sunday,January 07,2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC), d)
}
