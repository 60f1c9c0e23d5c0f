package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/tpa-methane-risk/internal/config"
	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/estimator"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

const incidentsCSV = `Tanggal Kejadian,Kandungan Metan (%),Suhu (C),Kelembaban (%),Kepadatan/Densitas (kg/m)
"Friday,March 01,2019",45,32,70,500
"Saturday,March 02,2019",40-50,33,,480
"Monday,June 01,2020",tidak terukur,31,65,510
`

const wasteCSV = `Kabupaten/Kota,Tahun,Timbulan Sampah Tahunan(ton)
Kartamantul-gupro,2019,200000
Sleman,2019,50000
Kartamantul-gupro,2020,210000
`

func monthlyCSV(base int) string {
	var b strings.Builder
	b.WriteString(domain.ColYear)
	for m := time.January; m <= time.December; m++ {
		b.WriteString("," + domain.MonthColumn(m))
	}
	b.WriteString("\n2019")
	for m := 1; m <= 12; m++ {
		b.WriteString("," + strconv.Itoa(base+m))
	}
	b.WriteString("\n")
	return b.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}
	return &config.Config{
		IncidentsFile:        write("incidents.csv", incidentsCSV),
		WasteFile:            write("waste.csv", wasteCSV),
		TemperatureFile:      write("temperature.csv", monthlyCSV(27)),
		HumidityFile:         write("humidity.csv", monthlyCSV(70)),
		CanonicalRegion:      domain.CanonicalRegion,
		PredictionMode:       config.PredictionTable,
		WasteModelPath:       filepath.Join(dir, "waste_model.msgpack"),
		TemperatureModelPath: filepath.Join(dir, "temperature_model.msgpack"),
		AvgDailyWaste:        2,
	}
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestLoad_TableMode(t *testing.T) {
	freezeClock(t)
	metrics := observability.NewMetricsForTesting()

	svc, err := Load(testConfig(t), metrics, discardLogger())
	require.NoError(t, err)

	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.HistoricalRecords.WithLabelValues("incidents")), 0)
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.HistoricalRecords.WithLabelValues("waste")), 0)
	assert.InDelta(t, 205000.0, svc.Waste.CanonicalMean(), 1e-9)
	assert.Equal(t, []domain.ProductionPoint{{Year: 2019, Tons: 900}, {Year: 2020, Tons: 0}}, svc.Production)
	assert.InDelta(t, 45.0, svc.Baseline.Methane.Max, 1e-9)

	q, err := domain.QueryRequest{Date: "2019-03-05"}.ToQuery()
	require.NoError(t, err)
	a, err := svc.Assessor.Assess(context.Background(), q)
	require.NoError(t, err)
	assert.InDelta(t, 250000.0, a.Waste.Tonnage, 1e-9)
	assert.Empty(t, a.Warnings, "2019 has recorded waste, temperature, and humidity")
}

func TestLoad_RegressionMode(t *testing.T) {
	freezeClock(t)
	cfg := testConfig(t)
	cfg.PredictionMode = config.PredictionRegression

	trained := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, estimator.Save(cfg.WasteModelPath, &estimator.Model{
		Name:         "waste",
		Features:     []string{estimator.FeatureYear, estimator.FeatureAvgDailyWaste},
		Intercept:    100,
		Coefficients: []float64{1, 365},
		Samples:      3,
		TrainedAt:    trained,
	}))
	require.NoError(t, estimator.Save(cfg.TemperatureModelPath, &estimator.Model{
		Name:         "temperature",
		Features:     []string{estimator.FeatureDateOrdinal},
		Intercept:    30,
		Coefficients: []float64{0},
		Samples:      12,
		TrainedAt:    trained,
	}))

	svc, err := Load(cfg, nil, discardLogger())
	require.NoError(t, err)

	q, err := domain.QueryRequest{Date: "2021-03-05"}.ToQuery()
	require.NoError(t, err)
	a, err := svc.Assessor.Assess(context.Background(), q)
	require.NoError(t, err)

	assert.InDelta(t, 100.0+2021+730, a.Waste.Tonnage, 1e-9)
	assert.False(t, a.HasWarning(domain.WarnWasteFallback))
	assert.False(t, a.HasWarning(domain.WarnTemperatureFallback))
	assert.True(t, a.HasWarning(domain.WarnHumidityFallback), "humidity keeps the table lookup")
}

func TestLoad_MissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.PredictionMode = config.PredictionRegression

	_, err := Load(cfg, nil, discardLogger())
	require.Error(t, err)
}

func TestLoad_MissingTable(t *testing.T) {
	cfg := testConfig(t)
	cfg.IncidentsFile = filepath.Join(t.TempDir(), "absent.csv")

	_, err := Load(cfg, nil, discardLogger())
	require.Error(t, err)
}

func TestLoad_RegressionModelsForecastFutureYears(t *testing.T) {
	freezeClock(t)
	cfg := testConfig(t)
	cfg.PredictionMode = config.PredictionRegression
	trained := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, estimator.Save(cfg.WasteModelPath, &estimator.Model{
		Name: "waste", Intercept: 100, Coefficients: []float64{1, 365}, Samples: 3, TrainedAt: trained,
	}))
	require.NoError(t, estimator.Save(cfg.TemperatureModelPath, &estimator.Model{
		Name: "temperature", Intercept: 30, Coefficients: []float64{0}, Samples: 12, TrainedAt: trained,
	}))

	svc, err := Load(cfg, nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, svc.WasteModel)
	require.NotNil(t, svc.TemperatureModel)

	w, err := svc.WasteModel.Forecast(2030, svc.WasteModel.AvgDailyWaste())
	require.NoError(t, err)
	assert.InDelta(t, 100.0+2030+730, w.TotalTonnage, 1e-9)

	temp, err := svc.TemperatureModel.Forecast(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, temp.TemperatureC, 1e-9)
}

func TestLoad_TableModeHasNoForecasters(t *testing.T) {
	svc, err := Load(testConfig(t), nil, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, svc.WasteModel)
	assert.Nil(t, svc.TemperatureModel)
}
