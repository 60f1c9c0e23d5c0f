// Package app builds the read-only assessment state from the configured
// historical tables and prediction mode.
package app

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/tpa-methane-risk/internal/adapter/csvsource"
	"github.com/couchcryptid/tpa-methane-risk/internal/config"
	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/estimator"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

// Service holds the state built once at startup.
type Service struct {
	Assessor   *domain.Assessor
	Waste      *domain.WasteSeries
	Production []domain.ProductionPoint
	Baseline   domain.Baseline

	// WasteModel and TemperatureModel are set in regression mode only.
	WasteModel       *estimator.WasteRegressor
	TemperatureModel *estimator.TemperatureRegressor
}

// Load reads every table, builds the lookup series and baseline, and picks the
// predictors for cfg.PredictionMode. Metrics may be nil.
func Load(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*Service, error) {
	ds, err := csvsource.Load(csvsource.Paths{
		Incidents:   cfg.IncidentsFile,
		Waste:       cfg.WasteFile,
		Temperature: cfg.TemperatureFile,
		Humidity:    cfg.HumidityFile,
	})
	if err != nil {
		return nil, err
	}
	if metrics != nil {
		metrics.HistoricalRecords.WithLabelValues("incidents").Set(float64(len(ds.Incidents)))
		metrics.HistoricalRecords.WithLabelValues("waste").Set(float64(len(ds.Waste)))
		metrics.HistoricalRecords.WithLabelValues("temperature").Set(float64(len(ds.Temperature)))
		metrics.HistoricalRecords.WithLabelValues("humidity").Set(float64(len(ds.Humidity)))
	}

	waste, err := domain.NewWasteSeries(ds.Waste, cfg.CanonicalRegion)
	if err != nil {
		return nil, err
	}
	temperature, err := domain.NewClimateSeries("temperature", ds.Temperature)
	if err != nil {
		return nil, err
	}
	humidity, err := domain.NewClimateSeries("humidity", ds.Humidity)
	if err != nil {
		return nil, err
	}
	baseline, err := domain.NewBaseline(ds.Incidents)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Waste:      waste,
		Production: domain.AnnualMethaneProduction(ds.Incidents),
		Baseline:   baseline,
	}
	var (
		wastePredictor domain.WastePredictor   = waste
		tempPredictor  domain.ClimatePredictor = temperature
	)
	if cfg.PredictionMode == config.PredictionRegression {
		svc.WasteModel, svc.TemperatureModel, err = loadRegressors(cfg)
		if err != nil {
			return nil, err
		}
		wastePredictor, tempPredictor = svc.WasteModel, svc.TemperatureModel
	}

	first, last := waste.YearRange()
	logger.Info("historical data loaded",
		"incidents", len(ds.Incidents),
		"waste_years", fmt.Sprintf("%d-%d", first, last),
		"canonical_mean_tonnage", waste.CanonicalMean(),
		"prediction_mode", cfg.PredictionMode,
	)

	svc.Assessor = domain.NewAssessor(wastePredictor, tempPredictor, humidity, baseline, logger)
	return svc, nil
}

// loadRegressors reads the fitted waste and temperature models. Humidity has
// no model and keeps its table lookup.
func loadRegressors(cfg *config.Config) (*estimator.WasteRegressor, *estimator.TemperatureRegressor, error) {
	wm, err := estimator.Load(cfg.WasteModelPath)
	if err != nil {
		return nil, nil, err
	}
	w, err := estimator.NewWasteRegressor(wm, cfg.AvgDailyWaste)
	if err != nil {
		return nil, nil, err
	}
	tm, err := estimator.Load(cfg.TemperatureModelPath)
	if err != nil {
		return nil, nil, err
	}
	tr, err := estimator.NewTemperatureRegressor(tm)
	if err != nil {
		return nil, nil, err
	}
	return w, tr, nil
}
