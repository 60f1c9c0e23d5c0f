// Command train fits the waste and temperature regression models from the
// historical CSV tables and writes them as msgpack artifacts for the
// regression prediction mode.
//
// Usage:
//
//	go run ./cmd/train -data-dir data -waste-out data/waste_model.msgpack \
//	  -temperature-out data/temperature_model.msgpack
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/tpa-methane-risk/internal/adapter/csvsource"
	"github.com/couchcryptid/tpa-methane-risk/internal/config"
	"github.com/couchcryptid/tpa-methane-risk/internal/estimator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "", "directory holding the CSV tables (overrides DATA_DIR)")
	wasteOut := flag.String("waste-out", "", "output path for the waste model (default WASTE_MODEL_PATH)")
	tempOut := flag.String("temperature-out", "", "output path for the temperature model (default TEMPERATURE_MODEL_PATH)")
	flag.Parse()

	_ = godotenv.Load()
	if *dataDir != "" {
		if err := os.Setenv("DATA_DIR", *dataDir); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *wasteOut != "" {
		cfg.WasteModelPath = *wasteOut
	}
	if *tempOut != "" {
		cfg.TemperatureModelPath = *tempOut
	}

	ds, err := csvsource.Load(csvsource.Paths{
		Incidents:   cfg.IncidentsFile,
		Waste:       cfg.WasteFile,
		Temperature: cfg.TemperatureFile,
		Humidity:    cfg.HumidityFile,
	})
	if err != nil {
		return err
	}

	trainedAt := time.Now().UTC()

	X, y := estimator.WasteTrainingSet(ds.Waste, cfg.CanonicalRegion)
	waste, err := estimator.Fit("waste", []string{estimator.FeatureYear, estimator.FeatureAvgDailyWaste}, X, y, trainedAt)
	if err != nil {
		return err
	}
	if err := save(cfg.WasteModelPath, waste); err != nil {
		return err
	}

	X, y = estimator.TemperatureTrainingSet(ds.Temperature)
	temp, err := estimator.Fit("temperature", []string{estimator.FeatureDateOrdinal}, X, y, trainedAt)
	if err != nil {
		return err
	}
	return save(cfg.TemperatureModelPath, temp)
}

func save(path string, m *estimator.Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := estimator.Save(path, m); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d samples, intercept %.4f, coefficients %v\n",
		path, m.Samples, m.Intercept, m.Coefficients)
	return nil
}
