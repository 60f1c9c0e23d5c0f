package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Prediction modes.
const (
	PredictionTable      = "table"
	PredictionRegression = "regression"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir         string
	IncidentsFile   string
	TemperatureFile string
	HumidityFile    string
	WasteFile       string
	CanonicalRegion string

	ProjectionHorizon int

	PredictionMode       string
	WasteModelPath       string
	TemperatureModelPath string
	AvgDailyWaste        float64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration

	// SQLitePath enables the assessment history store when set.
	SQLitePath string

	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration

	// DailyAssessmentSchedule is a cron spec; empty disables the daily bulletin.
	DailyAssessmentSchedule string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	horizon, err := parseHorizon()
	if err != nil {
		return nil, err
	}

	avgDailyWaste, err := parseAvgDailyWaste()
	if err != nil {
		return nil, err
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "data")

	cfg := &Config{
		DataDir:         dataDir,
		IncidentsFile:   dataPath(dataDir, "INCIDENTS_FILE", "incidents.csv"),
		TemperatureFile: dataPath(dataDir, "TEMPERATURE_FILE", "temperature.csv"),
		HumidityFile:    dataPath(dataDir, "HUMIDITY_FILE", "humidity.csv"),
		WasteFile:       dataPath(dataDir, "WASTE_FILE", "waste.csv"),
		CanonicalRegion: sharedcfg.EnvOrDefault("CANONICAL_REGION", "Kartamantul-gupro"),

		ProjectionHorizon: horizon,

		PredictionMode:       strings.ToLower(sharedcfg.EnvOrDefault("PREDICTION_MODE", PredictionTable)),
		WasteModelPath:       dataPath(dataDir, "WASTE_MODEL_PATH", "waste_model.msgpack"),
		TemperatureModelPath: dataPath(dataDir, "TEMPERATURE_MODEL_PATH", "temperature_model.msgpack"),
		AvgDailyWaste:        avgDailyWaste,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		LogFile:         os.Getenv("LOG_FILE"),
		ShutdownTimeout: shutdownTimeout,

		SQLitePath: os.Getenv("SQLITE_PATH"),

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "risk-queries"),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "risk-assessments"),
		KafkaGroupID:     sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "tpa-methane-risk"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		DailyAssessmentSchedule: os.Getenv("DAILY_ASSESSMENT_SCHEDULE"),
	}

	if cfg.PredictionMode != PredictionTable && cfg.PredictionMode != PredictionRegression {
		return nil, fmt.Errorf("invalid PREDICTION_MODE %q: want %s or %s", cfg.PredictionMode, PredictionTable, PredictionRegression)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.DailyAssessmentSchedule != "" {
		if _, err := cron.ParseStandard(cfg.DailyAssessmentSchedule); err != nil {
			return nil, fmt.Errorf("invalid DAILY_ASSESSMENT_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

// dataPath resolves a file setting. Relative values sit under dataDir.
func dataPath(dataDir, key, def string) string {
	v := sharedcfg.EnvOrDefault(key, def)
	if filepath.IsAbs(v) {
		return v
	}
	return filepath.Join(dataDir, v)
}

func parseHorizon() (int, error) {
	s := os.Getenv("PROJECTION_HORIZON")
	if s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 100 {
		return 0, errors.New("invalid PROJECTION_HORIZON: must be an integer in [0, 100]")
	}
	return n, nil
}

func parseAvgDailyWaste() (float64, error) {
	s := os.Getenv("AVG_DAILY_WASTE")
	if s == "" {
		return 700, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid AVG_DAILY_WASTE: must be a non-negative number")
	}
	return v, nil
}
