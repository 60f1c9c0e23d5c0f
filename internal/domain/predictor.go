package domain

import (
	"context"
	"time"
)

// WasteEstimate is the annual waste tonnage resolved for a target year.
type WasteEstimate struct {
	Year    int     `json:"year"`
	Tonnage float64 `json:"tonnage"`
	// SourceYear is the recorded year the tonnage was taken from; zero for
	// fallback and model estimates.
	SourceYear int `json:"source_year,omitempty"`
	// Fallback is set when no record exists at or before Year and the canonical
	// region average was used instead.
	Fallback bool `json:"fallback"`
}

// WastePredictor estimates annual waste tonnage for a year.
type WastePredictor interface {
	PredictWaste(ctx context.Context, year int) (WasteEstimate, error)
}

// ClimatePredictor estimates a climate quantity (temperature or humidity) for a
// date. The bool result is false when no value is available and the caller must
// fall back.
type ClimatePredictor interface {
	PredictClimate(ctx context.Context, date time.Time) (float64, bool, error)
}
