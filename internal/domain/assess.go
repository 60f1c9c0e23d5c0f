package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Warning codes for fallbacks taken during an assessment.
const (
	WarnWasteFallback       = "waste_fallback"
	WarnTemperatureFallback = "temperature_fallback"
	WarnHumidityFallback    = "humidity_fallback"
)

// Warning reports a substituted input. A fallback is never applied silently.
type Warning struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}

// Assessment is the full result of one query.
type Assessment struct {
	ID         string            `json:"id"`
	Date       time.Time         `json:"date"`
	Waste      WasteEstimate     `json:"waste"`
	Derived    DerivedQuantities `json:"derived"`
	Verdict    Verdict           `json:"verdict"`
	Warnings   []Warning         `json:"warnings,omitempty"`
	AssessedAt time.Time         `json:"assessed_at"`
}

// HasWarning reports whether the assessment carries a warning with code.
func (a Assessment) HasWarning(code string) bool {
	for _, w := range a.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Assessor runs one query through lookup, derivation and classification. It
// holds only read-only data and is safe for concurrent use.
type Assessor struct {
	waste       WastePredictor
	temperature ClimatePredictor
	humidity    ClimatePredictor
	baseline    Baseline
	logger      *slog.Logger
}

// NewAssessor wires the predictors and the incident baseline.
func NewAssessor(waste WastePredictor, temperature, humidity ClimatePredictor, baseline Baseline, logger *slog.Logger) *Assessor {
	return &Assessor{
		waste:       waste,
		temperature: temperature,
		humidity:    humidity,
		baseline:    baseline,
		logger:      logger,
	}
}

// Baseline returns the incident baseline the assessor classifies against.
func (a *Assessor) Baseline() Baseline {
	return a.baseline
}

// Assess validates q and evaluates it. Validation failures return a
// *ValidationError before any lookup runs.
func (a *Assessor) Assess(ctx context.Context, q Query) (Assessment, error) {
	today := Today()
	if err := q.Validate(today); err != nil {
		return Assessment{}, err
	}

	date := q.Date
	if date.IsZero() {
		date = today
	}

	var warnings []Warning

	waste, err := a.waste.PredictWaste(ctx, date.Year())
	if err != nil {
		return Assessment{}, fmt.Errorf("predict waste for %d: %w", date.Year(), err)
	}
	if waste.Fallback {
		warnings = append(warnings, Warning{
			Code:    WarnWasteFallback,
			Message: fmt.Sprintf("no waste record at or before %d, using canonical region average", date.Year()),
			Value:   waste.Tonnage,
		})
	}

	temperature, warn, err := a.resolveClimate(ctx, a.temperature, date, q.TemperatureC, DefaultTemperatureC,
		WarnTemperatureFallback, "temperature")
	if err != nil {
		return Assessment{}, err
	}
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	humidity, warn, err := a.resolveClimate(ctx, a.humidity, date, q.HumidityPct, a.baseline.Humidity.Mean,
		WarnHumidityFallback, "humidity")
	if err != nil {
		return Assessment{}, err
	}
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	derived, err := Derive(waste.Tonnage, Piyungan)
	if err != nil {
		return Assessment{}, err
	}

	verdict, err := Classify(RiskFactors{
		MethanePct:   derived.MethanePct,
		TemperatureC: temperature,
		HumidityPct:  humidity,
		DensityKgM3:  derived.DensityKgM3,
	}, derived.EmissionTonsPerYear, a.baseline)
	if err != nil {
		return Assessment{}, err
	}

	for _, w := range warnings {
		a.logger.Warn("assessment fallback",
			"code", w.Code,
			"date", date.Format(QueryDateLayout),
			"value", w.Value,
		)
	}

	return Assessment{
		ID:         uuid.NewString(),
		Date:       date,
		Waste:      waste,
		Derived:    derived,
		Verdict:    verdict,
		Warnings:   warnings,
		AssessedAt: clock.Now(),
	}, nil
}

// resolveClimate prefers the supplied value, then the predictor, then the
// fallback. Taking the fallback yields a warning.
func (a *Assessor) resolveClimate(ctx context.Context, p ClimatePredictor, date time.Time, supplied *float64,
	fallback float64, code, name string,
) (float64, *Warning, error) {
	if supplied != nil {
		return *supplied, nil, nil
	}
	if p != nil {
		v, ok, err := p.PredictClimate(ctx, date)
		if err != nil {
			return 0, nil, fmt.Errorf("predict %s for %s: %w", name, date.Format(QueryDateLayout), err)
		}
		if ok {
			return v, nil, nil
		}
	}
	return fallback, &Warning{
		Code:    code,
		Message: fmt.Sprintf("no %s data for %s, using %.2f", name, date.Format("January 2006"), fallback),
		Value:   fallback,
	}, nil
}
