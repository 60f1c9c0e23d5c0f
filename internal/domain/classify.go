package domain

import (
	"fmt"
	"math"
	"strings"
)

// MethaneLevel ranks a methane percentage against the incident baseline.
type MethaneLevel string

const (
	MethaneVeryHigh   MethaneLevel = "very_high"
	MethaneFairlyHigh MethaneLevel = "fairly_high"
	MethaneLow        MethaneLevel = "low"
	// MethaneElevated covers values strictly between the baseline median and
	// max, which the incident ladder leaves without a label of its own.
	MethaneElevated MethaneLevel = "elevated"
)

// Label returns the human-readable verdict for the level.
func (l MethaneLevel) Label() string {
	switch l {
	case MethaneVeryHigh:
		return "very high methane content"
	case MethaneFairlyHigh:
		return "fairly high methane content"
	case MethaneLow:
		return "low methane content"
	case MethaneElevated:
		return "elevated methane content"
	default:
		return string(l)
	}
}

// RiskLevel is the combined explosion-risk verdict.
type RiskLevel string

const (
	RiskVeryLikely     RiskLevel = "very_likely"
	RiskPotential      RiskLevel = "potential"
	RiskRelativelySafe RiskLevel = "relatively_safe"
)

// Label returns the human-readable verdict for the level.
func (l RiskLevel) Label() string {
	switch l {
	case RiskVeryLikely:
		return "very likely to explode"
	case RiskPotential:
		return "potentially explosive"
	case RiskRelativelySafe:
		return "relatively safe, periodic monitoring advised"
	default:
		return string(l)
	}
}

// RiskFactors are the four quantities the explosion ladder thresholds.
type RiskFactors struct {
	MethanePct   float64 `json:"methane_pct"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	DensityKgM3  float64 `json:"density_kg_m3"`
}

func (f RiskFactors) finite() bool {
	for _, v := range []float64{f.MethanePct, f.TemperatureC, f.HumidityPct, f.DensityKgM3} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClassifyMethane ranks pct against the baseline methane statistics. The first
// matching rule wins: at or above max, equal to median, below median, and
// otherwise elevated.
func ClassifyMethane(pct float64, ref Stats) (MethaneLevel, error) {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "", fmt.Errorf("methane %v: %w", pct, ErrUnclassified)
	}
	switch {
	case pct >= ref.Max:
		return MethaneVeryHigh, nil
	case pct == ref.Median:
		return MethaneFairlyHigh, nil
	case pct < ref.Median:
		return MethaneLow, nil
	default:
		return MethaneElevated, nil
	}
}

// ClassifyRisk applies the combined explosion ladder. Every factor must sit in
// the high band for RiskVeryLikely, or every factor in the medium band for
// RiskPotential.
func ClassifyRisk(f RiskFactors) (RiskLevel, error) {
	if !f.finite() {
		return "", fmt.Errorf("risk factors %+v: %w", f, ErrUnclassified)
	}
	switch {
	case f.MethanePct > 40 && f.TemperatureC > 30 && f.HumidityPct > 60 && f.DensityKgM3 > 400:
		return RiskVeryLikely, nil
	case f.MethanePct > 20 && f.MethanePct <= 40 &&
		f.TemperatureC > 25 && f.TemperatureC <= 30 &&
		f.HumidityPct > 50 && f.HumidityPct <= 60 &&
		f.DensityKgM3 > 200 && f.DensityKgM3 <= 400:
		return RiskPotential, nil
	default:
		return RiskRelativelySafe, nil
	}
}

// Verdict is the classified outcome of one query.
type Verdict struct {
	MethaneLevel        MethaneLevel `json:"methane_level"`
	MethaneLabel        string       `json:"methane_classification"`
	Risk                RiskLevel    `json:"risk_level"`
	RiskLabel           string       `json:"risk_classification"`
	MethanePct          float64      `json:"methane_pct"`
	TemperatureC        float64      `json:"temperature_c"`
	HumidityPct         float64      `json:"humidity_pct"`
	DensityKgM3         float64      `json:"density_kg_m3"`
	EmissionTonsPerYear float64      `json:"emission_tons_per_year"`
	Message             string       `json:"message"`
}

// Classify runs both ladders and composes the verdict message.
func Classify(f RiskFactors, emission float64, baseline Baseline) (Verdict, error) {
	methane, err := ClassifyMethane(f.MethanePct, baseline.Methane)
	if err != nil {
		return Verdict{}, err
	}
	risk, err := ClassifyRisk(f)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{
		MethaneLevel:        methane,
		MethaneLabel:        methane.Label(),
		Risk:                risk,
		RiskLabel:           risk.Label(),
		MethanePct:          f.MethanePct,
		TemperatureC:        f.TemperatureC,
		HumidityPct:         f.HumidityPct,
		DensityKgM3:         f.DensityKgM3,
		EmissionTonsPerYear: emission,
	}
	v.Message = formatVerdict(v)
	return v, nil
}

func formatVerdict(v Verdict) string {
	return fmt.Sprintf(
		"%s. %s. Methane content is at %.2f%% with a surrounding temperature of %.2f°C and a density of %.2f kg/m³. "+
			"Methane emission rate is %.2f tons/year.",
		capitalize(v.MethaneLabel), capitalize(v.RiskLabel),
		v.MethanePct, v.TemperatureC, v.DensityKgM3, v.EmissionTonsPerYear,
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
