package domain

import (
	"fmt"
	"math"
)

// Emission model coefficients.
const (
	DOC  = 0.6 // degradable organic carbon fraction
	DOCF = 0.2 // fraction of DOC that actually degrades
	F    = 0.5 // methane fraction of generated landfill gas

	methaneToCarbon = 16.0 / 12.0
)

// Site describes the landfill geometry used for density.
type Site struct {
	AreaM2 float64 `json:"area_m2"`
	DepthM float64 `json:"depth_m"`
}

// Piyungan is the TPA Piyungan site: 12.5 ha filled to 5 m.
var Piyungan = Site{AreaM2: 12.5 * 10000, DepthM: 5}

// MethaneContentPct converts annual waste tonnage to methane content percent.
func MethaneContentPct(tonnage float64) float64 {
	return 50 * tonnage / 1000
}

// Density returns waste density in kg/m³ for a mass spread over the given
// area and depth.
func Density(massKg, areaM2, depthM float64) (float64, error) {
	if !(areaM2 > 0) || !(depthM > 0) {
		return 0, fmt.Errorf("density over %gm² x %gm: %w", areaM2, depthM, ErrInvalidSiteGeometry)
	}
	return massKg / (areaM2 * depthM), nil
}

// EmissionRate returns the methane emission rate in tons/year, with tonnage in
// the role of the methane correction factor.
func EmissionRate(tonnage float64) float64 {
	return tonnage * DOC * DOCF * F * methaneToCarbon
}

// Derive computes the physical quantities for a resolved waste tonnage. A
// non-finite tonnage is rejected rather than propagated.
func Derive(tonnage float64, site Site) (DerivedQuantities, error) {
	if math.IsNaN(tonnage) || math.IsInf(tonnage, 0) {
		return DerivedQuantities{}, fmt.Errorf("derive from tonnage %v: %w", tonnage, ErrUndefinedInput)
	}

	// The tonnage figure is fed to the density formula as the mass in kg.
	massKg := tonnage / 1000 * 1000
	density, err := Density(massKg, site.AreaM2, site.DepthM)
	if err != nil {
		return DerivedQuantities{}, err
	}

	return DerivedQuantities{
		WasteTonnage:        tonnage,
		MethanePct:          MethaneContentPct(tonnage),
		DensityKgM3:         density,
		EmissionTonsPerYear: EmissionRate(tonnage),
	}, nil
}
