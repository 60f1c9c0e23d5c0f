package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensity(t *testing.T) {
	d, err := Density(10000, 125000, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.016, d)
}

func TestDensity_InvalidGeometry(t *testing.T) {
	for _, geom := range [][2]float64{{0, 5}, {125000, 0}, {-1, 5}, {math.NaN(), 5}} {
		_, err := Density(1000, geom[0], geom[1])
		require.ErrorIs(t, err, ErrInvalidSiteGeometry)
	}
}

func TestMethaneContentPct(t *testing.T) {
	assert.Equal(t, 40.0, MethaneContentPct(800))
	assert.Equal(t, 0.0, MethaneContentPct(0))
}

func TestEmissionRate(t *testing.T) {
	assert.InDelta(t, 80.0, EmissionRate(1000), 1e-9)
}

func TestPiyunganSite(t *testing.T) {
	assert.Equal(t, 125000.0, Piyungan.AreaM2)
	assert.Equal(t, 5.0, Piyungan.DepthM)
}

func TestDerive(t *testing.T) {
	q, err := Derive(500, Piyungan)
	require.NoError(t, err)

	assert.Equal(t, 500.0, q.WasteTonnage)
	assert.Equal(t, 25.0, q.MethanePct)
	assert.InDelta(t, 0.0008, q.DensityKgM3, 1e-12)
	assert.InDelta(t, 40.0, q.EmissionTonsPerYear, 1e-9)
}

func TestDerive_UndefinedInput(t *testing.T) {
	_, err := Derive(math.NaN(), Piyungan)
	require.ErrorIs(t, err, ErrUndefinedInput)

	_, err = Derive(math.Inf(1), Piyungan)
	require.ErrorIs(t, err, ErrUndefinedInput)

	_, err = Derive(100, Site{})
	require.ErrorIs(t, err, ErrInvalidSiteGeometry)
}
