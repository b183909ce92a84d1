package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fieldTotal(f *DetectionField) float64 {
	_, _, cells := f.Snapshot()
	total := 0.0
	for _, c := range cells {
		total += c.R + c.G + c.B
	}
	return total
}

func TestResetRoundTrip(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 0.2, Count: 2}

	f.RegisterImpact(0, 0, Electron, 0, false, slits, 0.05)
	assert.Greater(t, fieldTotal(f), 0.0)

	f.Reset()
	w, h, cells := f.Snapshot()
	assert.Equal(t, FieldWidth, w)
	assert.Equal(t, FieldHeight, h)
	for _, c := range cells {
		assert.Equal(t, Cell{}, c)
	}
}

func TestImpactDepositsAroundCell(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 0.2, Count: 2}

	// y=0 is the central fringe: maximal intensity deposit.
	f.RegisterImpact(0, 0, Electron, 0, false, slits, 0.05)

	w, h, cells := f.Snapshot()
	center := cells[(h/2)*w+w/2]
	assert.Greater(t, center.R+center.G+center.B, 0.0, "center cell received intensity")

	// The blend is radius-limited: far cells stay untouched.
	corner := cells[0]
	assert.Equal(t, Cell{}, corner)
}

func TestAccumulationClamps(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 0.2, Count: 2}

	for i := 0; i < 2000; i++ {
		f.RegisterImpact(0, 0, Electron, 0, false, slits, 0.05)
	}
	_, _, cells := f.Snapshot()
	for _, c := range cells {
		assert.LessOrEqual(t, c.R, 1.0)
		assert.LessOrEqual(t, c.G, 1.0)
		assert.LessOrEqual(t, c.B, 1.0)
	}
}

func TestOffScreenImpactIgnored(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 0.2, Count: 2}

	f.RegisterImpact(100, -100, Electron, 0, false, slits, 0.05)
	assert.Zero(t, fieldTotal(f), "impacts outside the grid are dropped")
}

func TestCollapsedImpactBandsAroundSlit(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 1.0, Count: 2} // centers at ±0.5

	// Observed electron through slit 1: deposits follow a Gaussian band
	// around the slit center, so an impact far from the band is weaker than
	// one at its center.
	f.RegisterImpact(0.5, 0, Electron, 1, true, slits, 0.05)
	atCenter := fieldTotal(f)

	f.Reset()
	f.RegisterImpact(2.5, 0, Electron, 1, true, slits, 0.05)
	offBand := fieldTotal(f)

	assert.Greater(t, atCenter, offBand)
}

func TestRevTracksMutations(t *testing.T) {
	f := NewDetectionField()
	slits := SlitConfig{Width: 0.1, Separation: 0.2, Count: 2}

	r0 := f.Rev()
	f.RegisterImpact(0, 0, Photon, 0, false, slits, 0.05)
	r1 := f.Rev()
	assert.Greater(t, r1, r0)
	f.Reset()
	assert.Greater(t, f.Rev(), r1)
}
