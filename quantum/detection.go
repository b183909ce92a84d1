package quantum

import (
	"math"
	"sync"
)

// Detection field geometry. The screen is sampled on a fixed grid spanning
// the transverse (y) and vertical (z) extents below; impacts outside the
// grid are silently dropped.
const (
	FieldWidth  = 160
	FieldHeight = 120
	FieldSpanY  = 8.0
	FieldSpanZ  = 6.0

	// blendRadius limits the neighborhood an impact bleeds into; the weight
	// falls off inverse-linearly with cell distance.
	blendRadius = 2

	// depositGain scales a single impact's contribution so the pattern
	// builds up over many particles instead of saturating immediately.
	depositGain = 0.18

	// collapseBandSigma is the fixed Gaussian width of the localized band
	// drawn around the traversed slit's center for collapsed impacts.
	collapseBandSigma = 0.15
)

// Cell is one accumulator of the detection field, RGB channels in [0,1].
type Cell struct {
	R, G, B float64
}

// DetectionField accumulates particle impacts into a 2D intensity image: the
// interference (or collapse) pattern built up over many particles. It is the
// statistical rendering of the same model the stepper applies per particle;
// over many independent impacts the two must agree in expectation.
//
// Writes happen on the simulation goroutine; the GUI raster reads through
// Snapshot, so access is serialized with a RWMutex.
type DetectionField struct {
	mu    sync.RWMutex
	w, h  int
	cells []Cell
	rev   uint64
}

// NewDetectionField returns a zeroed field of the standard screen resolution.
func NewDetectionField() *DetectionField {
	return &DetectionField{w: FieldWidth, h: FieldHeight, cells: make([]Cell, FieldWidth*FieldHeight)}
}

// Rev returns the field revision, incremented on every mutation. The GUI uses
// it to skip redundant raster refreshes.
func (f *DetectionField) Rev() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rev
}

// RegisterImpact blends one particle impact at screen coordinates (y,z) into
// the field. The deposited intensity routes through the same single-slit /
// multi-slit / collapsed-band branching as the stepper's deflection policy:
//
//   - one slit: the sinc² diffraction profile;
//   - several slits, wave-like: the interference profile (collapse-damped
//     for a near-immune kind under observation);
//   - several slits, collapsed: a Gaussian band exp(−Δ²/(2σ²)) around the
//     center of the slit actually traversed.
func (f *DetectionField) RegisterImpact(y, z float64, kind ParticleKind, slit int, observed bool, slits SlitConfig, wavelength float64) {
	props := Properties(kind)

	var intensity float64
	switch {
	case slits.Count == 1:
		intensity = SingleSlitIntensity(y, ScreenDistance, slits.Width, wavelength)
	case observed && !props.NearImmune() && slit >= 0:
		d := y - slits.Center(slit)
		intensity = math.Exp(-d * d / (2 * collapseBandSigma * collapseBandSigma))
	default:
		intensity = MultiSlitIntensity(y, ScreenDistance, slits.Separation, slits.Count, wavelength)
		if observed {
			// Near-immune kind under observation: dampened collapse law.
			intensity = ApplyObservationCollapse(kind, intensity)
		}
	}

	cx := int((y/FieldSpanY + 0.5) * float64(f.w))
	cy := int((z/FieldSpanZ + 0.5) * float64(f.h))

	f.mu.Lock()
	defer f.mu.Unlock()
	for dy := -blendRadius; dy <= blendRadius; dy++ {
		for dx := -blendRadius; dx <= blendRadius; dx++ {
			x, yc := cx+dx, cy+dy
			if x < 0 || x >= f.w || yc < 0 || yc >= f.h {
				continue
			}
			dist := math.Hypot(float64(dx), float64(dy))
			if dist > blendRadius {
				continue
			}
			w := intensity * depositGain / (1 + dist)
			c := &f.cells[yc*f.w+x]
			c.R = math.Min(1, c.R+w*props.Color.R)
			c.G = math.Min(1, c.G+w*props.Color.G)
			c.B = math.Min(1, c.B+w*props.Color.B)
		}
	}
	f.rev++
}

// Reset zeroes the entire field atomically.
func (f *DetectionField) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cells {
		f.cells[i] = Cell{}
	}
	f.rev++
}

// Snapshot returns the field dimensions and a copy of the accumulators.
func (f *DetectionField) Snapshot() (w, h int, cells []Cell) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Cell, len(f.cells))
	copy(out, f.cells)
	return f.w, f.h, out
}
