package quantum

import "math"

// intensityEpsilon is the threshold below which a diffraction argument is
// treated as the degenerate 0/0 case and resolved to the central maximum.
const intensityEpsilon = 1e-9

// SingleSlitIntensity computes the Fraunhofer diffraction intensity of a
// single aperture at transverse position y on a screen at distance
// screenDistance, under the small-angle approximation sin θ ≈ y/D:
//
//	I(y) = sinc²(π · slitWidth · (y/D) / λ)
//
// The result is normalized to [0,1] with the central maximum at y=0.
// Degenerate inputs (λ or D not positive) resolve to the limiting values
// rather than NaN so a bad slider frame can never corrupt the field.
func SingleSlitIntensity(y, screenDistance, slitWidth, wavelength float64) float64 {
	if wavelength <= 0 || screenDistance <= 0 {
		if math.Abs(y) < intensityEpsilon {
			return 1.0
		}
		return 0.0
	}
	arg := math.Pi * slitWidth * (y / screenDistance) / wavelength
	if math.Abs(arg) < intensityEpsilon {
		// Central maximum: lim sinc(x) as x->0 is 1.
		return 1.0
	}
	s := math.Sin(arg) / arg
	return s * s
}

// MultiSlitIntensity computes the interference intensity for slitCount >= 2
// equally spaced slits. The base two-slit fringe cos²(φ/2) with
// φ = 2π·sep·(y/D)/λ is raised to a sharpness exponent 1 + 0.5·(count−2) to
// approximate the narrower fringes of higher slit counts, then modulated by
// the single-slit diffraction envelope of an effective sub-aperture of width
// sep/5. This is a deliberate curve-fit approximation of the exact N-slit
// grating sum; TheoreticalPattern provides the exact reference.
//
// slitCount == 1 is a caller dispatch error: route to SingleSlitIntensity.
func MultiSlitIntensity(y, screenDistance, slitSeparation float64, slitCount int, wavelength float64) float64 {
	if wavelength <= 0 || screenDistance <= 0 {
		if math.Abs(y) < intensityEpsilon {
			return 1.0
		}
		return 0.0
	}
	phase := 2 * math.Pi * slitSeparation * (y / screenDistance) / wavelength
	base := math.Cos(phase / 2)
	base *= base

	sharpness := 1.0 + 0.5*float64(slitCount-2)
	pattern := math.Pow(base, sharpness)

	envelope := SingleSlitIntensity(y, screenDistance, slitSeparation/5, wavelength)
	return pattern * envelope
}

// ApplyObservationCollapse scales an interference pattern value by the kind's
// collapse factor. Collapse-prone kinds lose (1−cf) of the pattern; near
// immune kinds (neutrino) only feel a fifth of their already small factor.
// The asymmetry between the two branches is intentional and load-bearing.
func ApplyObservationCollapse(kind ParticleKind, pattern float64) float64 {
	props := Properties(kind)
	if props.NearImmune() {
		return pattern * (1 - props.CollapseFactor*0.2)
	}
	return pattern * (1 - props.CollapseFactor)
}
