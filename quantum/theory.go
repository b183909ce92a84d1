package quantum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// The far-field (Fraunhofer) diffraction pattern of an aperture is the
// Fourier transform of its transmission function. TheoreticalPattern exploits
// that directly: it samples the barrier's transmission on a transverse grid,
// FFTs it, and maps frequency bins to screen positions. Unlike the heuristic
// cos²-to-a-power curve the stepper uses, this is the exact N-slit result,
// so the GUI can overlay both.
const (
	apertureSamples = 4096
	apertureWindow  = 16.0 // transverse extent of the sampled barrier
)

// ScreenAxis returns n uniformly spaced transverse screen positions covering
// the detection field's width.
func ScreenAxis(n int) []float64 {
	ys := make([]float64, n)
	floats.Span(ys, -FieldSpanY/2, FieldSpanY/2)
	return ys
}

// ClosedFormPattern samples the engine's own closed-form intensity functions
// (the ones the stepper and accumulator use) on the screen axis, normalized
// so the maximum is 1. Used as the first curve of the theory overlay.
func ClosedFormPattern(slits SlitConfig, wavelength float64, n int) []float64 {
	out := make([]float64, n)
	for i, y := range ScreenAxis(n) {
		if slits.Count == 1 {
			out[i] = SingleSlitIntensity(y, ScreenDistance, slits.Width, wavelength)
		} else {
			out[i] = MultiSlitIntensity(y, ScreenDistance, slits.Separation, slits.Count, wavelength)
		}
	}
	normalizeMax(out)
	return out
}

// TheoreticalPattern computes the exact Fraunhofer pattern of the configured
// aperture on the screen axis: FFT of the transmission function, intensity
// |F|², frequency bins mapped to screen positions through y = λ·D·f, linearly
// resampled onto n screen samples and normalized to a unit maximum.
func TheoreticalPattern(slits SlitConfig, wavelength float64, n int) []float64 {
	out := make([]float64, n)
	if wavelength <= 0 {
		return out
	}

	// Sample the aperture transmission: 1 inside any slit, 0 on the barrier.
	ys := make([]float64, apertureSamples)
	floats.Span(ys, -apertureWindow/2, apertureWindow/2)
	aperture := make([]float64, apertureSamples)
	for i, y := range ys {
		if slits.SlitAt(y) >= 0 {
			aperture[i] = 1
		}
	}

	spectrum := fft.FFTReal(aperture)

	// fftshift so bin i carries spatial frequency (i − N/2)/window.
	intensity := make([]float64, apertureSamples)
	for i := range intensity {
		c := spectrum[(i+apertureSamples/2)%apertureSamples]
		a := cmplx.Abs(c)
		intensity[i] = a * a
	}

	// Resample onto the screen axis: a screen position y corresponds to the
	// aperture spatial frequency f = y/(λ·D).
	for i, y := range ScreenAxis(n) {
		f := y / (wavelength * ScreenDistance)
		pos := f*apertureWindow + apertureSamples/2
		out[i] = sampleLinear(intensity, pos)
	}
	normalizeMax(out)
	return out
}

// sampleLinear reads a fractional index with linear interpolation, clamping
// to zero outside the array.
func sampleLinear(vals []float64, pos float64) float64 {
	if pos < 0 || pos > float64(len(vals)-1) {
		return 0
	}
	i := int(math.Floor(pos))
	if i >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	frac := pos - float64(i)
	return vals[i]*(1-frac) + vals[i+1]*frac
}

func normalizeMax(vals []float64) {
	max := floats.Max(vals)
	if max <= 0 {
		return
	}
	floats.Scale(1/max, vals)
}
