package quantum

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// GaussianRandom draws a normally distributed value with the given mean and
// standard deviation using the Box–Muller transform. The uniforms are taken
// from (0,1] so the logarithm stays finite. The generator is injected rather
// than ambient so tests can fix the seed and assert exact trajectories.
func GaussianRandom(rng *rand.Rand, mean, sigma float64) float64 {
	u1 := 1.0 - rng.Float64() // (0,1]
	u2 := 1.0 - rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + sigma*z
}

// ApplyAngularDispersion perturbs an emission direction by two independent
// Gaussian deviations scaled by 0.1·dispersionFactor, applied as small-angle
// rotations about the axes orthogonal to the nominal (x) propagation axis,
// and renormalizes. The output is always unit length; dispersion is a
// perturbation, never a redirection, and a zero factor returns the direction
// unchanged (normalized).
func ApplyAngularDispersion(rng *rand.Rand, direction r3.Vec, dispersionFactor float64) r3.Vec {
	n := r3.Norm(direction)
	if n < intensityEpsilon {
		// Degenerate direction: fall back to the nominal propagation axis.
		direction = r3.Vec{X: 1}
	} else {
		direction = r3.Scale(1/n, direction)
	}
	if dispersionFactor <= 0 {
		return direction
	}

	sigma := 0.1 * dispersionFactor
	dy := GaussianRandom(rng, 0, sigma)
	dz := GaussianRandom(rng, 0, sigma)

	// Small-angle rotations about the z and y axes add transverse components
	// proportional to the deviation angles.
	out := r3.Vec{X: direction.X, Y: direction.Y + dy, Z: direction.Z + dz}
	return r3.Scale(1/r3.Norm(out), out)
}
