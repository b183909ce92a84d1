package quantum

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func TestGaussianRandomMoments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 5000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = GaussianRandom(rng, 2.0, 0.5)
	}
	assert.InDelta(t, 2.0, stat.Mean(samples, nil), 0.05, "mean")
	assert.InDelta(t, 0.25, stat.Variance(samples, nil), 0.03, "variance")
}

func TestZeroDispersionIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Any direction comes back normalized but unchanged in direction.
	out := ApplyAngularDispersion(rng, r3.Vec{X: 3}, 0)
	assert.Equal(t, r3.Vec{X: 1}, out)

	d := r3.Vec{X: 1, Y: 2, Z: -2}
	out = ApplyAngularDispersion(rng, d, 0)
	want := r3.Scale(1/r3.Norm(d), d)
	assert.InDelta(t, want.X, out.X, 1e-12)
	assert.InDelta(t, want.Y, out.Y, 1e-12)
	assert.InDelta(t, want.Z, out.Z, 1e-12)
}

func TestDispersedDirectionIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		out := ApplyAngularDispersion(rng, r3.Vec{X: 1}, 2.0)
		assert.InDelta(t, 1.0, r3.Norm(out), 1e-12)
	}
}

// deviationAngles samples the angle between dispersed directions and the
// nominal propagation axis.
func deviationAngles(seed int64, factor float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		v := ApplyAngularDispersion(rng, r3.Vec{X: 1}, factor)
		out[i] = math.Acos(math.Min(1, v.X))
	}
	return out
}

func TestDispersionWidensWithFactor(t *testing.T) {
	const n = 2000
	small := deviationAngles(11, 0.5, n)
	large := deviationAngles(11, 2.5, n)

	assert.Less(t, stat.Variance(small, nil), stat.Variance(large, nil),
		"larger dispersion factor must widen the angular spread")
}

func TestDegenerateDirectionFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	out := ApplyAngularDispersion(rng, r3.Vec{}, 0)
	assert.Equal(t, r3.Vec{X: 1}, out, "zero direction falls back to the propagation axis")
}
