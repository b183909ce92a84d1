package quantum

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSpawnIDsStrictlyIncrease(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))

	var last uint64
	for i := 0; i < 1000; i++ {
		for _, p := range reg.Spawn(3, Electron, 1.0, r3.Vec{X: 1}, 0, rng) {
			assert.Greater(t, p.ID, last, "ids must strictly increase")
			last = p.ID
		}
	}
	assert.Equal(t, 3000, reg.Len())
}

func TestIDsSurviveReset(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))

	first := reg.Spawn(5, Photon, 1.0, r3.Vec{X: 1}, 0, rng)
	highest := first[len(first)-1].ID
	reg.Reset()
	assert.Equal(t, 0, reg.Len())

	next := reg.Spawn(1, Photon, 1.0, r3.Vec{X: 1}, 0, rng)
	assert.Greater(t, next[0].ID, highest, "ids are never reissued across reset")
}

func TestSpawnWhilePaused(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	reg.SetPaused(true)

	spawned := reg.Spawn(5, Electron, 1.0, r3.Vec{X: 1}, 0, rng)
	assert.Empty(t, spawned, "paused spawn is a no-op")
	assert.Equal(t, 0, reg.Len(), "registry unchanged")

	reg.SetPaused(false)
	assert.Len(t, reg.Spawn(5, Electron, 1.0, r3.Vec{X: 1}, 0, rng), 5)
}

func TestSpawnState(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(2))

	p := reg.Spawn(1, Neutrino, 4.0, r3.Vec{X: 1}, 0, rng)[0]
	assert.True(t, p.Active)
	assert.Equal(t, -1, p.SlitIndex)
	assert.Equal(t, EmitterX, p.Pos.X)
	assert.InDelta(t, 4.0, r3.Norm(p.Vel), 1e-12, "velocity scaled to speed")
}

func TestAdvanceIgnoresInactiveAndUnknown(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	p := reg.Spawn(1, Electron, 1.0, r3.Vec{X: 1}, 0, rng)[0]

	reg.Deactivate(p.ID)
	before := p.Pos
	reg.Advance(p.ID, r3.Vec{X: 5})
	assert.Equal(t, before, p.Pos, "inactive particles are never mutated")

	reg.Advance(9999, r3.Vec{X: 5}) // unknown id: must not panic
	reg.SetVelocity(p.ID, r3.Vec{Y: 1})
	assert.NotEqual(t, r3.Vec{Y: 1}, p.Vel)
}

func TestDeactivateIdempotent(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	p := reg.Spawn(1, Electron, 1.0, r3.Vec{X: 1}, 0, rng)[0]

	reg.Deactivate(p.ID)
	state := *p
	reg.Deactivate(p.ID)
	assert.Equal(t, state, *p, "second deactivate leaves state identical")
	reg.Deactivate(12345) // unknown: logged no-op
}

func TestMarkSlitSetOnce(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	p := reg.Spawn(1, Electron, 1.0, r3.Vec{X: 1}, 0, rng)[0]

	reg.MarkSlit(p.ID, 2)
	assert.Equal(t, 2, p.SlitIndex)
	reg.MarkSlit(p.ID, 4)
	assert.Equal(t, 2, p.SlitIndex, "slit index is set at most once")
}

func TestFindAndSweep(t *testing.T) {
	reg := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	ps := reg.Spawn(3, Electron, 1.0, r3.Vec{X: 1}, 0, rng)

	assert.Equal(t, ps[1], reg.Find(ps[1].ID))
	assert.Nil(t, reg.Find(424242))

	reg.Deactivate(ps[0].ID)
	reg.Sweep()
	assert.Equal(t, 2, reg.Len())
	assert.Nil(t, reg.Find(ps[0].ID), "terminal particles are swept")
	assert.Equal(t, 2, reg.ActiveCount())
}
