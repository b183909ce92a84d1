package quantum

import (
	"log"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleKind is a closed enumeration of the particle species the experiment
// can fire. Kind behavior lives in a static property table, not in subtypes:
// adding a kind means extending the enum and the table together.
type ParticleKind int

const (
	Electron ParticleKind = iota
	Photon
	Neutrino
)

func (k ParticleKind) String() string {
	switch k {
	case Electron:
		return "electron"
	case Photon:
		return "photon"
	case Neutrino:
		return "neutrino"
	}
	return "unknown"
}

// ParseKind maps a configuration string to a ParticleKind, defaulting to
// Electron for anything unrecognized.
func ParseKind(s string) ParticleKind {
	switch s {
	case "photon":
		return Photon
	case "neutrino":
		return Neutrino
	}
	return Electron
}

// RGB is a display color in [0,1] channels, kept free of image/color so the
// engine stays independent of the rendering toolkit.
type RGB struct {
	R, G, B float64
}

// KindProperties are the static per-kind traits. Mass is flavor only; the
// physically meaningful trait is CollapseFactor: the probability that
// observation collapses the kind's wave behavior. The neutrino's defining
// trait is a factor so small it is nearly immune to observation.
type KindProperties struct {
	Mass           float64
	CollapseFactor float64 // in [0,1]; 1 = full collapse under observation
	Color          RGB
	Wavelength     float64 // default de Broglie-ish display wavelength
}

// nearImmuneThreshold separates collapse-prone kinds from near-immune ones
// for the purposes of the collapse law's dampened branch.
const nearImmuneThreshold = 0.2

// NearImmune reports whether the kind takes the dampened collapse branch.
func (p KindProperties) NearImmune() bool {
	return p.CollapseFactor < nearImmuneThreshold
}

var kindProperties = [...]KindProperties{
	Electron: {Mass: 1.0, CollapseFactor: 1.0, Color: RGB{R: 0.35, G: 0.75, B: 1.0}, Wavelength: 0.05},
	Photon:   {Mass: 0.0, CollapseFactor: 0.9, Color: RGB{R: 1.0, G: 0.85, B: 0.3}, Wavelength: 0.08},
	Neutrino: {Mass: 0.001, CollapseFactor: 0.05, Color: RGB{R: 0.5, G: 1.0, B: 0.55}, Wavelength: 0.03},
}

// Properties returns the static property record for a kind. Unknown values
// fall back to the electron record rather than panicking mid-frame.
func Properties(k ParticleKind) KindProperties {
	if k < 0 || int(k) >= len(kindProperties) {
		return kindProperties[Electron]
	}
	return kindProperties[k]
}

// Particle is a live simulation entity. The Registry is its sole owner and
// mutator; everything else goes through the registry's named operations.
type Particle struct {
	ID   uint64
	Pos  r3.Vec
	Vel  r3.Vec
	Kind ParticleKind

	// Active=false is terminal: the particle is never advanced or
	// re-processed afterwards, only swept or reset.
	Active bool

	// SlitIndex records which slit the particle traversed; -1 until set,
	// set at most once at barrier-crossing time.
	SlitIndex int
}

// Registry is the authoritative collection of particle entities. IDs are
// monotonically increasing and never reused within a session, including
// across Reset.
type Registry struct {
	particles []*Particle
	byID      map[uint64]*Particle
	nextID    uint64
	paused    bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint64]*Particle)}
}

// SetPaused installs the pause gate: while paused, Spawn is a silent no-op.
// This mirrors the simulation's pause toggle and is a side-effect-suppression
// policy, not an error.
func (r *Registry) SetPaused(paused bool) {
	r.paused = paused
}

// Spawn creates count new active particles at the emitter plane, each with an
// independently dispersed direction scaled by speed. Returns the new
// particles, or an empty slice while paused.
func (r *Registry) Spawn(count int, kind ParticleKind, speed float64, baseDir r3.Vec, dispersionFactor float64, rng *rand.Rand) []*Particle {
	if r.paused || count <= 0 {
		return nil
	}
	spawned := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		dir := ApplyAngularDispersion(rng, baseDir, dispersionFactor)
		r.nextID++
		p := &Particle{
			ID:        r.nextID,
			Pos:       r3.Vec{X: EmitterX},
			Vel:       r3.Scale(speed, dir),
			Kind:      kind,
			Active:    true,
			SlitIndex: -1,
		}
		r.particles = append(r.particles, p)
		r.byID[p.ID] = p
		spawned = append(spawned, p)
	}
	return spawned
}

// Advance overwrites the position of the named active particle. Unknown or
// inactive ids are no-ops: a stale reference from a prior tick is expected,
// not fatal.
func (r *Registry) Advance(id uint64, pos r3.Vec) {
	p, ok := r.byID[id]
	if !ok || !p.Active {
		return
	}
	p.Pos = pos
}

// SetVelocity overwrites the velocity of the named active particle; same
// no-op policy as Advance.
func (r *Registry) SetVelocity(id uint64, vel r3.Vec) {
	p, ok := r.byID[id]
	if !ok || !p.Active {
		return
	}
	p.Vel = vel
}

// MarkSlit records the slit a particle traversed. The index is set at most
// once; repeat calls and calls on unknown or inactive particles are ignored.
func (r *Registry) MarkSlit(id uint64, slit int) {
	p, ok := r.byID[id]
	if !ok || !p.Active || p.SlitIndex >= 0 {
		return
	}
	p.SlitIndex = slit
}

// Deactivate transitions a particle to its terminal state. Idempotent;
// unknown ids are ignored.
func (r *Registry) Deactivate(id uint64) {
	p, ok := r.byID[id]
	if !ok {
		log.Printf("registry: deactivate of unknown particle %d ignored", id)
		return
	}
	p.Active = false
}

// Find returns the particle with the given id, or nil.
func (r *Registry) Find(id uint64) *Particle {
	return r.byID[id]
}

// Active returns the live particles in spawn order. The slice is shared with
// the registry; callers must not mutate through it outside a tick.
func (r *Registry) Active() []*Particle {
	out := make([]*Particle, 0, len(r.particles))
	for _, p := range r.particles {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// ActiveCount reports the number of in-flight particles.
func (r *Registry) ActiveCount() int {
	n := 0
	for _, p := range r.particles {
		if p.Active {
			n++
		}
	}
	return n
}

// Len reports the total number of registered particles, terminal included.
func (r *Registry) Len() int {
	return len(r.particles)
}

// Snapshot copies the registry into render-facing views.
func (r *Registry) Snapshot() []ParticleView {
	out := make([]ParticleView, len(r.particles))
	for i, p := range r.particles {
		out[i] = ParticleView{ID: p.ID, Pos: p.Pos, Kind: p.Kind, Active: p.Active}
	}
	return out
}

// Sweep drops terminal particles from the registry, keeping the live ones.
// Called at the end of a tick so the render snapshot still shows impacts once.
func (r *Registry) Sweep() {
	kept := r.particles[:0]
	for _, p := range r.particles {
		if p.Active {
			kept = append(kept, p)
		} else {
			delete(r.byID, p.ID)
		}
	}
	r.particles = kept
}

// Reset removes every particle but preserves the id counter, so ids are never
// reissued within a session.
func (r *Registry) Reset() {
	r.particles = nil
	r.byID = make(map[uint64]*Particle)
}
