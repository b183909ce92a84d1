package quantum

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Stepper runs the per-tick state machine over all active particles. Each
// particle is processed independently and atomically within the tick; nothing
// here depends on iteration order. All mutation goes through the registry's
// contract, never by writing particles directly from outside.
type Stepper struct {
	reg   *Registry
	field *DetectionField
	stats *Stats
	cfg   *Params
	rng   *rand.Rand
}

// NewStepper wires the stepper to its collaborators. The RNG drives the
// per-particle Bernoulli collapse trial and is injected for reproducibility.
func NewStepper(reg *Registry, field *DetectionField, stats *Stats, cfg *Params, rng *rand.Rand) *Stepper {
	return &Stepper{reg: reg, field: field, stats: stats, cfg: cfg, rng: rng}
}

// Step advances every active particle by delta seconds and returns the
// lifecycle notifications raised during the tick. Plane crossings use the
// half-open "was before AND now at-or-after" test so each plane fires exactly
// once regardless of frame-rate-dependent step size.
func (s *Stepper) Step(delta float64) []Notification {
	var notes []Notification
	for _, p := range s.reg.Active() {
		candidate := r3.Add(p.Pos, r3.Scale(delta*speedScale, p.Vel))

		switch {
		case p.Pos.X < BarrierX && candidate.X >= BarrierX:
			slit := s.cfg.Slits.SlitAt(candidate.Y)
			if slit < 0 {
				// Absorbed: transverse coordinate between slits on the
				// crossing tick. Terminal immediately, never deferred.
				s.reg.Deactivate(p.ID)
				s.stats.Absorbed++
				notes = append(notes, Notification{Kind: NoteBarrierCollision, ParticleID: p.ID, Slit: -1})
				continue
			}
			s.reg.MarkSlit(p.ID, slit)
			s.reg.SetVelocity(p.ID, s.deflect(p, slit, candidate.Y))
			s.reg.Advance(p.ID, candidate)
			s.stats.RecordSlitPass(slit)
			notes = append(notes, Notification{Kind: NoteSlitPass, ParticleID: p.ID, Slit: slit, Particle: p.Kind})

		case p.Pos.X < ScreenX && candidate.X >= ScreenX:
			s.reg.Advance(p.ID, candidate)
			s.reg.Deactivate(p.ID)
			s.stats.Detected++
			s.field.RegisterImpact(candidate.Y, candidate.Z, p.Kind, p.SlitIndex, s.cfg.Observed, s.cfg.Slits, s.cfg.Wavelength)
			notes = append(notes, Notification{
				Kind:       NoteScreenImpact,
				ParticleID: p.ID,
				Slit:       p.SlitIndex,
				Pos:        candidate,
				Particle:   p.Kind,
				Observed:   s.cfg.Observed,
			})

		default:
			s.reg.Advance(p.ID, candidate)
		}
	}
	return notes
}

// deflect applies the quantum deflection policy once, at slit-passage time,
// and returns the new velocity. The change is direction-only: the result is
// renormalized to the particle's original speed.
//
// With several slits the particle is wave-like when observation is off, or
// when a near-immune kind wins its Bernoulli trial against its collapse
// factor (rng > cf). For a collapse-prone kind like the electron (cf = 1)
// that trial is unreachable: observation always collapses it.
func (s *Stepper) deflect(p *Particle, slit int, y float64) r3.Vec {
	cfg := s.cfg
	var dy float64
	if cfg.Slits.Count == 1 {
		dy = (SingleSlitIntensity(y, ScreenDistance, cfg.Slits.Width, cfg.Wavelength) - 0.5) * 0.05
	} else {
		props := Properties(p.Kind)
		waveLike := !cfg.Observed || (props.NearImmune() && s.rng.Float64() > props.CollapseFactor)
		if waveLike {
			dy = (MultiSlitIntensity(y, ScreenDistance, cfg.Slits.Separation, cfg.Slits.Count, cfg.Wavelength) - 0.5) * 0.1
		} else {
			// Collapsed: weak pull toward the traversed slit's center,
			// modeling a narrowed post-measurement trajectory.
			dy = (cfg.Slits.Center(slit) - y) * 0.01
		}
	}

	speed := r3.Norm(p.Vel)
	v := p.Vel
	v.Y += dy
	n := r3.Norm(v)
	if n < intensityEpsilon {
		return p.Vel
	}
	return r3.Scale(speed/n, v)
}
