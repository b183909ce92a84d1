package quantum

import (
	"log"
	"math"
)

// Parameter bounds. Out-of-range inputs are clamped at the setter boundary
// and logged; a frame-loop failure is worse than a silently clamped slider,
// so nothing here returns an error.
const (
	MinSlitWidth = 0.02
	MaxSlitWidth = 1.0

	MinSlitSeparation = 0.05
	MaxSlitSeparation = 2.0

	MinSpeed = 0.5
	MaxSpeed = 10.0

	MinWavelength = 0.005
	MaxWavelength = 0.5

	MaxDispersion = 5.0

	MinEmitCount = 1
	MaxEmitCount = 100

	MinEmitRate = 1.0
	MaxEmitRate = 10.0
)

// SlitConfig describes the barrier geometry. Slit centers are derived
// deterministically from Count and Separation, symmetric about y=0.
type SlitConfig struct {
	Width      float64
	Separation float64
	Count      int
}

// Center returns the transverse center of slit i.
func (s SlitConfig) Center(i int) float64 {
	return (float64(i) - float64(s.Count-1)/2) * s.Separation
}

// Centers returns all slit centers in ascending order.
func (s SlitConfig) Centers() []float64 {
	out := make([]float64, s.Count)
	for i := range out {
		out[i] = s.Center(i)
	}
	return out
}

// SlitAt returns the index of the slit whose half-open aperture
// [center−w/2, center+w/2) contains y, or -1 when y hits the barrier.
func (s SlitConfig) SlitAt(y float64) int {
	for i := 0; i < s.Count; i++ {
		c := s.Center(i)
		if y >= c-s.Width/2 && y < c+s.Width/2 {
			return i
		}
	}
	return -1
}

// Params is the full experiment configuration. All mutation goes through the
// clamped setters; the zero value is not usable, start from DefaultParams.
type Params struct {
	Kind       ParticleKind
	Speed      float64
	Wavelength float64
	Observed   bool
	Dispersion float64
	Slits      SlitConfig

	AutoEmit  bool
	EmitCount int     // particles per emission request
	EmitRate  float64 // emission speed knob; interval ms = max(100, 2100−rate·200)
}

// DefaultParams is the out-of-the-box two-slit electron experiment.
func DefaultParams() Params {
	return Params{
		Kind:       Electron,
		Speed:      3.0,
		Wavelength: Properties(Electron).Wavelength,
		Observed:   false,
		Dispersion: 1.0,
		Slits:      SlitConfig{Width: 0.1, Separation: 0.2, Count: 2},
		AutoEmit:   false,
		EmitCount:  10,
		EmitRate:   5.0,
	}
}

func clampF(name string, v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		log.Printf("config: %s is NaN, clamped to %g", name, lo)
		return lo
	}
	if v < lo {
		log.Printf("config: %s=%g below %g, clamped", name, v, lo)
		return lo
	}
	if v > hi {
		log.Printf("config: %s=%g above %g, clamped", name, v, hi)
		return hi
	}
	return v
}

func clampI(name string, v, lo, hi int) int {
	if v < lo {
		log.Printf("config: %s=%d below %d, clamped", name, v, lo)
		return lo
	}
	if v > hi {
		log.Printf("config: %s=%d above %d, clamped", name, v, hi)
		return hi
	}
	return v
}

// SetKind switches the particle species and adopts its default wavelength.
func (p *Params) SetKind(k ParticleKind) {
	if k < 0 || int(k) >= len(kindProperties) {
		log.Printf("config: unknown particle kind %d ignored", k)
		return
	}
	p.Kind = k
	p.Wavelength = Properties(k).Wavelength
}

func (p *Params) SetSpeed(v float64) {
	p.Speed = clampF("speed", v, MinSpeed, MaxSpeed)
}

func (p *Params) SetWavelength(v float64) {
	p.Wavelength = clampF("wavelength", v, MinWavelength, MaxWavelength)
}

func (p *Params) SetDispersion(v float64) {
	p.Dispersion = clampF("dispersion", v, 0, MaxDispersion)
}

// SetObserved toggles observation. With a single slit there is no which-path
// information to observe, so the toggle is forced off.
func (p *Params) SetObserved(v bool) {
	if v && p.Slits.Count == 1 {
		log.Println("config: observation has no meaning with one slit, forced off")
		p.Observed = false
		return
	}
	p.Observed = v
}

// SetSlitCount clamps to [1,MaxSlitCount] and disables observation when the
// barrier degenerates to a single slit.
func (p *Params) SetSlitCount(n int) {
	p.Slits.Count = clampI("slit count", n, 1, MaxSlitCount)
	if p.Slits.Count == 1 && p.Observed {
		log.Println("config: slit count now 1, observation forced off")
		p.Observed = false
	}
}

func (p *Params) SetSlitWidth(v float64) {
	p.Slits.Width = clampF("slit width", v, MinSlitWidth, MaxSlitWidth)
}

func (p *Params) SetSlitSeparation(v float64) {
	p.Slits.Separation = clampF("slit separation", v, MinSlitSeparation, MaxSlitSeparation)
}

func (p *Params) SetAutoEmit(v bool) {
	p.AutoEmit = v
}

func (p *Params) SetEmitCount(n int) {
	p.EmitCount = clampI("emit count", n, MinEmitCount, MaxEmitCount)
}

func (p *Params) SetEmitRate(v float64) {
	p.EmitRate = clampF("emit rate", v, MinEmitRate, MaxEmitRate)
}

// EmitInterval derives the auto-emission period from the emission rate knob.
func (p *Params) EmitInterval() float64 {
	ms := 2100 - p.EmitRate*200
	if ms < 100 {
		ms = 100
	}
	return ms
}
