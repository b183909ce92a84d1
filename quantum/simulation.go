package quantum

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// tickInterval drives the simulation clock; tickDelta is the simulated time
// each tick advances. Fixed-step keeps trajectories reproducible for a given
// seed regardless of wall-clock jitter.
const (
	tickInterval = 20 * time.Millisecond
	tickDelta    = 0.05
)

// Simulation owns all experiment state: registry, detection field, stats and
// parameters. A single goroutine (Run) performs every mutation; the GUI talks
// to it exclusively through the control channel and receives FrameData
// snapshots on the update channel.
type Simulation struct {
	// Guards params for the read-only accessors used by the GUI thread.
	mu sync.RWMutex

	params   Params
	registry *Registry
	field    *DetectionField
	stats    *Stats
	stepper  *Stepper
	rng      *rand.Rand

	time    float64
	running bool

	lastEmit time.Time

	updateChan  chan<- FrameData
	controlChan <-chan ControlMsg

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSimulation assembles an experiment from the given parameters and RNG
// seed. The seed is explicit so property tests can fix it and assert exact
// trajectories.
func NewSimulation(params Params, seed int64, updateChan chan<- FrameData, controlChan <-chan ControlMsg) *Simulation {
	ctx, cancel := context.WithCancel(context.Background())

	sim := &Simulation{
		params:      params,
		registry:    NewRegistry(),
		field:       NewDetectionField(),
		stats:       NewStats(),
		rng:         rand.New(rand.NewSource(seed)),
		updateChan:  updateChan,
		controlChan: controlChan,
		ctx:         ctx,
		cancel:      cancel,
	}
	sim.stepper = NewStepper(sim.registry, sim.field, sim.stats, &sim.params, sim.rng)
	sim.registry.SetPaused(true) // starts paused until a start command arrives
	log.Printf("simulation initialized: %d slit(s), kind=%s, seed=%d", params.Slits.Count, params.Kind, seed)
	return sim
}

// Field exposes the detection accumulator for the GUI raster. The field
// serializes its own access.
func (sim *Simulation) Field() *DetectionField {
	return sim.field
}

// Params returns a copy of the current configuration.
func (sim *Simulation) Params() Params {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return sim.params
}

// Start marks the goroutine as pending and is expected to be followed by
// `go sim.Run()`; mirrors the WaitGroup discipline of the setup code.
func (sim *Simulation) Start() {
	sim.wg.Add(1)
}

// Close signals the Run goroutine to stop.
func (sim *Simulation) Close() {
	sim.cancel()
}

// Wait blocks until the Run goroutine has exited.
func (sim *Simulation) Wait() {
	sim.wg.Wait()
}

// Run is the main loop of the simulation goroutine. It processes control
// messages, fires the auto-emitter when due, steps all active particles and
// publishes a FrameData snapshot each tick. While paused the tick performs no
// advancement, no emission and no accumulator writes, but state is preserved.
func (sim *Simulation) Run() {
	defer sim.wg.Done()
	defer close(sim.updateChan)
	log.Println("simulation Run() goroutine started")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sim.ctx.Done():
			log.Println("simulation context cancelled, exiting Run()")
			return
		case msg := <-sim.controlChan:
			sim.handleControlMessage(msg)
		case <-ticker.C:
			if !sim.running {
				continue
			}
			var notes []Notification
			if sim.params.AutoEmit && time.Since(sim.lastEmit) >= time.Duration(sim.params.EmitInterval())*time.Millisecond {
				sim.emit(sim.params.EmitCount)
				sim.lastEmit = time.Now()
			}
			notes = append(notes, sim.stepper.Step(tickDelta)...)
			sim.time += tickDelta

			frame := FrameData{
				Time:      sim.time,
				Particles: sim.registry.Snapshot(),
				Stats:     sim.stats.Snapshot(),
				Events:    notes,
				FieldRev:  sim.field.Rev(),
			}
			sim.registry.Sweep()

			select {
			case sim.updateChan <- frame:
			default:
				log.Println("update channel full, dropping frame")
			}
		}
	}
}

// emit spawns a batch of particles traveling toward the barrier. The
// registry's pause gate makes this a no-op while stopped.
func (sim *Simulation) emit(count int) {
	spawned := sim.registry.Spawn(count, sim.params.Kind, sim.params.Speed, r3.Vec{X: 1}, sim.params.Dispersion, sim.rng)
	sim.stats.Fired += uint64(len(spawned))
}

// reset clears the registry, stats and detection field, leaving the
// configuration untouched. Ids are not reused across resets.
func (sim *Simulation) reset() []Notification {
	sim.registry.Reset()
	sim.stats.Reset()
	sim.field.Reset()
	sim.time = 0
	log.Println("simulation state reset")
	return []Notification{{Kind: NoteFieldReset, Slit: -1}}
}

// handleControlMessage applies one command from the GUI. Parameter updates go
// through the clamped setters, so an out-of-range slider can never push
// invalid state into the stepper.
func (sim *Simulation) handleControlMessage(msg ControlMsg) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	switch msg.Command {
	case CmdStart:
		if !sim.running {
			sim.running = true
			sim.registry.SetPaused(false)
			sim.lastEmit = time.Now()
			log.Println("simulation started")
		}
	case CmdStop:
		if sim.running {
			sim.running = false
			sim.registry.SetPaused(true)
			log.Println("simulation paused")
		}
	case CmdReset:
		notes := sim.reset()
		select {
		case sim.updateChan <- FrameData{
			Time:      sim.time,
			Particles: nil,
			Stats:     sim.stats.Snapshot(),
			Events:    notes,
			FieldRev:  sim.field.Rev(),
		}:
		default:
		}
	case CmdEmit:
		n := msg.IntValue
		if n < 1 {
			n = sim.params.EmitCount
		}
		sim.emit(n)
	case CmdSetKind:
		sim.params.SetKind(ParticleKind(msg.IntValue))
	case CmdSetSpeed:
		sim.params.SetSpeed(msg.Value)
	case CmdSetLambda:
		sim.params.SetWavelength(msg.Value)
	case CmdSetObs:
		sim.params.SetObserved(msg.Flag)
	case CmdSetDisp:
		sim.params.SetDispersion(msg.Value)
	case CmdSetSlits:
		sim.params.SetSlitCount(msg.IntValue)
	case CmdSetWidth:
		sim.params.SetSlitWidth(msg.Value)
	case CmdSetSep:
		sim.params.SetSlitSeparation(msg.Value)
	case CmdSetAuto:
		sim.params.SetAutoEmit(msg.Flag)
	case CmdSetEmitN:
		sim.params.SetEmitCount(msg.IntValue)
	case CmdSetEmitHz:
		sim.params.SetEmitRate(msg.Value)
	default:
		log.Printf("unknown control command: %q", msg.Command)
	}
}
