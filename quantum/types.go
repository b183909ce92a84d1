package quantum

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Experiment geometry. The emitter, the slit barrier and the detection screen
// sit on fixed planes perpendicular to the x axis; y is the transverse axis
// across the slits and z the vertical axis. All deflection formulas use the
// barrier-to-screen distance as the effective propagation distance.
const (
	EmitterX = -8.0 // emission plane
	BarrierX = 0.0  // slit barrier plane
	ScreenX  = 8.0  // detection screen plane

	// ScreenDistance is the effective propagation distance used by the
	// intensity functions (small-angle approximation sin θ ≈ y/D).
	ScreenDistance = ScreenX - BarrierX

	// speedScale maps the configured particle speed onto a visually legible
	// crossing time: position advances by velocity*delta*speedScale per tick.
	speedScale = 2.0

	// MaxSlitCount bounds the slit configuration (and sizes per-slit counters).
	MaxSlitCount = 5
)

// NotificationKind enumerates the lifecycle events the engine emits each tick.
type NotificationKind int

const (
	// NoteSlitPass: a particle crossed the barrier plane inside a slit.
	NoteSlitPass NotificationKind = iota
	// NoteBarrierCollision: a particle hit the barrier between slits.
	NoteBarrierCollision
	// NoteScreenImpact: a particle reached the detection screen.
	NoteScreenImpact
	// NoteFieldReset: the detection field was zeroed.
	NoteFieldReset
)

// Notification is a typed lifecycle event, consumed synchronously by the
// rendering and statistics collaborators via FrameData. It replaces the
// ambient publish/subscribe dispatch a browser build would use.
type Notification struct {
	Kind       NotificationKind
	ParticleID uint64
	Slit       int // slit index for NoteSlitPass / NoteScreenImpact, -1 otherwise
	Pos        r3.Vec
	Particle   ParticleKind
	Observed   bool
}

// ParticleView is the render-facing snapshot of a live particle. The GUI never
// sees *Particle directly; the registry remains the only mutator.
type ParticleView struct {
	ID     uint64
	Pos    r3.Vec
	Kind   ParticleKind
	Active bool
}

// FrameData is sent FROM the simulation goroutine TO the GUI goroutine via
// the update channel after every tick. It contains everything the view needs
// to redraw: particle positions, statistics, and the tick's notifications.
type FrameData struct {
	// Elapsed simulation time in seconds.
	Time float64

	// Snapshot of all registry particles (active and terminal-but-unswept).
	Particles []ParticleView

	// Statistics snapshot for the status labels.
	Stats StatsSnapshot

	// Lifecycle notifications raised during this tick, in occurrence order.
	Events []Notification

	// FieldRev increments whenever the detection field changed; the GUI uses
	// it to skip raster refreshes on idle ticks.
	FieldRev uint64

	// If not nil, an error occurred during the tick. The GUI should surface
	// it instead of redrawing.
	Error error
}

// ControlMsg is sent FROM the GUI goroutine TO the simulation goroutine.
// Command selects the action; Value, IntValue and Flag carry the argument
// for parameter updates.
type ControlMsg struct {
	Command  string
	Value    float64
	IntValue int
	Flag     bool
}

// Control commands understood by the simulation loop.
const (
	CmdStart     = "start"
	CmdStop      = "stop"
	CmdReset     = "reset"
	CmdEmit      = "emit"
	CmdSetKind   = "set_kind"
	CmdSetSpeed  = "set_speed"
	CmdSetLambda = "set_wavelength"
	CmdSetObs    = "set_observed"
	CmdSetDisp   = "set_dispersion"
	CmdSetSlits  = "set_slit_count"
	CmdSetWidth  = "set_slit_width"
	CmdSetSep    = "set_slit_separation"
	CmdSetAuto   = "set_auto_emit"
	CmdSetEmitN  = "set_emit_count"
	CmdSetEmitHz = "set_emit_rate"
)

// StatsSnapshot is a value copy of the experiment counters, safe to hand to
// the GUI goroutine.
type StatsSnapshot struct {
	Fired      uint64
	Detected   uint64
	Absorbed   uint64
	SlitCounts [MaxSlitCount]uint64
	Started    time.Time
}
