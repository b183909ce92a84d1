package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSimulation() (*Simulation, chan FrameData, chan ControlMsg) {
	updateChan := make(chan FrameData, 100)
	controlChan := make(chan ControlMsg, 50)
	sim := NewSimulation(DefaultParams(), 42, updateChan, controlChan)
	return sim, updateChan, controlChan
}

// Firing while paused must produce zero new active particles and leave the
// registry unchanged.
func TestEmitWhilePausedIsNoOp(t *testing.T) {
	sim, _, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 5})
	assert.Equal(t, uint64(0), sim.stats.Fired)
	assert.Equal(t, 0, sim.registry.Len())
}

func TestStartEnablesEmission(t *testing.T) {
	sim, _, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdStart})
	assert.True(t, sim.running)

	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 5})
	assert.Equal(t, uint64(5), sim.stats.Fired)
	assert.Equal(t, 5, sim.registry.ActiveCount())

	sim.handleControlMessage(ControlMsg{Command: CmdStop})
	assert.False(t, sim.running)
	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 5})
	assert.Equal(t, uint64(5), sim.stats.Fired, "paused again: no new particles")
}

func TestResetClearsStateButNotConfig(t *testing.T) {
	sim, updateChan, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdStart})
	sim.handleControlMessage(ControlMsg{Command: CmdSetSlits, IntValue: 3})
	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 10})
	sim.stepper.Step(tickDelta)

	rev := sim.field.Rev()
	sim.handleControlMessage(ControlMsg{Command: CmdReset})

	assert.Equal(t, 0, sim.registry.Len())
	assert.Equal(t, uint64(0), sim.stats.Fired)
	assert.Greater(t, sim.field.Rev(), rev, "field reset bumps the revision")
	assert.Equal(t, 3, sim.params.Slits.Count, "configuration is preserved")

	frame := <-updateChan
	assert.NotEmpty(t, frame.Events)
	assert.Equal(t, NoteFieldReset, frame.Events[0].Kind)
}

func TestControlSettersClamp(t *testing.T) {
	sim, _, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdSetSlits, IntValue: 50})
	assert.Equal(t, MaxSlitCount, sim.params.Slits.Count)

	sim.handleControlMessage(ControlMsg{Command: CmdSetSpeed, Value: -10})
	assert.Equal(t, MinSpeed, sim.params.Speed)

	sim.handleControlMessage(ControlMsg{Command: CmdSetSlits, IntValue: 1})
	sim.handleControlMessage(ControlMsg{Command: CmdSetObs, Flag: true})
	assert.False(t, sim.params.Observed, "observation meaningless with one slit")

	sim.handleControlMessage(ControlMsg{Command: "warp_drive"}) // logged, ignored
}

func TestAxialBeamIsAbsorbedByBarrier(t *testing.T) {
	sim, _, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdStart})
	sim.handleControlMessage(ControlMsg{Command: CmdSetDisp, Value: 0})
	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 20})

	// With zero dispersion every particle flies straight down the axis,
	// which lies between the two slits: all must be absorbed.
	for i := 0; i < 400 && sim.registry.ActiveCount() > 0; i++ {
		sim.stepper.Step(tickDelta)
		sim.registry.Sweep()
	}
	assert.Equal(t, uint64(20), sim.stats.Absorbed)
	assert.Equal(t, uint64(0), sim.stats.Detected)
	assert.Equal(t, 0, sim.registry.ActiveCount())
}

func TestDispersedBeamSplitsAcrossOutcomes(t *testing.T) {
	sim, _, _ := newTestSimulation()
	defer sim.Close()

	sim.handleControlMessage(ControlMsg{Command: CmdStart})
	sim.handleControlMessage(ControlMsg{Command: CmdSetDisp, Value: 1.0})
	sim.handleControlMessage(ControlMsg{Command: CmdEmit, IntValue: 500})

	for i := 0; i < 2000 && sim.registry.ActiveCount() > 0; i++ {
		sim.stepper.Step(tickDelta)
		sim.registry.Sweep()
	}

	total := sim.stats.Absorbed + sim.stats.Detected
	assert.Equal(t, uint64(500), total, "every particle terminates")
	assert.Greater(t, sim.stats.Detected, uint64(0), "some particles pass a slit")
	assert.Greater(t, sim.stats.Absorbed, uint64(0), "some particles hit the barrier")
}
