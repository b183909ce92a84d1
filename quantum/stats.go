package quantum

import "time"

// Stats tracks the derived experiment counters. Purely observational: nothing
// here ever feeds back into the physics. Mutated only on the simulation
// goroutine; the GUI receives value snapshots through FrameData.
type Stats struct {
	Fired      uint64
	Detected   uint64
	Absorbed   uint64
	SlitCounts [MaxSlitCount]uint64
	Started    time.Time
}

// NewStats starts a session clock.
func NewStats() *Stats {
	return &Stats{Started: time.Now()}
}

// RecordSlitPass counts a passage through slit i, ignoring out-of-range
// indices from a misconfigured caller.
func (s *Stats) RecordSlitPass(i int) {
	if i < 0 || i >= MaxSlitCount {
		return
	}
	s.SlitCounts[i]++
}

// Snapshot returns a value copy for the GUI.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Fired:      s.Fired,
		Detected:   s.Detected,
		Absorbed:   s.Absorbed,
		SlitCounts: s.SlitCounts,
		Started:    s.Started,
	}
}

// Reset zeroes the counters and restarts the session clock.
func (s *Stats) Reset() {
	*s = Stats{Started: time.Now()}
}
