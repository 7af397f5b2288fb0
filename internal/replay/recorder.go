// Package replay records each control cycle's raw sensor inputs so a run can
// be inspected offline.
package replay

import (
	"fmt"

	"github.com/mkrett/swervesim/internal/swerve"
)

// Snapshot is one recorded cycle for one module.
type Snapshot struct {
	Tick   int
	Inputs swerve.ModuleInputs
}

// Recorder implements swerve.InputSink, keeping a bounded history per module
// index. When the limit is reached the oldest snapshots are dropped.
type Recorder struct {
	limit   int
	byIndex map[int][]Snapshot
	ticks   map[int]int
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{
		limit:   limit,
		byIndex: make(map[int][]Snapshot),
		ticks:   make(map[int]int),
	}
}

func (r *Recorder) ProcessInputs(index int, in swerve.ModuleInputs) {
	snaps := append(r.byIndex[index], Snapshot{Tick: r.ticks[index], Inputs: in})
	if r.limit > 0 && len(snaps) > r.limit {
		snaps = snaps[len(snaps)-r.limit:]
	}
	r.byIndex[index] = snaps
	r.ticks[index]++
}

// Snapshots returns the recorded history for a module index.
func (r *Recorder) Snapshots(index int) []Snapshot {
	return r.byIndex[index]
}

// Key returns the log key for a module index.
func Key(index int) string {
	return fmt.Sprintf("module%d", index)
}

// Indexes returns the module indexes seen so far.
func (r *Recorder) Indexes() []int {
	idx := make([]int, 0, len(r.byIndex))
	for i := range r.byIndex {
		idx = append(idx, i)
	}
	return idx
}
