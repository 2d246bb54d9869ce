package collabsort

import (
	"github.com/zeu5/collabsort/analysis"
	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
)

// snapshots lists the board snapshots along the trace, including the initial one
func snapshots(trace *core.Trace) []*board.Snapshot {
	out := make([]*board.Snapshot, 0, trace.Len()+1)
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		if i == 0 {
			if s, ok := step.State.(*State); ok {
				out = append(out, s.Snapshot)
			}
		}
		if s, ok := step.NextState.(*State); ok {
			out = append(out, s.Snapshot)
		}
	}
	return out
}

func anySnapshot(trace *core.Trace, violated func(*board.Snapshot) bool) bool {
	for _, snap := range snapshots(trace) {
		if violated(snap) {
			return true
		}
	}
	return false
}

func held(snap *board.Snapshot) []*board.Object {
	out := make([]*board.Object, 0, 2)
	for _, a := range []board.ArmSnapshot{snap.Robot, snap.Agent} {
		if a.Picked != nil {
			out = append(out, a.Picked)
		}
	}
	return out
}

// Conservation: every spawned object is free, held, placed, fallen or lost
func Conservation() analysis.BugSpec {
	return analysis.BugSpec{
		Name: "Conservation",
		Check: func(trace *core.Trace) bool {
			return anySnapshot(trace, func(snap *board.Snapshot) bool {
				total := len(snap.Objects) + len(held(snap)) + snap.Stats.Placed + snap.Stats.Fallen + snap.Stats.Lost
				return total != snap.Stats.Added
			})
		},
	}
}

// DoubleOwnership: an object is in two places at once
func DoubleOwnership() analysis.BugSpec {
	return analysis.BugSpec{
		Name: "DoubleOwnership",
		Check: func(trace *core.Trace) bool {
			return anySnapshot(trace, func(snap *board.Snapshot) bool {
				seen := make(map[string]bool)
				ids := make([]string, 0)
				for _, o := range snap.Objects {
					ids = append(ids, o.ID)
				}
				for _, o := range held(snap) {
					ids = append(ids, o.ID)
				}
				for _, o := range append(snap.Robot.Placed, snap.Agent.Placed...) {
					ids = append(ids, o.ID)
				}
				for _, id := range ids {
					if seen[id] {
						return true
					}
					seen[id] = true
				}
				return false
			})
		},
	}
}

// GripperOutOfBounds: a gripper left the board or its base column, or a held
// object is not at the gripper
func GripperOutOfBounds() analysis.BugSpec {
	return analysis.BugSpec{
		Name: "GripperOutOfBounds",
		Check: func(trace *core.Trace) bool {
			return anySnapshot(trace, func(snap *board.Snapshot) bool {
				bounds := board.Bounds{Rows: snap.Rows, Cols: snap.Cols}
				for _, a := range []board.ArmSnapshot{snap.Robot, snap.Agent} {
					if !bounds.Contains(a.Gripper) || a.Gripper.Col != a.Base.Col {
						return true
					}
					if a.Picked != nil && a.Picked.Location != a.Gripper {
						return true
					}
				}
				return false
			})
		},
	}
}

// CollisionWithoutPenalty: a registered collision left an arm unpenalized or
// holding an object
func CollisionWithoutPenalty() analysis.BugSpec {
	return analysis.BugSpec{
		Name: "CollisionWithoutPenalty",
		Check: func(trace *core.Trace) bool {
			for i := 0; i < trace.Len(); i++ {
				s, ok := trace.Step(i).NextState.(*State)
				if !ok || s.Result == nil || !s.Result.Collision {
					continue
				}
				for _, a := range []board.ArmSnapshot{s.Snapshot.Robot, s.Snapshot.Agent} {
					if !a.Penalized || a.Picked != nil {
						return true
					}
				}
			}
			return false
		},
	}
}

// ResurrectedObject: an object shows up on the board again after it was
// placed, fell off or was lost
func ResurrectedObject() analysis.BugSpec {
	return analysis.BugSpec{
		Name: "ResurrectedObject",
		Check: func(trace *core.Trace) bool {
			gone := make(map[string]bool)
			var prev map[string]bool
			for _, snap := range snapshots(trace) {
				current := make(map[string]bool)
				for _, o := range snap.Objects {
					current[o.ID] = true
				}
				for _, o := range held(snap) {
					current[o.ID] = true
				}
				for id := range current {
					if gone[id] {
						return true
					}
				}
				for id := range prev {
					if !current[id] {
						gone[id] = true
					}
				}
				prev = current
			}
			return false
		},
	}
}

func Bugs() []analysis.BugSpec {
	return []analysis.BugSpec{
		Conservation(),
		DoubleOwnership(),
		GripperOutOfBounds(),
		CollisionWithoutPenalty(),
		ResurrectedObject(),
	}
}
