package collabsort

import (
	"fmt"

	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
)

func snapshot(s core.State) *board.Snapshot {
	return s.(*State).Snapshot
}

func ColorArmStates() core.KVPainter {
	return func(s core.State) (string, interface{}) {
		snap := snapshot(s)
		return "arms", fmt.Sprintf("%s/%s", snap.Robot.State, snap.Agent.State)
	}
}

func ColorGrippers() core.KVPainter {
	return func(s core.State) (string, interface{}) {
		snap := snapshot(s)
		return "grippers", []int{snap.Robot.Gripper.Row, snap.Agent.Gripper.Row}
	}
}

// ColorHeld paints the kind of object held by each arm
func ColorHeld() core.KVPainter {
	return func(s core.State) (string, interface{}) {
		snap := snapshot(s)
		held := make([]string, 0, 2)
		for _, a := range []board.ArmSnapshot{snap.Robot, snap.Agent} {
			if a.Picked == nil {
				held = append(held, "")
			} else {
				held = append(held, a.Picked.Color.String()+"-"+a.Picked.Shape.String())
			}
		}
		return "held", held
	}
}

// ColorTreadmillLoad counts the free objects per treadmill, bucketed up to bound
func ColorTreadmillLoad(bound int) core.KVPainter {
	return func(s core.State) (string, interface{}) {
		snap := snapshot(s)
		load := make(map[int]int)
		for _, o := range snap.Objects {
			if load[o.Location.Row] < bound {
				load[o.Location.Row]++
			}
		}
		out := make([]int, len(snap.TreadmillRows))
		for i, row := range snap.TreadmillRows {
			out[i] = load[row]
		}
		return "load", out
	}
}

func ColorScore() core.KVPainter {
	return func(s core.State) (string, interface{}) {
		snap := snapshot(s)
		return "placed", []int{len(snap.Robot.Placed), len(snap.Agent.Placed)}
	}
}

// DefaultPainter abstracts states for coverage measurements
func DefaultPainter() core.Painter {
	return core.NewComposedPainter(
		ColorArmStates(),
		ColorGrippers(),
		ColorHeld(),
		ColorTreadmillLoad(2),
		ColorScore(),
	).Painter()
}
