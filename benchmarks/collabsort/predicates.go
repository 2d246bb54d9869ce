package collabsort

import (
	"github.com/zeu5/collabsort/analysis"
	"github.com/zeu5/collabsort/core"
)

func AgentHolding() analysis.Predicate {
	return analysis.Predicate{
		Name: "AgentHolding",
		Check: func(s core.State) bool {
			return snapshot(s).Agent.Picked != nil
		},
	}
}

func AgentPlaced() analysis.Predicate {
	return analysis.Predicate{
		Name: "AgentPlaced",
		Check: func(s core.State) bool {
			return len(snapshot(s).Agent.Placed) > 0
		},
	}
}

func BothPlaced() analysis.Predicate {
	return analysis.Predicate{
		Name: "BothPlaced",
		Check: func(s core.State) bool {
			snap := snapshot(s)
			return len(snap.Robot.Placed) > 0 && len(snap.Agent.Placed) > 0
		},
	}
}

// CleanFinish holds once the episode ended without losing an object
func CleanFinish() analysis.Predicate {
	return analysis.Predicate{
		Name: "CleanFinish",
		Check: func(s core.State) bool {
			snap := snapshot(s)
			return snap.Done && snap.Stats.Lost == 0
		},
	}
}

// Milestones is the ordered progression of a cooperative episode
func Milestones() []analysis.Predicate {
	return []analysis.Predicate{
		AgentHolding(),
		AgentPlaced(),
		BothPlaced(),
		CleanFinish(),
	}
}
