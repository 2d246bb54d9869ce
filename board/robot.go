package board

// ScriptedPolicy is the fixed heuristic driving the robot arm
func ScriptedPolicy(b *Board, arm *Arm) Action {
	return ScriptedAction(b.Observation(arm.ID), b.Priorities(arm.ID))
}

// ScriptedAction decides from an observation alone. While retracting it stays put.
// Otherwise it picks a wanted object sitting alone at the gripper, or steps toward
// the row of the best compatible object and waits there for it to arrive. With
// nothing to pursue it does nothing.
func ScriptedAction(obs Observation, p Priorities) Action {
	if obs.Holding || obs.Penalized {
		return None
	}
	var here []ObjectView
	for _, o := range obs.Objects {
		if o.Location == obs.Gripper {
			here = append(here, o)
		}
	}
	if len(here) == 1 && p.Accepts(here[0]) {
		return Pick
	}
	targets := p.Compatible(obs.Gripper, obs.Objects)
	if len(targets) == 0 {
		return None
	}
	return towards(obs.Gripper.Row, obs.Objects[targets[0]].Location.Row)
}

// IdlePolicy never moves the arm
func IdlePolicy(_ *Board, _ *Arm) Action {
	return None
}

func towards(from, to int) Action {
	switch {
	case to < from:
		return Up
	case to > from:
		return Down
	}
	return None
}
