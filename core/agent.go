package core

// Policy drives the agent. PickAction is called once per step with the actions
// available in the state, UpdateStep reports the reward the chosen action earned.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, State, []Action) Action
	UpdateStep(*StepContext, State, Action, float64, State)
	Reset()
}

type PolicyConstructor interface {
	NewPolicy() Policy
}

// PolicyConstructorFunc adapts a function to a PolicyConstructor
type PolicyConstructorFunc func() Policy

func (f PolicyConstructorFunc) NewPolicy() Policy {
	return f()
}
