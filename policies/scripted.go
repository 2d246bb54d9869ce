package policies

import (
	"math/rand"

	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
)

// Observer is a state exposing the board as seen by the agent arm
type Observer interface {
	Observation() board.Observation
}

// ScriptedPolicy drives the agent with the same heuristic as the robot, using the
// agent's own priorities. With probability Epsilon a random action is taken instead.
type ScriptedPolicy struct {
	Priorities board.Priorities
	Epsilon    float64

	seed int64
	rand *rand.Rand
}

var _ core.Policy = &ScriptedPolicy{}

func NewScriptedPolicy(config *board.Config, epsilon float64, seed int64) *ScriptedPolicy {
	return &ScriptedPolicy{
		Priorities: config.AgentRewards.Priorities(config.Colors, config.Shapes),
		Epsilon:    epsilon,
		seed:       seed,
		rand:       newRand(seed),
	}
}

func (s *ScriptedPolicy) Reset() {
	if s.seed != 0 {
		s.rand = newRand(s.seed)
	}
}

func (s *ScriptedPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (s *ScriptedPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (s *ScriptedPolicy) PickAction(_ *core.StepContext, state core.State, actions []core.Action) core.Action {
	if s.Epsilon > 0 && s.rand.Float64() < s.Epsilon {
		return actions[s.rand.Intn(len(actions))]
	}
	obs, ok := state.(Observer)
	if !ok {
		return actions[0]
	}
	want := board.ScriptedAction(obs.Observation(), s.Priorities)
	for _, a := range actions {
		if a.Hash() == want.Hash() {
			return a
		}
	}
	return actions[0]
}

func (s *ScriptedPolicy) UpdateStep(_ *core.StepContext, _ core.State, _ core.Action, _ float64, _ core.State) {
}

type ScriptedPolicyConstructor struct {
	Config  *board.Config
	Epsilon float64
	Seed    int64
}

var _ core.PolicyConstructor = &ScriptedPolicyConstructor{}

func (c *ScriptedPolicyConstructor) NewPolicy() core.Policy {
	return NewScriptedPolicy(c.Config, c.Epsilon, c.Seed)
}

// IdlePolicy always picks the action whose hash is "none" when available
type IdlePolicy struct{}

var _ core.Policy = IdlePolicy{}

func (IdlePolicy) Reset() {}

func (IdlePolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (IdlePolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (IdlePolicy) PickAction(_ *core.StepContext, _ core.State, actions []core.Action) core.Action {
	for _, a := range actions {
		if a.Hash() == board.None.Hash() {
			return a
		}
	}
	return actions[0]
}

func (IdlePolicy) UpdateStep(_ *core.StepContext, _ core.State, _ core.Action, _ float64, _ core.State) {
}

type IdlePolicyConstructor struct{}

func (IdlePolicyConstructor) NewPolicy() core.Policy {
	return IdlePolicy{}
}
