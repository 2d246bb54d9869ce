package collabsort

import (
	"errors"
	"fmt"

	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

var ErrUnknownAction = errors.New("unknown action")

// State is the board as observed by the agent after a tick
type State struct {
	Obs      board.Observation
	Snapshot *board.Snapshot
	// Result of the tick that produced the state, nil right after a reset
	Result *board.TickResult
}

var _ core.State = &State{}

func (s *State) Hash() string {
	return util.JsonHash(s.Obs)
}

func (s *State) Actions() []core.Action {
	actions := make([]core.Action, 0)
	for _, a := range board.Actions() {
		actions = append(actions, a)
	}
	return actions
}

func (s *State) Terminal() bool {
	return s.Obs.Terminal
}

func (s *State) String() string {
	return s.Snapshot.Render(false)
}

func (s *State) Observation() board.Observation {
	return s.Obs
}

// Env drives a board, the policy under test controls the agent arm
type Env struct {
	board *board.Board
}

var _ core.Environment = &Env{}

func NewEnv(config *board.Config) (*Env, error) {
	b, err := board.New(config)
	if err != nil {
		return nil, err
	}
	return &Env{board: b}, nil
}

func (e *Env) Board() *board.Board {
	return e.board
}

func (e *Env) state(res *board.TickResult) *State {
	return &State{
		Obs:      e.board.Observation(board.Agent),
		Snapshot: e.board.Snapshot(),
		Result:   res,
	}
}

func (e *Env) Reset() (core.State, error) {
	e.board.Reset()
	return e.state(nil), nil
}

func (e *Env) Step(a core.Action, _ *core.StepContext) (core.State, float64, error) {
	action, ok := a.(board.Action)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownAction, a)
	}
	res := e.board.Tick(action)
	return e.state(res), res.Agent.Reward, nil
}

type EnvConstructor struct {
	config *board.Config
}

var _ core.EnvironmentConstructor = &EnvConstructor{}

// NewEnvConstructor validates the configuration once so that every instance can be built
func NewEnvConstructor(config *board.Config) (*EnvConstructor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &EnvConstructor{config: config}, nil
}

// NewEnvironment builds an instance, the seed is offset by the instance number so
// experiments and runs do not replay the same boards
func (c *EnvConstructor) NewEnvironment(instance int) core.Environment {
	config := c.config.Copy()
	if config.Seed != 0 {
		config.Seed += int64(instance)
	}
	env, err := NewEnv(config)
	if err != nil {
		// config was validated when the constructor was created
		panic(err)
	}
	return env
}

// PolicyAgent lets a policy drive the agent arm of a board owned elsewhere.
// The policy only sees the observation.
func PolicyAgent(policy core.Policy) func(board.Observation) board.Action {
	return func(obs board.Observation) board.Action {
		state := &State{Obs: obs}
		if action, ok := policy.PickAction(nil, state, state.Actions()).(board.Action); ok {
			return action
		}
		return board.None
	}
}
