package collabsort

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/collabsort/analysis"
	"github.com/zeu5/collabsort/benchmarks/common"
	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/policies"
)

func quietConfig() *board.Config {
	c := board.DefaultConfig()
	c.NewObjectProba = 0
	c.ManualSpawns = true
	c.NObjects = 1
	c.Seed = 5
	return c
}

type bogusAction struct{}

func (bogusAction) Hash() string { return "bogus" }

// play runs the policy from state until the episode ends or horizon steps were taken
func play(t *testing.T, env *Env, state core.State, policy core.Policy, horizon int) *core.Trace {
	trace := core.NewTrace()
	for i := 0; i < horizon && !state.Terminal(); i++ {
		action := policy.PickAction(nil, state, state.Actions())
		next, reward, err := env.Step(action, nil)
		require.NoError(t, err)
		trace.AddStep(&core.Step{
			State:     state,
			Action:    action,
			NextState: next,
			Reward:    reward,
		})
		state = next
	}
	return trace
}

func TestEnvStep(t *testing.T) {
	env, err := NewEnv(quietConfig())
	require.NoError(t, err)
	state, err := env.Reset()
	require.NoError(t, err)
	assert.False(t, state.Terminal())
	assert.Len(t, state.Actions(), 4)

	t.Run("unknown action", func(t *testing.T) {
		_, _, err := env.Step(bogusAction{}, nil)
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("moving costs time and motion", func(t *testing.T) {
		next, reward, err := env.Step(board.Up, nil)
		require.NoError(t, err)
		assert.InDelta(t, -0.2, reward, 1e-9)
		obs := next.(*State).Observation()
		assert.Equal(t, board.Location{Row: 2, Col: 4}, obs.Gripper)
		assert.NotEqual(t, state.Hash(), next.Hash())
		assert.Contains(t, next.(*State).String(), "[A]")
	})
}

func TestScriptedAgent(t *testing.T) {
	config := quietConfig()
	env, err := NewEnv(config)
	require.NoError(t, err)
	_, err = env.Reset()
	require.NoError(t, err)
	env.Board().AddObject(board.Location{Row: 2, Col: 8}, board.Blue, board.Circle)

	policy := policies.NewScriptedPolicy(config, 0, 0)
	trace := play(t, env, env.state(nil), policy, 50)

	last := trace.Last().NextState.(*State)
	assert.True(t, last.Terminal())
	assert.Equal(t, 6, trace.Len())
	assert.InDelta(t, 10.3, trace.Return(), 1e-9)
	require.Len(t, last.Snapshot.Agent.Placed, 1)
	assert.Equal(t, board.Blue, last.Snapshot.Agent.Placed[0].Color)
	assert.Empty(t, last.Snapshot.Robot.Placed)

	for _, bug := range Bugs() {
		assert.False(t, bug.Check(trace), bug.Name)
	}
	assert.True(t, AgentPlaced().Check(last))
	assert.True(t, CleanFinish().Check(last))
	assert.False(t, BothPlaced().Check(last))
}

func TestRandomAgentTriggersNoBugs(t *testing.T) {
	config := board.DefaultConfig()
	config.NewObjectProba = 0.5
	config.AllowStackedSpawns = true
	config.Seed = 13

	constructor, err := NewEnvConstructor(config)
	require.NoError(t, err)

	for instance := 0; instance < 3; instance++ {
		env := constructor.NewEnvironment(instance).(*Env)
		state, err := env.Reset()
		require.NoError(t, err)
		trace := play(t, env, state, policies.NewRandomPolicy(int64(instance+1)), 500)

		for _, bug := range Bugs() {
			assert.False(t, bug.Check(trace), bug.Name)
		}
	}
}

func TestBugSpecsDetectViolations(t *testing.T) {
	env, err := NewEnv(quietConfig())
	require.NoError(t, err)
	state, err := env.Reset()
	require.NoError(t, err)
	next, _, err := env.Step(board.None, nil)
	require.NoError(t, err)

	broken := next.(*State)
	snap := *broken.Snapshot
	snap.Stats.Added++
	snap.Robot.Gripper = board.Location{Row: 0, Col: 0}
	trace := core.NewTrace()
	trace.AddStep(&core.Step{
		State:     state,
		Action:    board.None,
		NextState: &State{Obs: broken.Obs, Snapshot: &snap, Result: broken.Result},
	})

	assert.True(t, Conservation().Check(trace))
	assert.True(t, GripperOutOfBounds().Check(trace))
	assert.False(t, DoubleOwnership().Check(trace))
}

func TestDefaultPainter(t *testing.T) {
	env, err := NewEnv(quietConfig())
	require.NoError(t, err)
	first, err := env.Reset()
	require.NoError(t, err)
	again, err := env.Reset()
	require.NoError(t, err)

	painter := DefaultPainter()
	assert.Equal(t, painter(first).Hash(), painter(again).Hash())

	moved, _, err := env.Step(board.Up, nil)
	require.NoError(t, err)
	assert.NotEqual(t, painter(first).Hash(), painter(moved).Hash())
}

func TestPrepareComparison(t *testing.T) {
	flags := common.DefaultFlags()
	flags.SavePath = t.TempDir()
	cmp, err := PrepareComparison(flags, quietConfig())
	require.NoError(t, err)
	assert.Len(t, cmp.Experiments, 5)
	assert.Contains(t, cmp.Analyzers, "Rewards")
	assert.NotContains(t, cmp.Analyzers, "Debug")

	bad := quietConfig()
	bad.Rows = 0
	_, err = PrepareComparison(flags, bad)
	assert.ErrorIs(t, err, board.ErrInvalidConfig)
}

type rewardRecorder struct {
	mtx     sync.Mutex
	results map[string][]core.DataSet
}

func (r *rewardRecorder) Compare(names []string, datasets []core.DataSet) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	for i, name := range names {
		r.results[name] = append(r.results[name], datasets[i])
	}
}

func (r *rewardRecorder) NewComparator(int) core.Comparator { return r }

func TestSeededComparisonIsReproducible(t *testing.T) {
	config := board.DefaultConfig()
	config.NewObjectProba = 0.5
	config.Seed = 5
	constructor, err := NewEnvConstructor(config)
	require.NoError(t, err)

	rConfig := &core.RunConfig{
		Episodes:                     4,
		Horizon:                      60,
		EpisodeTimeout:               10 * time.Second,
		ThresholdConsecutiveErrors:   2,
		ThresholdConsecutiveTimeouts: 2,
	}
	collect := func() map[string][]core.DataSet {
		cmp := core.NewParallelComparison()
		for _, name := range []string{"a", "b", "c"} {
			cmp.AddExperiment(&core.ParallelExperiment{
				Name:        name,
				Environment: constructor,
				Policy:      &policies.ScriptedPolicyConstructor{Config: config, Epsilon: 0.2, Seed: 3},
			})
		}
		rec := &rewardRecorder{results: make(map[string][]core.DataSet)}
		cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzerConstructor(), rec)
		cmp.Run(context.Background(), 2, rConfig, 3)
		return rec.results
	}

	first := collect()
	require.Len(t, first["a"], 2)
	assert.NotEqual(t, first["a"][0], first["a"][1])
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, collect())
	}
}

func TestNewAgentPolicy(t *testing.T) {
	config := quietConfig()
	for _, name := range PolicyNames {
		policy, err := NewAgentPolicy(name, config)
		require.NoError(t, err, name)
		assert.NotNil(t, policy.NewPolicy(), name)
	}
	_, err := NewAgentPolicy("greedy", config)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestPolicyAgent(t *testing.T) {
	agent := PolicyAgent(policies.IdlePolicy{})
	assert.Equal(t, board.None, agent(board.Observation{}))

	config := quietConfig()
	scripted := PolicyAgent(policies.NewScriptedPolicy(config, 0, 0))
	obs := board.Observation{
		Gripper: config.AgentBase(),
		Objects: []board.ObjectView{{Location: board.Location{Row: 2, Col: 8}, Color: board.Blue, Shape: board.Circle}},
	}
	assert.Equal(t, board.Up, scripted(obs))
}
