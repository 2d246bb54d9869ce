package core

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countState struct {
	n, limit int
}

func (s countState) Hash() string { return strconv.Itoa(s.n) }

func (s countState) Actions() []Action { return []Action{incAction{}} }

func (s countState) Terminal() bool { return s.n >= s.limit }

type incAction struct{}

func (incAction) Hash() string { return "inc" }

type countEnv struct {
	limit    int
	state    countState
	resetErr error
}

func (e *countEnv) Reset() (State, error) {
	if e.resetErr != nil {
		return nil, e.resetErr
	}
	e.state = countState{limit: e.limit}
	return e.state, nil
}

func (e *countEnv) Step(_ Action, _ *StepContext) (State, float64, error) {
	e.state.n++
	return e.state, 1, nil
}

type countEnvConstructor struct{ limit int }

func (c countEnvConstructor) NewEnvironment(int) Environment {
	return &countEnv{limit: c.limit}
}

// instanceEnvConstructor ends every episode after a number of steps equal to the instance number plus one
type instanceEnvConstructor struct{}

func (instanceEnvConstructor) NewEnvironment(instance int) Environment {
	return &countEnv{limit: instance + 1}
}

type firstPolicy struct{ rewards float64 }

func (p *firstPolicy) ResetEpisode(*EpisodeContext) {}
func (p *firstPolicy) UpdateEpisode(*EpisodeContext) {}
func (p *firstPolicy) Reset() {}
func (p *firstPolicy) PickAction(_ *StepContext, _ State, actions []Action) Action {
	return actions[0]
}
func (p *firstPolicy) UpdateStep(_ *StepContext, _ State, _ Action, r float64, _ State) {
	p.rewards += r
}

type lengthAnalyzer struct {
	lengths []int
}

func (a *lengthAnalyzer) Analyze(_ *EpisodeContext, t *Trace) {
	a.lengths = append(a.lengths, t.Len())
}
func (a *lengthAnalyzer) DataSet() DataSet { return append([]int(nil), a.lengths...) }
func (a *lengthAnalyzer) Reset() {}

type lengthAnalyzerConstructor struct{}

func (lengthAnalyzerConstructor) NewAnalyzer(string, int) Analyzer { return &lengthAnalyzer{} }

type recordingComparator struct {
	mtx      *sync.Mutex
	names    []string
	datasets []DataSet
}

func (r *recordingComparator) Compare(names []string, ds []DataSet) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.names = append(r.names, names...)
	r.datasets = append(r.datasets, ds...)
}

func (r *recordingComparator) NewComparator(int) Comparator { return r }

func runConfig() *RunConfig {
	return &RunConfig{
		Episodes:                     3,
		Horizon:                      10,
		EpisodeTimeout:               time.Second,
		ThresholdConsecutiveErrors:   2,
		ThresholdConsecutiveTimeouts: 2,
	}
}

func TestExperimentRun(t *testing.T) {
	t.Run("Episodes stop at terminal states", func(t *testing.T) {
		policy := &firstPolicy{}
		exp := &Experiment{Name: "count", Environment: &countEnv{limit: 4}, Policy: policy}
		analyzer := &lengthAnalyzer{}
		result := exp.run(&experimentRunContext{
			ctx:       context.Background(),
			analyzers: map[string]Analyzer{"len": analyzer},
			writer:    io.Discard,
			RunConfig: runConfig(),
		})

		require.NoError(t, result.Error)
		assert.Equal(t, 3, result.CompletedEpisodes)
		assert.Equal(t, 3, result.TerminalEpisodes)
		assert.Equal(t, 12, result.TotalTimeSteps)
		assert.Equal(t, []int{4, 4, 4}, result.Datasets["len"])
		assert.Equal(t, 12.0, policy.rewards)
	})

	t.Run("Episodes stop at the horizon", func(t *testing.T) {
		exp := &Experiment{Name: "count", Environment: &countEnv{limit: 100}, Policy: &firstPolicy{}}
		result := exp.run(&experimentRunContext{
			ctx:       context.Background(),
			analyzers: map[string]Analyzer{},
			writer:    io.Discard,
			RunConfig: runConfig(),
		})

		require.NoError(t, result.Error)
		assert.Equal(t, 0, result.TerminalEpisodes)
		assert.Equal(t, 30, result.TotalTimeSteps)
	})

	t.Run("Consecutive errors abort the experiment", func(t *testing.T) {
		exp := &Experiment{Name: "broken", Environment: &countEnv{resetErr: errors.New("boom")}, Policy: &firstPolicy{}}
		result := exp.run(&experimentRunContext{
			ctx:       context.Background(),
			analyzers: map[string]Analyzer{},
			writer:    io.Discard,
			RunConfig: runConfig(),
		})

		assert.ErrorIs(t, result.Error, ErrTooManyErrors)
		assert.Equal(t, 2, result.ErrorEpisodes)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exp := &Experiment{Name: "count", Environment: &countEnv{limit: 4}, Policy: &firstPolicy{}}
		result := exp.run(&experimentRunContext{
			ctx:       ctx,
			analyzers: map[string]Analyzer{},
			writer:    io.Discard,
			RunConfig: runConfig(),
		})
		assert.ErrorIs(t, result.Error, ErrCancelled)
	})
}

func TestComparisons(t *testing.T) {
	t.Run("Sequential comparison", func(t *testing.T) {
		cmp := NewComparison()
		cmp.AddExperiment(&Experiment{Name: "a", Environment: &countEnv{limit: 2}, Policy: &firstPolicy{}})
		cmp.AddExperiment(&Experiment{Name: "b", Environment: &countEnv{limit: 5}, Policy: &firstPolicy{}})
		rec := &recordingComparator{mtx: new(sync.Mutex)}
		cmp.AddAnalysis("len", lengthAnalyzerConstructor{}, rec)

		cmp.Run(context.Background(), 1, runConfig(), io.Discard)

		require.Len(t, rec.names, 2)
		for i, name := range rec.names {
			if name == "a" {
				assert.Equal(t, []int{2, 2, 2}, rec.datasets[i])
			} else {
				assert.Equal(t, []int{5, 5, 5}, rec.datasets[i])
			}
		}
	})

	t.Run("Parallel comparison", func(t *testing.T) {
		cmp := NewParallelComparison()
		for _, name := range []string{"x", "y", "z"} {
			cmp.AddExperiment(&ParallelExperiment{
				Name:        name,
				Environment: countEnvConstructor{limit: 3},
				Policy:      PolicyConstructorFunc(func() Policy { return &firstPolicy{} }),
			})
		}
		rec := &recordingComparator{mtx: new(sync.Mutex)}
		cmp.AddAnalysis("len", lengthAnalyzerConstructor{}, rec)

		cmp.Run(context.Background(), 2, runConfig(), 2)

		assert.Len(t, rec.names, 6)
		for _, ds := range rec.datasets {
			assert.Equal(t, []int{3, 3, 3}, ds)
		}
	})

	t.Run("Parallel instances follow run and experiment order", func(t *testing.T) {
		names := []string{"x", "y", "z"}
		collect := func() map[string][]DataSet {
			cmp := NewParallelComparison()
			for _, name := range names {
				cmp.AddExperiment(&ParallelExperiment{
					Name:        name,
					Environment: instanceEnvConstructor{},
					Policy:      PolicyConstructorFunc(func() Policy { return &firstPolicy{} }),
				})
			}
			rec := &recordingComparator{mtx: new(sync.Mutex)}
			cmp.AddAnalysis("len", lengthAnalyzerConstructor{}, rec)

			cmp.Run(context.Background(), 2, runConfig(), 3)

			out := make(map[string][]DataSet)
			for i, name := range rec.names {
				out[name] = append(out[name], rec.datasets[i])
			}
			return out
		}

		first := collect()
		for i, name := range names {
			require.Len(t, first[name], 2)
			assert.Equal(t, []int{i + 1, i + 1, i + 1}, first[name][0])
			assert.Equal(t, []int{i + 4, i + 4, i + 4}, first[name][1])
		}
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, collect())
		}
	})
}

func TestComposedPainter(t *testing.T) {
	painter := NewComposedPainter(
		func(s State) (string, interface{}) { return "even", s.(countState).n%2 == 0 },
		func(s State) (string, interface{}) { return "big", s.(countState).n > 10 },
	).Painter()

	assert.Equal(t, painter(countState{n: 2}).Hash(), painter(countState{n: 4}).Hash())
	assert.NotEqual(t, painter(countState{n: 2}).Hash(), painter(countState{n: 3}).Hash())

	c := painter(countState{n: 12}).(*ComposedColor)
	assert.Equal(t, map[string]interface{}{"even": true, "big": true}, c.Map())
	assert.Equal(t, c.Hash(), c.Copy().Hash())
}
