package policies

import (
	"math"
	"time"

	"github.com/zeu5/collabsort/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxPolicy samples actions with probability proportional to exp(preference/temperature).
// Preferences are fixed per action hash, actions without one get zero.
type SoftMaxPolicy struct {
	Preferences map[string]float64
	Temperature float64

	seed uint64
	rand erand.Source
}

var _ core.Policy = &SoftMaxPolicy{}

func NewSoftMaxPolicy(preferences map[string]float64, temperature float64, seed uint64) *SoftMaxPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &SoftMaxPolicy{
		Preferences: preferences,
		Temperature: temperature,
		seed:        seed,
		rand:        erand.NewSource(seed),
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.rand = erand.NewSource(s.seed)
}

func (s *SoftMaxPolicy) ResetEpisode(_ *core.EpisodeContext) {}

func (s *SoftMaxPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

// Weights returns the normalized sampling weights of the actions
func (s *SoftMaxPolicy) Weights(actions []core.Action) []float64 {
	temp := s.Temperature
	if temp <= 0 {
		temp = 1
	}
	vals := make([]float64, len(actions))
	largest := math.Inf(-1)
	for i, a := range actions {
		vals[i] = s.Preferences[a.Hash()] / temp
		if vals[i] > largest {
			largest = vals[i]
		}
	}
	sum := 0.0
	for i := range vals {
		vals[i] = math.Exp(vals[i] - largest)
		sum += vals[i]
	}
	for i := range vals {
		vals[i] = vals[i] / sum
	}
	return vals
}

func (s *SoftMaxPolicy) PickAction(_ *core.StepContext, _ core.State, actions []core.Action) core.Action {
	if len(actions) == 0 {
		return nil
	}
	// using the sampleuv library to sample based on the weights
	i, ok := sampleuv.NewWeighted(s.Weights(actions), s.rand).Take()
	if !ok {
		return actions[0]
	}
	return actions[i]
}

func (s *SoftMaxPolicy) UpdateStep(_ *core.StepContext, _ core.State, _ core.Action, _ float64, _ core.State) {
}

type SoftMaxPolicyConstructor struct {
	preferences map[string]float64
	temperature float64
	seed        uint64
}

var _ core.PolicyConstructor = &SoftMaxPolicyConstructor{}

func NewSoftMaxPolicyConstructor(preferences map[string]float64, temperature float64, seed uint64) *SoftMaxPolicyConstructor {
	return &SoftMaxPolicyConstructor{
		preferences: preferences,
		temperature: temperature,
		seed:        seed,
	}
}

func (c *SoftMaxPolicyConstructor) NewPolicy() core.Policy {
	return NewSoftMaxPolicy(c.preferences, c.temperature, c.seed)
}
