package collabsort

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeu5/collabsort/analysis"
	"github.com/zeu5/collabsort/benchmarks/common"
	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/policies"
)

// agentPreferences bias the softmax agent toward moving and picking
var agentPreferences = map[string]float64{
	board.None.Hash(): 0,
	board.Up.Hash():   0.5,
	board.Down.Hash(): 0.5,
	board.Pick.Hash(): 1,
}

// PrepareComparison sets up the agent policies to compare on the board along
// with the bug, error, coverage, reward and milestone analyses
func PrepareComparison(flags *common.Flags, config *board.Config) (*core.ParallelComparison, error) {
	if flags.Seed != 0 {
		config = config.Copy()
		config.Seed = flags.Seed
	}
	envConstructor, err := NewEnvConstructor(config)
	if err != nil {
		return nil, err
	}

	cmp := core.NewParallelComparison()
	painter := DefaultPainter()

	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, flags.Episodes-10), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Bugs", analysis.NewBugAnalyzerConstructor(flags.SavePath, Bugs()...), analysis.NewBugComparatorConstructor(flags.SavePath))
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(flags.SavePath), analysis.NewNoOpComparatorConstructor())
	cmp.AddAnalysis("Coverage", analysis.NewColorAnalyzerConstructor(painter), analysis.NewColorComparatorConstructor(flags.SavePath))
	cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzerConstructor(), analysis.NewRewardComparatorConstructor(flags.SavePath))
	cmp.AddAnalysis(
		"Milestones",
		analysis.NewPredicateAnalyzerConstructor(painter, Milestones()),
		analysis.NewPredicateComparatorConstructor(flags.SavePath, "milestones"),
	)

	for _, name := range PolicyNames {
		policy, err := NewAgentPolicy(name, config)
		if err != nil {
			return nil, err
		}
		cmp.AddExperiment(&core.ParallelExperiment{
			Name:        name,
			Environment: envConstructor,
			Policy:      policy,
		})
	}
	return cmp, nil
}

// PolicyNames lists the agent policies known to NewAgentPolicy
var PolicyNames = []string{"Random", "SoftMax", "Scripted", "NoisyScripted", "Idle"}

var ErrUnknownPolicy = errors.New("unknown policy")

// NewAgentPolicy returns the constructor of the named agent policy, matched case insensitively
func NewAgentPolicy(name string, config *board.Config) (core.PolicyConstructor, error) {
	seed := config.Seed
	switch strings.ToLower(name) {
	case "random":
		return &policies.RandomPolicyConstructor{Seed: seed}, nil
	case "softmax":
		return policies.NewSoftMaxPolicyConstructor(agentPreferences, 0.5, uint64(seed)), nil
	case "scripted":
		return &policies.ScriptedPolicyConstructor{Config: config}, nil
	case "noisyscripted":
		return &policies.ScriptedPolicyConstructor{Config: config, Epsilon: 0.1, Seed: seed}, nil
	case "idle":
		return policies.IdlePolicyConstructor{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
}
