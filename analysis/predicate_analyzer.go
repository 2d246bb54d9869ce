package analysis

import (
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

// Predicate is a named milestone over states
type Predicate struct {
	Name  string
	Check func(core.State) bool
}

// Init holds in every state and is always the first milestone
var Init = Predicate{
	Name:  "Init",
	Check: func(_ core.State) bool { return true },
}

type predicateDataset struct {
	FirstTimeStepToFinal int
	FirstEpisodeToFinal  int

	FinalPredicateStates    []int
	FinalPredicateTimesteps []int

	PredicateEpisodes  map[string]int
	PredicateTimesteps map[string]int
}

func (p *predicateDataset) Copy() *predicateDataset {
	return &predicateDataset{
		FirstTimeStepToFinal: p.FirstTimeStepToFinal,
		FirstEpisodeToFinal:  p.FirstEpisodeToFinal,

		FinalPredicateStates:    util.CopyIntSlice(p.FinalPredicateStates),
		FinalPredicateTimesteps: util.CopyIntSlice(p.FinalPredicateTimesteps),

		PredicateEpisodes:  util.CopyStringIntMap(p.PredicateEpisodes),
		PredicateTimesteps: util.CopyStringIntMap(p.PredicateTimesteps),
	}
}

// PredicateAnalyzer tracks how far along an ordered list of milestones each
// episode gets. The last predicate is the target; distinct painted states
// that satisfy it are counted.
type PredicateAnalyzer struct {
	predicates []Predicate
	painter    core.Painter

	dataset      *predicateDataset
	finalStates  map[string]bool
	lastTimeStep int
}

var _ core.Analyzer = &PredicateAnalyzer{}

func NewPredicateAnalyzer(painter core.Painter, predicates ...Predicate) *PredicateAnalyzer {
	out := &PredicateAnalyzer{
		predicates: append([]Predicate{Init}, predicates...),
		painter:    painter,
	}
	out.Reset()
	return out
}

func (p *PredicateAnalyzer) Reset() {
	p.dataset = &predicateDataset{
		PredicateEpisodes:       make(map[string]int),
		PredicateTimesteps:      make(map[string]int),
		FinalPredicateStates:    make([]int, 0),
		FinalPredicateTimesteps: make([]int, 0),
		FirstTimeStepToFinal:    -1,
		FirstEpisodeToFinal:     -1,
	}
	for _, pred := range p.predicates {
		p.dataset.PredicateEpisodes[pred.Name] = 0
		p.dataset.PredicateTimesteps[pred.Name] = 0
	}
	p.finalStates = make(map[string]bool)
	p.lastTimeStep = 0
}

func (p *PredicateAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	curPredicate := 0
	targetReached := false
	// number of timesteps spent at each predicate
	predicateTimesteps := make(map[int]int)
	for i := 0; i < trace.Len(); i++ {
		state := trace.Step(i).NextState
		nextPredicate := curPredicate

		if !targetReached {
			for j := curPredicate + 1; j < len(p.predicates); j++ {
				if p.predicates[j].Check(state) {
					nextPredicate = j
				}
			}
		}

		if nextPredicate == len(p.predicates)-1 {
			if !targetReached {
				if p.dataset.FirstTimeStepToFinal == -1 {
					p.dataset.FirstTimeStepToFinal = p.lastTimeStep + i
				}
				if p.dataset.FirstEpisodeToFinal == -1 {
					p.dataset.FirstEpisodeToFinal = eCtx.Episode
				}
			}
			targetReached = true
			if p.painter != nil {
				p.finalStates[p.painter(state).Hash()] = true
			}
		}

		predicateTimesteps[nextPredicate]++
		curPredicate = nextPredicate
	}

	for predIndex, timesteps := range predicateTimesteps {
		pred := p.predicates[predIndex]

		p.dataset.PredicateEpisodes[pred.Name]++
		p.dataset.PredicateTimesteps[pred.Name] += timesteps
	}

	p.lastTimeStep += trace.Len()
	p.dataset.FinalPredicateStates = append(p.dataset.FinalPredicateStates, len(p.finalStates))
	p.dataset.FinalPredicateTimesteps = append(p.dataset.FinalPredicateTimesteps, p.lastTimeStep)
}

func (p *PredicateAnalyzer) DataSet() core.DataSet {
	return p.dataset.Copy()
}

type PredicateAnalyzerConstructor struct {
	Painter    core.Painter
	Predicates []Predicate
}

var _ core.AnalyzerConstructor = &PredicateAnalyzerConstructor{}

func (p *PredicateAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewPredicateAnalyzer(p.Painter, p.Predicates...)
}

func NewPredicateAnalyzerConstructor(painter core.Painter, predicates []Predicate) *PredicateAnalyzerConstructor {
	return &PredicateAnalyzerConstructor{
		Painter:    painter,
		Predicates: predicates,
	}
}

type PredicateComparator struct {
	savePath string
}

var _ core.Comparator = &PredicateComparator{}

func NewPredicateComparator(savePath string) *PredicateComparator {
	return &PredicateComparator{
		savePath: savePath,
	}
}

func (p *PredicateComparator) Compare(experiments []string, datasets []core.DataSet) {
	out := make(map[string]*predicateDataset)
	for i, name := range experiments {
		if ds, ok := datasets[i].(*predicateDataset); ok {
			out[name] = ds
		}
	}

	util.SaveJson(p.savePath, out)
}

type PredicateComparatorConstructor struct {
	savePath string
	name     string
}

var _ core.ComparatorConstructor = &PredicateComparatorConstructor{}

func (p *PredicateComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewPredicateComparator(runPath(p.savePath, run, "predicate_comparison_"+p.name+".json"))
}

func NewPredicateComparatorConstructor(savePath string, name string) *PredicateComparatorConstructor {
	return &PredicateComparatorConstructor{
		savePath: savePath,
		name:     name,
	}
}
