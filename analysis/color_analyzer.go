package analysis

import (
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

type colorAnalyzerDataset struct {
	Timesteps    []int
	UniqueStates []int
}

func (c *colorAnalyzerDataset) Copy() *colorAnalyzerDataset {
	return &colorAnalyzerDataset{
		Timesteps:    util.CopyIntSlice(c.Timesteps),
		UniqueStates: util.CopyIntSlice(c.UniqueStates),
	}
}

// ColorAnalyzer measures coverage as the number of distinct painted states
// visited over time
type ColorAnalyzer struct {
	painter core.Painter
	states  map[string]bool
	dataset *colorAnalyzerDataset
}

var _ core.Analyzer = &ColorAnalyzer{}

func NewColorAnalyzer(painter core.Painter) *ColorAnalyzer {
	c := &ColorAnalyzer{painter: painter}
	c.Reset()
	return c
}

func (c *ColorAnalyzer) Reset() {
	c.states = make(map[string]bool)
	c.dataset = &colorAnalyzerDataset{
		Timesteps:    make([]int, 0),
		UniqueStates: make([]int, 0),
	}
}

func (c *ColorAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		c.states[c.painter(step.NextState).Hash()] = true
	}
	lastTimeStep := 0
	if len(c.dataset.Timesteps) > 0 {
		lastTimeStep = c.dataset.Timesteps[len(c.dataset.Timesteps)-1]
	}
	c.dataset.Timesteps = append(c.dataset.Timesteps, lastTimeStep+trace.Len())
	c.dataset.UniqueStates = append(c.dataset.UniqueStates, len(c.states))
}

func (c *ColorAnalyzer) DataSet() core.DataSet {
	return c.dataset.Copy()
}

type ColorAnalyzerConstructor struct {
	painter core.Painter
}

func NewColorAnalyzerConstructor(painter core.Painter) *ColorAnalyzerConstructor {
	return &ColorAnalyzerConstructor{
		painter: painter,
	}
}

var _ core.AnalyzerConstructor = &ColorAnalyzerConstructor{}

func (c *ColorAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewColorAnalyzer(c.painter)
}

type ColorComparator struct {
	savePath string
}

var _ core.Comparator = &ColorComparator{}

func NewColorComparator(savePath string) *ColorComparator {
	return &ColorComparator{
		savePath: savePath,
	}
}

func (c *ColorComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*colorAnalyzerDataset)
	for i, name := range experimentNames {
		if ds, ok := datasets[i].(*colorAnalyzerDataset); ok {
			out[name] = ds
		}
	}

	util.SaveJson(c.savePath, out)
}

type ColorComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &ColorComparatorConstructor{}

func (c *ColorComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewColorComparator(runPath(c.savePath, run, "coverage.json"))
}

func NewColorComparatorConstructor(savePath string) *ColorComparatorConstructor {
	return &ColorComparatorConstructor{
		savePath: savePath,
	}
}
