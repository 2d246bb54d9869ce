package analysis

import (
	"fmt"
	"path"

	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

// BugSpec is a property over a whole trace, Check returns true when it is violated
type BugSpec struct {
	Name  string
	Check func(*core.Trace) bool
}

type bugDataset struct {
	// number of episodes violating each bug spec
	Occurrences map[string]int
	Episodes    int
}

type BugAnalyzer struct {
	bugs     []BugSpec
	savePath string
	exp      string
	dataset  *bugDataset
}

var _ core.Analyzer = &BugAnalyzer{}

func NewBugAnalyzer(savePath string, exp string, bugs ...BugSpec) *BugAnalyzer {
	ba := &BugAnalyzer{
		bugs:     bugs,
		savePath: path.Join(savePath, "bugs"),
		exp:      exp,
	}
	ba.Reset()
	return ba
}

func (ba *BugAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	ba.dataset.Episodes++
	for _, bug := range ba.bugs {
		if bug.Check(trace) {
			ba.dataset.Occurrences[bug.Name]++
			fileName := path.Join(ba.savePath, fmt.Sprintf("%d_%s_bug_%d.txt", eCtx.Run, bug.Name, eCtx.Episode))
			if ba.exp != "" {
				fileName = path.Join(ba.savePath, fmt.Sprintf("%d_%s_%s_bug_%d.txt", eCtx.Run, ba.exp, bug.Name, eCtx.Episode))
			}

			util.SaveFile(fileName, []byte(traceToString(trace)))
		}
	}
}

func (ba *BugAnalyzer) DataSet() core.DataSet {
	return &bugDataset{
		Occurrences: util.CopyStringIntMap(ba.dataset.Occurrences),
		Episodes:    ba.dataset.Episodes,
	}
}

func (ba *BugAnalyzer) Reset() {
	ba.dataset = &bugDataset{
		Occurrences: make(map[string]int),
	}
	for _, bug := range ba.bugs {
		ba.dataset.Occurrences[bug.Name] = 0
	}
}

type BugAnalyzerConstructor struct {
	SavePath string
	Bugs     []BugSpec
}

var _ core.AnalyzerConstructor = &BugAnalyzerConstructor{}

func NewBugAnalyzerConstructor(savePath string, bugs ...BugSpec) *BugAnalyzerConstructor {
	return &BugAnalyzerConstructor{
		SavePath: savePath,
		Bugs:     bugs,
	}
}

func (e *BugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return NewBugAnalyzer(e.SavePath, exp, e.Bugs...)
}

// BugComparator writes the number of violating episodes of each experiment
type BugComparator struct {
	savePath string
}

var _ core.Comparator = &BugComparator{}

func (b *BugComparator) Compare(experiments []string, datasets []core.DataSet) {
	out := make(map[string]*bugDataset)
	for i, name := range experiments {
		if ds, ok := datasets[i].(*bugDataset); ok {
			out[name] = ds
		}
	}
	util.SaveJson(b.savePath, out)
}

type BugComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &BugComparatorConstructor{}

func NewBugComparatorConstructor(savePath string) *BugComparatorConstructor {
	return &BugComparatorConstructor{savePath: savePath}
}

func (b *BugComparatorConstructor) NewComparator(run int) core.Comparator {
	return &BugComparator{savePath: runPath(b.savePath, run, "bugs.json")}
}
