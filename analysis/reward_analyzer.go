package analysis

import (
	"bytes"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
	"gonum.org/v1/gonum/stat"
)

type rewardDataset struct {
	// undiscounted return of each episode
	Returns []float64
	// number of steps of each episode
	Lengths []int
}

func (r *rewardDataset) Copy() *rewardDataset {
	return &rewardDataset{
		Returns: util.CopyFloatSlice(r.Returns),
		Lengths: util.CopyIntSlice(r.Lengths),
	}
}

// RewardAnalyzer records the return earned by the policy in each episode
type RewardAnalyzer struct {
	dataset *rewardDataset
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	r := &RewardAnalyzer{}
	r.Reset()
	return r
}

func (r *RewardAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	r.dataset.Returns = append(r.dataset.Returns, trace.Return())
	r.dataset.Lengths = append(r.dataset.Lengths, trace.Len())
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = &rewardDataset{
		Returns: make([]float64, 0),
		Lengths: make([]int, 0),
	}
}

type RewardAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor() *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{}
}

func (r *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer()
}

// RewardSummary aggregates the returns of one experiment
type RewardSummary struct {
	Episodes   int
	MeanReturn float64
	StdReturn  float64
	MeanLength float64
	Returns    []float64
}

func summarize(ds *rewardDataset) *RewardSummary {
	lengths := make([]float64, len(ds.Lengths))
	for i, l := range ds.Lengths {
		lengths[i] = float64(l)
	}
	s := &RewardSummary{
		Episodes: len(ds.Returns),
		Returns:  ds.Returns,
	}
	if len(ds.Returns) > 0 {
		s.MeanReturn, s.StdReturn = stat.MeanStdDev(ds.Returns, nil)
		s.MeanLength = stat.Mean(lengths, nil)
	}
	return s
}

// RewardComparator writes a json summary of the returns and a line chart of
// the per episode returns of each experiment
type RewardComparator struct {
	savePath string
	run      int
}

var _ core.Comparator = &RewardComparator{}

func NewRewardComparator(savePath string, run int) *RewardComparator {
	return &RewardComparator{
		savePath: savePath,
		run:      run,
	}
}

func (r *RewardComparator) Compare(experiments []string, datasets []core.DataSet) {
	out := make(map[string]*RewardSummary)
	names := make([]string, 0)
	episodes := 0
	for i, name := range experiments {
		ds, ok := datasets[i].(*rewardDataset)
		if !ok {
			continue
		}
		out[name] = summarize(ds)
		names = append(names, name)
		if len(ds.Returns) > episodes {
			episodes = len(ds.Returns)
		}
	}
	util.SaveJson(runPath(r.savePath, r.run, "rewards.json"), out)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Episode returns",
			Subtitle: "run " + strconv.Itoa(r.run),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "return"}),
	)

	xs := make([]string, episodes)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)
	for _, name := range names {
		items := make([]opts.LineData, 0, episodes)
		for _, ret := range out[name].Returns {
			items = append(items, opts.LineData{Value: ret})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	buf := new(bytes.Buffer)
	if err := page.Render(buf); err != nil {
		return
	}
	util.SaveFile(runPath(r.savePath, r.run, "rewards.html"), buf.Bytes())
}

type RewardComparatorConstructor struct {
	savePath string
}

var _ core.ComparatorConstructor = &RewardComparatorConstructor{}

func NewRewardComparatorConstructor(savePath string) *RewardComparatorConstructor {
	return &RewardComparatorConstructor{savePath: savePath}
}

func (r *RewardComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRewardComparator(r.savePath, run)
}
