package analysis

import (
	"bytes"
	"fmt"
	"path"
	"sort"

	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

type PrintDebugAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath string, threshold int) *PrintDebugAnalyzer {
	return &PrintDebugAnalyzer{
		savePath:         path.Join(savePath, "traces"),
		thresholdEpisode: threshold,
	}
}

func (a *PrintDebugAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	util.SaveFile(path.Join(a.savePath, fileName), []byte(traceToString(trace)))
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		step := trace.Step(i)
		buf.WriteString(fmt.Sprintf("Step %d\n%s\n", i, stepToString(step)))
	}
	buf.WriteString(fmt.Sprintf("Return: %.2f\n", trace.Return()))
	return buf.String()
}

func stepToString(step *core.Step) string {
	return fmt.Sprintf(
		"State: \n%s\nAction: %s\nReward: %.2f\n\nNext State: \n%s\nAdditional Info:\n%s",
		stateToString(step.State),
		actionToString(step.Action),
		step.Reward,
		stateToString(step.NextState),
		addInfoToString(step.Misc),
	)
}

func addInfoToString(addInfo map[string]interface{}) string {
	keys := make([]string, 0, len(addInfo))
	for k := range addInfo {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%s: %v\n", k, addInfo[k])
	}
	return out
}

func stateToString(state core.State) string {
	if state == nil {
		return "<nil>"
	}
	if s, ok := state.(fmt.Stringer); ok {
		return s.String()
	}
	return state.Hash()
}

func actionToString(action core.Action) string {
	if action == nil {
		return "<nil>"
	}
	if a, ok := action.(fmt.Stringer); ok {
		return a.String()
	}
	return action.Hash()
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {
	// do nothing
}

type PrintDebugAnalyzerConstructor struct {
	SavePath         string
	ThresholdEpisode int
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, thresholdEpisode int) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		SavePath:         savePath,
		ThresholdEpisode: thresholdEpisode,
	}
}

func (c *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewPrintDebugAnalyzer(c.SavePath, c.ThresholdEpisode)
	a.exp = exp
	return a
}
