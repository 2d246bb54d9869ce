package analysis

import (
	"bytes"
	"fmt"
	"path"

	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

// ErrorAnalyzer dumps the trace of every episode that ended with an error
type ErrorAnalyzer struct {
	savePath string
	exp      string
	errors   int
}

var _ core.Analyzer = &ErrorAnalyzer{}

func NewErrorAnalyzer(savePath string) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		savePath: path.Join(savePath, "errors"),
	}
}

func (a *ErrorAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	err := trace.Error()
	if err == nil {
		return
	}
	a.errors++

	buf := new(bytes.Buffer)
	buf.WriteString(fmt.Sprintf("Error: %s\n", err))
	buf.WriteString(traceToString(trace))

	fileName := fmt.Sprintf("%d_error_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_error_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	util.SaveFile(path.Join(a.savePath, fileName), buf.Bytes())
}

// DataSet is the number of errored episodes seen so far
func (a *ErrorAnalyzer) DataSet() core.DataSet {
	return a.errors
}

func (a *ErrorAnalyzer) Reset() {
	a.errors = 0
}

type ErrorAnalyzerConstructor struct {
	SavePath string
}

var _ core.AnalyzerConstructor = &ErrorAnalyzerConstructor{}

func NewErrorAnalyzerConstructor(savePath string) *ErrorAnalyzerConstructor {
	return &ErrorAnalyzerConstructor{
		SavePath: savePath,
	}
}

func (e *ErrorAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewErrorAnalyzer(e.SavePath)
	a.exp = exp
	return a
}
