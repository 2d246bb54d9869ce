package common

import (
	"path"
	"time"

	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
)

type Flags struct {
	BoardFlags
	SavePath string
	RunFlags
	Parallelism int
	Debug       bool
}

// BoardFlags select the board configuration
type BoardFlags struct {
	// Config is the path of a yaml board configuration, empty for the defaults
	Config string
	// Seed overrides the configured seed when non zero
	Seed int64
}

type RunFlags struct {
	NumRuns                int
	Episodes               int
	Horizon                int
	MaxConsecutiveErrors   int
	MaxConsecutiveTimeouts int
	EpisodeTimeout         time.Duration
}

func DefaultFlags() *Flags {
	return &Flags{
		BoardFlags: BoardFlags{
			Config: "",
			Seed:   0,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:                1,
			Episodes:               1000,
			Horizon:                500,
			MaxConsecutiveErrors:   20,
			MaxConsecutiveTimeouts: 20,
			EpisodeTimeout:         10 * time.Second,
		},
		Parallelism: 4,
		Debug:       false,
	}
}

func (f *Flags) Record() {
	util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}

func (f *Flags) RunConfig() *core.RunConfig {
	return &core.RunConfig{
		Episodes:                     f.Episodes,
		Horizon:                      f.Horizon,
		ThresholdConsecutiveErrors:   f.MaxConsecutiveErrors,
		ThresholdConsecutiveTimeouts: f.MaxConsecutiveTimeouts,
		EpisodeTimeout:               f.EpisodeTimeout,
	}
}
