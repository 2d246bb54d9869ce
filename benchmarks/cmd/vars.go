package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/collabsort/benchmarks/common"
	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/config"
)

var (
	flags      *common.Flags = common.DefaultFlags()
	savePath   string
	configPath string
	seed       int64
	debug      bool

	numRuns                int
	episodes               int
	horizon                int
	maxConsecutiveErrors   int
	maxConsecutiveTimeouts int
	episodeTimeout         int
	parallelism            int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&configPath, "config", flags.Config, "Path to a yaml board configuration")
	cmd.PersistentFlags().Int64Var(&seed, "seed", flags.Seed, "Random seed, 0 keeps the configured one")
	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Save the traces of the last episodes")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", flags.Horizon, "Horizon")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	cmd.PersistentFlags().IntVar(&maxConsecutiveTimeouts, "max-consecutive-timeouts", flags.MaxConsecutiveTimeouts, "Maximum number of consecutive timeouts")
	cmd.PersistentFlags().IntVar(&episodeTimeout, "episode-timeout", int(flags.EpisodeTimeout.Seconds()), "Episode timeout in seconds")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
}

func UpdateFlags() {
	flags.SavePath = savePath
	flags.Config = configPath
	flags.Seed = seed
	flags.Debug = debug

	flags.NumRuns = numRuns
	flags.Episodes = episodes
	flags.Horizon = horizon
	flags.MaxConsecutiveErrors = maxConsecutiveErrors
	flags.MaxConsecutiveTimeouts = maxConsecutiveTimeouts
	flags.EpisodeTimeout = time.Duration(episodeTimeout) * time.Second
	flags.Parallelism = parallelism
}

// boardConfig loads the board configuration selected by the flags
func boardConfig() (*board.Config, error) {
	c, err := config.Load(flags.Config)
	if err != nil {
		return nil, err
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	return c, nil
}
