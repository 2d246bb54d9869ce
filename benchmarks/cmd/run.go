package cmd

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/collabsort/benchmarks/collabsort"
	"github.com/zeu5/collabsort/config"
)

// interruptContext is cancelled on an interrupt from the os or when done is closed
func interruptContext(done <-chan struct{}) (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
		case <-done:
		}
		cancel()
	}()
	return ctx, cancel
}

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare agent policies on the board and save the analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := boardConfig()
			if err != nil {
				return err
			}
			flags.Record()
			if err := config.Save(path.Join(flags.SavePath, "board.yaml"), c); err != nil {
				return err
			}

			cmp, err := collabsort.PrepareComparison(flags, c)
			if err != nil {
				return err
			}

			doneCh := make(chan struct{})
			ctx, cancel := interruptContext(doneCh)
			defer cancel()

			cmp.Run(ctx, flags.NumRuns, flags.RunConfig(), flags.Parallelism)
			close(doneCh)
			return nil
		},
	}

	return cmd
}
