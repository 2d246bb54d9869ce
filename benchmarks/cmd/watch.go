package cmd

import (
	"context"
	"fmt"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/spf13/cobra"
	"github.com/zeu5/collabsort/benchmarks/collabsort"
	"github.com/zeu5/collabsort/core"
	"github.com/zeu5/collabsort/util"
	"golang.org/x/sync/errgroup"
)

func WatchCommand() *cobra.Command {
	var agents []string
	var rounds int
	var colored bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Play episodes live in the terminal, one board per agent policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := boardConfig()
			if err != nil {
				return err
			}
			rate := time.Second / time.Duration(c.RenderFPS)

			doneCh := make(chan struct{})
			ctx, cancel := interruptContext(doneCh)
			defer cancel()

			printer := util.NewTerminalPrinter(rate)
			group, groupCtx := errgroup.WithContext(ctx)
			for _, name := range agents {
				policy, err := collabsort.NewAgentPolicy(name, c)
				if err != nil {
					return err
				}
				env, err := collabsort.NewEnv(c.Copy())
				if err != nil {
					return err
				}
				w := &watcher{
					name:    name,
					env:     env,
					policy:  policy.NewPolicy(),
					out:     printer.NewOutput(),
					rate:    rate,
					horizon: flags.Horizon,
					colored: colored,
				}
				group.Go(func() error {
					return w.play(groupCtx, rounds)
				})
			}

			printer.Start(ctx)
			err = group.Wait()
			printer.Stop()
			close(doneCh)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&agents, "agents", []string{"Scripted", "Random"}, "Agent policies to watch")
	cmd.Flags().IntVar(&rounds, "rounds", 1, "Episodes to play per agent policy")
	cmd.Flags().BoolVar(&colored, "color", true, "Color the objects")

	return cmd
}

type watcher struct {
	name    string
	env     *collabsort.Env
	policy  core.Policy
	out     *util.ParallelOutput
	rate    time.Duration
	horizon int
	colored bool
}

func (w *watcher) play(ctx context.Context, rounds int) error {
	ticker := channerics.NewTicker(ctx.Done(), w.rate)
	for episode := 0; episode < rounds; episode++ {
		state, err := w.env.Reset()
		if err != nil {
			return err
		}
		w.show(episode, 0, state)

		total := 0.0
		for step := 0; step < w.horizon && !state.Terminal(); step++ {
			if _, ok := <-ticker; !ok {
				return nil
			}
			action := w.policy.PickAction(nil, state, state.Actions())
			next, reward, err := w.env.Step(action, nil)
			if err != nil {
				return err
			}
			w.policy.UpdateStep(nil, state, action, reward, next)
			total += reward
			state = next
			w.show(episode, total, state)
		}
	}
	return nil
}

func (w *watcher) show(episode int, total float64, state core.State) {
	s := state.(*collabsort.State)
	w.out.Set(fmt.Sprintf("%s  episode %d  return %.1f\n%s", w.name, episode, total, s.Snapshot.Render(w.colored)))
}
