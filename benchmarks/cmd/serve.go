package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/collabsort/benchmarks/collabsort"
	"github.com/zeu5/collabsort/board"
	"github.com/zeu5/collabsort/server"
	"golang.org/x/sync/errgroup"
)

func ServeCommand() *cobra.Command {
	var addr string
	var agent string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board continuously and stream frames over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := boardConfig()
			if err != nil {
				return err
			}
			b, err := board.New(c)
			if err != nil {
				return err
			}
			policy, err := collabsort.NewAgentPolicy(agent, c)
			if err != nil {
				return err
			}

			doneCh := make(chan struct{})
			ctx, cancel := interruptContext(doneCh)
			defer cancel()

			sim := server.NewSimulation(b, collabsort.PolicyAgent(policy.NewPolicy()))
			hub := server.NewHub()
			srv := server.NewServer(addr, hub)

			group, groupCtx := errgroup.WithContext(ctx)
			group.Go(func() error {
				hub.Run(groupCtx, server.Frames(groupCtx, sim.Run(groupCtx)))
				return nil
			})
			group.Go(func() error {
				return srv.Serve(groupCtx)
			})
			err = group.Wait()
			close(doneCh)
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to serve frames on")
	cmd.Flags().StringVar(&agent, "agent", "Scripted", "Agent policy driving the agent arm")

	return cmd
}
