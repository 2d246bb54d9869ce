package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "collabsort",
		Short:         "Collaborative sorting between a scripted robot arm and an agent arm",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			UpdateFlags()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		RunCommand(),
		WatchCommand(),
		ServeCommand(),
	)

	return cmd
}
