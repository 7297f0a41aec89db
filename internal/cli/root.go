package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagVerbose bool

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linuxstory",
		Short: "Learn the terminal by playing through a story",
		Long:  "linuxstory is a tutorial shell: each challenge tells part of a story and asks you to type real commands to move it on.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Show detailed log output")

	cmd.AddCommand(newVersionCmd(version))
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newChallengesCmd())

	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print linuxstory version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "linuxstory", version)
		},
	}
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}
