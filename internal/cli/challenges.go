package cli

import (
	"fmt"
	"strings"

	"github.com/druarnfield/linuxstory/internal/story"
	"github.com/spf13/cobra"
)

func newChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List the bundled challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := story.DefaultRegistry()
			if err != nil {
				return fmt.Errorf("loading challenges: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, c := range reg.All() {
				fmt.Fprintf(out, "  %2d  %-20s %d steps  [%s]\n",
					c.Number, c.Title, len(c.Steps), strings.Join(c.Terminal, " "))
			}
			return nil
		},
	}
}
