package cli

import (
	"fmt"
	"strconv"

	"grc-platform/internal/scoring"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [probability] [impact]",
	Short: "Print the risk level and band of probability x impact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid probability %q", args[0])
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid impact %q", args[1])
		}

		lvl := scoring.Classify(p, i)
		fmt.Fprintf(cmd.OutOrStdout(), "level=%d band=%s\n", lvl.Score, lvl.Band)
		return nil
	},
}
