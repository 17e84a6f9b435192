package cli

import (
	"errors"
	"fmt"
	"strconv"

	"grc-platform/internal/database"
	"grc-platform/internal/logging"
	"grc-platform/internal/services"

	"github.com/spf13/cobra"
)

var allPending bool

var rescoreCmd = &cobra.Command{
	Use:   "rescore [campaign-id]",
	Short: "Recompute the score of one campaign or of every unscored campaign",
	Args: func(cmd *cobra.Command, args []string) error {
		if allPending {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var ids []uint
		if !allPending {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid campaign id %q", args[0])
			}
			ids = []uint{uint(id)}
		}

		db := openDB()
		if allPending {
			pending, err := database.PendingCampaignIDs(db)
			if err != nil {
				return err
			}
			ids = pending
		}

		var failed error
		for _, id := range ids {
			report, err := services.RescoreCampaign(db, id, 0)
			if err != nil {
				logging.Logger.Errorw("rescore failed", "campaign_id", id, "error", err)
				failed = errors.Join(failed, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "campaign %d: score=%d classification=%s ko=%t\n",
				id, report.Score, report.Classification, report.KOTriggered)
		}
		return failed
	},
}

func init() {
	rescoreCmd.Flags().BoolVar(&allPending, "all-pending", false, "rescore every submitted campaign that has no score yet")
}
