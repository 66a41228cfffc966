package cmd

import (
	"log"

	reconcilerv1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/cmd/reconciler-cli/utils"
	"churchledger-backend/services/reconcile"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var reviewThreshold float64

func init() {
	reconcileCmd.Flags().Float64Var(&reviewThreshold, "review", reconcile.DefaultReviewThreshold, "confidence below which a match is flagged for review")
	rootCmd.AddCommand(reconcileCmd)
}

var reconcileCmd = &cobra.Command{
	Use:              "reconcile <roster> <names file>",
	Short:            "Matches the names in a file against a roster stored in the reconciler service.",
	Args:             cobra.ExactArgs(2),
	PersistentPreRun: requireClient,
	Run: func(cmd *cobra.Command, args []string) {
		names, err := utils.ReadNames(args[1])
		if err != nil {
			log.Fatal(err)
		}

		res, err := client.Reconcile(cmd.Context(), connect.NewRequest(&reconcilerv1.ReconcileRequest{
			Roster:          args[0],
			Names:           names,
			ReviewThreshold: reviewThreshold,
		}))
		if err != nil {
			log.Fatal(err)
		}

		cmd.Printf("run %s, service week %s\n", res.Msg.RunID, res.Msg.ServiceWeek)
		utils.PrintResults(res.Msg.Results, reconcile.NewGate(reviewThreshold))
	},
}
