package cmd

import (
	"log"
	"strconv"
	"time"

	reconcilerv1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/cmd/reconciler-cli/utils"

	"connectrpc.com/connect"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	aliasCmd.AddCommand(aliasListCmd, aliasConfirmCmd, aliasForgetCmd)
	rootCmd.AddCommand(aliasCmd)
}

var aliasCmd = &cobra.Command{
	Use:              "alias",
	Short:            "Manages the noisy names people have confirmed for roster members.",
	PersistentPreRun: requireClient,
}

var aliasListCmd = &cobra.Command{
	Use:   "list <roster>",
	Short: "Lists the confirmed aliases of a roster.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.ListAliases(cmd.Context(), connect.NewRequest(&reconcilerv1.ListAliasesRequest{
			Roster: args[0],
		}))
		if err != nil {
			log.Fatal(err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Noisy name", "Member id", "Last seen"})
		for _, a := range res.Msg.Aliases {
			t.AppendRow(table.Row{a.NoisyName, a.MemberID, a.LastSeen.Format(time.ANSIC)})
		}
		t.Render()
	},
}

var aliasConfirmCmd = &cobra.Command{
	Use:   "confirm <roster> <noisy name> <member id> [position]",
	Short: "Records that a noisy name refers to a roster member.",
	Args:  cobra.RangeArgs(3, 4),
	Run: func(cmd *cobra.Command, args []string) {
		position := 0
		if len(args) == 4 {
			var err error
			position, err = strconv.Atoi(args[3])
			if err != nil {
				log.Fatal(err)
			}
		}
		_, err := client.Confirm(cmd.Context(), connect.NewRequest(&reconcilerv1.ConfirmRequest{
			Roster:        args[0],
			ExtractedName: args[1],
			MemberID:      args[2],
			Position:      position,
		}))
		if err != nil {
			log.Fatal(err)
		}
	},
}

var aliasForgetCmd = &cobra.Command{
	Use:   "forget <roster> <noisy name>",
	Short: "Drops a confirmed alias.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.Forget(cmd.Context(), connect.NewRequest(&reconcilerv1.ForgetRequest{
			Roster:        args[0],
			ExtractedName: args[1],
		}))
		if err != nil {
			log.Fatal(err)
		}
		if !res.Msg.Existed {
			cmd.Printf("no alias %q in %s\n", args[1], args[0])
		}
	},
}
