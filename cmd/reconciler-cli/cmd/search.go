package cmd

import (
	"log"
	"strings"

	reconcilerv1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/cmd/reconciler-cli/utils"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "number of candidates to print")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:              "search <roster> <name...>",
	Short:            "Ranks the members of a roster against a single name.",
	Args:             cobra.MinimumNArgs(2),
	PersistentPreRun: requireClient,
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.Search(cmd.Context(), connect.NewRequest(&reconcilerv1.SearchRequest{
			Roster: args[0],
			Query:  strings.Join(args[1:], " "),
			Limit:  searchLimit,
		}))
		if err != nil {
			log.Fatal(err)
		}
		utils.PrintCandidates(res.Msg.Candidates)
	},
}
