package cmd

import (
	"fmt"
	"log"
	"time"

	reconcilerv1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/cmd/reconciler-cli/utils"

	"connectrpc.com/connect"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rosterCmd.AddCommand(rosterPutCmd, rosterGetCmd, rosterListCmd)
	rootCmd.AddCommand(rosterCmd)
}

var rosterCmd = &cobra.Command{
	Use:              "roster",
	Short:            "Manages the rosters kept by the reconciler service.",
	PersistentPreRun: requireClient,
}

var rosterPutCmd = &cobra.Command{
	Use:   "put <roster> <roster file>",
	Short: "Replaces the members of a roster with the contents of a json5 file.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		members, err := utils.ReadRoster(args[1])
		if err != nil {
			log.Fatal(err)
		}
		res, err := client.PutRoster(cmd.Context(), connect.NewRequest(&reconcilerv1.PutRosterRequest{
			Roster:  args[0],
			Members: members,
		}))
		if err != nil {
			log.Fatal(err)
		}
		cmd.Printf("stored %d members in %s\n", res.Msg.MemberCount, args[0])
	},
}

var rosterGetCmd = &cobra.Command{
	Use:   "get <roster>",
	Short: "Prints the members of a roster.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.GetRoster(cmd.Context(), connect.NewRequest(&reconcilerv1.GetRosterRequest{
			Roster: args[0],
		}))
		if err != nil {
			log.Fatal(err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Id", "Surname", "First name", "Other names", "Position"})
		for _, m := range res.Msg.Members {
			position := ""
			if m.KnownPosition > 0 {
				position = fmt.Sprint(m.KnownPosition)
			}
			t.AppendRow(table.Row{m.ID, m.Surname, m.FirstName, m.OtherNames, position})
		}
		t.Render()
	},
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every roster.",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := client.ListRosters(cmd.Context(), connect.NewRequest(&reconcilerv1.ListRostersRequest{}))
		if err != nil {
			log.Fatal(err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Roster", "Members", "Updated"})
		for _, r := range res.Msg.Rosters {
			t.AppendRow(table.Row{r.Name, r.MemberCount, r.UpdatedAt.Format(time.ANSIC)})
		}
		t.Render()
	},
}
