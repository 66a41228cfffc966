package cmd

import (
	"log"

	"churchledger-backend/cmd/reconciler-cli/utils"
	"churchledger-backend/lib/configutil"
	"churchledger-backend/services/reconcile"
	"churchledger-backend/services/reconciler"

	"github.com/spf13/cobra"
)

var (
	localCulture     string
	localAccept      float64
	localReview      float64
	localAliasesPath string
)

func init() {
	localCmd.Flags().StringVar(&localCulture, "culture", "ghanaian", "naming culture, ghanaian or generic")
	localCmd.Flags().Float64Var(&localAccept, "accept", reconcile.DefaultAcceptThreshold, "lowest score reported as a match")
	localCmd.Flags().Float64Var(&localReview, "review", reconcile.DefaultReviewThreshold, "confidence below which a match is flagged for review")
	localCmd.Flags().StringVar(&localAliasesPath, "aliases", "", "json5 object of confirmed noisy name to member id")
	rootCmd.AddCommand(localCmd)
}

var localCmd = &cobra.Command{
	Use:   "local <roster file> <names file>",
	Short: "Reconciles names against a roster file without a running service.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		roster, err := utils.ReadRoster(args[0])
		if err != nil {
			log.Fatal(err)
		}
		names, err := utils.ReadNames(args[1])
		if err != nil {
			log.Fatal(err)
		}
		culture, err := reconciler.ParseCulture(localCulture)
		if err != nil {
			log.Fatal(err)
		}

		var aliases reconcile.AliasMap
		if localAliasesPath != "" {
			raw, err := configutil.ReadFile[map[string]string](localAliasesPath)
			if err != nil {
				log.Fatal(err)
			}
			aliases = make(reconcile.AliasMap, len(raw))
			for name, id := range raw {
				aliases[reconcile.NormalizeAlias(name)] = id
			}
		}

		results := reconcile.Reconcile(names, roster, reconcile.Options{
			Aliases:         aliases,
			Culture:         culture,
			AcceptThreshold: localAccept,
		})
		err = reconcile.CheckUnique(results)
		if err != nil {
			log.Fatal(err)
		}
		utils.PrintResults(results, reconcile.NewGate(localReview))
	},
}
