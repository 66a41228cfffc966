package cmd

import (
	"fmt"
	"net/http"
	"os"

	"churchledger-backend/api/reconciler/v1/reconcilerv1connect"
	"churchledger-backend/lib/serviceutil"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var (
	BaseUrl     string
	AccessToken string
)

var client reconcilerv1connect.ReconcilerServiceClient

var rootCmd = &cobra.Command{
	Use:   "reconciler-cli",
	Short: "reconciler-cli matches names read off ledger pages against a church roster.",
}

// requireClient is a PersistentPreRun for commands that talk to the
// reconciler service.
func requireClient(cmd *cobra.Command, args []string) {
	if BaseUrl == "" {
		fmt.Fprintln(os.Stderr, "You should specify the base url of the reconciler service in the environment variable RECONCILER_BASE_URL.")
		os.Exit(1)
	}
	client = reconcilerv1connect.NewReconcilerServiceClient(
		http.DefaultClient,
		BaseUrl,
		connect.WithInterceptors(serviceutil.ProvideAccessTokenInterceptor(AccessToken)),
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
