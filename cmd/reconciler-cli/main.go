package main

import (
	"os"

	"churchledger-backend/cmd/reconciler-cli/cmd"
)

func main() {
	cmd.BaseUrl = os.Getenv("RECONCILER_BASE_URL")
	cmd.AccessToken = os.Getenv("RECONCILER_ACCESS_TOKEN")
	cmd.Execute()
}
