package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/cosmos/ibc-lightclients/cmd/lightclientd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(rootCmd.OutOrStderr()).Error("failure when running lightclientd", "err", err)
		os.Exit(1)
	}
}
