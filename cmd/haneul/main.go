package main

import (
	"os"

	"github.com/spf13/cobra"

	"haneul/internal/interfaces/cli/migrate"
	"haneul/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "haneul",
		Short: "Haneul - clinic entitlement ledger",
		Long:  `Haneul tracks prepaid treatment entitlements and reconciles out-of-pocket billing lines against them.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
