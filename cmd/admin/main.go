package main

import (
	"os"

	"github.com/eehealth/api/cmd/admin/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Maintenance tools for the progress and streak store",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.StreaksCmd())
	rootCmd.AddCommand(cmd.SummaryCmd())
	rootCmd.AddCommand(cmd.RecomputeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
