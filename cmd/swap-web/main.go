package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winnersswap/swap-web/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swap-web",
		Short: "Winners swap web front end",
		Long:  "swap-web serves the Winners swap login page and navigation shell.",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "swap-web %s (%s, %s)\n", build.Version, build.Commit, build.Branch)
		},
	}
}
