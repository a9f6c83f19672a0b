package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for storeeda.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storeeda",
		Short: "Exploratory report generator for electronics store sales data",
		Long: `storeeda reads an electronics store's sales CSV and writes a one-pass
exploratory data analysis report with a chart for every question asked of
the data.

Reports can be written as plain text, Markdown, JSON, an interactive HTML
dashboard, or styled terminal output. Every run is recorded in a local
history database so changes to a dataset can be spotted later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
