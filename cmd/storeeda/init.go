package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/storeeda/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a storeeda configuration file",
		Long: `Init writes a commented .storeeda configuration file.

The generated file includes:
- The default dataset path
- Report title, authors, description and spend-by-gender mode
- Chart directory, format and size
- Commented examples of per-section heading, caption and colour overrides

Examples:
  # Create .storeeda in current directory
  storeeda init

  # Create config file at a specific path
  storeeda init -o myconfig.yaml

  # Force overwrite existing file
  storeeda init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, config.Template, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change:")
	fmt.Fprintln(out, "  - The dataset read when no path is given")
	fmt.Fprintln(out, "  - Report title, authors and description")
	fmt.Fprintln(out, "  - Chart output, and per-section text and colours")

	return nil
}
