package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/config"
)

//go:embed templates/torctl.yaml
var configTemplate embed.FS

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new torctl configuration file",
		Long: `Init creates a new .torctl.yaml configuration file in the current
directory.

The generated file documents every supported key: the control socket,
the control password, the inter-command sleep, quiet mode, history
recording, and the relay lookup concurrency. All keys start commented
out, so a fresh file changes nothing until edited.

Examples:
  # Create .torctl.yaml in the current directory
  torctl init

  # Create the file at a specific path
  torctl init -o ~/.config/torctl/.torctl.yaml

  # Force overwrite an existing file
  torctl init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
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

	content, err := configTemplate.ReadFile("templates/torctl.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file may hold a control password, so it is owner-only.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The control socket ([unix:]path or [addr:]port)")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The control password for HASHEDPASSWORD authentication")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The pause between batch commands")

	return nil
}
