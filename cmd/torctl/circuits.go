package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/report"
	"github.com/torctl/torctl/internal/view"
)

// newCircuitsCmd creates the circuits command.
func newCircuitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuits",
		Short: "Show open circuits with their relays",
		Long: `Circuits lists the open circuits of the local Tor.

Each circuit is shown with its status, purpose, and path. Paths are
truncated to the first three hops, and every hop of a built circuit is
resolved against the network directory so the listing carries relay
nicknames, addresses, flags, and bandwidth instead of bare
fingerprints.

Examples:
  # Human-readable circuit listing
  torctl circuits

  # Include build flags, creation times, and bandwidth
  torctl circuits --verbose

  # Machine-readable output
  torctl circuits --json

  # Markdown report written to a file
  torctl circuits --markdown --output circuits.md`,
		Args: cobra.NoArgs,
		RunE: runCircuitsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output the view as indented JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the view as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the view to the specified file path (creates directories if needed)")

	return cmd
}

// runCircuitsCmd executes the circuits command.
func runCircuitsCmd(cmd *cobra.Command, _ []string) error {
	return runView(cmd, func(ctx context.Context, client *view.Client, w report.Writer) error {
		circuits, err := client.Circuits(ctx)
		if err != nil {
			return err
		}
		_, err = w.WriteCircuits(circuits)
		return err
	})
}
