package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/report"
	"github.com/torctl/torctl/internal/view"
)

// newSocksCmd creates the socks command.
func newSocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "socks",
		Short: "Show the SOCKS listeners Tor advertises",
		Long: `Socks lists the SOCKS listeners of the local Tor as reported over the
control port.

With --check, every TCP listener is probed with a real SOCKS5
negotiation: an answer of any kind, including a refusal, marks the
listener ok, while a failed connect marks it unreachable. Unix domain
listeners are listed but not probed.

Examples:
  # List advertised listeners
  torctl socks

  # Probe each TCP listener
  torctl socks --check

  # Machine-readable output
  torctl socks --check --json`,
		Args: cobra.NoArgs,
		RunE: runSocksCmd,
	}

	cmd.Flags().Bool("check", false,
		"Probe each TCP listener with a SOCKS5 negotiation")
	cmd.Flags().BoolP("json", "j", false,
		"Output the view as indented JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the view as Markdown (mutually exclusive with --json)")

	return cmd
}

// runSocksCmd executes the socks command.
func runSocksCmd(cmd *cobra.Command, _ []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}

	return runView(cmd, func(ctx context.Context, client *view.Client, w report.Writer) error {
		listeners, err := client.Listeners(ctx, check)
		if err != nil {
			return err
		}
		_, err = w.WriteListeners(listeners)
		return err
	})
}
