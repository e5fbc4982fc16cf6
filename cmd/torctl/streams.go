package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/report"
	"github.com/torctl/torctl/internal/view"
)

// newStreamsCmd creates the streams command.
func newStreamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams",
		Short: "Show application streams and their exit relays",
		Long: `Streams lists the application streams of the local Tor.

Each stream is shown with its status, target, and the circuit carrying
it. Attached streams are joined against the circuit listing so the
view names the exit relay the traffic leaves through.

Examples:
  # Human-readable stream listing
  torctl streams

  # Machine-readable output
  torctl streams --json

  # Markdown report written to a file
  torctl streams --markdown --output streams.md`,
		Args: cobra.NoArgs,
		RunE: runStreamsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output the view as indented JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the view as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the view to the specified file path (creates directories if needed)")

	return cmd
}

// runStreamsCmd executes the streams command.
func runStreamsCmd(cmd *cobra.Command, _ []string) error {
	return runView(cmd, func(ctx context.Context, client *view.Client, w report.Writer) error {
		streams, err := client.Streams(ctx)
		if err != nil {
			return err
		}
		_, err = w.WriteStreams(streams)
		return err
	})
}
