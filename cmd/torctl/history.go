package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/config"
	"github.com/torctl/torctl/internal/history"
	"github.com/torctl/torctl/internal/model"
)

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past control sessions",
		Long: `History lists the control sessions recorded by previous torctl runs.

Sessions are stored in a SQLite database under the XDG data directory
and shown newest first: when the session ran, which endpoint it talked
to, whether it was classified successful, and the commands it carried.
Passwords and authentication payloads are never recorded.

Examples:
  # Show the most recent sessions
  torctl history

  # Show the last five sessions
  torctl history --limit 5

  # Machine-readable output
  torctl history --json

  # Delete all recorded sessions
  torctl history --clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of sessions to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output the sessions as indented JSON")
	cmd.Flags().Bool("clear", false,
		"Delete all recorded sessions")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

	db, err := history.Open(config.XDGDataDir(), history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if clearAll {
		n, err := db.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d session(s).\n", n)
		return nil
	}

	records, err := db.RecentSessions(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if jsonOutput {
		return writeSessionJSON(cmd.OutOrStdout(), records)
	}
	writeSessionList(cmd.OutOrStdout(), records)
	return nil
}

// writeSessionList renders the records as one block per session,
// newest first.
func writeSessionList(w io.Writer, records []model.SessionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}

	for _, record := range records {
		verdict := "failed"
		if record.Succeeded {
			verdict = "ok"
		}
		fmt.Fprintf(w, "%-4d %s  %s  %-6s %s\n",
			record.ID,
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.Socket,
			verdict,
			record.Duration.Round(time.Millisecond),
		)
		fmt.Fprintf(w, "     %s\n", strings.Join(record.Commands, " | "))
	}
}

// writeSessionJSON renders the records as indented JSON. An empty
// history is an empty array, not null.
func writeSessionJSON(w io.Writer, records []model.SessionRecord) error {
	if records == nil {
		records = []model.SessionRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
