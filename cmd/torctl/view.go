package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/config"
	"github.com/torctl/torctl/internal/report"
	"github.com/torctl/torctl/internal/view"
)

// viewFunc fetches one derived view and renders it through the writer.
type viewFunc func(ctx context.Context, client *view.Client, w report.Writer) error

// runView wires the plumbing every view subcommand shares: config,
// logger, signal handling, endpoint resolution, the session-backed view
// client, and the output writer.
func runView(cmd *cobra.Command, fn viewFunc) error {
	cfg, err := buildViewConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}
	if cfg.LookupConcurrency <= 0 {
		return config.ErrInvalidLookupConcurrency
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	desc, err := resolveDescriptor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("using control endpoint", "endpoint", desc.String())

	session, err := newControlSession(cfg, logger, nil)
	if err != nil {
		return err
	}
	client, err := view.NewClient(session, desc,
		view.WithLookupLimit(cfg.LookupConcurrency),
		view.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	output, closeOutput, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := fn(ctx, client, newViewWriter(cfg, output)); err != nil {
		return remediate(err)
	}
	return nil
}

// buildViewConfig builds the configuration for a view subcommand: the
// shared base plus the output format flags.
func buildViewConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("output") != nil {
		if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newViewWriter picks the report writer for the configured format.
func newViewWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns the view output destination: the report file when
// one is configured, the fallback writer otherwise. The returned func
// closes the file.
func openOutput(cfg *config.Config, fallback io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return fallback, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Views can carry endpoint details, so the file is owner-only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
