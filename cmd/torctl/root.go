// Package main provides the entry point for the torctl CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/torctl/torctl/internal/config"
	"github.com/torctl/torctl/internal/control"
	"github.com/torctl/torctl/internal/history"
	"github.com/torctl/torctl/internal/log"
	"github.com/torctl/torctl/internal/model"
	"github.com/torctl/torctl/internal/socket"
)

// NewRootCmd creates the root command for torctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torctl [flags] [command ...]",
		Short: "Command-line client for the Tor control protocol",
		Long: `torctl sends a batch of commands to a local Tor over one authenticated
control session: connect, authenticate, write the batch, QUIT, and read
everything the server answered.

The control endpoint is taken from --socket, or discovered from the
local Tor configuration (systemd unit, /etc/tor/torrc) when the flag is
empty. Authentication prefers the control cookie when it is readable
and falls back to the --password for HASHEDPASSWORD.

Examples:
  # One command, endpoint autodiscovered
  torctl -c "GETCONF SocksPort"

  # The command can also be given as plain arguments
  torctl GETINFO version

  # Several commands, paced one second apart
  torctl -t 1 -c "SIGNAL NEWNYM | GETINFO circuit-status"

  # Explicit endpoint and password
  torctl -s unix:/run/tor/control -p secret -c "SIGNAL RELOAD"`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags shared with the view subcommands.
	cmd.PersistentFlags().StringP("socket", "s", "",
		"Control socket: [unix:]path or [addr:]port (default: autodiscover)")
	cmd.PersistentFlags().StringP("password", "p", "",
		"Control password for HASHEDPASSWORD authentication")
	cmd.PersistentFlags().IntP("sleep", "t", 0,
		"Seconds to sleep after each command write")
	cmd.PersistentFlags().BoolP("quiet", "q", false,
		"Suppress the control reply on stdout")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .torctl.yaml in current, XDG config, or home directory)")

	// Flags of the root session itself.
	cmd.Flags().StringP("commands", "c", "",
		`Pipe-separated command batch (e.g. "SETCONF SocksPort=9055 | SIGNAL NEWNYM")`)
	cmd.Flags().BoolP("wait", "w", false,
		"Wait for one line on stdin before QUIT is sent")
	cmd.Flags().Bool("no-history", false,
		"Do not record this session in the history database")
	cmd.Flags().Bool("ask-password", false,
		"Prompt for the control password without echo")

	cmd.AddCommand(newCircuitsCmd())
	cmd.AddCommand(newStreamsCmd())
	cmd.AddCommand(newSocksCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the root command: one control session carrying
// the operator's command batch.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runSession(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config for the root session from cobra command
// flags and the positional arguments.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.Commands, err = cmd.Flags().GetString("commands"); err != nil {
		return nil, err
	}

	// Positional arguments form the command when -c is absent.
	if cfg.Commands == "" && len(args) > 0 {
		cfg.Commands = strings.Join(args, " ")
	}

	cfg.WaitConfirm, err = cmd.Flags().GetBool("wait")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.NoHistory = true
	}

	cfg.AskPassword, err = cmd.Flags().GetBool("ask-password")
	if err != nil {
		return nil, err
	}
	if cfg.AskPassword {
		if cfg.Password, err = readPassword("Control password: "); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// buildBaseConfig builds the configuration every command shares:
// defaults first, then the config file, then explicitly set flags.
func buildBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default search
	// silently settles for no file at all.
	explicit := cfg.ConfigFilePath != ""
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	if flags.Changed("socket") {
		if cfg.Socket, err = flags.GetString("socket"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("password") {
		if cfg.Password, err = flags.GetString("password"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("sleep") {
		seconds, err := flags.GetInt("sleep")
		if err != nil {
			return nil, err
		}
		cfg.Delay = time.Duration(seconds) * time.Second
	}
	if flags.Changed("quiet") {
		if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
			return nil, err
		}
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
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

// setupLogger creates a structured logger based on verbosity setting.
// Every handler is wrapped in the redacting handler so credentials
// never reach the terminal.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// resolveDescriptor resolves the configured socket specification, or
// discovers the endpoint from the local Tor configuration when none is
// given.
func resolveDescriptor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (socket.Descriptor, error) {
	desc, err := socket.Resolve(cfg.Socket)
	if err != nil {
		return socket.Descriptor{}, err
	}
	if desc != nil {
		return *desc, nil
	}
	return socket.Discover(ctx, socket.NewSystemLocator(), logger), nil
}

// newControlSession builds the production session from the config.
func newControlSession(cfg *config.Config, logger *slog.Logger, confirm io.Reader) (*control.Session, error) {
	opts := []control.SessionOption{
		control.WithPassword(cfg.Password),
		control.WithDelay(cfg.Delay),
		control.WithLogger(logger),
	}
	if confirm != nil {
		opts = append(opts, control.WithConfirm(confirm))
	}
	return control.NewSession(control.NewNetTransport(), opts...)
}

// runSession executes the command batch session and reports the
// classified outcome.
func runSession(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	desc, err := resolveDescriptor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("using control endpoint", "endpoint", desc.String())

	var confirm io.Reader
	if cfg.WaitConfirm {
		confirm = os.Stdin
	}
	session, err := newControlSession(cfg, logger, confirm)
	if err != nil {
		return err
	}

	batch := control.ParseBatch(cfg.Commands)
	start := time.Now()
	result, err := session.Run(ctx, desc, batch)
	elapsed := time.Since(start)

	if result != nil {
		recordSession(ctx, cfg, desc, batch, result, start, elapsed, logger)
		if !cfg.Quiet {
			fmt.Fprint(out, result.BatchReply())
		}
	}
	if err != nil {
		return remediate(err)
	}
	if !result.Succeeded() {
		return fmt.Errorf("control session failed: %d positive reply lines, expected 3", result.OKLineCount())
	}
	return nil
}

// remediate appends operator hints to well-known session errors.
func remediate(err error) error {
	switch {
	case errors.Is(err, control.ErrAuthNotConfigured):
		return fmt.Errorf("%w (generate the torrc value with \"torctl hash-password\")", err)
	case errors.Is(err, control.ErrAuthFailed):
		return fmt.Errorf("%w (check the control password; \"torctl hash-password\" regenerates the torrc value)", err)
	}
	return err
}

// recordSession stores the session in the history database. Recording
// is best effort: a failure is logged, never returned, so history
// problems cannot fail an otherwise healthy session.
func recordSession(ctx context.Context, cfg *config.Config, desc socket.Descriptor, batch control.CommandBatch, result *control.Result, start time.Time, elapsed time.Duration, logger *slog.Logger) {
	if cfg.NoHistory {
		return
	}

	db, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	record := &model.SessionRecord{
		Timestamp: start,
		Socket:    desc.String(),
		Commands:  batch,
		OKLines:   result.OKLineCount(),
		Succeeded: result.Succeeded(),
		Reply:     result.BatchReply(),
		Duration:  elapsed,
	}
	if _, err := db.SaveSession(ctx, record); err != nil {
		logger.Warn("failed to record session", "error", err)
		return
	}
	logger.Debug("session recorded", "database", db.Path())
}

// readPassword prompts for a password on the terminal without echo.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("cannot prompt for a password: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
