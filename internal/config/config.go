package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the conventions of a stock
// Tor install where applicable.
const (
	// DefaultCommandDelay is the pause between batch commands. Zero
	// sends commands back to back; operators raise it when a command
	// needs time to take effect before the next one (SIGNAL NEWNYM
	// followed by a GETINFO, for example).
	DefaultCommandDelay = 0 * time.Second

	// DefaultLookupConcurrency bounds the concurrent ns/id/ directory
	// lookups issued while decorating circuit and stream views. Four
	// keeps a busy relay list fast without hammering the control port.
	DefaultLookupConcurrency = 4

	// DefaultHistoryLimit is how many past sessions the history
	// command shows when --limit is not given.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "torctl"
)

// Config holds all configuration options for torctl.
// It is populated from the config file and CLI flags, then passed
// through the application via dependency injection rather than global
// state. Flags win over file values, which win over defaults.
type Config struct {
	// Commands is the raw control command batch, pipe-separated.
	// Populated from --commands or the joined positional arguments.
	Commands string

	// Socket is the control socket specification: [unix:]path or
	// [addr:]port. Empty means discover the endpoint from the local
	// Tor configuration, falling back to the conventional
	// 127.0.0.1:9051.
	Socket string

	// Password is the control password for HASHEDPASSWORD
	// authentication. Ignored when the server offers a readable
	// cookie file.
	Password string

	// AskPassword prompts for the control password on the terminal
	// instead of taking it from the flag or config file.
	AskPassword bool

	// Delay is the pause inserted after each batch command write.
	Delay time.Duration

	// WaitConfirm blocks for one line on stdin before QUIT is sent,
	// keeping the control connection open for inspection.
	WaitConfirm bool

	// Quiet suppresses the batch reply on stdout. The exit code still
	// reports the session outcome.
	Quiet bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .torctl.yaml in the current
	// directory, the XDG config directory, and the home directory.
	ConfigFilePath string

	// NoHistory disables recording this session in the history
	// database.
	NoHistory bool

	// HistoryDir is the directory holding the session history
	// database. Defaults to the XDG data directory.
	HistoryDir string

	// HistoryLimit is how many sessions the history command lists.
	HistoryLimit int

	// LookupConcurrency bounds concurrent relay lookups in the
	// circuits and streams views.
	LookupConcurrency int

	// JSONReport switches view output to indented JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport switches view output to GitHub Flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for view output. When set,
	// the view is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values. All fields are
// set to safe defaults that talk to a stock local Tor; callers override
// specific values after creation.
func NewConfig() *Config {
	return &Config{
		Delay:             DefaultCommandDelay,
		HistoryDir:        XDGDataDir(),
		HistoryLimit:      DefaultHistoryLimit,
		LookupConcurrency: DefaultLookupConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for torctl.
// On Linux: ~/.local/share/torctl
// On macOS: ~/Library/Application Support/torctl
// On Windows: %LOCALAPPDATA%\torctl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for torctl.
// On Linux: ~/.config/torctl
// On macOS: ~/Library/Application Support/torctl
// On Windows: %APPDATA%\torctl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns a specific
// error describing the first problem found. It is called once after
// flag parsing, before any connection is attempted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Commands) == "" {
		return ErrNoCommand
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.LookupConcurrency <= 0 {
		return ErrInvalidLookupConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
