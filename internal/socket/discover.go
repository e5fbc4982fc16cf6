package socket

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
)

// verifyConfigTimeout bounds the tor --verify-config subprocess.
const verifyConfigTimeout = 5 * time.Second

// ConfigLocator returns candidate Tor configuration file paths in
// priority order. Implementations are best-effort: unreadable or missing
// files are simply not returned.
type ConfigLocator interface {
	Locate(ctx context.Context) []string
}

// SystemLocator finds Tor configuration files the way the host system
// starts Tor: systemd unit files first, then tor --verify-config output,
// then well-known torrc locations.
type SystemLocator struct {
	// UnitPaths are the systemd unit files scanned for ExecStart lines.
	UnitPaths []string

	// TorrcPaths are well-known configuration paths appended last.
	TorrcPaths []string

	// TorBinary is the tor executable consulted for --verify-config.
	// The step is skipped when the binary is not on PATH.
	TorBinary string
}

// NewSystemLocator returns a locator preloaded with the paths common
// Linux distributions use.
func NewSystemLocator() *SystemLocator {
	return &SystemLocator{
		UnitPaths: []string{
			"/lib/systemd/system/tor.service",
			"/lib/systemd/system/tor@default.service",
			"/usr/lib/systemd/system/tor.service",
			"/etc/systemd/system/tor.service",
		},
		TorrcPaths: []string{
			"/etc/tor/torrc",
			"/usr/local/etc/tor/torrc",
		},
		TorBinary: "tor",
	}
}

// Locate implements ConfigLocator. The returned paths keep the priority
// order unit files > verify-config output > defaults, with duplicates
// removed.
func (l *SystemLocator) Locate(ctx context.Context) []string {
	var paths []string
	for _, unit := range l.UnitPaths {
		paths = append(paths, execStartConfigs(unit)...)
	}
	paths = append(paths, l.verifyConfigPaths(ctx)...)
	paths = append(paths, l.TorrcPaths...)
	return dedupe(paths)
}

// execStartConfigs extracts -f and --defaults-torrc arguments from the
// ExecStart lines of a systemd unit file. The command line is split with
// POSIX shell word rules, matching how systemd parses it.
func execStartConfigs(unitPath string) []string {
	data, err := os.ReadFile(unitPath)
	if err != nil {
		return nil
	}

	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "ExecStart=") {
			continue
		}
		fields, err := shell.Fields(strings.TrimPrefix(line, "ExecStart="), nil)
		if err != nil {
			continue
		}
		for i, field := range fields {
			if (field == "-f" || field == "--defaults-torrc") && i+1 < len(fields) {
				paths = append(paths, fields[i+1])
			}
		}
	}
	return paths
}

// verifyConfigPaths asks the tor binary which configuration files it
// reads. Relevant output lines look like:
//
//	Read configuration file "/usr/share/tor/tor-service-defaults-torrc".
//
// A non-zero exit still produces those lines, so the output is parsed
// regardless of the command's verdict on the configuration.
func (l *SystemLocator) verifyConfigPaths(ctx context.Context) []string {
	if l.TorBinary == "" {
		return nil
	}
	bin, err := exec.LookPath(l.TorBinary)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, verifyConfigTimeout)
	defer cancel()
	out, _ := exec.CommandContext(ctx, bin, "--verify-config").CombinedOutput()

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		_, rest, ok := strings.Cut(line, `Read configuration file "`)
		if !ok {
			continue
		}
		if path, _, ok := strings.Cut(rest, `"`); ok && path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// controlDirective scans one Tor configuration file for the first
// ControlPort or ControlSocket directive and returns its value.
// Directive names are matched case-insensitively, as Tor does.
func controlDirective(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.EqualFold(fields[0], "ControlPort") || strings.EqualFold(fields[0], "ControlSocket") {
			return strings.Trim(fields[1], `"`), true
		}
	}
	return "", false
}

// Discover returns the control endpoint of the locally running Tor.
//
// The locator's configuration files are scanned in order for a
// ControlPort or ControlSocket directive; the first match wins and its
// value is resolved like an operator-supplied specification. When no
// directive is found, or the found value does not resolve, discovery
// falls through to DefaultDescriptor. Discovery is best-effort and
// never fails.
func Discover(ctx context.Context, locator ConfigLocator, logger *slog.Logger) Descriptor {
	for _, path := range locator.Locate(ctx) {
		value, ok := controlDirective(path)
		if !ok {
			continue
		}
		logger.Debug("found control directive", "config", path, "value", value)

		desc, err := Resolve(value)
		if err != nil {
			logger.Debug("discovered endpoint is unusable, using default", "value", value, "error", err)
			break
		}
		if desc != nil {
			return *desc
		}
		break
	}
	return DefaultDescriptor()
}

// dedupe removes duplicate paths, keeping first occurrences in order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
