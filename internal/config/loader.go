package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".torctl.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the .torctl.yaml configuration file. Every key is
// optional; absent keys leave the corresponding Config field untouched.
type File struct {
	// Socket is the control socket specification.
	Socket string `yaml:"socket,omitempty"`

	// Password is the control password. Storing it here trades safety
	// for convenience; the file should be mode 0600.
	Password string `yaml:"password,omitempty"`

	// Delay is the inter-command sleep in seconds.
	Delay int `yaml:"delay,omitempty"`

	// Quiet suppresses the batch reply on stdout.
	Quiet bool `yaml:"quiet,omitempty"`

	// History enables session recording. Defaults to true.
	History bool `yaml:"history,omitempty"`

	// LookupConcurrency bounds concurrent relay lookups in views.
	LookupConcurrency int `yaml:"lookup_concurrency,omitempty"`
}

// LoadFile merges the YAML file at path into the config. Keys the file
// does not mention keep their current values, so flag and default
// precedence survives the merge. A missing file is ErrConfigNotFound;
// callers decide whether that matters based on whether the path was
// explicit.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}

	// Seed the file struct with the current values so yaml.Unmarshal
	// only overwrites keys actually present in the document.
	f := File{
		Socket:            c.Socket,
		Password:          c.Password,
		Delay:             int(c.Delay / time.Second),
		Quiet:             c.Quiet,
		History:           !c.NoHistory,
		LookupConcurrency: c.LookupConcurrency,
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.Socket = f.Socket
	c.Password = f.Password
	c.Delay = time.Duration(f.Delay) * time.Second
	c.Quiet = f.Quiet
	c.NoHistory = !f.History
	c.LookupConcurrency = f.LookupConcurrency
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .torctl.yaml in the current directory
// 3. Look for .torctl.yaml in the XDG config directory
// 4. Look for .torctl.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
