// Package config provides configuration structures and utilities for torctl.
// It defines the session options shared by every command, the optional
// .torctl.yaml file that persists them, and the search order for that file.
package config
