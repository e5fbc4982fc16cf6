package main

import (
	"testing"
)

// TestNewSocksCmd tests the socks command creation.
func TestNewSocksCmd(t *testing.T) {
	t.Parallel()

	cmd := newSocksCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "socks" {
			t.Errorf("expected use 'socks', got %q", cmd.Use)
		}
	})

	t.Run("has check flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("check")
		if flag == nil {
			t.Fatal("expected check flag")
		}
		if flag.Shorthand != "" {
			t.Errorf("expected no shorthand, got %q", flag.Shorthand)
		}
	})

	t.Run("has format flags", func(t *testing.T) {
		t.Parallel()
		for name, shorthand := range map[string]string{
			"json":     "j",
			"markdown": "m",
		} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("expected %s flag", name)
			}
			if flag.Shorthand != shorthand {
				t.Errorf("expected %s shorthand %q, got %q", name, shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has no output flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("output") != nil {
			t.Error("expected the socks command to write to stdout only")
		}
	})
}
