package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/torctl/torctl/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testRecord returns a populated session record for insertion.
func testRecord(commands ...string) *model.SessionRecord {
	return &model.SessionRecord{
		Timestamp: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Socket:    "127.0.0.1:9051",
		Commands:  commands,
		OKLines:   3,
		Succeeded: true,
		Reply:     "250 SocksPort=9050",
		Duration:  1200 * time.Millisecond,
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dir, "torctl.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dir, "torctl.db") {
			t.Errorf("Path() = %q, expected the torctl.db location", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		_, err := Open(filepath.Join(t.TempDir(), "nonexistent"), opts)
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveSession(context.Background(), testRecord("GETINFO version")); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer reopened.Close()

		records, err := reopened.RecentSessions(context.Background(), 10)
		if err != nil {
			t.Fatalf("failed to read sessions: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("got %d sessions after reopen, expected 1", len(records))
		}
	})
}

// TestSaveSession tests inserting and reading back a session.
func TestSaveSession(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.SaveSession(ctx, testRecord("GETCONF SocksPort", "GETINFO version"))
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveSession() id = %d, expected positive row ID", id)
	}

	got, err := db.Session(ctx, id)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if got == nil {
		t.Fatal("Session() = nil, expected the saved record")
	}

	if got.Socket != "127.0.0.1:9051" {
		t.Errorf("Socket = %q, expected %q", got.Socket, "127.0.0.1:9051")
	}
	if len(got.Commands) != 2 || got.Commands[0] != "GETCONF SocksPort" {
		t.Errorf("Commands = %v, expected the stored batch", got.Commands)
	}
	if got.OKLines != 3 {
		t.Errorf("OKLines = %d, expected 3", got.OKLines)
	}
	if !got.Succeeded {
		t.Error("Succeeded = false, expected true")
	}
	if got.Reply != "250 SocksPort=9050" {
		t.Errorf("Reply = %q, expected the stored reply", got.Reply)
	}
	if got.Duration != 1200*time.Millisecond {
		t.Errorf("Duration = %v, expected 1.2s", got.Duration)
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp is zero, expected the stored time")
	}
}

// TestSessionNotFound tests the nil return for unknown IDs.
func TestSessionNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	got, err := db.Session(context.Background(), 424242)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if got != nil {
		t.Errorf("Session() = %+v, expected nil for an unknown ID", got)
	}
}

// TestRecentSessions tests ordering and the limit.
func TestRecentSessions(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		record := testRecord("GETINFO version")
		record.Timestamp = base.Add(time.Duration(i) * time.Minute)
		record.OKLines = i
		if _, err := db.SaveSession(ctx, record); err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := db.RecentSessions(ctx, 3)
		if err != nil {
			t.Fatalf("RecentSessions() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("got %d sessions, expected 3", len(records))
		}
		if records[0].OKLines != 4 || records[2].OKLines != 2 {
			t.Errorf("unexpected ordering: got ok_lines %d,%d,%d, expected 4,3,2",
				records[0].OKLines, records[1].OKLines, records[2].OKLines)
		}
	})

	t.Run("non-positive limit returns nothing", func(t *testing.T) {
		records, err := db.RecentSessions(ctx, 0)
		if err != nil {
			t.Fatalf("RecentSessions() error = %v", err)
		}
		if records != nil {
			t.Errorf("got %v, expected nil", records)
		}
	})
}

// TestClear tests wiping the history.
func TestClear(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for range 3 {
		if _, err := db.SaveSession(ctx, testRecord("SIGNAL NEWNYM")); err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}
	}

	deleted, err := db.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("Clear() = %d, expected 3 deleted rows", deleted)
	}

	records, err := db.RecentSessions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSessions() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d sessions after clear, expected 0", len(records))
	}
}

// TestParseTimestamp tests the SQLite timestamp format fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "sqlite default", input: "2026-03-14 15:09:26", valid: true},
		{name: "iso with zone", input: "2026-03-14T15:09:26Z", valid: true},
		{name: "rfc3339", input: "2026-03-14T15:09:26+09:00", valid: true},
		{name: "garbage", input: "not a timestamp", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tc.input)
			if tc.valid && got.IsZero() {
				t.Errorf("parseTimestamp(%q) returned zero time", tc.input)
			}
			if !tc.valid && !got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v, expected zero time", tc.input, got)
			}
		})
	}
}
