package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/torctl/torctl/internal/model"
)

// DB provides SQLite-based storage for control session history.
// One database file holds every session regardless of endpoint, which
// keeps review queries and cleanup simple.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in the given directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dir, "torctl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection
	// avoids lock contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *DB) Close() error {
	return hdb.db.Close()
}

// Path returns the location of the database file.
func (hdb *DB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *DB) createTables() error {
	schema := `
	-- Each row is one completed control session.
	CREATE TABLE IF NOT EXISTS control_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		socket TEXT NOT NULL,
		commands TEXT NOT NULL,
		ok_lines INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		reply TEXT,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON control_sessions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_sessions_socket ON control_sessions(socket);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSession inserts a completed session and returns its row ID.
// Commands are stored as a JSON array, exactly as typed by the operator.
func (hdb *DB) SaveSession(ctx context.Context, record *model.SessionRecord) (int64, error) {
	commandsJSON, err := json.Marshal(record.Commands)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize commands: %w", err)
	}

	query := `
	INSERT INTO control_sessions (timestamp, socket, commands, ok_lines, succeeded, reply, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		record.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		record.Socket,
		string(commandsJSON),
		record.OKLines,
		record.Succeeded,
		record.Reply,
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save session: %w", err)
	}

	return result.LastInsertId()
}

// RecentSessions returns the most recent sessions, newest first.
// A non-positive limit returns nothing.
func (hdb *DB) RecentSessions(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
	SELECT id, timestamp, socket, commands, ok_lines, succeeded, reply, duration_ms
	FROM control_sessions
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []model.SessionRecord
	for rows.Next() {
		var (
			record       model.SessionRecord
			timestamp    string
			commandsJSON string
			reply        sql.NullString
			durationMS   int64
		)

		err := rows.Scan(
			&record.ID,
			&timestamp,
			&record.Socket,
			&commandsJSON,
			&record.OKLines,
			&record.Succeeded,
			&reply,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		record.Timestamp = parseTimestamp(timestamp)
		record.Reply = reply.String
		record.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(commandsJSON), &record.Commands); err != nil {
			// A malformed row should not hide the rest of the history.
			record.Commands = nil
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Session returns one session by row ID, or nil when it does not exist.
func (hdb *DB) Session(ctx context.Context, id int64) (*model.SessionRecord, error) {
	query := `
	SELECT id, timestamp, socket, commands, ok_lines, succeeded, reply, duration_ms
	FROM control_sessions
	WHERE id = ?
	`

	var (
		record       model.SessionRecord
		timestamp    string
		commandsJSON string
		reply        sql.NullString
		durationMS   int64
	)

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&timestamp,
		&record.Socket,
		&commandsJSON,
		&record.OKLines,
		&record.Succeeded,
		&reply,
		&durationMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	record.Timestamp = parseTimestamp(timestamp)
	record.Reply = reply.String
	record.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(commandsJSON), &record.Commands); err != nil {
		record.Commands = nil
	}

	return &record, nil
}

// Clear removes every recorded session and returns how many were deleted.
func (hdb *DB) Clear(ctx context.Context) (int64, error) {
	result, err := hdb.db.ExecContext(ctx, "DELETE FROM control_sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
