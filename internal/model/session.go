package model

import "time"

// SessionRecord is one completed control session as stored in the
// history database.
type SessionRecord struct {
	// ID is the database row identifier, zero before the record is saved.
	ID int64 `json:"id"`

	// Timestamp is when the session started.
	Timestamp time.Time `json:"timestamp"`

	// Socket is the control endpoint the session connected to,
	// in resolver notation (unix:/path or address:port).
	Socket string `json:"socket"`

	// Commands is the command batch as typed by the operator.
	// Authentication lines are never recorded.
	Commands []string `json:"commands"`

	// OKLines is the number of positive-completion reply lines observed.
	OKLines int `json:"ok_lines"`

	// Succeeded is the classifier verdict for the session.
	Succeeded bool `json:"succeeded"`

	// Reply is the batch reply shown to the operator.
	Reply string `json:"reply,omitempty"`

	// Duration is the wall-clock time from connect to drain.
	Duration time.Duration `json:"duration"`
}
