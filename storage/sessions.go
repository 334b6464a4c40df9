package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Session is one recorded edit session.
type Session struct {
	ID         int64
	Timestamp  time.Time
	App        string
	Terminal   string
	Outcome    string
	CharsIn    int
	CharsOut   int
	DurationMs int64
	Error      string
}

// SaveSession saves a session record to the database
func (db *DB) SaveSession(s *Session) error {
	query := `
		INSERT INTO sessions (
			app, terminal, outcome, chars_in, chars_out, duration_ms, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		s.App, s.Terminal, s.Outcome, s.CharsIn, s.CharsOut, s.DurationMs, s.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.ID = id
	return nil
}

// GetSessions retrieves session records with pagination
func (db *DB) GetSessions(limit, offset int) ([]Session, error) {
	query := `
		SELECT id, timestamp, app, terminal, outcome, chars_in, chars_out, duration_ms, error_message
		FROM sessions
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var errorMessage sql.NullString

		err := rows.Scan(
			&s.ID, &s.Timestamp, &s.App, &s.Terminal, &s.Outcome,
			&s.CharsIn, &s.CharsOut, &s.DurationMs, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if errorMessage.Valid {
			s.Error = errorMessage.String
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// DeleteSession deletes a session record by ID
func (db *DB) DeleteSession(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// GetSessionCount returns the total number of recorded sessions
func (db *DB) GetSessionCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}
