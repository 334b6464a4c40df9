package storage

import (
	"fmt"
)

// DailyStats represents session statistics for a single day
type DailyStats struct {
	Date           string
	TotalSessions  int
	CommittedCount int
	DiscardedCount int
	FailedCount    int
	TotalCharsOut  int
}

// OverallStats represents overall session statistics
type OverallStats struct {
	TotalSessions  int
	CommittedCount int
	DiscardedCount int
	FailedCount    int
	TotalCharsIn   int
	TotalCharsOut  int
	AvgDurationMs  float64
}

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as total_sessions,
			SUM(CASE WHEN outcome = 'committed' THEN 1 ELSE 0 END) as committed_count,
			SUM(CASE WHEN outcome = 'discarded' THEN 1 ELSE 0 END) as discarded_count,
			SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END) as failed_count,
			SUM(chars_out) as total_chars_out
		FROM sessions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		err := rows.Scan(&s.Date, &s.TotalSessions, &s.CommittedCount, &s.DiscardedCount, &s.FailedCount, &s.TotalCharsOut)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOverallStats retrieves aggregate statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'committed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'discarded' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(chars_in), 0),
			COALESCE(SUM(chars_out), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM sessions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var s OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&s.TotalSessions, &s.CommittedCount, &s.DiscardedCount, &s.FailedCount,
		&s.TotalCharsIn, &s.TotalCharsOut, &s.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &s, nil
}
