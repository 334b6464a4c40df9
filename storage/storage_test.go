package storage

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndGetSessions(t *testing.T) {
	db := openTestDB(t)

	records := []Session{
		{App: "com.apple.Safari", Terminal: "ghostty", Outcome: "committed", CharsIn: 10, CharsOut: 24, DurationMs: 4200},
		{App: "com.apple.Notes", Terminal: "ghostty", Outcome: "discarded", CharsIn: 8, CharsOut: 0, DurationMs: 1500},
		{App: "com.apple.Mail", Terminal: "wezterm", Outcome: "failed", CharsIn: 0, CharsOut: 0, DurationMs: 300, Error: "terminal not installed"},
	}
	for i := range records {
		if err := db.SaveSession(&records[i]); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
		if records[i].ID == 0 {
			t.Error("SaveSession did not backfill the ID")
		}
	}

	count, err := db.GetSessionCount()
	if err != nil {
		t.Fatalf("GetSessionCount: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	got, err := db.GetSessions(10, 0)
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3", len(got))
	}
	byID := map[int64]Session{}
	for _, s := range got {
		byID[s.ID] = s
	}
	failed := byID[records[2].ID]
	if failed.Outcome != "failed" || failed.Error != "terminal not installed" {
		t.Errorf("failed session round-trip = %+v", failed)
	}
	committed := byID[records[0].ID]
	if committed.CharsIn != 10 || committed.CharsOut != 24 || committed.DurationMs != 4200 {
		t.Errorf("committed session round-trip = %+v", committed)
	}
}

func TestGetSessionsPagination(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		s := Session{App: "com.apple.Notes", Terminal: "ghostty", Outcome: "committed", CharsIn: i}
		if err := db.SaveSession(&s); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	page, err := db.GetSessions(2, 0)
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("first page has %d rows, want 2", len(page))
	}

	rest, err := db.GetSessions(10, 4)
	if err != nil {
		t.Fatalf("GetSessions: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("offset page has %d rows, want 1", len(rest))
	}
}

func TestDeleteSession(t *testing.T) {
	db := openTestDB(t)

	s := Session{App: "com.apple.Notes", Terminal: "ghostty", Outcome: "committed"}
	if err := db.SaveSession(&s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if err := db.DeleteSession(s.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	count, _ := db.GetSessionCount()
	if count != 0 {
		t.Errorf("count = %d after delete, want 0", count)
	}

	if err := db.DeleteSession(s.ID); err == nil {
		t.Error("DeleteSession succeeded for a missing row")
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)

	seed := []Session{
		{App: "a", Terminal: "ghostty", Outcome: "committed", CharsIn: 10, CharsOut: 20, DurationMs: 100},
		{App: "a", Terminal: "ghostty", Outcome: "committed", CharsIn: 5, CharsOut: 5, DurationMs: 300},
		{App: "b", Terminal: "kitty", Outcome: "discarded", CharsIn: 7, DurationMs: 200},
		{App: "b", Terminal: "kitty", Outcome: "failed", DurationMs: 0, Error: "no text selected"},
	}
	for i := range seed {
		if err := db.SaveSession(&seed[i]); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	overall, err := db.GetOverallStats(30)
	if err != nil {
		t.Fatalf("GetOverallStats: %v", err)
	}
	if overall.TotalSessions != 4 {
		t.Errorf("total = %d, want 4", overall.TotalSessions)
	}
	if overall.CommittedCount != 2 || overall.DiscardedCount != 1 || overall.FailedCount != 1 {
		t.Errorf("outcome counts = %d/%d/%d, want 2/1/1",
			overall.CommittedCount, overall.DiscardedCount, overall.FailedCount)
	}
	if overall.TotalCharsIn != 22 || overall.TotalCharsOut != 25 {
		t.Errorf("chars in/out = %d/%d, want 22/25", overall.TotalCharsIn, overall.TotalCharsOut)
	}
	if overall.AvgDurationMs != 150 {
		t.Errorf("avg duration = %v, want 150", overall.AvgDurationMs)
	}

	daily, err := db.GetDailyStats(30)
	if err != nil {
		t.Fatalf("GetDailyStats: %v", err)
	}
	if len(daily) != 1 {
		t.Fatalf("daily buckets = %d, want 1", len(daily))
	}
	if daily[0].TotalSessions != 4 || daily[0].CommittedCount != 2 {
		t.Errorf("daily bucket = %+v", daily[0])
	}
}

func TestOverallStatsEmptyDB(t *testing.T) {
	db := openTestDB(t)

	overall, err := db.GetOverallStats(30)
	if err != nil {
		t.Fatalf("GetOverallStats: %v", err)
	}
	if overall.TotalSessions != 0 || overall.AvgDurationMs != 0 {
		t.Errorf("stats on empty db = %+v, want zeros", overall)
	}
}
