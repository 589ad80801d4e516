package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.CredentialRepo().Set(context.Background(), KeyCode, "MTK01"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.CredentialRepo().Get(context.Background(), KeyCode)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "MTK01" {
		t.Errorf("code = %q, want MTK01", got)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if i > 0 && n != prev+1 {
			t.Errorf("sequence %d = %d, want %d", i, n, prev+1)
		}
		prev = n
	}
}

func TestCredentialRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.CredentialRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if got != "" {
		t.Errorf("token = %q, want empty", got)
	}

	if err := repo.Set(ctx, KeyToken, "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, KeyToken, "second"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Set(ctx, KeyUserID, "user-7"); err != nil {
		t.Fatalf("set user: %v", err)
	}

	got, _ = repo.Get(ctx, KeyToken)
	if got != "second" {
		t.Errorf("token = %q, want second", got)
	}

	if err := repo.Delete(ctx, KeyToken, KeyUserID, KeyCode); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.Get(ctx, KeyUserID)
	if got != "" {
		t.Errorf("user id after delete = %q, want empty", got)
	}
}

func TestRequestEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []RequestEventData{
		{SessionID: "s1", Method: "GET", Path: "/api/questions/MTK01", Status: 200, LatencyMs: 40, Success: true},
		{SessionID: "s1", Method: "POST", Path: "/api/results/submit-answer", Status: 500, LatencyMs: 12, ErrorMessage: "boom"},
		{SessionID: "s2", Method: "GET", Path: "/api/questions/FIS02", Status: 200, LatencyMs: 8, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].Path != "/api/questions/FIS02" {
		t.Errorf("first path = %q, want newest", all[0].Path)
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Errorf("sequence not descending: %d, %d", all[0].Sequence, all[1].Sequence)
	}

	s1, err := repo.QueryRequests(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("query s1: %v", err)
	}
	if len(s1) != 2 {
		t.Fatalf("s1 len = %d, want 2", len(s1))
	}
	if s1[0].Success || s1[0].ErrorMessage != "boom" || s1[0].Status != 500 {
		t.Errorf("failed request round trip = %+v", s1[0])
	}
	if !s1[1].Success {
		t.Error("expected success on first request")
	}

	limited, _ := repo.QueryRequests(ctx, QueryOpts{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limited len = %d, want 1", len(limited))
	}

	future, _ := repo.QueryRequests(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if len(future) != 0 {
		t.Errorf("future len = %d, want 0", len(future))
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, action := range []string{"start", "submit-failed", "submit"} {
		if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Code: "MTK01", Action: action}); err != nil {
			t.Fatalf("append %s: %v", action, err)
		}
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", Action: "exit"}); err != nil {
		t.Fatalf("append exit: %v", err)
	}

	got, err := repo.QuerySessionEvents(ctx, QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"start", "submit-failed", "submit"}
	for i, e := range got {
		if e.Action != want[i] {
			t.Errorf("event %d action = %q, want %q", i, e.Action, want[i])
		}
		if e.Code != "MTK01" {
			t.Errorf("event %d code = %q", i, e.Code)
		}
	}
}

func TestResultRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	submitted := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.Append(ctx, Result{
		SessionID: "s1", Code: "MTK01", UserID: "user-7",
		TotalScore: 66.67, Answered: 3, QuestionCount: 3, SubmittedAt: submitted,
	}); err != nil {
		t.Fatalf("append s1: %v", err)
	}
	if err := repo.Append(ctx, Result{SessionID: "s2", Code: "FIS02", UserID: "user-7", TotalScore: 100}); err != nil {
		t.Fatalf("append s2: %v", err)
	}

	// Session ids are unique.
	if err := repo.Append(ctx, Result{SessionID: "s1", Code: "MTK01", UserID: "user-7"}); err == nil {
		t.Error("expected error on duplicate session id")
	}

	got, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Code != "FIS02" {
		t.Errorf("newest code = %q, want FIS02", got[0].Code)
	}
	if got[1].TotalScore != 66.67 || got[1].Answered != 3 {
		t.Errorf("older result = %+v", got[1])
	}
	if !got[1].SubmittedAt.Equal(submitted) {
		t.Errorf("submitted_at = %v, want %v", got[1].SubmittedAt, submitted)
	}
	if got[0].SubmittedAt.IsZero() {
		t.Error("expected default submitted_at")
	}
}
