package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scorecast.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.GetUser(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.EnsureUser(ctx, 1); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	// Idempotent: second ensure leaves the row untouched.
	if err := s.EnsureUser(ctx, 1); err != nil {
		t.Fatalf("ensure user again: %v", err)
	}

	u, err := s.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.DisplayName != "" || u.Points != 0 {
		t.Errorf("fresh user = %+v, want empty name and 0 points", u)
	}

	if err := s.SetDisplayName(ctx, 1, "Alice"); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	if err := s.AddPoints(ctx, 1, 30); err != nil {
		t.Fatalf("add points: %v", err)
	}

	u, err = s.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.DisplayName != "Alice" || u.Points != 30 {
		t.Errorf("user = %+v, want Alice with 30 points", u)
	}

	if err := s.SetDisplayName(ctx, 99, "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("set name for unknown user: want ErrNotFound, got %v", err)
	}
	if err := s.AddPoints(ctx, 99, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("add points for unknown user: want ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_PredictionUniqueness(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.EnsureUser(ctx, 1); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	matchID, err := s.AddMatch(ctx, "M1")
	if err != nil {
		t.Fatalf("add match: %v", err)
	}

	has, err := s.HasPrediction(ctx, 1, matchID)
	if err != nil || has {
		t.Fatalf("HasPrediction before insert = (%v, %v), want (false, nil)", has, err)
	}

	if err := s.InsertPrediction(ctx, 1, matchID, "2-1"); err != nil {
		t.Fatalf("insert prediction: %v", err)
	}
	if err := s.InsertPrediction(ctx, 1, matchID, "0-0"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second insert: want ErrDuplicate, got %v", err)
	}

	has, err = s.HasPrediction(ctx, 1, matchID)
	if err != nil || !has {
		t.Fatalf("HasPrediction after insert = (%v, %v), want (true, nil)", has, err)
	}

	// The first write wins; the duplicate must not overwrite it.
	views, err := s.ListPredictions(ctx, 1)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	if len(views) != 1 || views[0].Score != "2-1" {
		t.Errorf("predictions = %+v, want single 2-1", views)
	}
}

func TestSQLiteStore_ConcurrentDuplicateInserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.EnsureUser(ctx, 1); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	matchID, err := s.AddMatch(ctx, "M1")
	if err != nil {
		t.Fatalf("add match: %v", err)
	}

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.InsertPrediction(ctx, 1, matchID, "1-0")
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicate):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != attempts-1 {
		t.Errorf("got %d Ok and %d ErrDuplicate, want 1 and %d", ok, dup, attempts-1)
	}
}

func TestSQLiteStore_MatchOrderingAndResults(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ids := make([]int64, 0, 3)
	for _, name := range []string{"M1", "M2", "M3"} {
		id, err := s.AddMatch(ctx, name)
		if err != nil {
			t.Fatalf("add match %s: %v", name, err)
		}
		ids = append(ids, id)
	}

	matches, err := s.ListActiveMatches(ctx)
	if err != nil {
		t.Fatalf("list active matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d active matches, want 3", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].ID >= matches[i].ID {
			t.Errorf("matches not ordered by id: %v", matches)
		}
	}

	if err := s.SetMatchResult(ctx, ids[1], "2-2"); err != nil {
		t.Fatalf("set match result: %v", err)
	}
	matches, err = s.ListActiveMatches(ctx)
	if err != nil {
		t.Fatalf("list active matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d active matches after settlement, want 2", len(matches))
	}
	for _, m := range matches {
		if m.ID == ids[1] {
			t.Errorf("settled match %d still listed as active", ids[1])
		}
	}

	if err := s.SetMatchResult(ctx, 999, "1-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("set result for unknown match: want ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_ListPredictionsOrderedByMatch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.EnsureUser(ctx, 1); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	m1, _ := s.AddMatch(ctx, "M1")
	m2, _ := s.AddMatch(ctx, "M2")

	// Insert out of order; the listing must come back by match id.
	if err := s.InsertPrediction(ctx, 1, m2, "0-0"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertPrediction(ctx, 1, m1, "2-1"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	views, err := s.ListPredictions(ctx, 1)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	want := []PredictionView{{MatchName: "M1", Score: "2-1"}, {MatchName: "M2", Score: "0-0"}}
	if len(views) != len(want) {
		t.Fatalf("got %d predictions, want %d", len(views), len(want))
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("prediction[%d] = %+v, want %+v", i, views[i], want[i])
		}
	}
}

func TestSQLiteStore_ListUsersByPointsTieBreak(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for id, pts := range map[int64]int{1: 50, 2: 50, 3: 30} {
		if err := s.EnsureUser(ctx, id); err != nil {
			t.Fatalf("ensure user %d: %v", id, err)
		}
		if err := s.AddPoints(ctx, id, pts); err != nil {
			t.Fatalf("add points %d: %v", id, err)
		}
	}

	users, err := s.ListUsersByPoints(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	wantIDs := []int64{1, 2, 3}
	if len(users) != len(wantIDs) {
		t.Fatalf("got %d users, want %d", len(users), len(wantIDs))
	}
	for i, id := range wantIDs {
		if users[i].ID != id {
			t.Errorf("position %d = user %d, want %d (points DESC, id ASC)", i, users[i].ID, id)
		}
	}
}
