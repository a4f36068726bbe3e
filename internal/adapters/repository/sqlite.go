package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/pkg/metrics"

	_ "modernc.org/sqlite" // SQLite driver.
)

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore implements Store over a local SQLite database.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

// Open opens or creates the database at path and applies migrations.
func Open(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?%s", path, url.Values{
		"_pragma": []string{
			fmt.Sprintf("busy_timeout(%d)", s.busyTimeout.Milliseconds()),
			"journal_mode(WAL)",
			"foreign_keys(1)",
		},
	}.Encode())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			display_name TEXT,
			points INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			result TEXT,
			active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS predictions (
			user_id INTEGER NOT NULL REFERENCES users(id),
			match_id INTEGER NOT NULL REFERENCES matches(id),
			score TEXT NOT NULL,
			PRIMARY KEY (user_id, match_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_points ON users(points DESC, id ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_active ON matches(active);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func observeWrite(start time.Time) {
	metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
}

func observeQuery(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}

// EnsureUser inserts the user row if absent.
func (s *SQLiteStore) EnsureUser(ctx context.Context, userID int64) error {
	defer observeWrite(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("ensure user %d: %w", userID, err)
	}
	return nil
}

// GetUser returns the user's profile or ErrNotFound.
func (s *SQLiteStore) GetUser(ctx context.Context, userID int64) (model.User, error) {
	defer observeQuery(time.Now())
	var u model.User
	var name sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, points FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &name, &u.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	u.DisplayName = name.String
	return u, nil
}

// SetDisplayName stores the captured display name.
func (s *SQLiteStore) SetDisplayName(ctx context.Context, userID int64, name string) error {
	defer observeWrite(time.Now())
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ? WHERE id = ?`, name, userID)
	if err != nil {
		return fmt.Errorf("set display name for %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set display name for %d: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPoints applies a settlement point delta.
func (s *SQLiteStore) AddPoints(ctx context.Context, userID int64, delta int) error {
	defer observeWrite(time.Now())
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET points = points + ? WHERE id = ?`, delta, userID)
	if err != nil {
		return fmt.Errorf("add points for %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add points for %d: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsersByPoints returns users ordered by points DESC, id ASC.
// The secondary key makes rank deterministic for equal-points users.
func (s *SQLiteStore) ListUsersByPoints(ctx context.Context) ([]model.User, error) {
	defer observeQuery(time.Now())
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, points FROM users ORDER BY points DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var name sql.NullString
		if err := rows.Scan(&u.ID, &name, &u.Points); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.DisplayName = name.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of users tracked.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	defer observeQuery(time.Now())
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// AddMatch creates an active match.
func (s *SQLiteStore) AddMatch(ctx context.Context, name string) (int64, error) {
	defer observeWrite(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (name, active) VALUES (?, 1)`, name)
	if err != nil {
		return 0, fmt.Errorf("add match %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add match %q: %w", name, err)
	}
	return id, nil
}

// SetMatchResult records the result and deactivates the match.
func (s *SQLiteStore) SetMatchResult(ctx context.Context, matchID int64, result string) error {
	defer observeWrite(time.Now())
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET result = ?, active = 0 WHERE id = ?`, result, matchID)
	if err != nil {
		return fmt.Errorf("set result for match %d: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set result for match %d: %w", matchID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveMatches returns active matches ordered by match id.
func (s *SQLiteStore) ListActiveMatches(ctx context.Context) ([]model.Match, error) {
	defer observeQuery(time.Now())
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM matches WHERE active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m := model.Match{Active: true}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	return matches, nil
}

// HasPrediction reports whether the user already predicted the match.
func (s *SQLiteStore) HasPrediction(ctx context.Context, userID, matchID int64) (bool, error) {
	defer observeQuery(time.Now())
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM predictions WHERE user_id = ? AND match_id = ?`, userID, matchID).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has prediction (%d,%d): %w", userID, matchID, err)
	}
	return true, nil
}

// InsertPrediction atomically inserts the prediction if absent. The
// primary key on (user_id, match_id) makes the check-and-insert a
// single statement; a conflicting row yields ErrDuplicate.
func (s *SQLiteStore) InsertPrediction(ctx context.Context, userID, matchID int64, scoreText string) error {
	defer observeWrite(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (user_id, match_id, score) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, match_id) DO NOTHING`,
		userID, matchID, scoreText)
	if err != nil {
		return fmt.Errorf("insert prediction (%d,%d): %w", userID, matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert prediction (%d,%d): %w", userID, matchID, err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// ListPredictions returns (match name, score) pairs ordered by match id.
func (s *SQLiteStore) ListPredictions(ctx context.Context, userID int64) ([]PredictionView, error) {
	defer observeQuery(time.Now())
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.name, p.score
		 FROM predictions p
		 JOIN matches m ON p.match_id = m.id
		 WHERE p.user_id = ?
		 ORDER BY p.match_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions for %d: %w", userID, err)
	}
	defer rows.Close()

	var views []PredictionView
	for rows.Next() {
		var v PredictionView
		if err := rows.Scan(&v.MatchName, &v.Score); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list predictions for %d: %w", userID, err)
	}
	return views, nil
}
