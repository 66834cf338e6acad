package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for the boundary account set and
// analysis run history. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// AddBoundaryAccount inserts or updates a boundary member.
func (s *Storage) AddBoundaryAccount(accountID, alias string) error {
	if accountID == "" {
		return fmt.Errorf("account id must not be empty")
	}
	_, err := s.db.Exec(`
	INSERT INTO boundary_accounts (account_id, alias, added_at)
	VALUES (?, ?, ?)
	ON CONFLICT(account_id) DO UPDATE SET alias = excluded.alias
	`, accountID, alias, time.Now().UTC())
	return err
}

// RemoveBoundaryAccount deletes a boundary member.
func (s *Storage) RemoveBoundaryAccount(accountID string) error {
	_, err := s.db.Exec(`DELETE FROM boundary_accounts WHERE account_id = ?`, accountID)
	return err
}

// ListBoundaryAccounts returns all members in insertion order.
func (s *Storage) ListBoundaryAccounts() ([]BoundaryAccount, error) {
	rows, err := s.db.Query(`
	SELECT account_id, alias, added_at FROM boundary_accounts ORDER BY added_at, account_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []BoundaryAccount
	for rows.Next() {
		var a BoundaryAccount
		if err := rows.Scan(&a.AccountID, &a.Alias, &a.AddedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// StartAnalysisRun records the start of an analysis run.
func (s *Storage) StartAnalysisRun(run *AnalysisRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	_, err := s.db.Exec(`
	INSERT INTO analysis_runs
	(id, started_at, transaction_count, matched_count, uncertain_count,
	 collision_count, excluded_minor, status)
	VALUES (?, ?, ?, 0, 0, 0, 0, ?)
	`, run.ID, run.StartedAt, run.TransactionCount, run.Status)
	return err
}

// CompleteAnalysisRun records the outcome of a run.
func (s *Storage) CompleteAnalysisRun(runID string, outcome RunOutcome) error {
	status := outcome.Status
	if status == "" {
		status = RunStatusCompleted
	}
	res, err := s.db.Exec(`
	UPDATE analysis_runs
	SET completed_at = ?, matched_count = ?, uncertain_count = ?,
	    collision_count = ?, excluded_minor = ?, status = ?
	WHERE id = ?
	`, time.Now().UTC(), outcome.MatchedCount, outcome.UncertainCount,
		outcome.CollisionCount, outcome.ExcludedMinor, status, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis run %s not found", runID)
	}
	return nil
}

// GetAnalysisRun retrieves a run by id.
func (s *Storage) GetAnalysisRun(runID string) (*AnalysisRun, error) {
	run := &AnalysisRun{}
	var completedAt sql.NullTime
	err := s.db.QueryRow(`
	SELECT id, started_at, completed_at, transaction_count, matched_count,
	       uncertain_count, collision_count, excluded_minor, status
	FROM analysis_runs WHERE id = ?
	`, runID).Scan(
		&run.ID,
		&run.StartedAt,
		&completedAt,
		&run.TransactionCount,
		&run.MatchedCount,
		&run.UncertainCount,
		&run.CollisionCount,
		&run.ExcludedMinor,
		&run.Status,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}

// ListAnalysisRuns returns the most recent runs, newest first.
func (s *Storage) ListAnalysisRuns(limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
	SELECT id, started_at, completed_at, transaction_count, matched_count,
	       uncertain_count, collision_count, excluded_minor, status
	FROM analysis_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		var completedAt sql.NullTime
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&completedAt,
			&run.TransactionCount,
			&run.MatchedCount,
			&run.UncertainCount,
			&run.CollisionCount,
			&run.ExcludedMinor,
			&run.Status,
		); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetStats returns aggregate statistics across all runs.
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRow(`
	SELECT COUNT(*),
	       COALESCE(SUM(transaction_count), 0),
	       COALESCE(SUM(matched_count), 0),
	       COALESCE(SUM(uncertain_count), 0),
	       COALESCE(SUM(collision_count), 0),
	       COALESCE(SUM(excluded_minor), 0)
	FROM analysis_runs
	`).Scan(
		&stats.TotalRuns,
		&stats.TotalTransactions,
		&stats.TotalMatched,
		&stats.TotalUncertain,
		&stats.TotalCollisions,
		&stats.TotalExcluded,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
