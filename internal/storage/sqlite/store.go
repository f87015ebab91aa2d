// Package sqlite provides the SQLite-backed saved-run store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/storage"
	"github.com/rgehrsitz/riseplan/internal/storage/sqlite/migrations"
	"github.com/rgehrsitz/riseplan/internal/storage/sqlitemigrate"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

// Store persists runs in SQLite. Inputs and results are stored as JSON; the listing columns are denormalized.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.RunStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// SaveRun inserts a run. A missing ID or timestamp is filled in; the stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run domain.SavedRun) (domain.SavedRun, error) {
	if err := s.ready(ctx); err != nil {
		return domain.SavedRun{}, err
	}
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	// Millisecond precision is what the column keeps.
	run.CreatedAt = fromMillis(toMillis(run.CreatedAt))
	run.Name = strings.TrimSpace(run.Name)

	inputs, err := json.Marshal(run.Input)
	if err != nil {
		return domain.SavedRun{}, fmt.Errorf("encode inputs: %w", err)
	}
	results, err := json.Marshal(run.Result)
	if err != nil {
		return domain.SavedRun{}, fmt.Errorf("encode results: %w", err)
	}

	var goalMonth sql.NullInt64
	if g := run.Result.GoalReachedAt; g != nil {
		goalMonth = sql.NullInt64{Int64: int64(g.TotalMonths()), Valid: true}
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (
		   id,
		   name,
		   created_at,
		   inputs,
		   results,
		   final_capital,
		   monthly_income_after_tax,
		   goal_month
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Name,
		toMillis(run.CreatedAt),
		string(inputs),
		string(results),
		run.Result.FinalCapital.String(),
		run.Result.MonthlyIncomeAfterTax.String(),
		goalMonth,
	)
	if err != nil {
		return domain.SavedRun{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (domain.SavedRun, error) {
	if err := s.ready(ctx); err != nil {
		return domain.SavedRun{}, err
	}

	var (
		run       domain.SavedRun
		createdAt int64
		inputs    string
		results   string
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, created_at, inputs, results FROM runs WHERE id = ?`,
		strings.TrimSpace(id),
	).Scan(&run.ID, &run.Name, &createdAt, &inputs, &results)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedRun{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.SavedRun{}, fmt.Errorf("get run: %w", err)
	}

	run.CreatedAt = fromMillis(createdAt)
	if err := json.Unmarshal([]byte(inputs), &run.Input); err != nil {
		return domain.SavedRun{}, fmt.Errorf("decode inputs for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(results), &run.Result); err != nil {
		return domain.SavedRun{}, fmt.Errorf("decode results for run %s: %w", run.ID, err)
	}
	return run, nil
}

// ListRuns returns the newest runs first. A non-positive limit uses the default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, created_at, final_capital, monthly_income_after_tax, goal_month
		 FROM runs
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0)
	for rows.Next() {
		var (
			sum          domain.RunSummary
			createdAt    int64
			finalCapital string
			income       string
			goalMonth    sql.NullInt64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &createdAt, &finalCapital, &income, &goalMonth); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.CreatedAt = fromMillis(createdAt)
		if sum.FinalCapital, err = decimal.NewFromString(finalCapital); err != nil {
			return nil, fmt.Errorf("parse final capital for run %s: %w", sum.ID, err)
		}
		if sum.MonthlyIncomeAfterTax, err = decimal.NewFromString(income); err != nil {
			return nil, fmt.Errorf("parse monthly income for run %s: %w", sum.ID, err)
		}
		if goalMonth.Valid {
			g := domain.GoalFromMonth(int(goalMonth.Int64))
			sum.GoalReachedAt = &g
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}

// DeleteRun removes one run.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
