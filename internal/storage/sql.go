package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/logging"
	"gtr/internal/migration"
)

// timeLayout is fixed-width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrNoRuns is returned by Load when the history holds no runs
var ErrNoRuns = errors.New("no runs recorded")

// RunSummary is one row of the run history
type RunSummary struct {
	ID       string
	Start    time.Time
	Tests    int
	Failures int
	Suites   int
	Elapsed  time.Duration
}

// Passed returns the number of passing tests
func (r RunSummary) Passed() int {
	return r.Tests - r.Failures
}

// ParseHistory splits a "<driver>:<dsn>" history spec
func ParseHistory(spec string) (driver, dsn string, err error) {
	driver, dsn, ok := strings.Cut(spec, ":")
	if !ok || dsn == "" {
		return "", "", fmt.Errorf("invalid history spec %q, expected <driver>:<dsn>", spec)
	}
	switch driver {
	case "mysql", "sqlite3":
		return driver, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported history driver %q", driver)
	}
}

// SQLStorage appends every run to a MySQL or SQLite history database
type SQLStorage struct {
	db     *sql.DB
	driver string
	logger *log.Logger
}

// OpenSQL connects to the history database and migrates its schema
func OpenSQL(ctx context.Context, driver, dsn string, logger *log.Logger) (*SQLStorage, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	logger.Debug("Opening history database", "driver", driver)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := migration.NewSchemaMigrator(db, driver).Up(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("History database ready", "driver", driver)

	return &SQLStorage{db: db, driver: driver, logger: logger}, nil
}

// SchemaVersion returns the applied migration version of the history schema
func (s *SQLStorage) SchemaVersion() (version uint, dirty bool, err error) {
	return migration.NewSchemaMigrator(s.db, s.driver).Version()
}

// Close closes the database handle
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// Save records a run and all of its test results
func (s *SQLStorage) Save(run aggregate.Run) error {
	return s.SaveContext(context.Background(), run)
}

// SaveContext records a run and all of its test results in one transaction
func (s *SQLStorage) SaveContext(ctx context.Context, run aggregate.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, tests, failures, suites, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, formatTime(run.Start), run.Tests, run.Failures, len(run.Suites), run.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO test_results (run_id, seq, suite, name, passed, started_at, duration_ms, kind, phase, message) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range run.Results() {
		var kind, phase string
		if failures := res.Failures(); len(failures) > 0 {
			kind, phase = string(failures[0].Kind), string(failures[0].Phase)
		}
		_, err := stmt.ExecContext(ctx, run.ID, i, res.Suite, res.Name, res.Passed,
			formatTime(res.Start), res.Duration.Milliseconds(), kind, phase, res.FailureMessage())
		if err != nil {
			return fmt.Errorf("insert result %s: %w", res.FullName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	s.logger.Debug("Run saved to history", "run_id", run.ID, "tests", run.Tests)
	return nil
}

// Recent returns up to limit runs, newest first
func (s *SQLStorage) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, tests, failures, suites, elapsed_ms FROM runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r         RunSummary
			started   string
			elapsedMS int64
		)
		if err := rows.Scan(&r.ID, &started, &r.Tests, &r.Failures, &r.Suites, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Start, _ = time.Parse(timeLayout, started)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load returns the newest run with its failed tests
func (s *SQLStorage) Load() (*domain.TestResultsOutput, error) {
	ctx := context.Background()
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	last := runs[0]

	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           last.ID,
			TotalTests:      last.Tests,
			PassedTests:     last.Passed(),
			FailedTests:     last.Failures,
			Suites:          last.Suites,
			Duration:        last.Elapsed.String(),
			DurationSeconds: last.Elapsed.Seconds(),
			Timestamp:       last.Start.Format(time.RFC3339),
		},
		Details: []domain.FailureDetail{},
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT suite, name, kind, phase, message, resolved FROM test_results WHERE run_id = ? AND passed = ? ORDER BY seq",
		last.ID, false)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d       domain.FailureDetail
			name    string
			kind    string
			phase   string
			message sql.NullString
		)
		if err := rows.Scan(&d.Suite, &name, &kind, &phase, &message, &d.Resolved); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		d.TestName = domain.QualifiedName(d.Suite, name)
		d.Kind = domain.FailureKind(kind)
		d.Phase = domain.Phase(phase)
		d.Message = message.String
		output.Details = append(output.Details, d)
	}
	return output, rows.Err()
}

// SaveOutput persists the resolved flags of the output's failures
func (s *SQLStorage) SaveOutput(output *domain.TestResultsOutput) error {
	ctx := context.Background()
	for _, d := range output.Details {
		name := strings.TrimPrefix(d.TestName, d.Suite+".")
		_, err := s.db.ExecContext(ctx,
			"UPDATE test_results SET resolved = ? WHERE run_id = ? AND suite = ? AND name = ?",
			d.Resolved, output.Meta.RunID, d.Suite, name)
		if err != nil {
			return fmt.Errorf("update %s: %w", d.TestName, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
