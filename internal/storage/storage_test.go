package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
)

func sampleRun(id string, start time.Time) aggregate.Run {
	agg := aggregate.New(aggregate.WithRunID(id))
	agg.Record(domain.TestResult{Suite: "Math", Name: "AddsTwoNumbers", Passed: true, Start: start, Duration: 3 * time.Millisecond})
	agg.Record(domain.TestResult{
		Suite: "Math", Name: "DividesByZeroThrows", Start: start.Add(time.Second), Duration: 5 * time.Millisecond,
		Failure: &domain.Failure{Kind: domain.FailureFatal, Phase: domain.PhaseExecute, Message: "division by zero"},
		CleanupFailures: []domain.Failure{
			{Kind: domain.FailureCleanup, Phase: domain.PhaseCleanup, Message: "logout failed"},
		},
	})
	agg.Record(domain.TestResult{Suite: "Cleanup", Name: "Order", Passed: true, Start: start.Add(2 * time.Second), Duration: time.Millisecond})
	return agg.Totals()
}

func TestBuildOutput(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	out := BuildOutput(sampleRun("run-1", start))

	assert.Equal(t, domain.TestResultsMeta{
		RunID:           "run-1",
		TotalTests:      3,
		PassedTests:     2,
		FailedTests:     1,
		Suites:          2,
		Duration:        "9ms",
		DurationSeconds: 0.009,
		Timestamp:       "2024-05-01T10:00:00Z",
	}, out.Meta)

	require.Len(t, out.Details, 2)
	assert.Equal(t, "Math.DividesByZeroThrows", out.Details[0].TestName)
	assert.Equal(t, domain.PhaseExecute, out.Details[0].Phase)
	assert.Equal(t, "division by zero", out.Details[0].Message)
	assert.Equal(t, domain.PhaseCleanup, out.Details[1].Phase)
}

func TestJSONStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage", "test-results.json")
	st := NewJSONStorage(path)

	require.NoError(t, st.Save(sampleRun("run-1", time.Now())))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-1", loaded.Meta.RunID)
	require.Len(t, loaded.Details, 2)

	loaded.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(loaded))

	again, err := st.Load()
	require.NoError(t, err)
	assert.True(t, again.Details[0].Resolved)
	assert.False(t, again.Details[1].Resolved)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	_, err := NewJSONStorage(filepath.Join(t.TempDir(), "missing.json")).Load()
	require.Error(t, err)
}

func TestParseHistory(t *testing.T) {
	tests := []struct {
		spec   string
		driver string
		dsn    string
		ok     bool
	}{
		{"sqlite3:gtr.db", "sqlite3", "gtr.db", true},
		{"sqlite3:file:gtr.db?cache=shared", "sqlite3", "file:gtr.db?cache=shared", true},
		{"mysql:root@tcp(127.0.0.1:3306)/gtr", "mysql", "root@tcp(127.0.0.1:3306)/gtr", true},
		{"postgres:x", "", "", false},
		{"sqlite3", "", "", false},
		{"sqlite3:", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			driver, dsn, err := ParseHistory(tt.spec)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestSQLStorage_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQL(ctx, "sqlite3", filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	defer st.Close()

	version, dirty, err := st.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	_, err = st.Load()
	require.ErrorIs(t, err, ErrNoRuns)

	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	require.NoError(t, st.Save(sampleRun("run-old", older)))
	require.NoError(t, st.Save(sampleRun("run-new", newer)))

	runs, err := st.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
	assert.Equal(t, 3, runs[0].Tests)
	assert.Equal(t, 1, runs[0].Failures)
	assert.Equal(t, 2, runs[0].Passed())
	assert.Equal(t, 9*time.Millisecond, runs[0].Elapsed)
	assert.True(t, newer.Equal(runs[0].Start))

	out, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-new", out.Meta.RunID)
	require.Len(t, out.Details, 1)
	assert.Equal(t, "Math.DividesByZeroThrows", out.Details[0].TestName)
	assert.Equal(t, "division by zero", out.Details[0].Message)
	assert.Equal(t, domain.FailureFatal, out.Details[0].Kind)
	assert.False(t, out.Details[0].Resolved)

	out.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(out))

	out, err = st.Load()
	require.NoError(t, err)
	assert.True(t, out.Details[0].Resolved)
}
