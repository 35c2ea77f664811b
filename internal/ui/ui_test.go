package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/storage"
)

func init() {
	color.NoColor = true
}

func sampleSuites() []domain.Suite {
	return []domain.Suite{
		{Name: "Math", Tests: []domain.TestCase{
			{Suite: "Math", Name: "AddsTwoNumbers"},
			{Suite: "Math", Name: "DividesByZeroThrows"},
		}},
		{Name: "Cleanup", Tests: []domain.TestCase{{Suite: "Cleanup", Name: "Order"}}},
	}
}

func sampleRun() aggregate.Run {
	agg := aggregate.New(aggregate.WithRunID("run-1"))
	agg.Record(domain.TestResult{Suite: "Math", Name: "AddsTwoNumbers", Passed: true, Duration: 2 * time.Millisecond})
	agg.Record(domain.TestResult{
		Suite: "Math", Name: "DividesByZeroThrows", Duration: 3 * time.Millisecond,
		Failure: &domain.Failure{Kind: domain.FailureFatal, Phase: domain.PhaseExecute, Message: "division by zero"},
	})
	return agg.Totals()
}

func TestFormatter_PrintTestList(t *testing.T) {
	var buf bytes.Buffer
	failed := map[string]struct{}{"Math.DividesByZeroThrows": {}}
	NewFormatter(&buf).PrintTestList(sampleSuites(), true, failed)

	want := []string{
		"├── Math (2) [F]",
		"│   ├── AddsTwoNumbers",
		"│   └── DividesByZeroThrows [F]",
		"└── Cleanup (1)",
		"    └── Order",
	}
	out := buf.String()
	assert.Contains(t, out, "Found 2 test suite(s) with 3 test(s):")
	assert.Contains(t, out, strings.Join(want, "\n"))
}

func TestFormatter_PrintTestListSuitesOnly(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintTestList(sampleSuites(), false, nil)

	out := buf.String()
	assert.Contains(t, out, "├── Math (2)\n└── Cleanup (1)\n")
	assert.NotContains(t, out, "AddsTwoNumbers")
}

func TestFormatter_PrintSummary(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintSummary(sampleRun())

	out := buf.String()
	assert.Contains(t, out, "Test Results (5ms)")
	assert.Contains(t, out, "DividesByZeroThrows")
	assert.Contains(t, out, "division by zero")
	assert.Contains(t, out, "FAIL")
}

func TestFormatter_PrintStats(t *testing.T) {
	var buf bytes.Buffer
	out := storage.BuildOutput(sampleRun())
	out.Details[0].Resolved = true
	NewFormatter(&buf).PrintStats(out)

	text := buf.String()
	assert.Contains(t, text, "Test Execution Statistics")
	assert.Contains(t, text, "run-1")
	assert.Contains(t, text, "✗ 1 test(s) failed")
	assert.Contains(t, text, "Math.DividesByZeroThrows [execute/fatal] (resolved)")
}

func TestFormatter_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PrintHistory(nil)
	assert.Contains(t, buf.String(), "No runs recorded")

	buf.Reset()
	f.PrintHistory([]storage.RunSummary{
		{ID: "run-new", Start: time.Now(), Tests: 3, Failures: 1, Suites: 2, Elapsed: 1500 * time.Millisecond},
		{ID: "run-old", Start: time.Now().Add(-time.Hour), Tests: 3, Suites: 2, Elapsed: 20 * time.Millisecond},
	})
	out := buf.String()
	assert.Contains(t, out, "run-new")
	assert.Contains(t, out, "1.50s")
	assert.Contains(t, out, "run-old")
	assert.Contains(t, out, "20ms")
	assert.Less(t, strings.Index(out, "run-new"), strings.Index(out, "run-old"))
}

func TestProgressBar_Counts(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	p.TestFinished(domain.TestResult{Passed: true})
	passed, failed := p.Counts()
	assert.Zero(t, passed+failed, "updates before the run starts are ignored")

	p.RunStarted(sampleSuites())
	p.TestFinished(domain.TestResult{Passed: true})
	p.TestFinished(domain.TestResult{Passed: false})
	p.TestFinished(domain.TestResult{Passed: true})
	p.RunFinished(aggregate.Run{})

	passed, failed = p.Counts()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "failed: 1]")
}

func TestFormatFailureDetails(t *testing.T) {
	stack := make([]string, 12)
	for i := range stack {
		stack[i] = "frame"
	}
	text := formatFailureDetails(domain.FailureDetail{
		TestName:   "Math.AreEqual",
		Kind:       domain.FailureAssertion,
		Phase:      domain.PhaseExecute,
		Message:    "Expected equality",
		Condition:  "4 == 5",
		File:       "math.go",
		Line:       7,
		StackTrace: stack,
	})

	assert.Contains(t, text, "✗ Test: Math.AreEqual")
	assert.Contains(t, text, "assertion in execute")
	assert.Contains(t, text, "Location: math.go:7")
	assert.Contains(t, text, "4 == 5")
	assert.Contains(t, text, "... and 2 more lines")
	require.Equal(t, maxStackLines, strings.Count(text, "  frame\n"))
}

func TestHeaderAndListText(t *testing.T) {
	details := []domain.FailureDetail{{TestName: "A.B", Resolved: true}, {TestName: "A.C"}}

	assert.Contains(t, headerText(details), "(2 total, 1 unresolved)")
	assert.Equal(t, "[gray]✓ [yellow]1.[gray] A.B[white]", listItemText(details[0], 0))
	assert.Equal(t, "[yellow]2.[white] A.C", listItemText(details[1], 1))
	assert.Equal(t, "[yellow]3.[white] Test 3", listItemText(domain.FailureDetail{}, 2))
	assert.Contains(t, formatFailureStats(domain.FailureDetail{}, 4), "Unknown suite")
}
