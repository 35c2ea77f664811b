package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRecorder struct {
	fns []CleanupFunc
}

func (p *pushRecorder) Push(fn CleanupFunc) { p.fns = append(p.fns, fn) }

type postRecorder struct {
	kinds, messages []string
}

func (p *postRecorder) Post(kind, message string) {
	p.kinds = append(p.kinds, kind)
	p.messages = append(p.messages, message)
}

func TestProtect(t *testing.T) {
	t.Run("returns error unchanged", func(t *testing.T) {
		want := errors.New("boom")
		assert.Same(t, want, Protect(func() error { return want }))
	})

	t.Run("recovers panic", func(t *testing.T) {
		err := Protect(func() error {
			var m map[string]int
			m["x"] = 1
			return nil
		})
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.True(t, strings.HasPrefix(pe.Error(), "panic: assignment to entry in nil map"))
		assert.NotEmpty(t, pe.StackLines())
		for _, line := range pe.StackLines() {
			assert.Equal(t, strings.TrimSpace(line), line)
		}
	})
}

func TestTestResult_FailureMessage(t *testing.T) {
	tests := []struct {
		name   string
		result TestResult
		want   string
	}{
		{"passed", TestResult{Passed: true}, ""},
		{"execute only", TestResult{Failure: &Failure{Message: "exec"}}, "exec"},
		{"cleanup only", TestResult{CleanupFailures: []Failure{{Message: "first"}, {Message: "second"}}}, "first"},
		{"execute wins", TestResult{Failure: &Failure{Message: "exec"}, CleanupFailures: []Failure{{Message: "cleanup"}}}, "exec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.FailureMessage())
		})
	}
}

func TestTestResult_FatalFailure(t *testing.T) {
	assert.Nil(t, TestResult{Passed: true}.FatalFailure())
	assert.Nil(t, TestResult{Failure: &Failure{Kind: FailureAssertion}}.FatalFailure())
	assert.Nil(t, TestResult{CleanupFailures: []Failure{{Kind: FailureCleanup}}}.FatalFailure())

	execute := TestResult{Failure: &Failure{Kind: FailureFatal, Phase: PhaseExecute, Message: "exec"}}
	require.NotNil(t, execute.FatalFailure())
	assert.Equal(t, "exec", execute.FatalFailure().Message)

	cleanup := TestResult{
		Failure: &Failure{Kind: FailureAssertion, Phase: PhaseExecute},
		CleanupFailures: []Failure{
			{Kind: FailureCleanup, Phase: PhaseCleanup, Message: "check"},
			{Kind: FailureFatal, Phase: PhaseCleanup, Message: "panic: delete space"},
		},
	}
	f := cleanup.FatalFailure()
	require.NotNil(t, f)
	assert.Equal(t, PhaseCleanup, f.Phase)
	assert.Equal(t, "panic: delete space", f.Message)
}

func TestTestResult_Details(t *testing.T) {
	r := TestResult{
		Suite:   "Space",
		Name:    "Create",
		Failure: &Failure{Kind: FailureFatal, Phase: PhaseExecute, Message: "delete space", Stack: []string{"frame"}},
		CleanupFailures: []Failure{
			{Kind: FailureCleanup, Phase: PhaseCleanup, Message: "logout failed"},
		},
	}

	details := r.Details()
	require.Len(t, details, 2)
	assert.Equal(t, "Space.Create", details[0].TestName)
	assert.Equal(t, "Space", details[0].Suite)
	assert.Equal(t, "delete space", details[0].Message)
	assert.Equal(t, []string{"frame"}, details[0].StackTrace)
	assert.Equal(t, FailureCleanup, details[1].Kind)
	assert.Equal(t, PhaseCleanup, details[1].Phase)

	assert.Empty(t, TestResult{Passed: true}.Details())
}

func TestFailure_Location(t *testing.T) {
	assert.Equal(t, "", Failure{}.Location())
	assert.Equal(t, "math_test.go:12", Failure{File: "math_test.go", Line: 12}.Location())
}

func TestCountTests(t *testing.T) {
	suites := []Suite{
		{Name: "A", Tests: make([]TestCase, 2)},
		{Name: "Empty"},
		{Name: "B", Tests: make([]TestCase, 3)},
	}
	assert.Equal(t, 5, CountTests(suites))
	assert.Zero(t, CountTests(nil))
}

func TestT(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pushes := &pushRecorder{}
	posts := &postRecorder{}
	tt := NewT(ctx, TestCase{Suite: "Math", Name: "Adds"}, pushes, posts)

	assert.Equal(t, ctx, tt.Context())
	assert.Equal(t, "Math.Adds", tt.FullName())

	tt.Cleanup(func(context.Context) error { return nil })
	assert.Len(t, pushes.fns, 1)

	tt.Logf("log %d", 1)
	tt.Eventf("event %s", "two")
	assert.Equal(t, []string{EventKindLog, EventKindEvent}, posts.kinds)
	assert.Equal(t, []string{"log 1", "event two"}, posts.messages)

	type key struct{}
	assert.Nil(t, tt.Value(key{}))
	tt.SetValue(key{}, 42)
	assert.Equal(t, 42, tt.Value(key{}))
}

func TestT_NilSinkIsSilent(t *testing.T) {
	tt := NewT(context.Background(), TestCase{Suite: "S", Name: "N"}, &pushRecorder{}, nil)
	assert.NotPanics(t, func() {
		tt.Logf("dropped")
		tt.Eventf("dropped")
	})
}
