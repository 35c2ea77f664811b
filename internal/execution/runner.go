package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"gtr/internal/aggregate"
	"gtr/internal/assert"
	"gtr/internal/cleanup"
	"gtr/internal/domain"
	"gtr/internal/environment"
	"gtr/internal/events"
	"gtr/internal/logging"
)

// ErrFatalFailure is returned by Run when BreakOnFatal stopped the run
var ErrFatalFailure = errors.New("fatal failure")

// Options tunes the runner policies
type Options struct {
	// BreakOnFatal stops the run after the first test with a fatal failure
	BreakOnFatal bool
	// Timeout bounds each test's context. Zero means no deadline.
	Timeout time.Duration
}

// Runner executes tests one at a time: Setup, Execute, Cleanup, Recorded.
// It owns the cleanup stack and the event queue handed to every test.
type Runner struct {
	env      environment.Environment
	reporter Reporter
	opts     Options
	logger   *log.Logger

	stack *cleanup.Stack
	queue *events.Queue
	now   func() time.Time
}

// NewRunner creates a Runner. Nil arguments fall back to no-op implementations.
func NewRunner(env environment.Environment, reporter Reporter, opts Options, logger *log.Logger) *Runner {
	if env == nil {
		env = environment.Nop{}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		env:      env,
		reporter: reporter,
		opts:     opts,
		logger:   logger,
		stack:    cleanup.New(),
		queue:    events.NewQueue(),
		now:      time.Now,
	}
}

// Stack exposes the cleanup stack owned by the runner
func (r *Runner) Stack() *cleanup.Stack {
	return r.stack
}

// Run executes the suites in order and returns the aggregated results.
// Test failures are recorded, not returned. The error is non-nil only when
// ctx was cancelled or BreakOnFatal stopped the run; the partial results are
// returned in both cases.
func (r *Runner) Run(ctx context.Context, suites []domain.Suite) (aggregate.Run, error) {
	agg := aggregate.New(aggregate.WithClock(r.now))
	r.logger.Debug("Starting run", "run_id", agg.RunID(), "suites", len(suites), "tests", domain.CountTests(suites))
	r.reporter.RunStarted(suites)

	var runErr error
	for _, suite := range suites {
		if len(suite.Tests) == 0 {
			continue
		}
		r.reporter.SuiteStarted(suite)
		recorded := agg.Len()

		for _, tc := range suite.Tests {
			if err := ctx.Err(); err != nil {
				runErr = fmt.Errorf("run interrupted before %s: %w", tc.FullName(), err)
				break
			}

			result := r.runTest(ctx, tc)
			agg.Record(result)
			r.reporter.TestFinished(result)

			if f := result.FatalFailure(); r.opts.BreakOnFatal && f != nil {
				runErr = fmt.Errorf("%w in %s (%s): %s", ErrFatalFailure, result.FullName(), f.Phase, f.Message)
				break
			}
		}

		if agg.Len() > recorded {
			r.reporter.SuiteFinished(suiteTotals(agg.Totals(), suite.Name))
		}
		if runErr != nil {
			break
		}
	}

	run := agg.Totals()
	r.reporter.RunFinished(run)
	r.logger.Debug("Run finished", "run_id", run.ID, "tests", run.Tests, "failures", run.Failures, "elapsed", run.Elapsed)
	return run, runErr
}

// runTest drives one test through Setup, Execute and Cleanup
func (r *Runner) runTest(ctx context.Context, tc domain.TestCase) domain.TestResult {
	if leaked := r.stack.Reset(); leaked > 0 {
		msg := fmt.Sprintf("%d cleanup function(s) leaked into %s were discarded", leaked, tc.FullName())
		r.logger.Warn("Leaked cleanup functions", "test", tc.FullName(), "count", leaked)
		r.reporter.Notice(NoticeError, msg)
	}
	if stale := r.queue.Drain(); len(stale) > 0 {
		r.reporter.Events(stale)
	}

	r.reporter.TestStarted(tc)

	testCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.Timeout > 0 {
		testCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
	}
	defer cancel()

	t := domain.NewT(testCtx, tc, r.stack, r.queue)
	result := domain.TestResult{Suite: tc.Suite, Name: tc.Name}

	// Setup
	setupErr := domain.Protect(func() error { return r.env.Setup(testCtx, t) })

	// Execute
	result.Start = r.now()
	started := time.Now()
	if setupErr != nil {
		f := classify(setupErr, domain.PhaseSetup)
		result.Failure = &f
		r.reporter.Notice(NoticeDebug, fmt.Sprintf("setup of %s failed, body skipped", tc.FullName()))
	} else if tc.Body == nil {
		f := classify(errors.New("test has no body"), domain.PhaseExecute)
		result.Failure = &f
	} else if err := domain.Protect(func() error { return tc.Body(t) }); err != nil {
		f := classify(err, domain.PhaseExecute)
		result.Failure = &f
	}
	r.flushEvents()

	// Cleanup drains with the parent context so an expired test deadline
	// does not cancel the functions reversing its side effects.
	drainErrs := r.stack.DrainAll(ctx)
	for _, err := range drainErrs {
		// Assertions checked by a cleanup function stay recoverable; anything
		// else raised while draining is fatal in the cleanup phase.
		f := classify(err, domain.PhaseCleanup)
		if f.Kind == domain.FailureAssertion {
			f.Kind = domain.FailureCleanup
		}
		result.CleanupFailures = append(result.CleanupFailures, f)
	}
	if len(drainErrs) > 0 {
		r.logger.Debug("Cleanup failed", "test", tc.FullName(), "error", cleanup.Combine(drainErrs))
	}
	result.Duration = time.Since(started)

	if err := domain.Protect(func() error { return r.env.Teardown(ctx, t) }); err != nil {
		f := classify(err, domain.PhaseCleanup)
		f.Message = "teardown: " + f.Message
		result.CleanupFailures = append(result.CleanupFailures, f)
	}
	r.flushEvents()

	result.Passed = result.Failure == nil && len(result.CleanupFailures) == 0
	if !result.Passed {
		r.logger.Debug("Test failed", "test", tc.FullName(), "message", result.FailureMessage())
	}
	return result
}

func (r *Runner) flushEvents() {
	if drained := r.queue.Drain(); len(drained) > 0 {
		r.reporter.Events(drained)
	}
}

// classify turns an error returned or raised in a phase into a failure record.
// Setup failures are always fatal.
func classify(err error, phase domain.Phase) domain.Failure {
	f := domain.Failure{Kind: domain.FailureFatal, Phase: phase, Message: err.Error()}

	var panicErr *domain.PanicError
	if errors.As(err, &panicErr) {
		f.Stack = panicErr.StackLines()
		return f
	}

	if af, ok := assert.AsFailure(err); ok && phase != domain.PhaseSetup {
		f.Kind = domain.FailureAssertion
		f.Message = af.Message
		f.Condition = af.Condition
		f.File = af.File
		f.Line = af.Line
		f.Func = af.Func
	}
	return f
}

func suiteTotals(run aggregate.Run, name string) aggregate.SuiteTotals {
	for _, s := range run.Suites {
		if s.Name == name {
			return s
		}
	}
	return aggregate.SuiteTotals{Name: name}
}
