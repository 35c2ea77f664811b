package report

import (
	"time"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
)

var epoch = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// sampleRun is two suites, three tests and one fatal failure
func sampleRun() aggregate.Run {
	agg := aggregate.New(aggregate.WithRunID("run-1"))
	agg.Record(domain.TestResult{
		Suite: "Math", Name: "AddsTwoNumbers", Passed: true,
		Start: epoch, Duration: 12 * time.Millisecond,
	})
	agg.Record(domain.TestResult{
		Suite: "Math", Name: "DividesByZeroThrows",
		Start: epoch.Add(time.Second), Duration: 3 * time.Millisecond,
		Failure: &domain.Failure{Kind: domain.FailureFatal, Phase: domain.PhaseExecute, Message: "division by zero"},
	})
	agg.Record(domain.TestResult{
		Suite: "Cleanup", Name: "Order", Passed: true,
		Start: epoch.Add(2 * time.Second), Duration: 20 * time.Millisecond,
	})
	return agg.Totals()
}
