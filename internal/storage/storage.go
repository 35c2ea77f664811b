package storage

import (
	"time"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
)

// Storage persists and loads test run results (e.g. for the failures viewer).
type Storage interface {
	Save(run aggregate.Run) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output back (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// BuildOutput converts a run into its persisted form: metadata plus one
// detail record per failure fact.
func BuildOutput(run aggregate.Run) *domain.TestResultsOutput {
	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           run.ID,
			TotalTests:      run.Tests,
			PassedTests:     run.Passed(),
			FailedTests:     run.Failures,
			Suites:          len(run.Suites),
			Duration:        run.Elapsed.String(),
			DurationSeconds: run.Elapsed.Seconds(),
			Timestamp:       run.Start.Format(time.RFC3339),
		},
		Details: []domain.FailureDetail{},
	}
	for _, res := range run.Results() {
		if !res.Passed {
			output.Details = append(output.Details, res.Details()...)
		}
	}
	return output
}
