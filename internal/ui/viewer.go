package ui

import "gtr/internal/domain"

// Viewer displays test failures
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

var _ Viewer = (*ErrorViewer)(nil)
