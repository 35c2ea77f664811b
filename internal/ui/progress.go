package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/execution"
)

// ProgressBar renders run progress as a bar. It observes the runner as a Reporter.
type ProgressBar struct {
	execution.NopReporter

	out    io.Writer
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

// NewProgressBar creates a progress bar writing to out. The bar itself is
// created when the run starts and its size is known.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

func describe(passed, failed int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// RunStarted sizes the bar to the number of tests about to run
func (p *ProgressBar) RunStarted(suites []domain.Suite) {
	p.passed, p.failed = 0, 0
	out := p.out
	p.bar = progressbar.NewOptions(domain.CountTests(suites),
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// TestFinished advances the bar and updates the success and failure counts
func (p *ProgressBar) TestFinished(result domain.TestResult) {
	if p.bar == nil {
		return
	}
	if result.Passed {
		p.passed++
	} else {
		p.failed++
	}
	p.bar.Describe(describe(p.passed, p.failed))
	p.bar.Set(p.passed + p.failed)
}

// RunFinished completes the bar
func (p *ProgressBar) RunFinished(aggregate.Run) {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// Counts returns the passed and failed tests seen so far
func (p *ProgressBar) Counts() (passed, failed int) {
	return p.passed, p.failed
}
