package execution

import (
	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/events"
)

// NoticeLevel is the severity of a runner notice
type NoticeLevel string

const (
	NoticeDebug NoticeLevel = "debug"
	NoticeError NoticeLevel = "error"
)

// Reporter observes a run. All methods are called from the runner's goroutine.
type Reporter interface {
	RunStarted(suites []domain.Suite)
	SuiteStarted(suite domain.Suite)
	TestStarted(tc domain.TestCase)
	Events(drained []events.Event)
	Notice(level NoticeLevel, message string)
	TestFinished(result domain.TestResult)
	SuiteFinished(totals aggregate.SuiteTotals)
	RunFinished(run aggregate.Run)
}

// NopReporter implements Reporter with no-ops. Embed it to observe only some events.
type NopReporter struct{}

func (NopReporter) RunStarted([]domain.Suite) {}
func (NopReporter) SuiteStarted(domain.Suite) {}
func (NopReporter) TestStarted(domain.TestCase) {}
func (NopReporter) Events([]events.Event) {}
func (NopReporter) Notice(NoticeLevel, string) {}
func (NopReporter) TestFinished(domain.TestResult) {}
func (NopReporter) SuiteFinished(aggregate.SuiteTotals) {}
func (NopReporter) RunFinished(aggregate.Run) {}

// multiReporter fans every call out to several reporters in order
type multiReporter []Reporter

// MultiReporter combines reporters; nil entries are skipped
func MultiReporter(reporters ...Reporter) Reporter {
	var m multiReporter
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multiReporter) RunStarted(suites []domain.Suite) {
	for _, r := range m {
		r.RunStarted(suites)
	}
}

func (m multiReporter) SuiteStarted(suite domain.Suite) {
	for _, r := range m {
		r.SuiteStarted(suite)
	}
}

func (m multiReporter) TestStarted(tc domain.TestCase) {
	for _, r := range m {
		r.TestStarted(tc)
	}
}

func (m multiReporter) Events(drained []events.Event) {
	for _, r := range m {
		r.Events(drained)
	}
}

func (m multiReporter) Notice(level NoticeLevel, message string) {
	for _, r := range m {
		r.Notice(level, message)
	}
}

func (m multiReporter) TestFinished(result domain.TestResult) {
	for _, r := range m {
		r.TestFinished(result)
	}
}

func (m multiReporter) SuiteFinished(totals aggregate.SuiteTotals) {
	for _, r := range m {
		r.SuiteFinished(totals)
	}
}

func (m multiReporter) RunFinished(run aggregate.Run) {
	for _, r := range m {
		r.RunFinished(run)
	}
}
