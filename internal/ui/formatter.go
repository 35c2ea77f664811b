package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/storage"
)

// Formatter formats and displays listings, statistics and history
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintTestList prints the discovered suites as a tree, optionally with their tests.
// failed is optional; tests (or suites) in it are marked with [F] from the last run.
func (f *Formatter) PrintTestList(suites []domain.Suite, showTests bool, failed map[string]struct{}) {
	total := domain.CountTests(suites)
	if showTests {
		fmt.Fprintln(f.out, color.GreenString("Found %d test suite(s) with %d test(s):\n", len(suites), total))
	} else {
		fmt.Fprintln(f.out, color.GreenString("Found %d test suite(s):\n", len(suites)))
	}

	for i, suite := range suites {
		isLastSuite := i == len(suites)-1
		branch := "├── "
		if isLastSuite {
			branch = "└── "
		}

		marker := ""
		if suiteFailed(suite, failed) {
			marker = " " + color.RedString("[F]")
		}
		fmt.Fprintf(f.out, "%s%s (%d)%s\n", branch, color.CyanString(suite.Name), len(suite.Tests), marker)

		if !showTests {
			continue
		}
		for j, tc := range suite.Tests {
			indent := "│   "
			if isLastSuite {
				indent = "    "
			}
			leaf := "├── "
			if j == len(suite.Tests)-1 {
				leaf = "└── "
			}
			marker := ""
			if _, ok := failed[tc.FullName()]; ok {
				marker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", indent, leaf, color.YellowString(tc.Name), marker)
		}
	}
}

func suiteFailed(suite domain.Suite, failed map[string]struct{}) bool {
	for _, tc := range suite.Tests {
		if _, ok := failed[tc.FullName()]; ok {
			return true
		}
	}
	return false
}

// PrintSummary prints a per-suite results table for a finished run
func (f *Formatter) PrintSummary(run aggregate.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(run.Elapsed)))
	t.AppendHeader(table.Row{"Suite", "Tests", "Passed", "Failed", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, s := range run.Suites {
		t.AppendRow(table.Row{s.Name, s.Tests, s.Passed(), s.Failures, formatDuration(s.Elapsed), status(s.Failures)})
		for j, res := range s.Results {
			if res.Passed {
				continue
			}
			prefix := "├─"
			if j == len(s.Results)-1 {
				prefix = "└─"
			}
			t.AppendRow(table.Row{fmt.Sprintf("  %s %s", prefix, res.Name), "", "", "", formatDuration(res.Duration), res.FailureMessage()})
		}
	}

	if run.Failures == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.AppendFooter(table.Row{"Total", run.Tests, run.Passed(), run.Failures, formatDuration(run.Elapsed), status(run.Failures)})
	t.Render()
}

// PrintStats prints the statistics of a stored run followed by its failures grouped by suite
func (f *Formatter) PrintStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Statistics")
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Run", meta.RunID},
		{"Total Tests", meta.TotalTests},
		{"Passed Tests", meta.PassedTests},
		{"Failed Tests", meta.FailedTests},
		{"Suites", meta.Suites},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", meta.Timestamp},
	})
	t.Render()

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ %d test(s) failed", meta.FailedTests))
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

// printFailedTestsTree prints failures grouped under their suite, in stored order
func (f *Formatter) printFailedTestsTree(details []domain.FailureDetail) {
	var order []string
	bySuite := make(map[string][]domain.FailureDetail)
	for _, d := range details {
		if _, ok := bySuite[d.Suite]; !ok {
			order = append(order, d.Suite)
		}
		bySuite[d.Suite] = append(bySuite[d.Suite], d)
	}

	for _, suite := range order {
		fmt.Fprintln(f.out, color.CyanString(suite))
		failures := bySuite[suite]
		for i, d := range failures {
			branch := "  |_"
			if i == len(failures)-1 {
				branch = "   |_"
			}
			line := fmt.Sprintf("%s%s [%s/%s]", branch, d.TestName, d.Phase, d.Kind)
			if d.Resolved {
				fmt.Fprintln(f.out, color.HiBlackString("%s (resolved)", line))
			} else {
				fmt.Fprintln(f.out, color.RedString("%s", line))
			}
		}
	}
}

// PrintHistory prints recent runs, newest first
func (f *Formatter) PrintHistory(runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No runs recorded"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Run History")
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Started", "Suites", "Tests", "Passed", "Failed", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suites", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.Start.Local().Format(time.DateTime),
			r.Suites,
			r.Tests,
			r.Passed(),
			r.Failures,
			formatDuration(r.Elapsed),
			status(r.Failures),
		})
	}
	t.Render()
}

func status(failures int) string {
	if failures == 0 {
		return "PASS"
	}
	return "FAIL"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
