// Package report renders runs as gtest-style console output, JUnit XML
// documents and JSON result files.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
	"gtr/internal/events"
	"gtr/internal/execution"
)

// Console tags. Their text and width are part of the output contract.
const (
	TagRun    = "[==========]"
	TagSuite  = "[----------]"
	TagStart  = "[ RUN      ]"
	TagOK     = "[       OK ]"
	TagFail   = "[     FAIL ]"
	TagPassed = "[  PASSED  ]"
	TagFailed = "[  FAILED  ]"
	TagDebug  = "[ DEBUG    ]"
	TagError  = "[ ERROR    ]"
	TagEvent  = "[ ::EVENT  ]"
	TagLog    = "[ ::LOG    ]"
)

// ConsoleOption configures a Console
type ConsoleOption func(*Console)

// WithNoColor disables colour codes regardless of the terminal
func WithNoColor() ConsoleOption {
	return func(c *Console) {
		for _, col := range []*color.Color{c.green, c.red, c.yellow, c.cyan} {
			col.DisableColor()
		}
	}
}

// WithVerbose prints debug notices
func WithVerbose(verbose bool) ConsoleOption {
	return func(c *Console) { c.verbose = verbose }
}

// Console prints gtest-style progress and summary lines
type Console struct {
	out     io.Writer
	verbose bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
}

var _ execution.Reporter = (*Console)(nil)

// NewConsole creates a Console writing to out
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    out,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) line(col *color.Color, tag, format string, args ...any) {
	col.Fprint(c.out, tag)
	fmt.Fprintf(c.out, " "+format+"\n", args...)
}

func (c *Console) RunStarted(suites []domain.Suite) {
	c.line(c.green, TagRun, "Running %s from %s.",
		plural(domain.CountTests(suites), "test"), plural(countSuites(suites), "test suite"))
}

func (c *Console) SuiteStarted(suite domain.Suite) {
	c.line(c.green, TagSuite, "%s from %s", plural(len(suite.Tests), "test"), suite.Name)
}

func (c *Console) TestStarted(tc domain.TestCase) {
	c.line(c.green, TagStart, "%s", tc.FullName())
}

func (c *Console) Events(drained []events.Event) {
	for _, ev := range drained {
		if ev.Kind == domain.EventKindEvent {
			c.line(c.cyan, TagEvent, "%s", ev.Message)
		} else {
			c.line(c.cyan, TagLog, "%s", ev.Message)
		}
	}
}

func (c *Console) Notice(level execution.NoticeLevel, message string) {
	switch level {
	case execution.NoticeError:
		c.line(c.red, TagError, "%s", message)
	case execution.NoticeDebug:
		if c.verbose {
			c.line(c.yellow, TagDebug, "%s", message)
		}
	}
}

// TestFinished prints the failure facts, execute phase first, followed by the OK or FAIL line
func (c *Console) TestFinished(result domain.TestResult) {
	if result.Passed {
		c.line(c.green, TagOK, "%s (%d ms)", result.FullName(), result.Duration.Milliseconds())
		return
	}
	for _, f := range result.Failures() {
		fmt.Fprint(c.out, FormatFailure(f))
		if c.verbose {
			for _, frame := range f.Stack {
				fmt.Fprintf(c.out, "    %s\n", frame)
			}
		}
	}
	c.line(c.red, TagFail, "%s (%d ms)", result.FullName(), result.Duration.Milliseconds())
}

func (c *Console) SuiteFinished(totals aggregate.SuiteTotals) {
	c.line(c.green, TagSuite, "%s from %s (%d ms total)", plural(totals.Tests, "test"), totals.Name, totals.Elapsed.Milliseconds())
	fmt.Fprintln(c.out)
}

func (c *Console) RunFinished(run aggregate.Run) {
	c.line(c.green, TagRun, "%s from %s ran. (%d ms total)",
		plural(run.Tests, "test"), plural(len(run.Suites), "test suite"), run.Elapsed.Milliseconds())
	if passed := run.Passed(); passed > 0 {
		c.line(c.green, TagPassed, "%s.", plural(passed, "test"))
	}

	failed := run.FailedNames()
	if len(failed) == 0 {
		return
	}
	c.line(c.red, TagFailed, "%s, listed below:", plural(len(failed), "test"))
	for _, name := range failed {
		c.line(c.red, TagFailed, "%s", name)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "%2d FAILED %s\n", len(failed), pluralWord(len(failed), "TEST"))
}

// FormatFailure renders one failure fact as console lines ending in a newline
func FormatFailure(f domain.Failure) string {
	var b strings.Builder
	switch {
	case f.Location() != "" && f.Func != "":
		fmt.Fprintf(&b, "%s: %s failure in %s (%s)\n", f.Location(), f.Kind, f.Phase, f.Func)
	case f.Location() != "":
		fmt.Fprintf(&b, "%s: %s failure in %s\n", f.Location(), f.Kind, f.Phase)
	default:
		fmt.Fprintf(&b, "%s failure in %s\n", f.Kind, f.Phase)
	}
	fmt.Fprintf(&b, "  %s\n", f.Message)
	if f.Condition != "" {
		fmt.Fprintf(&b, "  Condition: %s\n", f.Condition)
	}
	return b.String()
}

func countSuites(suites []domain.Suite) int {
	n := 0
	for _, s := range suites {
		if len(s.Tests) > 0 {
			n++
		}
	}
	return n
}

func plural(n int, word string) string {
	return fmt.Sprintf("%d %s", n, pluralWord(n, word))
}

func pluralWord(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.ToUpper(word) == word {
		return word + "S"
	}
	return word + "s"
}
