package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gtr/internal/aggregate"
	"gtr/internal/domain"
)

// TimestampLayout is the ISO-8601 form used for JUnit timestamps
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PlaceholderMessage is reported when a failed test carries no message
const PlaceholderMessage = "test failed"

// JUnitTestSuites is the root element of a JUnit report
type JUnitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Disabled  int              `xml:"disabled,attr"`
	Errors    int              `xml:"errors,attr"`
	Time      string           `xml:"time,attr"`
	Timestamp string           `xml:"timestamp,attr"`
	Name      string           `xml:"name,attr"`
	Suites    []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite is one <testsuite> element
type JUnitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Disabled  int             `xml:"disabled,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      string          `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	Cases     []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one <testcase> element
type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Status    string        `xml:"status,attr"`
	Result    string        `xml:"result,attr"`
	Time      string        `xml:"time,attr"`
	Timestamp string        `xml:"timestamp,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure is the <failure> element of a failed test case
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",cdata"`
}

// BuildJUnit converts a run into the JUnit document model
func BuildJUnit(run aggregate.Run) JUnitTestSuites {
	doc := JUnitTestSuites{
		Tests:     run.Tests,
		Failures:  run.Failures,
		Time:      seconds(run.Elapsed),
		Timestamp: timestamp(run.Start),
		Name:      "AllTests",
	}
	for _, s := range run.Suites {
		suite := JUnitTestSuite{
			Name:      s.Name,
			Tests:     s.Tests,
			Failures:  s.Failures,
			Time:      seconds(s.Elapsed),
			Timestamp: timestamp(s.Start),
		}
		for _, res := range s.Results {
			tc := JUnitTestCase{
				Name:      res.Name,
				Status:    "run",
				Result:    "completed",
				Time:      seconds(res.Duration),
				Timestamp: timestamp(res.Start),
				Classname: res.Suite,
			}
			if !res.Passed {
				tc.Failure = junitFailure(res)
			}
			suite.Cases = append(suite.Cases, tc)
		}
		doc.Suites = append(doc.Suites, suite)
	}
	return doc
}

func junitFailure(res domain.TestResult) *JUnitFailure {
	msg := res.FailureMessage()
	if msg == "" {
		msg = PlaceholderMessage
	}
	var lines []string
	for _, f := range res.Failures() {
		lines = append(lines, strings.TrimRight(FormatFailure(f), "\n"))
	}
	return &JUnitFailure{Message: msg, Content: strings.Join(lines, "\n")}
}

// WriteJUnit writes the run as an indented JUnit XML document
func WriteJUnit(w io.Writer, run aggregate.Run) error {
	data, err := xml.MarshalIndent(BuildJUnit(run), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit report: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write junit report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write junit report: %w", err)
	}
	return nil
}

// WriteJUnitFile writes the JUnit report to path, creating parent directories
func WriteJUnitFile(path string, run aggregate.Run) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create junit report: %w", err)
	}
	if err := WriteJUnit(f, run); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close junit report: %w", err)
	}
	return nil
}

// ReadJUnit parses a JUnit XML document
func ReadJUnit(r io.Reader) (*JUnitTestSuites, error) {
	var doc JUnitTestSuites
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse junit report: %w", err)
	}
	return &doc, nil
}

// ReadJUnitFile parses the JUnit XML document at path
func ReadJUnitFile(path string) (*JUnitTestSuites, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open junit report: %w", err)
	}
	defer f.Close()
	return ReadJUnit(f)
}

// Output converts a parsed report into the form the failures viewer shows
func (doc *JUnitTestSuites) Output() *domain.TestResultsOutput {
	out := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			TotalTests:  doc.Tests,
			PassedTests: doc.Tests - doc.Failures,
			FailedTests: doc.Failures,
			Suites:      len(doc.Suites),
			Timestamp:   doc.Timestamp,
		},
		Details: []domain.FailureDetail{},
	}
	var secs float64
	if _, err := fmt.Sscanf(doc.Time, "%f", &secs); err == nil {
		out.Meta.DurationSeconds = secs
		out.Meta.Duration = time.Duration(secs * float64(time.Second)).String()
	}
	for _, s := range doc.Suites {
		for _, tc := range s.Cases {
			if tc.Failure == nil {
				continue
			}
			out.Details = append(out.Details, domain.FailureDetail{
				TestName:   domain.QualifiedName(tc.Classname, tc.Name),
				Suite:      tc.Classname,
				Message:    tc.Failure.Message,
				StackTrace: nonEmptyLines(tc.Failure.Content),
			})
		}
	}
	return out
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
