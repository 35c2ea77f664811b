package discovery

import (
	"path"
	"strings"

	"gtr/internal/domain"
)

// Filter restricts which tests run. Each entry is a bare suite name, a
// qualified "suite.test" name, or a wildcard pattern (supports * and ?)
// matched against either form.
type Filter struct {
	entries []string
}

// NewFilter creates a Filter. Entries may themselves be comma-separated lists.
func NewFilter(entries ...string) *Filter {
	f := &Filter{}
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.entries = append(f.entries, part)
			}
		}
	}
	return f
}

// Empty reports whether the filter lets everything through
func (f *Filter) Empty() bool {
	return f == nil || len(f.entries) == 0
}

// Entries returns the normalised filter entries
func (f *Filter) Entries() []string {
	if f == nil {
		return nil
	}
	return f.entries
}

// Apply returns the suites and tests selected by the filter. A suite whose
// name matches runs in full; any other suite is reduced to the matching
// tests and dropped when none match. Order is preserved.
func (f *Filter) Apply(suites []domain.Suite) []domain.Suite {
	if f.Empty() {
		return suites
	}

	var filtered []domain.Suite
	for _, suite := range suites {
		if f.matches(suite.Name) {
			filtered = append(filtered, suite)
			continue
		}

		var tests []domain.TestCase
		for _, tc := range suite.Tests {
			if f.matches(tc.FullName()) {
				tests = append(tests, tc)
			}
		}
		if len(tests) > 0 {
			filtered = append(filtered, domain.Suite{Name: suite.Name, Tests: tests})
		}
	}
	return filtered
}

func (f *Filter) matches(name string) bool {
	for _, entry := range f.entries {
		if entry == name {
			return true
		}
		if strings.ContainsAny(entry, "*?") {
			if matched, err := path.Match(entry, name); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// SelectNames keeps only the tests whose qualified "suite.test" name is in
// names. Names are compared literally: commas and wildcards carry no meaning.
func SelectNames(suites []domain.Suite, names map[string]struct{}) []domain.Suite {
	var selected []domain.Suite
	for _, suite := range suites {
		var tests []domain.TestCase
		for _, tc := range suite.Tests {
			if _, ok := names[tc.FullName()]; ok {
				tests = append(tests, tc)
			}
		}
		if len(tests) > 0 {
			selected = append(selected, domain.Suite{Name: suite.Name, Tests: tests})
		}
	}
	return selected
}
