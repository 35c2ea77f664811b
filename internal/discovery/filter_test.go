package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gtr/internal/domain"
)

func nop(*domain.T) error { return nil }

func sampleSuites(t *testing.T) []domain.Suite {
	t.Helper()
	r := NewRegistry()
	r.MustRegister("Math", "AddsTwoNumbers", nop)
	r.MustRegister("Math", "DividesByZeroThrows", nop)
	r.MustRegister("SpaceSystem", "CreateSpace", nop)
	r.MustRegister("SpaceSystem", "DeleteSpace", nop)
	r.MustRegister("UserSystem", "Login", nop)
	return r.Suites()
}

func names(suites []domain.Suite) []string {
	var out []string
	for _, s := range suites {
		for _, tc := range s.Tests {
			out = append(out, tc.FullName())
		}
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name     string
		entries  []string
		expected []string
	}{
		{
			name:     "empty filter returns all in discovery order",
			entries:  nil,
			expected: []string{"Math.AddsTwoNumbers", "Math.DividesByZeroThrows", "SpaceSystem.CreateSpace", "SpaceSystem.DeleteSpace", "UserSystem.Login"},
		},
		{
			name:     "bare suite name runs the suite in full",
			entries:  []string{"SpaceSystem"},
			expected: []string{"SpaceSystem.CreateSpace", "SpaceSystem.DeleteSpace"},
		},
		{
			name:     "qualified name selects exactly one test",
			entries:  []string{"Math.DividesByZeroThrows"},
			expected: []string{"Math.DividesByZeroThrows"},
		},
		{
			name:     "suite and test entries combine",
			entries:  []string{"UserSystem", "Math.AddsTwoNumbers"},
			expected: []string{"Math.AddsTwoNumbers", "UserSystem.Login"},
		},
		{
			name:     "comma separated entries",
			entries:  []string{"Math.AddsTwoNumbers, SpaceSystem.DeleteSpace"},
			expected: []string{"Math.AddsTwoNumbers", "SpaceSystem.DeleteSpace"},
		},
		{
			name:     "wildcard over test names",
			entries:  []string{"*.Delete*"},
			expected: []string{"SpaceSystem.DeleteSpace"},
		},
		{
			name:     "wildcard over suite names",
			entries:  []string{"*System"},
			expected: []string{"SpaceSystem.CreateSpace", "SpaceSystem.DeleteSpace", "UserSystem.Login"},
		},
		{
			name:     "no matches",
			entries:  []string{"NonExistent"},
			expected: nil,
		},
		{
			name:     "partial names do not match",
			entries:  []string{"Mat"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewFilter(tt.entries...).Apply(sampleSuites(t))
			assert.Equal(t, tt.expected, names(result))
		})
	}
}

func TestFilter_Empty(t *testing.T) {
	var nilFilter *Filter
	assert.True(t, nilFilter.Empty())
	assert.True(t, NewFilter().Empty())
	assert.True(t, NewFilter("", " , ").Empty())
	assert.False(t, NewFilter("Math").Empty())
	assert.Equal(t, []string{"Math", "User.Login"}, NewFilter("Math,User.Login").Entries())
}

func TestFilter_DropsEmptySuites(t *testing.T) {
	result := NewFilter("Math.AddsTwoNumbers").Apply(sampleSuites(t))

	assert.Len(t, result, 1)
	assert.Equal(t, "Math", result[0].Name)
	assert.Len(t, result[0].Tests, 1)
}

func TestSelectNames(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("Calc", "Adds", nop)
	r.MustRegister("Calc", "Adds*", nop)
	r.MustRegister("Calc", "Subtracts,Rounds", nop)
	r.MustRegister("Calc", "Subtracts", nop)
	suites := r.Suites()

	selected := SelectNames(suites, map[string]struct{}{
		"Calc.Adds*":            {},
		"Calc.Subtracts,Rounds": {},
		"Missing.Test":          {},
	})
	assert.Equal(t, []string{"Calc.Adds*", "Calc.Subtracts,Rounds"}, names(selected))

	assert.Empty(t, SelectNames(suites, map[string]struct{}{"Calc": {}}))
	assert.Empty(t, SelectNames(suites, nil))
}
