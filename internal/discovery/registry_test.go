package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/domain"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("B", "one", nop))
	require.NoError(t, r.Register("A", "one", nop))
	require.NoError(t, r.Register("B", "two", nop))

	suites := r.Suites()
	require.Len(t, suites, 2)
	assert.Equal(t, "B", suites[0].Name)
	assert.Equal(t, "A", suites[1].Name)
	assert.Equal(t, []string{"B.one", "B.two", "A.one"}, names(suites))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, domain.CountTests(suites))
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Math", "Adds", nop))

	t.Run("duplicate", func(t *testing.T) {
		err := r.Register("Math", "Adds", nop)
		assert.ErrorIs(t, err, ErrDuplicateTest)
	})

	t.Run("same test name in another suite is allowed", func(t *testing.T) {
		assert.NoError(t, r.Register("Other", "Adds", nop))
	})

	t.Run("empty suite name", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("", "Adds", nop), ErrInvalidTest)
	})

	t.Run("empty test name", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("Math", "", nop), ErrInvalidTest)
	})

	t.Run("nil body", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("Math", "Nil", nil), ErrInvalidTest)
	})

	t.Run("must register panics", func(t *testing.T) {
		assert.Panics(t, func() { r.MustRegister("Math", "Adds", nop) })
	})
}

func TestRegistry_OrderingHints(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("S", "late", nop, WithOrder(10))
	r.MustRegister("S", "first", nop)
	r.MustRegister("S", "early", nop, WithOrder(-1))
	r.MustRegister("S", "second", nop)

	assert.Equal(t, []string{"S.early", "S.first", "S.second", "S.late"}, names(r.Suites()))
}

func TestRegistry_SuitesIsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("S", "one", nop)

	suites := r.Suites()
	suites[0].Tests[0].Name = "mutated"

	assert.Equal(t, "one", r.Suites()[0].Tests[0].Name)
}
