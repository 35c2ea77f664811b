package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtr/internal/domain"
)

type SpaceSuite struct {
	calls []string
}

func (s *SpaceSuite) TestCreate(*domain.T) error {
	s.calls = append(s.calls, "create")
	return nil
}

func (s *SpaceSuite) TestDelete(*domain.T) error {
	s.calls = append(s.calls, "delete")
	return errors.New("delete failed")
}

// Helper methods and wrong signatures are not tests.
func (s *SpaceSuite) Helper(*domain.T) error  { return nil }
func (s *SpaceSuite) TestWrongSignature() bool { return true }

type orderedSuite struct{}

func (orderedSuite) TestA(*domain.T) error { return nil }
func (orderedSuite) TestB(*domain.T) error { return nil }
func (orderedSuite) TestC(*domain.T) error { return nil }

func (orderedSuite) TestOrder(method string) int {
	if method == "TestC" {
		return -1
	}
	return 0
}

func (orderedSuite) SuiteName() string { return "Ordered" }

type emptySuite struct{}

func TestRegistry_Discover(t *testing.T) {
	r := NewRegistry()
	suite := &SpaceSuite{}
	require.NoError(t, r.Discover(suite))

	suites := r.Suites()
	require.Len(t, suites, 1)
	assert.Equal(t, "SpaceSuite", suites[0].Name)
	assert.Equal(t, []string{"SpaceSuite.TestCreate", "SpaceSuite.TestDelete"}, names(suites))

	tt := domain.NewT(context.Background(), suites[0].Tests[0], nil, nil)
	require.NoError(t, suites[0].Tests[0].Body(tt))
	require.Error(t, suites[0].Tests[1].Body(tt))
	assert.Equal(t, []string{"create", "delete"}, suite.calls)
}

func TestRegistry_DiscoverOrdererAndNamer(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Discover(orderedSuite{}))

	assert.Equal(t, []string{"Ordered.TestC", "Ordered.TestA", "Ordered.TestB"}, names(r.Suites()))
}

func TestRegistry_DiscoverErrors(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.Discover(nil), ErrInvalidTest)
	assert.ErrorIs(t, r.Discover(emptySuite{}), ErrInvalidTest)

	require.NoError(t, r.Discover(&SpaceSuite{}))
	assert.ErrorIs(t, r.Discover(&SpaceSuite{}), ErrDuplicateTest)
}

func TestRegistry_DiscoverFailureLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry()
	// TestDelete sorts after TestCreate, so a partial registration would keep TestCreate
	r.MustRegister("SpaceSuite", "TestDelete", nop)

	err := r.Discover(&SpaceSuite{})
	require.ErrorIs(t, err, ErrDuplicateTest)

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"SpaceSuite.TestDelete"}, names(r.Suites()))
}

func TestRegistry_MixedStrategies(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("Math", "Adds", nop)
	r.MustDiscover(&SpaceSuite{})
	r.MustRegister("Math", "Subtracts", nop)

	assert.Equal(t, []string{"Math.Adds", "Math.Subtracts", "SpaceSuite.TestCreate", "SpaceSuite.TestDelete"}, names(r.Suites()))
}
