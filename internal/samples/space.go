package samples

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gtr/internal/assert"
	"gtr/internal/domain"
)

// ErrNotLoggedIn is returned by FakeSDK calls that need a session
var ErrNotLoggedIn = errors.New("not logged in")

// FakeSDK stands in for a remote service with sessions and spaces
type FakeSDK struct {
	mu       sync.Mutex
	sessions map[string]bool
	spaces   map[string]string // space -> owner
	nextID   int
}

// NewFakeSDK creates an empty FakeSDK
func NewFakeSDK() *FakeSDK {
	return &FakeSDK{sessions: make(map[string]bool), spaces: make(map[string]string)}
}

func (s *FakeSDK) LogIn(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[user] {
		return fmt.Errorf("user %s already logged in", user)
	}
	s.sessions[user] = true
	return nil
}

func (s *FakeSDK) LogOut(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessions[user] {
		return ErrNotLoggedIn
	}
	delete(s.sessions, user)
	return nil
}

func (s *FakeSDK) CreateSpace(user, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessions[user] {
		return "", ErrNotLoggedIn
	}
	s.nextID++
	id := fmt.Sprintf("%s-%d", name, s.nextID)
	s.spaces[id] = user
	return id, nil
}

// DeleteSpace requires the owner to still be logged in
func (s *FakeSDK) DeleteSpace(user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessions[user] {
		return ErrNotLoggedIn
	}
	if s.spaces[id] != user {
		return fmt.Errorf("space %s not owned by %s", id, user)
	}
	delete(s.spaces, id)
	return nil
}

// Counts returns the open sessions and existing spaces
func (s *FakeSDK) Counts() (sessions, spaces int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), len(s.spaces)
}

// SpaceSuite is discovered by reflection. Its tests push cleanups in
// acquisition order, so the space is deleted before the owner logs out.
type SpaceSuite struct {
	sdk *FakeSDK
}

// NewSpaceSuite creates the suite against sdk
func NewSpaceSuite(sdk *FakeSDK) *SpaceSuite {
	return &SpaceSuite{sdk: sdk}
}

// SuiteName names the suite "Space" instead of the type name
func (s *SpaceSuite) SuiteName() string { return "Space" }

// TestOrder runs the isolation check after the tests that create state
func (s *SpaceSuite) TestOrder(method string) int {
	if method == "TestStartsClean" {
		return 1
	}
	return 0
}

func (s *SpaceSuite) logIn(t *domain.T, user string) error {
	if err := s.sdk.LogIn(user); err != nil {
		return err
	}
	t.Cleanup(func(context.Context) error {
		t.Logf("logging out %s", user)
		return s.sdk.LogOut(user)
	})
	return nil
}

func (s *SpaceSuite) createSpace(t *domain.T, user, name string) (string, error) {
	id, err := s.sdk.CreateSpace(user, name)
	if err != nil {
		return "", err
	}
	t.Cleanup(func(context.Context) error {
		t.Logf("deleting space %s", id)
		return s.sdk.DeleteSpace(user, id)
	})
	return id, nil
}

func (s *SpaceSuite) TestCreateSpace(t *domain.T) error {
	if err := s.logIn(t, "alice"); err != nil {
		return err
	}
	id, err := s.createSpace(t, "alice", "lobby")
	if err != nil {
		return err
	}
	t.Eventf("space %s created", id)

	_, spaces := s.sdk.Counts()
	return assert.AreEqual(1, spaces)
}

func (s *SpaceSuite) TestTwoUsers(t *domain.T) error {
	for _, user := range []string{"bob", "carol"} {
		if err := s.logIn(t, user); err != nil {
			return err
		}
		if _, err := s.createSpace(t, user, user+"-home"); err != nil {
			return err
		}
	}
	sessions, spaces := s.sdk.Counts()
	return assert.First(assert.AreEqual(2, sessions), assert.AreEqual(2, spaces))
}

func (s *SpaceSuite) TestStartsClean(t *domain.T) error {
	sessions, spaces := s.sdk.Counts()
	return assert.First(assert.AreEqual(0, sessions), assert.AreEqual(0, spaces))
}
