// Package environment provides the per-test setup and teardown the runner
// wraps around every test body.
package environment

import (
	"context"
	"errors"

	"gtr/internal/domain"
)

// Environment is set up before each test body and torn down after the
// test's cleanup stack has drained. Teardown is called even when Setup failed.
type Environment interface {
	Setup(ctx context.Context, t *domain.T) error
	Teardown(ctx context.Context, t *domain.T) error
}

// Nop is an Environment that does nothing
type Nop struct{}

func (Nop) Setup(context.Context, *domain.T) error    { return nil }
func (Nop) Teardown(context.Context, *domain.T) error { return nil }

// Funcs adapts plain functions to an Environment. Nil functions are skipped.
type Funcs struct {
	SetupFn    func(ctx context.Context, t *domain.T) error
	TeardownFn func(ctx context.Context, t *domain.T) error
}

func (f Funcs) Setup(ctx context.Context, t *domain.T) error {
	if f.SetupFn == nil {
		return nil
	}
	return f.SetupFn(ctx, t)
}

func (f Funcs) Teardown(ctx context.Context, t *domain.T) error {
	if f.TeardownFn == nil {
		return nil
	}
	return f.TeardownFn(ctx, t)
}

// chain sets environments up in order and tears down, in reverse order,
// only those whose Setup succeeded.
type chain struct {
	envs  []Environment
	ready int
}

// Chain combines environments into one
func Chain(envs ...Environment) Environment {
	c := &chain{}
	for _, env := range envs {
		if env != nil {
			c.envs = append(c.envs, env)
		}
	}
	return c
}

func (c *chain) Setup(ctx context.Context, t *domain.T) error {
	c.ready = 0
	for _, env := range c.envs {
		if err := env.Setup(ctx, t); err != nil {
			return err
		}
		c.ready++
	}
	return nil
}

func (c *chain) Teardown(ctx context.Context, t *domain.T) error {
	var errs []error
	for i := c.ready - 1; i >= 0; i-- {
		if err := c.envs[i].Teardown(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	c.ready = 0
	return errors.Join(errs...)
}
