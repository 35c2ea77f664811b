package domain

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// PanicError wraps a value recovered from a panicking test body, setup or cleanup function
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StackLines returns the captured stack split into trimmed lines
func (e *PanicError) StackLines() []string {
	var lines []string
	for _, l := range strings.Split(e.Stack, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Protect calls fn and converts a panic into a *PanicError
func Protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}
