// Package assert provides the checks test bodies use to fail a test.
//
// Every check returns nil when the condition holds and a *Failure otherwise,
// so a body can simply return the result:
//
//	if err := assert.AreEqual(4, 2+2); err != nil {
//		return err
//	}
//	return assert.IsTrue(ok)
//
// The runner classifies a returned *Failure as an assertion failure and any
// other error as a fatal failure.
package assert

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// RelativeTolerance scales the tolerance used by AreApproximatelyEqual
// with the magnitude of its operands.
const RelativeTolerance = 1e-8

// Failure is returned by a check whose condition does not hold
type Failure struct {
	Condition string // The violated condition, e.g. "4 == 5"
	Message   string
	File      string
	Line      int
	Func      string
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString("assert failed")
	if f.File != "" {
		fmt.Fprintf(&b, " at %s:%d", f.File, f.Line)
	}
	if f.Func != "" {
		fmt.Fprintf(&b, " (%s)", f.Func)
	}
	fmt.Fprintf(&b, ": %s", f.Message)
	if f.Condition != "" {
		fmt.Fprintf(&b, " [%s]", f.Condition)
	}
	return b.String()
}

// AsFailure reports whether err is, or wraps, an assertion failure
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// newFailure records the call site of the exported check that failed.
func newFailure(condition, format string, args ...any) *Failure {
	f := &Failure{Condition: condition, Message: fmt.Sprintf(format, args...)}
	if pc, file, line, ok := runtime.Caller(2); ok {
		f.File = filepath.Base(file)
		f.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			f.Func = shortFuncName(fn.Name())
		}
	}
	return f
}

func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// IsTrue fails unless value is true
func IsTrue(value bool) error {
	if !value {
		return newFailure(fmt.Sprintf("%v is true", value), "Expected value of 'true'")
	}
	return nil
}

// IsFalse fails unless value is false
func IsFalse(value bool) error {
	if value {
		return newFailure(fmt.Sprintf("%v is false", value), "Expected value of 'false'")
	}
	return nil
}

// AreEqual fails unless a == b
func AreEqual[T comparable](a, b T) error {
	if a != b {
		return newFailure(fmt.Sprintf("%v == %v", a, b), "Expected equality of values '%v' and '%v'", a, b)
	}
	return nil
}

// AreNotEqual fails when a == b
func AreNotEqual[T comparable](a, b T) error {
	if a == b {
		return newFailure(fmt.Sprintf("%v != %v", a, b), "Expected inequality of values '%v' and '%v'", a, b)
	}
	return nil
}

// AreDeepEqual fails unless a and b are deeply equal, for slices, maps and structs
func AreDeepEqual(a, b any) error {
	if !reflect.DeepEqual(a, b) {
		return newFailure(fmt.Sprintf("%v == %v", a, b), "Expected deep equality of values '%v' and '%v'", a, b)
	}
	return nil
}

// IsLessThan fails unless value < target
func IsLessThan[T cmp.Ordered](value, target T) error {
	if !(value < target) {
		return newFailure(fmt.Sprintf("%v < %v", value, target), "Expected value of '%v' to be less than '%v'", value, target)
	}
	return nil
}

// IsLessOrEqual fails unless value <= target
func IsLessOrEqual[T cmp.Ordered](value, target T) error {
	if !(value <= target) {
		return newFailure(fmt.Sprintf("%v <= %v", value, target), "Expected value of '%v' to be less than or equal to '%v'", value, target)
	}
	return nil
}

// IsGreaterThan fails unless value > target
func IsGreaterThan[T cmp.Ordered](value, target T) error {
	if !(value > target) {
		return newFailure(fmt.Sprintf("%v > %v", value, target), "Expected value of '%v' to be greater than '%v'", value, target)
	}
	return nil
}

// IsGreaterOrEqual fails unless value >= target
func IsGreaterOrEqual[T cmp.Ordered](value, target T) error {
	if !(value >= target) {
		return newFailure(fmt.Sprintf("%v >= %v", value, target), "Expected value of '%v' to be greater than or equal to '%v'", value, target)
	}
	return nil
}

// AreApproximatelyEqual fails unless |a-b| <= max(|a|,|b|) * RelativeTolerance.
// NaN is never approximately equal to anything.
func AreApproximatelyEqual(a, b float64) error {
	tolerance := math.Max(math.Abs(a), math.Abs(b)) * RelativeTolerance
	diff := math.Abs(a - b)
	if math.IsNaN(diff) || diff > tolerance {
		if a == b {
			// Equal infinities produce a NaN difference.
			return nil
		}
		return newFailure(fmt.Sprintf("%v ~= %v", a, b), "Expected '%v' and '%v' to be approximately equal (tolerance %g)", a, b, tolerance)
	}
	return nil
}

// NoError fails when err is non-nil, turning an unexpected error into an assertion failure
func NoError(err error) error {
	if err != nil {
		return newFailure("err == nil", "Unexpected error: %v", err)
	}
	return nil
}

// Fail always fails with the given message
func Fail(format string, args ...any) error {
	return newFailure("", format, args...)
}

// First returns the first non-nil error, letting a body evaluate several checks at once
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
