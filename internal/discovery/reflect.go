package discovery

import (
	"fmt"
	"reflect"
	"strings"

	"gtr/internal/domain"
)

// TestMethodPrefix marks the methods Discover registers as tests
const TestMethodPrefix = "Test"

// Orderer can be implemented by a discovered suite to give its tests ordering hints
type Orderer interface {
	TestOrder(method string) int
}

// SuiteNamer can be implemented by a discovered suite to override the type name
type SuiteNamer interface {
	SuiteName() string
}

var bodyType = reflect.TypeOf((*domain.Body)(nil)).Elem()

// Discover registers every exported method of v named Test* with the
// signature func(*domain.T) error. The suite is named after v's type.
// Methods are visited in the order reflection reports them (sorted by name).
func (r *Registry) Discover(v any) error {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return fmt.Errorf("%w: cannot discover tests on nil", ErrInvalidTest)
	}

	suite := reflect.Indirect(val).Type().Name()
	if namer, ok := v.(SuiteNamer); ok {
		suite = namer.SuiteName()
	}
	if suite == "" {
		return fmt.Errorf("%w: %T has no type name", ErrInvalidTest, v)
	}
	orderer, _ := v.(Orderer)

	type candidate struct {
		name string
		body domain.Body
		opts []Option
	}
	var found []candidate

	typ := val.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if !strings.HasPrefix(method.Name, TestMethodPrefix) {
			continue
		}
		fn := val.Method(i)
		if !fn.Type().ConvertibleTo(bodyType) {
			continue
		}

		var opts []Option
		if orderer != nil {
			opts = append(opts, WithOrder(orderer.TestOrder(method.Name)))
		}
		found = append(found, candidate{
			name: method.Name,
			body: fn.Convert(bodyType).Interface().(domain.Body),
			opts: opts,
		})
	}

	if len(found) == 0 {
		return fmt.Errorf("%w: %s declares no %s* methods with signature func(*domain.T) error", ErrInvalidTest, suite, TestMethodPrefix)
	}

	// A suite is registered whole or not at all
	for _, c := range found {
		if err := r.check(suite, c.name, c.body); err != nil {
			return err
		}
	}
	for _, c := range found {
		if err := r.Register(suite, c.name, c.body, c.opts...); err != nil {
			return err
		}
	}
	return nil
}

// MustDiscover is Discover that panics on error
func (r *Registry) MustDiscover(v any) {
	if err := r.Discover(v); err != nil {
		panic(err)
	}
}

// Discover registers v's test methods with the Default registry
func Discover(v any) {
	Default.MustDiscover(v)
}
