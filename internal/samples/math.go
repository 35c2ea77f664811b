package samples

import (
	"gtr/internal/assert"
	"gtr/internal/discovery"
	"gtr/internal/domain"
)

func divide(a, b int) int {
	return a / b
}

// registerMath uses explicit registration. DividesByZeroThrows fails on
// purpose: the runtime panic is recorded as a fatal failure.
func registerMath(reg *discovery.Registry) {
	reg.MustRegister("Math", "AddsTwoNumbers", func(*domain.T) error {
		return assert.AreEqual(4, 2+2)
	})
	reg.MustRegister("Math", "DividesByZeroThrows", func(*domain.T) error {
		zero := 0
		_ = divide(1, zero)
		return nil
	})
	reg.MustRegister("Math", "ComparesFloats", func(*domain.T) error {
		return assert.First(
			assert.AreApproximatelyEqual(0.1+0.2, 0.3),
			assert.IsLessThan(1e9, 1e10),
			assert.IsGreaterOrEqual(2.5, 2.5),
		)
	})
}
