// Package samples holds the suites compiled into the gtr binary. They
// exercise both discovery strategies, the cleanup stack and the event queue.
package samples

import (
	"gtr/internal/discovery"
)

func init() {
	Register(discovery.Default)
}

// Register adds every sample suite to reg
func Register(reg *discovery.Registry) {
	registerMath(reg)
	reg.MustDiscover(NewSpaceSuite(NewFakeSDK()))
	reg.MustDiscover(&EventsSuite{})
}
