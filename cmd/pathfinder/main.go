// Command pathfinder prints steepest-descent quadrature rules for
// oscillatory integrals ∫_a^b f(z)·exp(i·k·g(z)) dz.
//
//	pathfinder quad --coeffs 1,0,0 --freq 100 --a -1 --b 1 -n 20
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
