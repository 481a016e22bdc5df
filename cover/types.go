// SPDX-License-Identifier: MIT

package cover

import (
	"errors"
	"fmt"
	"math/cmplx"
)

// Sentinel errors for the cover package.
var (
	// ErrBadConfig indicates an invalid Config field.
	ErrBadConfig = errors.New("cover: invalid configuration")
)

// Defaults (single source of truth for DefaultConfig).
const (
	DefaultNumOscs     = 1.0
	DefaultNumRays     = 16
	DefaultMergeThresh = 0.1
	DefaultImagThresh  = 5.0
	DefaultMaxRaySteps = 2000

	// bisectionSteps refines each ray crossing.
	bisectionSteps = 30

	// stepsPerScale is the number of ray steps per characteristic radius.
	stepsPerScale = 8
)

// Config configures ball construction.
type Config struct {
	NumOscs       float64 // oscillations bounded inside each ball
	NumRays       int     // angular sampling density
	MergeThresh   float64 // boundary gap below which balls are merged
	ImagThresh    float64 // decay level at which a ray may stop early
	TakeMax       bool    // radius = max over rays (true) or mean (false)
	MaxRaySteps   int     // marching cap per ray
	InteriorBalls bool    // also cover finite endpoints
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		NumOscs:     DefaultNumOscs,
		NumRays:     DefaultNumRays,
		MergeThresh: DefaultMergeThresh,
		ImagThresh:  DefaultImagThresh,
		TakeMax:     true,
		MaxRaySteps: DefaultMaxRaySteps,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case !(c.NumOscs > 0):
		return fmt.Errorf("%w: NumOscs=%g must be > 0", ErrBadConfig, c.NumOscs)
	case c.NumRays < 1:
		return fmt.Errorf("%w: NumRays=%d must be ≥ 1", ErrBadConfig, c.NumRays)
	case c.MergeThresh < 0:
		return fmt.Errorf("%w: MergeThresh=%g must be ≥ 0", ErrBadConfig, c.MergeThresh)
	case !(c.ImagThresh > 0):
		return fmt.Errorf("%w: ImagThresh=%g must be > 0", ErrBadConfig, c.ImagThresh)
	case c.MaxRaySteps < 1:
		return fmt.Errorf("%w: MaxRaySteps=%d must be ≥ 1", ErrBadConfig, c.MaxRaySteps)
	}

	return nil
}

// Seed describes the centre of a ball before the radius search: the local
// expansion Φ(z) ≈ Φ(Z) + Coefficient·(z−Z)^Order and a fallback radius.
type Seed struct {
	Z           complex128
	Order       int
	Coefficient complex128
	Fallback    float64
}

// Ball is a disk covering one or more stationary points (and, with
// interior balls, finite endpoints).
type Ball struct {
	Center    complex128
	Radius    float64
	Members   []int // stationary point indices
	Endpoints []int // endpoint indices covered as interior balls
}

// Contains reports whether z lies strictly inside the ball.
func (b Ball) Contains(z complex128) bool {
	return cmplx.Abs(z-b.Center) < b.Radius
}

// Gap returns the distance between the two boundaries (negative on overlap).
func (b Ball) Gap(o Ball) float64 {
	return cmplx.Abs(b.Center-o.Center) - b.Radius - o.Radius
}

// Covering is the frozen output of Cover.
type Covering struct {
	Balls []Ball

	// Owner[i] is the ball index of stationary point i.
	Owner []int

	// EndpointOwner[e] is the ball strictly containing endpoint e, or −1.
	EndpointOwner []int

	// Fallbacks counts rays that degraded to the fallback radius.
	Fallbacks int
}

// BallAt returns the index of the first ball strictly containing z, or −1.
func (c Covering) BallAt(z complex128) int {
	for i, b := range c.Balls {
		if b.Contains(z) {
			return i
		}
	}

	return -1
}
