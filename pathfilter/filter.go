// SPDX-License-Identifier: MIT

package pathfilter

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/pathfinder/pathgraph"
)

// Sentinel errors for the pathfilter package.
var (
	// ErrInfiniteIntegral indicates an ingredient whose peak magnitude is
	// infinite (or NaN): the integral is ill-posed.
	ErrInfiniteIntegral = errors.New("pathfilter: integral is infinite")

	// ErrBadThreshold indicates a negative or NaN threshold.
	ErrBadThreshold = errors.New("pathfilter: threshold must be ≥ 0")
)

// Magnitude sanity bounds: a dominant magnitude outside [MinMagnitude,
// MaxMagnitude] is kept but flagged.
const (
	MinMagnitude = 1e-16
	MaxMagnitude = 1e16
)

// Result is the outcome of Filter.
type Result struct {
	// Ingredients are the retained pieces, in route order.
	Ingredients []pathgraph.Ingredient

	// Kept[i] is the route index of Ingredients[i].
	Kept []int

	// MaxVal is the largest ingredient magnitude (+Inf when filtering is off).
	MaxVal float64

	// OutOfRange is set when MaxVal lies outside [MinMagnitude, MaxMagnitude].
	OutOfRange bool
}

// Dropped returns how many ingredients of a route of length n were removed.
func (r Result) Dropped(n int) int { return n - len(r.Ingredients) }

// Filter drops the ingredients whose peak magnitude is below thresh·MaxVal.
//
// thresh == 0 keeps every ingredient, reports MaxVal = +Inf and skips the
// sanity checks. Otherwise:
//   - MaxVal = +Inf (or NaN) fails with ErrInfiniteIntegral;
//   - MaxVal outside [1e-16, 1e16] sets OutOfRange and carries on.
//
// An empty route yields an empty result with MaxVal 0.
func Filter(route pathgraph.Route, thresh float64) (Result, error) {
	if !(thresh >= 0) {
		return Result{}, fmt.Errorf("%w: got %g", ErrBadThreshold, thresh)
	}

	n := len(route.Ingredients)
	if thresh == 0 {
		res := Result{
			Ingredients: append([]pathgraph.Ingredient(nil), route.Ingredients...),
			Kept:        make([]int, n),
			MaxVal:      math.Inf(1),
		}
		for i := range res.Kept {
			res.Kept[i] = i
		}
		return res, nil
	}
	if n == 0 {
		return Result{}, nil
	}

	mags := make([]float64, n)
	for i, in := range route.Ingredients {
		if math.IsNaN(in.Magnitude) {
			return Result{}, fmt.Errorf("%w: ingredient %d has NaN magnitude", ErrInfiniteIntegral, i)
		}
		mags[i] = in.Magnitude
	}
	maxVal := floats.Max(mags)
	if math.IsInf(maxVal, 1) {
		return Result{}, fmt.Errorf("%w: ingredient %d", ErrInfiniteIntegral, floats.MaxIdx(mags))
	}

	res := Result{
		MaxVal:     maxVal,
		OutOfRange: maxVal > MaxMagnitude || maxVal < MinMagnitude,
	}
	cut := thresh * maxVal
	for i, in := range route.Ingredients {
		if mags[i] < cut {
			continue
		}
		res.Ingredients = append(res.Ingredients, in)
		res.Kept = append(res.Kept, i)
	}

	return res, nil
}
