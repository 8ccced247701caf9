// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package threshold implements C5, the Threshold Estimator: deriving
// a distance threshold τ that separates "same haplotype" pairs from
// "distinct" pairs in the distribution of locus-co-located pairwise
// distances.
//
// The kernel density estimate is hand-rolled (Gaussian kernel, Scott
// bandwidth, 1024-point grid) rather than built on a statistics
// package's KDE, per spec §9's explicit guidance that this is "easy
// to implement from first principles" — the one place in this module
// where reaching for a library would be working against the spec, not
// with it. Quantile/mean helpers elsewhere in this package are an
// unrelated concern and do use gonum/stat.
package threshold

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MinSample is the minimum number of locus-co-located pairs required
// before estimation is attempted; below this, estimation is bypassed
// (spec §4.5).
const MinSample = 30

// gridPoints is the resolution of the density grid (spec §9).
const gridPoints = 1024

// epsilon nudges τ above a degenerate (all-equal) sample.
const epsilon = 1e-6

// Status records how τ was derived, for the threshold report (spec
// §3, §6).
type Status string

const (
	StatusUserSupplied   Status = "user-supplied"
	StatusBypassedSmall  Status = "bypassed-small-sample"
	StatusKDEValley      Status = "kde-valley"
	StatusMedianFallback Status = "median-fallback"
	StatusDegenerate     Status = "degenerate-all-equal"
)

// Report summarises the estimation for the threshold report (spec
// §4.5, §6).
type Report struct {
	Tau        float64
	SampleSize int
	Status     Status
}

// Estimate derives τ from samples, the distances of all locus-co-located
// pairs (spec §3). If userTau is non-nil, estimation is bypassed and
// that value is returned verbatim (spec §4.5, §6's
// `distance-threshold` option).
func Estimate(samples []float64, userTau *float64) Report {
	if userTau != nil {
		return Report{Tau: *userTau, SampleSize: len(samples), Status: StatusUserSupplied}
	}
	if len(samples) < MinSample {
		return Report{Tau: bypassDefault(samples), SampleSize: len(samples), Status: StatusBypassedSmall}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		return Report{Tau: lo + epsilon, SampleSize: len(samples), Status: StatusDegenerate}
	}

	h := scottBandwidth(sorted)
	grid, density := evaluateKDE(sorted, h, lo, hi)

	n := float64(len(sorted))
	for _, idx := range interiorLocalMinima(density) {
		x := grid[idx]
		leftMass := float64(countLE(sorted, x)) / n
		rightMass := 1 - leftMass
		if leftMass >= 0.05 && rightMass >= 0.05 {
			return Report{Tau: x, SampleSize: len(samples), Status: StatusKDEValley}
		}
	}

	return Report{Tau: median(sorted), SampleSize: len(samples), Status: StatusMedianFallback}
}

// bypassDefault is used when estimation is bypassed for insufficient
// sample size and no user τ was supplied; spec §4.5 does not name a
// fallback scalar explicitly for this path, so the sample's own
// median is used when any samples exist, and 0 otherwise. The
// returned τ is still applied by the tournament and the unaligned
// screen; with τ = 0 only pairs at distance exactly 0 count as
// same-haplotype.
func bypassDefault(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return median(sorted)
}

// scottBandwidth returns Scott's rule bandwidth for a 1-dimensional
// KDE: h = σ·n^(-1/5).
func scottBandwidth(sorted []float64) float64 {
	mean := stat.Mean(sorted, nil)
	variance := stat.Variance(sorted, nil)
	sigma := math.Sqrt(variance)
	if sigma == 0 {
		sigma = 1e-9
	}
	n := float64(len(sorted))
	_ = mean
	return sigma * math.Pow(n, -1.0/5.0)
}

// evaluateKDE returns gridPoints evenly spaced abscissae over [lo,hi]
// and the Gaussian KDE density at each, bandwidth h.
func evaluateKDE(samples []float64, h, lo, hi float64) (grid, density []float64) {
	grid = make([]float64, gridPoints)
	density = make([]float64, gridPoints)
	step := (hi - lo) / float64(gridPoints-1)
	norm := 1.0 / (float64(len(samples)) * h * math.Sqrt(2*math.Pi))
	for i := 0; i < gridPoints; i++ {
		x := lo + float64(i)*step
		grid[i] = x
		var sum float64
		for _, s := range samples {
			u := (x - s) / h
			sum += math.Exp(-0.5 * u * u)
		}
		density[i] = norm * sum
	}
	return grid, density
}

// interiorLocalMinima returns the indices of points whose density is
// strictly less than both neighbours, in ascending grid order (i.e.
// leftmost first), excluding the endpoints.
func interiorLocalMinima(density []float64) []int {
	var minima []int
	for i := 1; i < len(density)-1; i++ {
		if density[i] < density[i-1] && density[i] < density[i+1] {
			minima = append(minima, i)
		}
	}
	return minima
}

// countLE returns the number of elements of sorted (already sorted
// ascending) that are ≤ x.
func countLE(sorted []float64, x float64) int {
	return sort.SearchFloat64s(sorted, math.Nextafter(x, math.Inf(1)))
}

// median returns the median of sorted (already sorted ascending).
func median(sorted []float64) float64 {
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
