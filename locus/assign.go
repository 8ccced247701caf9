// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locus implements C2, the Primary-Locus Assigner, and C3,
// the Interval Tiler.
package locus

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/contig"
)

// percentileRank is the percentile used to pick a query's primary
// target, per spec §4.2.
const percentileRank = 0.90

// minForPercentile is the minimum number of alignments on a target
// required before the percentile rule is used in place of the plain
// maximum.
const minForPercentile = 10

// AssignPrimary sets the primary target and locus interval for every
// contig with at least one alignment in store, writing results into
// table. Verdict and reason are left unchanged.
//
// For each target a query aligns to, AssignPrimary computes the
// nearest-rank 90th percentile of that query's alignment scores on
// the target (falling back to the maximum when fewer than
// minForPercentile alignments are present), and picks the target with
// the greatest such value. Ties are broken by greater summed block
// length, then by lexicographically smaller target id. Using a
// percentile rather than a single best score prevents one spurious
// high-scoring block from capturing the locus assignment (spec
// §4.2's rationale).
func AssignPrimary(table *contig.Table, store *align.Store) {
	store.All(func(q contig.Handle, alignments []align.Alignment) {
		if len(alignments) == 0 {
			return
		}
		byTarget := make(map[string][]align.Alignment)
		for _, a := range alignments {
			byTarget[a.Target] = append(byTarget[a.Target], a)
		}

		var (
			bestTarget   string
			bestValue    float64
			bestBlockLen int
			have         bool
		)
		for target, lst := range byTarget {
			value := percentileScore(lst)
			blockLen := 0
			for _, a := range lst {
				blockLen += a.BlockLen
			}
			switch {
			case !have:
				bestTarget, bestValue, bestBlockLen, have = target, value, blockLen, true
			case value > bestValue:
				bestTarget, bestValue, bestBlockLen = target, value, blockLen
			case value == bestValue:
				if blockLen > bestBlockLen || (blockLen == bestBlockLen && target < bestTarget) {
					bestTarget, bestValue, bestBlockLen = target, value, blockLen
				}
			}
		}

		s := table.At(q)
		s.PrimaryTarget = bestTarget
		s.HasPrimary = true
		s.Locus = convexHull(byTarget[bestTarget])
	})
}

// percentileScore computes the nearest-rank 90th-percentile alignment
// score of lst, or its maximum if len(lst) < minForPercentile.
func percentileScore(lst []align.Alignment) float64 {
	scores := make([]float64, len(lst))
	for i, a := range lst {
		scores[i] = float64(a.Score)
	}
	if len(scores) < minForPercentile {
		max := scores[0]
		for _, v := range scores[1:] {
			if v > max {
				max = v
			}
		}
		return max
	}
	sort.Float64s(scores)
	return stat.Quantile(percentileRank, stat.Empirical, scores, nil)
}

// convexHull returns the smallest interval covering every target
// interval in lst.
func convexHull(lst []align.Alignment) contig.Interval {
	iv := lst[0].TargetIval
	for _, a := range lst[1:] {
		if a.TargetIval.Start < iv.Start {
			iv.Start = a.TargetIval.Start
		}
		if a.TargetIval.End > iv.End {
			iv.End = a.TargetIval.End
		}
	}
	return iv
}
