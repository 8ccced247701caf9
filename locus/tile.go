// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locus

import (
	"sort"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/contig"
)

// TiledAlignment is one member of a TiledAlignmentSet: the target
// interval an accepted alignment covers, together with the quantities
// needed for the normalised-score sum.
type TiledAlignment struct {
	Interval contig.Interval
	Score    int
	Matched  int
}

// TiledAlignmentSet is the ordered, pairwise-disjoint result of tiling
// one contig's alignments on its primary target (spec §3).
type TiledAlignmentSet struct {
	Query      contig.Handle
	Alignments []TiledAlignment
}

// Disjoint reports whether every pair of members in s has
// non-overlapping target intervals, the invariant C3 must uphold.
func (s TiledAlignmentSet) Disjoint() bool {
	for i := range s.Alignments {
		for j := i + 1; j < len(s.Alignments); j++ {
			if s.Alignments[i].Interval.Overlap(s.Alignments[j].Interval) > 0 {
				return false
			}
		}
	}
	return true
}

// TileContig reduces q's alignments on its primary target to a
// non-redundant tiling and sets its normalised score and verdict in
// table. minOverlap is the greedy-rejection tolerance (spec §4.3); a
// value of 0 uses align.DefaultMinOverlap.
//
// Alignments are walked in descending score order (ties broken by
// descending block length, mirroring the teacher's bySubjectLeft
// sort idiom of "higher scoring matches first"), accepting each one
// unless it overlaps an already-accepted interval by more than
// minOverlap bases. This is the O(k²) algorithm spec §4.3 explicitly
// permits; an interval tree is an optional refinement, not exercised
// here since locus clustering in the tournament package is a better
// fit for that structure.
func TileContig(table *contig.Table, q contig.Handle, targetAlignments []align.Alignment, minOverlap int) TiledAlignmentSet {
	if minOverlap == 0 {
		minOverlap = align.DefaultMinOverlap
	}

	sorted := make([]align.Alignment, len(targetAlignments))
	copy(sorted, targetAlignments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].BlockLen > sorted[j].BlockLen
	})

	var set TiledAlignmentSet
	set.Query = q
	for _, a := range sorted {
		overlaps := false
		for _, t := range set.Alignments {
			if a.TargetIval.Overlap(t.Interval) > minOverlap {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		set.Alignments = append(set.Alignments, TiledAlignment{
			Interval: a.TargetIval,
			Score:    a.Score,
			Matched:  a.NumMatch,
		})
	}

	s := table.At(q)
	if len(set.Alignments) == 0 {
		// Impossible given at least one input alignment, per spec
		// §4.3, but handled for robustness against future callers.
		s.NormalisedScore = 0
		s.Verdict = contig.UnalignedPending
		return set
	}

	var sum float64
	for _, t := range set.Alignments {
		sum += float64(t.Score) * float64(t.Matched)
	}
	if s.Length > 0 {
		s.NormalisedScore = sum / float64(s.Length)
	}
	s.Reason = contig.ReasonTiled
	s.Verdict = contig.Pending
	return set
}
