// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locus

import (
	"testing"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/contig"
)

func TestTileContigGreedyNonOverlapping(t *testing.T) {
	table := contig.NewTable(1)
	q := table.Add("q1", 1000)

	alignments := []align.Alignment{
		{Query: q, Target: "t1", TargetIval: contig.Interval{Start: 0, End: 100}, Score: 90, NumMatch: 95, BlockLen: 100},
		{Query: q, Target: "t1", TargetIval: contig.Interval{Start: 50, End: 150}, Score: 80, NumMatch: 90, BlockLen: 100},
		{Query: q, Target: "t1", TargetIval: contig.Interval{Start: 200, End: 300}, Score: 70, NumMatch: 85, BlockLen: 100},
	}

	set := TileContig(table, q, alignments, 1)

	if len(set.Alignments) != 2 {
		t.Fatalf("got %d tiled alignments, want 2 (disjoint, highest scoring wins conflicts)", len(set.Alignments))
	}
	if !set.Disjoint() {
		t.Error("tiled alignment set is not disjoint")
	}

	s := table.At(q)
	if s.Verdict != contig.Pending {
		t.Errorf("Verdict = %s, want %s", s.Verdict, contig.Pending)
	}
	if s.Reason != contig.ReasonTiled {
		t.Errorf("Reason = %s, want %s", s.Reason, contig.ReasonTiled)
	}
	if s.NormalisedScore <= 0 {
		t.Errorf("NormalisedScore = %v, want > 0", s.NormalisedScore)
	}
}

func TestTileContigSingleAlignment(t *testing.T) {
	table := contig.NewTable(1)
	q := table.Add("q1", 100)
	alignments := []align.Alignment{
		{Query: q, Target: "t1", TargetIval: contig.Interval{Start: 0, End: 100}, Score: 90, NumMatch: 95, BlockLen: 100},
	}
	set := TileContig(table, q, alignments, 1)
	if len(set.Alignments) != 1 {
		t.Fatalf("got %d tiled alignments, want 1", len(set.Alignments))
	}
}
