// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locus

import (
	"testing"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/contig"
)

func TestAssignPrimaryPicksHigherTarget(t *testing.T) {
	table := contig.NewTable(1)
	q := table.Add("q1", 1000)

	store := align.NewStore(0)
	store.Add(align.Alignment{
		Query: q, QueryLen: 1000,
		QueryIval: contig.Interval{Start: 0, End: 500},
		Target:    "t1", TargetLen: 2000,
		TargetIval: contig.Interval{Start: 0, End: 500},
		NumMatch:   480, BlockLen: 500, MapQ: 60, Score: 100,
	})
	store.Add(align.Alignment{
		Query: q, QueryLen: 1000,
		QueryIval: contig.Interval{Start: 500, End: 1000},
		Target:    "t2", TargetLen: 2000,
		TargetIval: contig.Interval{Start: 0, End: 500},
		NumMatch:   490, BlockLen: 500, MapQ: 60, Score: 200,
	})

	AssignPrimary(table, store)

	s := table.At(q)
	if !s.HasPrimary || s.PrimaryTarget != "t2" {
		t.Errorf("PrimaryTarget = %q, HasPrimary = %v, want t2, true", s.PrimaryTarget, s.HasPrimary)
	}
}

func TestAssignPrimaryIgnoresQueryWithNoAlignments(t *testing.T) {
	table := contig.NewTable(1)
	q := table.Add("q1", 1000)
	store := align.NewStore(0)
	AssignPrimary(table, store)
	if table.At(q).HasPrimary {
		t.Error("contig with no alignments should not get a primary target")
	}
}
