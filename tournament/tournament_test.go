// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tournament

import (
	"testing"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
)

func setupLocus(t *testing.T) (*contig.Table, contig.Handle, contig.Handle) {
	t.Helper()
	table := contig.NewTable(2)
	a := table.Add("a", 1000)
	b := table.Add("b", 900)

	sa := table.At(a)
	sa.HasPrimary = true
	sa.PrimaryTarget = "t1"
	sa.Locus = contig.Interval{Start: 0, End: 1000}
	sa.NormalisedScore = 2.0
	sa.Verdict = contig.Pending

	sb := table.At(b)
	sb.HasPrimary = true
	sb.PrimaryTarget = "t1"
	sb.Locus = contig.Interval{Start: 100, End: 1000}
	sb.NormalisedScore = 1.0
	sb.Verdict = contig.Pending

	return table, a, b
}

func TestRunSimilarLoserDiscarded(t *testing.T) {
	table, a, b := setupLocus(t)
	idx := dist.NewIndex()
	idx.Set(a, b, 0.01)

	cfg := DefaultConfig()
	Run(table, idx, 0.05, cfg)

	sa, sb := table.At(a), table.At(b)
	if sa.Verdict != contig.Kept {
		t.Errorf("champion verdict = %s, want %s", sa.Verdict, contig.Kept)
	}
	if sb.Verdict != contig.Discarded || sb.Reason != contig.ReasonSimilarityLoser {
		t.Errorf("loser verdict/reason = %s/%s, want %s/%s", sb.Verdict, sb.Reason, contig.Discarded, contig.ReasonSimilarityLoser)
	}
	if !sb.HasDisqualifier || sb.Disqualifier != a {
		t.Errorf("loser disqualifier = %v/%v, want true/%d", sb.HasDisqualifier, sb.Disqualifier, a)
	}
}

func TestRunSizeSafeguarded(t *testing.T) {
	table, a, b := setupLocus(t)
	// b is nearly as large and scores nearly as well: safeguarded, not discarded.
	table.At(b).Length = 600
	table.At(b).NormalisedScore = 1.9

	idx := dist.NewIndex()
	idx.Set(a, b, 0.01)

	Run(table, idx, 0.05, DefaultConfig())

	sb := table.At(b)
	if sb.Verdict == contig.Discarded {
		t.Error("size-safeguarded contig should not be discarded in the same round")
	}
}

func TestRunDistinctContigsBothKept(t *testing.T) {
	table, a, b := setupLocus(t)
	idx := dist.NewIndex()
	idx.Set(a, b, 0.9) // far apart: distinct haplotypes

	Run(table, idx, 0.05, DefaultConfig())

	sa, sb := table.At(a), table.At(b)
	if sa.Verdict != contig.Kept || sb.Verdict != contig.Kept {
		t.Errorf("distinct contigs should both be kept, got %s and %s", sa.Verdict, sb.Verdict)
	}
}

// TestRunCascadingOrphanRescue exercises spec §8 scenario S3: E
// disqualifies F, then G (a higher scorer) is later found to
// disqualify E. Once E is discarded, F's disqualifier is no longer
// live, and with no currently KEPT locus-mate within τ, F must be
// rescued back to ACTIVE and re-win its own mini-tournament.
func TestRunCascadingOrphanRescue(t *testing.T) {
	table := contig.NewTable(3)
	e := table.Add("e", 1000)
	f := table.Add("f", 1000)
	g := table.Add("g", 1000)

	for _, h := range []contig.Handle{e, f, g} {
		s := table.At(h)
		s.HasPrimary = true
		s.PrimaryTarget = "t1"
		s.Locus = contig.Interval{Start: 0, End: 1000}
	}

	se := table.At(e)
	se.NormalisedScore = 1.0
	se.Verdict = contig.Discarded
	se.HasDisqualifier = true
	se.Disqualifier = g
	se.Reason = contig.ReasonSimilarityLoser

	sf := table.At(f)
	sf.NormalisedScore = 0.5
	sf.Verdict = contig.Discarded
	sf.HasDisqualifier = true
	sf.Disqualifier = e
	sf.Reason = contig.ReasonSimilarityLoser

	sg := table.At(g)
	sg.NormalisedScore = 1.1
	sg.Verdict = contig.Kept

	idx := dist.NewIndex()
	idx.Set(e, f, 0.01)
	idx.Set(g, e, 0.01)
	// No distance recorded between f and g: f has no known KEPT
	// locus-mate within τ, so it qualifies for orphan rescue.

	Run(table, idx, 0.05, DefaultConfig())

	if se.Verdict != contig.Discarded || se.Disqualifier != g {
		t.Errorf("e = %s/disqualifier %v, want Discarded/g", se.Verdict, se.Disqualifier)
	}
	if sf.Verdict != contig.Kept {
		t.Errorf("f verdict = %s, want Kept (orphan-rescued)", sf.Verdict)
	}
	if sf.Reason != contig.ReasonOrphanRescued {
		t.Errorf("f reason = %s, want %s", sf.Reason, contig.ReasonOrphanRescued)
	}
	if sg.Verdict != contig.Kept {
		t.Errorf("g verdict = %s, want Kept", sg.Verdict)
	}
}

func TestGroupLoci(t *testing.T) {
	table, a, b := setupLocus(t)
	loci := GroupLoci(table, 1)
	if len(loci) != 1 {
		t.Fatalf("got %d loci, want 1", len(loci))
	}
	if len(loci[0].Handles) != 2 {
		t.Fatalf("got %d handles in locus, want 2", len(loci[0].Handles))
	}
	_ = a
	_ = b
}
