// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tournament

import (
	"testing"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
)

func TestScreenUnalignedAlignedOnly(t *testing.T) {
	table := contig.NewTable(1)
	h := table.Add("u1", 500)
	idx := dist.NewIndex()

	ScreenUnaligned(table, idx, 0.05, true)

	s := table.At(h)
	if s.Verdict != contig.UnalignedDiscarded || s.Reason != contig.ReasonAlignedOnlyMode {
		t.Errorf("verdict/reason = %s/%s, want %s/%s", s.Verdict, s.Reason, contig.UnalignedDiscarded, contig.ReasonAlignedOnlyMode)
	}
}

func TestScreenUnalignedKeptWhenDistinct(t *testing.T) {
	table := contig.NewTable(2)
	kept := table.Add("kept", 2000)
	table.At(kept).Verdict = contig.Kept

	u := table.Add("u1", 500)
	idx := dist.NewIndex()
	idx.Set(kept, u, 0.9)

	ScreenUnaligned(table, idx, 0.05, false)

	s := table.At(u)
	if s.Verdict != contig.UnalignedKept {
		t.Errorf("Verdict = %s, want %s", s.Verdict, contig.UnalignedKept)
	}
}

func TestScreenUnalignedDiscardedWhenSimilar(t *testing.T) {
	table := contig.NewTable(2)
	kept := table.Add("kept", 2000)
	table.At(kept).Verdict = contig.Kept

	u := table.Add("u1", 500)
	idx := dist.NewIndex()
	idx.Set(kept, u, 0.01)

	ScreenUnaligned(table, idx, 0.05, false)

	s := table.At(u)
	if s.Verdict != contig.UnalignedDiscarded || !s.HasDisqualifier || s.Disqualifier != kept {
		t.Errorf("verdict/disqualifier = %s/%v/%d, want %s/true/%d",
			s.Verdict, s.HasDisqualifier, s.Disqualifier, contig.UnalignedDiscarded, kept)
	}
}
