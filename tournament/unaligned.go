// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tournament

import (
	"sort"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
)

// ScreenUnaligned implements C7: every contig left UNALIGNED-PENDING
// by C1/C3 (no alignments survived, or its tiling was empty) is
// checked, in descending length order, against every contig already
// KEPT or UNALIGNED-KEPT; it is discarded if any is within τ, kept
// otherwise (spec §4.7).
//
// If alignedOnly is set, this screen is skipped entirely and every
// UNALIGNED-PENDING contig is discarded with reason
// aligned-only-mode, per the `aligned-only` option (spec §6).
func ScreenUnaligned(table *contig.Table, idx *dist.Index, tau float64, alignedOnly bool) {
	var unaligned []contig.Handle
	table.All(func(s *contig.Summary) {
		if s.Verdict == contig.UnalignedPending {
			unaligned = append(unaligned, s.Handle)
		}
	})

	if alignedOnly {
		for _, h := range unaligned {
			s := table.At(h)
			s.Verdict = contig.UnalignedDiscarded
			s.Reason = contig.ReasonAlignedOnlyMode
		}
		return
	}

	sort.Slice(unaligned, func(i, j int) bool {
		si, sj := table.At(unaligned[i]), table.At(unaligned[j])
		if si.Length != sj.Length {
			return si.Length > sj.Length
		}
		return si.ID < sj.ID
	})

	var retained []contig.Handle
	table.All(func(s *contig.Summary) {
		if s.Verdict == contig.Kept {
			retained = append(retained, s.Handle)
		}
	})

	for _, h := range unaligned {
		s := table.At(h)

		var disqualifier contig.Handle
		found := false
		for _, v := range retained {
			if d, ok := idx.Distance(h, v); ok && d <= tau {
				disqualifier, found = v, true
				break
			}
		}

		if found {
			s.Verdict = contig.UnalignedDiscarded
			s.Disqualifier = disqualifier
			s.HasDisqualifier = true
			s.Reason = contig.ReasonUnalignedSimilar
		} else {
			s.Verdict = contig.UnalignedKept
			s.Reason = contig.ReasonUnalignedKept
			retained = append(retained, h)
		}
	}
}
