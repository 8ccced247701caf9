// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contig

import (
	"io/ioutil"
	"math"
)

// DefaultGCOutlierStdDevs is the default number of standard
// deviations from the assembly mean GC% beyond which a contig is
// flagged gc-outlier by the pre-filter (D4). This pre-filter is a
// mechanical pass ahead of C1, not part of the core selection
// algorithm spec.md describes; its excluded contigs never enter the
// tournament, matching spec §4.12/§6's GC pre-filter interface.
const DefaultGCOutlierStdDevs = 3.0

// ApplyGCFilter computes GC% for every contig in table (reading its
// sequence via idx) and marks contigs gc-outlier when their GC% is
// more than stdDevs standard deviations from the assembly mean. A
// stdDevs of 0 uses DefaultGCOutlierStdDevs. Flagged contigs are
// terminally UNALIGNED-DISCARDED here and never reach C1.
//
// Returns the set of excluded contig ids, for filtering them out of
// the alignment and distance streams before they are parsed.
func ApplyGCFilter(table *Table, idx *Index, stdDevs float64) map[string]bool {
	if stdDevs == 0 {
		stdDevs = DefaultGCOutlierStdDevs
	}

	var sum, sumSq float64
	n := 0
	table.All(func(s *Summary) {
		gc, err := gcContent(idx, s)
		if err != nil {
			return
		}
		s.GC = gc
		sum += gc
		sumSq += gc * gc
		n++
	})
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	sigma := math.Sqrt(variance)

	excluded := make(map[string]bool)
	if sigma == 0 {
		return excluded
	}
	table.All(func(s *Summary) {
		if math.Abs(s.GC-mean) > stdDevs*sigma {
			s.Verdict = UnalignedDiscarded
			s.Reason = ReasonGCOutlier
			excluded[s.ID] = true
		}
	})
	return excluded
}

func gcContent(idx *Index, s *Summary) (float64, error) {
	r, err := idx.file.SeqRange(s.ID, 0, s.Length)
	if err != nil {
		return 0, err
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	var gc int
	for _, c := range b {
		switch c {
		case 'G', 'g', 'C', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(b)), nil
}
