// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locus

import (
	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
)

// CollocatedSamples collects, for every pair of contigs that share a
// primary target with overlapping locus intervals (spec §3's
// "locus-co-located" definition) and for which a distance is known,
// the recorded distance. The result feeds C5's threshold estimation.
//
// Contigs are grouped by target first so the pairwise scan only ever
// compares contigs that could possibly qualify, keeping this O(Σ k²)
// over per-target group sizes rather than O(n²) over all contigs.
func CollocatedSamples(table *contig.Table, idx *dist.Index, minOverlap int) []float64 {
	if minOverlap == 0 {
		minOverlap = 1
	}
	groups := make(map[string][]*contig.Summary)
	table.All(func(s *contig.Summary) {
		if s.HasPrimary {
			groups[s.PrimaryTarget] = append(groups[s.PrimaryTarget], s)
		}
	})

	var samples []float64
	for _, g := range groups {
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				a, b := g[i], g[j]
				if a.Locus.Overlap(b.Locus) < minOverlap {
					continue
				}
				if d, ok := idx.Distance(a.Handle, b.Handle); ok {
					samples = append(samples, d)
				}
			}
		}
	}
	return samples
}
