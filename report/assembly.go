// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"sort"

	"github.com/kortschak/tigcull/contig"
)

// AssemblyStats summarises the retained assembly: total length,
// contig count, N50/L50, and the L-curve's cumulative-length series
// (longest contig first). Grounded on the original
// calculate_assembly_stats/calculate_l_curve utilities this module's
// spec was distilled from.
type AssemblyStats struct {
	NumContigs int
	TotalBases int64
	N50        int
	L50        int
	LCurve     []int64
}

// ComputeAssemblyStats derives AssemblyStats from every contig in
// table for which keep reports true.
func ComputeAssemblyStats(table *contig.Table, keep func(*contig.Summary) bool) AssemblyStats {
	var lengths []int
	table.All(func(s *contig.Summary) {
		if keep(s) {
			lengths = append(lengths, s.Length)
		}
	})
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	var stats AssemblyStats
	stats.NumContigs = len(lengths)
	if len(lengths) == 0 {
		return stats
	}

	curve := make([]int64, len(lengths))
	var cumulative int64
	for i, n := range lengths {
		cumulative += int64(n)
		curve[i] = cumulative
	}
	stats.TotalBases = cumulative
	stats.LCurve = curve

	half := cumulative / 2
	for i, c := range curve {
		if c >= half {
			stats.N50 = lengths[i]
			stats.L50 = i + 1
			break
		}
	}
	return stats
}
