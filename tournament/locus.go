// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tournament implements C6, the Locus Tournament, and C7, the
// Unaligned Screen — the selection heart of the module.
package tournament

import (
	"github.com/biogo/store/interval"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kortschak/tigcull/contig"
)

// handleNode adapts a contig.Handle to graph.Node so the locus
// connectivity graph can be built directly over handles, without an
// auxiliary id-translation table.
type handleNode contig.Handle

func (n handleNode) ID() int64 { return int64(n) }

// Locus is a maximal cluster of contigs sharing a primary target
// whose locus intervals are transitively overlap-connected (spec
// §4.6).
type Locus struct {
	ID      int
	Target  string
	Handles []contig.Handle
}

// GroupLoci partitions every contig with a primary target into loci.
// Within each target, a graph is built with one node per contig and
// an edge between any pair whose locus intervals overlap by at least
// minOverlap bases; gonum's connected-components pass then yields the
// maximal overlap-connected clusters. This mirrors the teacher's use
// of gonum/graph for the discordance graph in cmd/cmpint, here
// repurposed from "contradicting annotations" to "candidate
// haplotigs at the same locus".
func GroupLoci(table *contig.Table, minOverlap int) []Locus {
	if minOverlap == 0 {
		minOverlap = 1
	}

	byTarget := make(map[string][]contig.Handle)
	table.All(func(s *contig.Summary) {
		if s.HasPrimary {
			byTarget[s.PrimaryTarget] = append(byTarget[s.PrimaryTarget], s.Handle)
		}
	})

	var loci []Locus
	for target, handles := range byTarget {
		g := simple.NewUndirectedGraph()
		for _, h := range handles {
			g.AddNode(handleNode(h))
		}
		for _, edge := range overlapEdges(table, handles, minOverlap) {
			g.SetEdge(simple.Edge{F: handleNode(edge[0]), T: handleNode(edge[1])})
		}

		for _, component := range topo.ConnectedComponents(g) {
			hs := make([]contig.Handle, len(component))
			for i, n := range component {
				hs[i] = contig.Handle(n.ID())
			}
			loci = append(loci, Locus{Target: target, Handles: hs})
		}
	}

	for i := range loci {
		loci[i].ID = i
	}
	return loci
}

var _ graph.Node = handleNode(0)

// overlapEdges returns every pair of handles in handles whose primary
// locus intervals overlap by at least minOverlap bases. An
// interval.IntTree is built over the target's loci and queried once
// per handle instead of comparing every pair directly, the same
// technique the teacher's cull command uses to find GFF features
// contained within a higher-scoring one (biogo/store/interval), here
// repurposed from containment to pairwise overlap detection so that a
// target with many co-located contigs does not cost O(k²) comparisons.
func overlapEdges(table *contig.Table, handles []contig.Handle, minOverlap int) [][2]contig.Handle {
	var tree interval.IntTree
	nodes := make([]handleIval, len(handles))
	for i, h := range handles {
		nodes[i] = handleIval{h: h, iv: table.At(h).Locus}
		if err := tree.Insert(nodes[i], true); err != nil {
			panic(err)
		}
	}
	tree.AdjustRanges()

	seen := make(map[[2]contig.Handle]bool)
	var edges [][2]contig.Handle
	for _, n := range nodes {
		for _, hit := range tree.Get(n) {
			other := hit.(handleIval)
			if other.h == n.h {
				continue
			}
			if n.iv.Overlap(other.iv) < minOverlap {
				continue
			}
			a, b := n.h, other.h
			if a > b {
				a, b = b, a
			}
			key := [2]contig.Handle{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, key)
		}
	}
	return edges
}

// handleIval adapts a contig.Handle and its primary locus interval to
// interval.IntInterface.
type handleIval struct {
	h  contig.Handle
	iv contig.Interval
}

func (n handleIval) ID() uintptr { return uintptr(n.h) }

func (n handleIval) Range() interval.IntRange {
	return interval.IntRange{Start: n.iv.Start, End: n.iv.End}
}

// Overlap reports whether b overlaps n's range at all; the caller
// re-checks the actual overlap length against minOverlap, since the
// tree only guarantees candidates overlap by at least one base.
func (n handleIval) Overlap(b interval.IntRange) bool {
	return b.Start < n.iv.End && n.iv.Start < b.End
}
