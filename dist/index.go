// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dist implements C4, the Distance Index, and D2, the Mash
// distance reader that feeds it.
package dist

import (
	"github.com/kortschak/tigcull/contig"
)

// pairKey is the canonical, order-independent key for an unordered
// pair of handles: the smaller handle first. This avoids storing
// every pair twice and avoids the memory cost of a dense matrix (spec
// §9's re-architecture guidance).
type pairKey struct {
	a, b contig.Handle
}

func keyFor(a, b contig.Handle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Index is a sparse, symmetric pairwise-distance lookup, O(supplied
// pairs) in memory. A missing pair is treated as unknown/large: it
// compares greater than any finite threshold.
type Index struct {
	dist      map[pairKey]float64
	neighbors map[contig.Handle][]contig.Handle
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		dist:      make(map[pairKey]float64),
		neighbors: make(map[contig.Handle][]contig.Handle),
	}
}

// Set records the distance d between a and b, overwriting any
// previous value for the same pair. Self-pairs are ignored.
func (idx *Index) Set(a, b contig.Handle, d float64) {
	if a == b {
		return
	}
	k := keyFor(a, b)
	if _, exists := idx.dist[k]; !exists {
		idx.neighbors[a] = append(idx.neighbors[a], b)
		idx.neighbors[b] = append(idx.neighbors[b], a)
	}
	idx.dist[k] = d
}

// Distance returns the recorded distance between a and b, and whether
// one was recorded.
func (idx *Index) Distance(a, b contig.Handle) (float64, bool) {
	if a == b {
		return 0, true
	}
	d, ok := idx.dist[keyFor(a, b)]
	return d, ok
}

// Len returns the number of distinct pairs recorded.
func (idx *Index) Len() int { return len(idx.dist) }

// Neighbors calls fn for every b with a recorded distance(a,b) ≤ tau.
func (idx *Index) Neighbors(a contig.Handle, tau float64, fn func(contig.Handle, float64)) {
	for _, b := range idx.neighbors[a] {
		if d, ok := idx.Distance(a, b); ok && d <= tau {
			fn(b, d)
		}
	}
}
