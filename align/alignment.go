// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align provides the Alignment record type and the Store that
// implements C1: an in-memory table of filtered alignments keyed by
// query and target.
package align

import (
	"sort"

	"github.com/kortschak/tigcull/contig"
)

// DefaultMinMQ is the default minimum mapping quality retained by a
// Store, per spec §4.1.
const DefaultMinMQ = 20

// DefaultMinOverlap is the default minimum overlap, in bases, used by
// both interval tiling (C3) and locus grouping (C6), per spec §6.
const DefaultMinOverlap = 1

// Strand is the alignment orientation.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// Alignment is an immutable record of one query-to-target mapping.
// Query and target intervals are 0-based, half-open.
type Alignment struct {
	Query       contig.Handle
	QueryLen    int
	QueryIval   contig.Interval
	Strand      Strand
	Target      string
	TargetLen   int
	TargetIval  contig.Interval
	NumMatch    int
	BlockLen    int
	MapQ        int
	Score       int
}

// valid reports whether a holds the coordinate invariants required by
// spec §3: qs<qe and ts<te.
func (a Alignment) valid() bool {
	return a.QueryIval.Start < a.QueryIval.End && a.TargetIval.Start < a.TargetIval.End
}

// Store is the C1 Alignment Store. It retains only alignments with
// mapping quality at or above MinMQ and builds two multimaps: one by
// query handle, and one by target identifier with each target's list
// kept sorted by target start.
type Store struct {
	MinMQ int

	byQuery  map[contig.Handle][]Alignment
	byTarget map[string][]Alignment
}

// NewStore returns an empty Store using minMQ as its mapping-quality
// floor. A minMQ of 0 uses DefaultMinMQ.
func NewStore(minMQ int) *Store {
	if minMQ == 0 {
		minMQ = DefaultMinMQ
	}
	return &Store{
		MinMQ:    minMQ,
		byQuery:  make(map[contig.Handle][]Alignment),
		byTarget: make(map[string][]Alignment),
	}
}

// Add filters and inserts a. It returns false if a was dropped for
// mapping quality, and panics if a fails its coordinate invariants —
// that is a parser bug, not an input-shape problem, since D1 is
// responsible for rejecting malformed rows before they reach here.
func (s *Store) Add(a Alignment) bool {
	if !a.valid() {
		panic("align: alignment violates qs<qe/ts<te invariant")
	}
	if a.MapQ < s.MinMQ {
		return false
	}
	s.byQuery[a.Query] = append(s.byQuery[a.Query], a)
	lst := append(s.byTarget[a.Target], a)
	sort.Slice(lst, func(i, j int) bool {
		return lst[i].TargetIval.Start < lst[j].TargetIval.Start
	})
	s.byTarget[a.Target] = lst
	return true
}

// Query returns the alignments recorded for q, in insertion order.
func (s *Store) Query(q contig.Handle) []Alignment {
	return s.byQuery[q]
}

// Target returns the alignments recorded for t, sorted by target
// start.
func (s *Store) Target(t string) []Alignment {
	return s.byTarget[t]
}

// All calls fn for every alignment in the store, grouped by query.
func (s *Store) All(fn func(contig.Handle, []Alignment)) {
	for q, lst := range s.byQuery {
		fn(q, lst)
	}
}

// NumQueries returns the number of distinct queries holding at least
// one retained alignment.
func (s *Store) NumQueries() int { return len(s.byQuery) }
