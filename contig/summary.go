// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package contig holds the dense contig table shared by every stage of
// the selection engine. Every other package addresses a contig by its
// Handle, never by its string identifier, once the table has been
// built.
package contig

import "fmt"

// Handle is an interned, dense index into a Table. It is stable for
// the lifetime of a Table and is the key used by every satellite map
// in the pipeline, avoiding hash lookups on the hot paths of C3 and
// C6.
type Handle uint32

// Verdict is the filtering status of a contig. Transitions are
// monotone forward: PENDING before KEPT/DISCARDED, and the unaligned
// track never crosses into the aligned track or vice versa.
type Verdict uint8

const (
	Pending Verdict = iota
	Kept
	Discarded
	UnalignedPending
	UnalignedKept
	UnalignedDiscarded
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "PENDING"
	case Kept:
		return "KEPT"
	case Discarded:
		return "DISCARDED"
	case UnalignedPending:
		return "UNALIGNED-PENDING"
	case UnalignedKept:
		return "UNALIGNED-KEPT"
	case UnalignedDiscarded:
		return "UNALIGNED-DISCARDED"
	default:
		return fmt.Sprintf("Verdict(%d)", uint8(v))
	}
}

// Terminal reports whether v is a final state; no further transition
// is permitted once a contig reaches one.
func (v Verdict) Terminal() bool {
	switch v {
	case Kept, Discarded, UnalignedKept, UnalignedDiscarded:
		return true
	default:
		return false
	}
}

// Reason is a closed set of tags written to the ledger, per spec §7.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonGCOutlier         Reason = "gc-outlier"
	ReasonTiled             Reason = "tiled"
	ReasonSimilarityLoser   Reason = "similarity-loser"
	ReasonSizeSafeguarded   Reason = "size-safeguarded"
	ReasonOrphanRescued     Reason = "orphan-rescued"
	ReasonUnalignedKept     Reason = "unaligned-kept"
	ReasonUnalignedSimilar  Reason = "unaligned-similar-to-kept"
	ReasonAlignedOnlyMode   Reason = "aligned-only-mode"
	ReasonIterationCap      Reason = "iteration-cap"
)

// Interval is a 0-based, half-open coordinate range [Start, End).
type Interval struct {
	Start, End int
}

// Len returns the number of bases spanned by iv.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Overlap returns the number of bases by which iv and other overlap.
// A non-positive result means no overlap.
func (iv Interval) Overlap(other Interval) int {
	lo := iv.Start
	if other.Start > lo {
		lo = other.Start
	}
	hi := iv.End
	if other.End < hi {
		hi = other.End
	}
	return hi - lo
}

// Summary is the mutable per-contig record threaded through C2–C7 and
// frozen into the ledger at C8. Exactly one Summary exists per contig
// present in the query FASTA (spec §3 invariant).
type Summary struct {
	ID     string
	Handle Handle
	Length int
	GC     float64

	BUSCO []GeneStatus

	PrimaryTarget   string
	HasPrimary      bool
	NormalisedScore float64
	Locus           Interval

	Verdict     Verdict
	Disqualifier Handle
	HasDisqualifier bool
	Reason      Reason
	Iteration   int
	Opponents   []Handle

	// SafeguardedBy records every champion that challenged this
	// contig but was turned away by the size safeguard (spec §4.6
	// step 3). If this contig later wins its own round, a non-empty
	// SafeguardedBy means the kept verdict is reported with reason
	// size-safeguarded rather than the plain tiled default.
	SafeguardedBy []Handle
}

// GeneStatus is one row of an optional BUSCO completion table,
// informational only (spec §6, §9 open question resolved: not a
// tournament tie-breaker in this version).
type GeneStatus struct {
	Gene   string
	Status string
}

// Table is the dense array of Summary indexed by Handle, plus the
// string-id lookup used only at load time.
type Table struct {
	byHandle []*Summary
	byID     map[string]Handle
}

// NewTable returns an empty Table with capacity for n contigs.
func NewTable(n int) *Table {
	return &Table{
		byHandle: make([]*Summary, 0, n),
		byID:     make(map[string]Handle, n),
	}
}

// Add registers a new contig by id and length, returning its Handle.
// It is a fatal internal error (spec §7 InternalInvariant) to add the
// same id twice.
func (t *Table) Add(id string, length int) Handle {
	if _, ok := t.byID[id]; ok {
		panic(fmt.Sprintf("contig: duplicate contig id %q", id))
	}
	h := Handle(len(t.byHandle))
	s := &Summary{
		ID:      id,
		Handle:  h,
		Length:  length,
		Verdict: UnalignedPending,
	}
	t.byHandle = append(t.byHandle, s)
	t.byID[id] = h
	return h
}

// Lookup returns the Handle for id and whether it was found.
func (t *Table) Lookup(id string) (Handle, bool) {
	h, ok := t.byID[id]
	return h, ok
}

// At returns the Summary for h. It panics if h is out of range, which
// can only happen on an implementation bug.
func (t *Table) At(h Handle) *Summary {
	return t.byHandle[h]
}

// Len returns the number of contigs in the table.
func (t *Table) Len() int { return len(t.byHandle) }

// All calls fn for every contig in Handle order.
func (t *Table) All(fn func(*Summary)) {
	for _, s := range t.byHandle {
		fn(s)
	}
}
