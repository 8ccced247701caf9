// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ledger implements C8, the Decision Ledger: an append-only
// per-contig record of verdict, reason and opponents, and the source
// of truth for every report. Writes follow a single-writer
// discipline: the driver writes every record from one goroutine,
// after all stages have finished, via WriteAll. A Ledger is not safe
// for concurrent writes.
package ledger

import (
	"fmt"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/internal/errs"
)

// Record is the frozen, immutable decision for one contig.
type Record struct {
	Handle          contig.Handle
	ID              string
	Verdict         contig.Verdict
	Reason          contig.Reason
	Disqualifier    string
	HasDisqualifier bool
	Iteration       int
	Opponents       []string

	// NormalisedScore, GC and BUSCO are carried through from the
	// contig's Summary for reporting (spec §6's decision-ledger
	// interface); C6/C7 never read them back off the Record.
	NormalisedScore float64
	GC              float64
	BUSCO           []contig.GeneStatus
}

// Ledger is the append-only store of Records, keyed by contig.Handle.
// A second write for the same handle is an InternalInvariant error
// (spec §4.8, §7): it can only happen on an implementation bug, since
// every contig has exactly one terminal verdict.
type Ledger struct {
	records map[contig.Handle]Record
	order   []contig.Handle
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{records: make(map[contig.Handle]Record)}
}

// Write freezes table's current Summary for h into the ledger. h's
// verdict must be terminal (spec §3); Write panics with an
// *errs.Error of kind InternalInvariant if it is not, or if h has
// already been written.
func (l *Ledger) Write(table *contig.Table, h contig.Handle) {
	if _, ok := l.records[h]; ok {
		panic(errs.New(errs.InternalInvariant, "double ledger write for contig handle %d", h))
	}
	s := table.At(h)
	if !s.Verdict.Terminal() {
		panic(errs.New(errs.InternalInvariant, "ledger write of non-terminal verdict %s for contig %q", s.Verdict, s.ID))
	}

	r := Record{
		Handle:          h,
		ID:              s.ID,
		Verdict:         s.Verdict,
		Reason:          s.Reason,
		HasDisqualifier: s.HasDisqualifier,
		Iteration:       s.Iteration,
		NormalisedScore: s.NormalisedScore,
		GC:              s.GC,
		BUSCO:           s.BUSCO,
	}
	if s.HasDisqualifier {
		r.Disqualifier = table.At(s.Disqualifier).ID
	}
	for _, op := range s.Opponents {
		r.Opponents = append(r.Opponents, table.At(op).ID)
	}

	l.records[h] = r
	l.order = append(l.order, h)
}

// WriteAll calls Write for every contig in table, in Handle order.
// Used by the driver once every stage has run and all verdicts are
// terminal.
func (l *Ledger) WriteAll(table *contig.Table) {
	table.All(func(s *contig.Summary) {
		l.Write(table, s.Handle)
	})
}

// Verdict returns the Record for h and whether one has been written.
func (l *Ledger) Verdict(h contig.Handle) (Record, bool) {
	r, ok := l.records[h]
	return r, ok
}

// IterateByVerdict calls fn for every Record with the given verdict,
// in write order.
func (l *Ledger) IterateByVerdict(v contig.Verdict, fn func(Record)) {
	for _, h := range l.order {
		r := l.records[h]
		if r.Verdict == v {
			fn(r)
		}
	}
}

// All calls fn for every Record, in write order.
func (l *Ledger) All(fn func(Record)) {
	for _, h := range l.order {
		fn(l.records[h])
	}
}

// Summarise returns the count of contigs at each verdict.
func (l *Ledger) Summarise() map[contig.Verdict]int {
	counts := make(map[contig.Verdict]int)
	for _, h := range l.order {
		counts[l.records[h].Verdict]++
	}
	return counts
}

// Len returns the number of records written so far.
func (l *Ledger) Len() int { return len(l.order) }

func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d", r.ID, r.Verdict, r.Reason, r.Disqualifier, r.Iteration)
}
