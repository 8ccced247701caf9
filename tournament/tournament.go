// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tournament

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
)

// DefaultSafeguardRatio is SAFEGUARD_RATIO, spec §4.6.
const DefaultSafeguardRatio = 0.50

// DefaultSafeguardScoreRatio is SAFEGUARD_SCORE_RATIO, spec §4.6.
const DefaultSafeguardScoreRatio = 0.90

// DefaultMaxIters caps both the per-locus tournament and the global
// orphan-rescue loop, spec §4.6 and §6.
const DefaultMaxIters = 100000

// Config holds the tunable parameters of the tournament, mapped
// one-to-one to spec §6's configuration options.
type Config struct {
	MinOverlap          int
	SafeguardRatio      float64
	SafeguardScoreRatio float64
	MaxIters            int

	// Threads bounds the worker pool that runs independent per-locus
	// tournaments concurrently (spec §5). 0 uses runtime.NumCPU().
	Threads int
}

// DefaultConfig returns a Config with every field set to its spec
// default.
func DefaultConfig() Config {
	return Config{
		MinOverlap:          1,
		SafeguardRatio:      DefaultSafeguardRatio,
		SafeguardScoreRatio: DefaultSafeguardScoreRatio,
		MaxIters:            DefaultMaxIters,
	}
}

// Report summarises what happened across every locus, for the
// decision ledger and for operator-facing warnings (spec §7's
// IterationExhausted).
type Report struct {
	LocusIterations map[int]int
	Exhausted       []int
	RescuePasses    int
	RescueExhausted bool
}

// Run resolves every locus by tournament (spec §4.6) and then runs
// the orphan-rescue barrier (spec §4.6, §5) until a full pass yields
// no new orphans or cfg.MaxIters rescue passes have run.
//
// Loci are independent — each owns a disjoint set of contig handles —
// so the initial round is run over a worker pool (spec §5's "worker
// pool over independent per-locus tournaments"). The pool drains
// completely before orphan rescue begins: rescue's global barrier
// (spec §4.6) requires every locus's initial verdicts to be settled
// first.
func Run(table *contig.Table, idx *dist.Index, tau float64, cfg Config) Report {
	loci := GroupLoci(table, cfg.MinOverlap)
	report := Report{LocusIterations: make(map[int]int, len(loci))}

	workers := cfg.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(loci) {
		workers = len(loci)
	}

	var mu sync.Mutex
	work := make(chan Locus)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range work {
				round := 0
				final, converged := runRound(table, idx, tau, cfg, l.Handles, &round)

				mu.Lock()
				report.LocusIterations[l.ID] = final
				if !converged {
					report.Exhausted = append(report.Exhausted, l.ID)
				}
				mu.Unlock()

				if !converged {
					forceDiscardPending(table, l.Handles, final)
				}
			}
		}()
	}
	for _, l := range loci {
		work <- l
	}
	close(work)
	wg.Wait()

	runOrphanRescue(table, loci, idx, tau, cfg, &report)
	return report
}

// runRound executes spec §4.6's round loop restricted to the handles
// in active: repeatedly crown a champion, discard or safeguard every
// other still-pending contig against it, until none remain pending or
// cfg.MaxIters is reached. round is shared with the caller so that
// iteration numbers are continuous across an initial run and any
// later orphan-rescue rounds over the same locus.
func runRound(table *contig.Table, idx *dist.Index, tau float64, cfg Config, active []contig.Handle, round *int) (lastIteration int, converged bool) {
	activeSet := make(map[contig.Handle]bool, len(active))
	for _, h := range active {
		activeSet[h] = true
	}

	for {
		pending := pendingOf(table, activeSet)
		if len(pending) == 0 {
			return *round, true
		}
		*round++
		if *round > cfg.MaxIters {
			return *round, false
		}

		champion := pickChampion(table, pending)
		champ := table.At(champion)
		champ.Verdict = contig.Kept
		champ.Iteration = *round
		if len(champ.SafeguardedBy) > 0 {
			champ.Reason = contig.ReasonSizeSafeguarded
		}

		for _, h := range pending {
			if h == champion {
				continue
			}
			s := table.At(h)
			s.Opponents = append(s.Opponents, champion)

			d, ok := idx.Distance(champion, h)
			if !ok {
				d = math.Inf(1)
			}
			if d > tau {
				continue // distinct neighbour: stays ACTIVE
			}

			safeguarded := float64(s.Length) >= cfg.SafeguardRatio*float64(champ.Length) &&
				s.NormalisedScore >= cfg.SafeguardScoreRatio*champ.NormalisedScore
			if safeguarded {
				s.SafeguardedBy = append(s.SafeguardedBy, champion)
				continue
			}

			s.Verdict = contig.Discarded
			s.Disqualifier = champion
			s.HasDisqualifier = true
			s.Reason = contig.ReasonSimilarityLoser
			s.Iteration = *round
		}
	}
}

func pendingOf(table *contig.Table, set map[contig.Handle]bool) []contig.Handle {
	var pending []contig.Handle
	for h := range set {
		if table.At(h).Verdict == contig.Pending {
			pending = append(pending, h)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })
	return pending
}

// pickChampion returns the contig with the maximum normalised score,
// breaking ties by greater length then lexicographically smaller id
// (spec §4.6 step 1).
func pickChampion(table *contig.Table, handles []contig.Handle) contig.Handle {
	best := handles[0]
	bestSummary := table.At(best)
	for _, h := range handles[1:] {
		s := table.At(h)
		switch {
		case s.NormalisedScore > bestSummary.NormalisedScore:
			best, bestSummary = h, s
		case s.NormalisedScore == bestSummary.NormalisedScore:
			if s.Length > bestSummary.Length ||
				(s.Length == bestSummary.Length && s.ID < bestSummary.ID) {
				best, bestSummary = h, s
			}
		}
	}
	return best
}

func forceDiscardPending(table *contig.Table, handles []contig.Handle, iteration int) {
	for _, h := range handles {
		s := table.At(h)
		if s.Verdict == contig.Pending {
			s.Verdict = contig.Discarded
			s.Reason = contig.ReasonIterationCap
			s.Iteration = iteration
		}
	}
}

// runOrphanRescue implements spec §4.6's orphan-rescue barrier: a
// contig discarded by a disqualifier that has since itself been
// discarded, and with no currently KEPT locus-mate within τ, is reset
// to ACTIVE and its locus mini-tournament re-runs over just the
// orphans of that locus. This repeats until a full pass finds no new
// orphans or cfg.MaxIters passes have run (spec §5's global barrier).
func runOrphanRescue(table *contig.Table, loci []Locus, idx *dist.Index, tau float64, cfg Config, report *Report) {
	locusOf := make(map[contig.Handle]*Locus, table.Len())
	for i := range loci {
		for _, h := range loci[i].Handles {
			locusOf[h] = &loci[i]
		}
	}

	for pass := 1; ; pass++ {
		if pass > cfg.MaxIters {
			report.RescueExhausted = true
			return
		}

		byLocus := make(map[int][]contig.Handle)
		table.All(func(s *contig.Summary) {
			if isOrphan(table, idx, tau, locusOf, s) {
				l := locusOf[s.Handle]
				byLocus[l.ID] = append(byLocus[l.ID], s.Handle)
			}
		})
		if len(byLocus) == 0 {
			return
		}
		report.RescuePasses = pass

		for locusID, orphans := range byLocus {
			sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
			for _, h := range orphans {
				table.At(h).Verdict = contig.Pending
			}

			round := report.LocusIterations[locusID]
			final, converged := runRound(table, idx, tau, cfg, orphans, &round)
			report.LocusIterations[locusID] = final

			for _, h := range orphans {
				s := table.At(h)
				if s.Verdict == contig.Kept && s.Reason != contig.ReasonSizeSafeguarded {
					s.Reason = contig.ReasonOrphanRescued
				}
			}
			if !converged {
				report.Exhausted = append(report.Exhausted, locusID)
				forceDiscardPending(table, orphans, final)
			}
		}
	}
}

// isOrphan reports whether s is a DISCARDED contig whose disqualifier
// has itself since been discarded, and no currently KEPT locus-mate
// is within τ of s (spec §4.6, §GLOSSARY).
func isOrphan(table *contig.Table, idx *dist.Index, tau float64, locusOf map[contig.Handle]*Locus, s *contig.Summary) bool {
	if s.Verdict != contig.Discarded || !s.HasDisqualifier {
		return false
	}
	if table.At(s.Disqualifier).Verdict != contig.Discarded {
		return false
	}
	l := locusOf[s.Handle]
	if l == nil {
		return false
	}
	for _, other := range l.Handles {
		if other == s.Handle {
			continue
		}
		k := table.At(other)
		if k.Verdict != contig.Kept {
			continue
		}
		if d, ok := idx.Distance(s.Handle, other); ok && d <= tau {
			return false
		}
	}
	return true
}
