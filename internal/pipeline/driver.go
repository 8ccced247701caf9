// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline wires C1 through C8 (and their D-series ambient
// inputs) into the single run a driver command executes, following
// the concurrency model of spec §5: a worker pool for the
// embarrassingly parallel per-contig tiling stage, a single-writer
// discipline for the ledger, and a context checked between stages
// (and by the tiling workers) so a run can be cancelled before an
// expensive stage starts. The tournament and the unaligned screen do
// not observe the context: once started, they run to completion.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/kortschak/tigcull/align"
	"github.com/kortschak/tigcull/busco"
	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/dist"
	"github.com/kortschak/tigcull/internal/config"
	"github.com/kortschak/tigcull/internal/errs"
	"github.com/kortschak/tigcull/ledger"
	"github.com/kortschak/tigcull/locus"
	"github.com/kortschak/tigcull/threshold"
	"github.com/kortschak/tigcull/tournament"
)

// Inputs names every file a run reads. PAF and Mash are required;
// BUSCO is optional (an empty path skips D5 entirely).
type Inputs struct {
	FASTA string
	PAF   string
	Mash  string
	BUSCO string
}

// Result is everything a caller needs after a run completes: the
// populated table, the frozen ledger, and the reports from the two
// stages that make a judgment call worth recording.
type Result struct {
	Table      *contig.Table
	Ledger     *ledger.Ledger
	Threshold  threshold.Report
	Tournament tournament.Report
	Excluded   int // contigs discarded by the D4 GC pre-filter
	Malformed  int // PAF and mash rows skipped as malformed
}

// bytesPerAlignment is spec §5's "≤ 64 bytes/alignment on 64-bit"
// compact record layout bound for the Alignment Store.
const bytesPerAlignment = 64

// bytesPerPair estimates a Distance Index entry: two contig.Handle
// values and a float64, plus the sparse map's per-entry overhead.
const bytesPerPair = 32

// Run executes the full selection engine against in, logging progress
// the way the teacher's cmd/ins does with the standard logger. It
// returns after C8 has written every contig's final Record.
func Run(ctx context.Context, in Inputs, cfg config.Config) (*Result, error) {
	if cfg.MemoryLimitBytes > 0 {
		if err := checkMemoryBudget(in.PAF, in.Mash, cfg.MemoryLimitBytes); err != nil {
			return nil, err
		}
	}

	log.Printf("indexing %s", in.FASTA)
	fidx, err := contig.OpenIndex(in.FASTA)
	if err != nil {
		return nil, err
	}

	table := contig.NewTable(1024)
	fidx.Populate(table)
	log.Printf("%d contigs in query assembly", table.Len())

	excluded := contig.ApplyGCFilter(table, fidx, cfg.GCOutlierStdDevs)
	if len(excluded) > 0 {
		log.Printf("gc pre-filter excluded %d contigs", len(excluded))
	}

	if in.BUSCO != "" {
		if err := attachBUSCO(in.BUSCO, table); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("reading alignments from %s", in.PAF)
	store, malformed, err := loadAlignments(in.PAF, table, cfg.MinMQ, excluded)
	if err != nil {
		return nil, err
	}
	if malformed > 0 {
		log.Printf("skipped %d malformed PAF rows", malformed)
	}

	locus.AssignPrimary(table, store)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Println("tiling alignments")
	tileAll(ctx, table, store, cfg.MinOverlap, cfg.Threads)

	log.Printf("reading distances from %s", in.Mash)
	idx, mashMalformed, err := loadDistances(in.Mash, table, excluded)
	if err != nil {
		return nil, err
	}
	if mashMalformed > 0 {
		log.Printf("skipped %d malformed mash rows", mashMalformed)
	}
	malformed += mashMalformed
	log.Printf("%d distinct pairs indexed", idx.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples := locus.CollocatedSamples(table, idx, cfg.MinOverlap)
	thr := threshold.Estimate(samples, cfg.DistanceThreshold)
	log.Printf("distance threshold %.4g (%s, n=%d)", thr.Tau, thr.Status, thr.SampleSize)

	tcfg := cfg.TournamentConfig()
	tcfg.Threads = cfg.Threads
	treport := tournament.Run(table, idx, thr.Tau, tcfg)
	if len(treport.Exhausted) > 0 {
		log.Printf("%d loci exhausted their iteration cap", len(treport.Exhausted))
	}

	tournament.ScreenUnaligned(table, idx, thr.Tau, cfg.AlignedOnly)

	l := ledger.New()
	l.WriteAll(table)
	log.Printf("ledger: %v", l.Summarise())

	return &Result{
		Table:      table,
		Ledger:     l,
		Threshold:  thr,
		Tournament: treport,
		Excluded:   len(excluded),
		Malformed:  malformed,
	}, nil
}

func attachBUSCO(path string, table *contig.Table) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pipeline: opening busco table %q: %w", path, err)
	}
	defer f.Close()
	return busco.Attach(f, table)
}

// checkMemoryBudget is spec §5's pre-flight memory gate: it counts
// PAF and mash rows without parsing them, estimates the Alignment
// Store and Distance Index footprint from those counts, and fails
// fatally before any real processing starts if the estimate exceeds
// limit.
func checkMemoryBudget(pafPath, mashPath string, limit int64) error {
	pafRows, err := countLines(pafPath)
	if err != nil {
		return err
	}
	mashRows, err := countLines(mashPath)
	if err != nil {
		return err
	}
	estimate := int64(pafRows)*bytesPerAlignment + int64(mashRows)*bytesPerPair
	log.Printf("pre-flight memory estimate: %d bytes (limit %d)", estimate, limit)
	if estimate > limit {
		return errs.New(errs.ConfigInvalid,
			"estimated memory %d bytes (%d paf rows, %d mash rows) exceeds memory-limit-bytes %d",
			estimate, pafRows, mashRows, limit)
	}
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("pipeline: opening %q for pre-flight sizing: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var n int
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("pipeline: pre-flight sizing %q: %w", path, err)
	}
	return n, nil
}

// loadAlignments reads PAF rows into a Store, translating query and
// target ids to the table's handles. A query id absent from the
// FASTA index is an InputConsistency error (spec §7): the PAF and the
// query assembly must agree on what a contig is.
func loadAlignments(path string, table *contig.Table, minMQ int, excluded map[string]bool) (*align.Store, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("pipeline: opening paf %q: %w", path, err)
	}
	defer f.Close()

	store := align.NewStore(minMQ)
	malformed, err := align.ScanPAF(f, func(r align.Record) error {
		if excluded[r.QueryID] || excluded[r.TargetID] {
			return nil
		}
		q, ok := table.Lookup(r.QueryID)
		if !ok {
			return errs.New(errs.InputConsistency, "paf query id %q absent from query assembly", r.QueryID)
		}
		store.Add(align.Alignment{
			Query:      q,
			QueryLen:   r.QueryLen,
			QueryIval:  r.QueryIval,
			Strand:     r.Strand,
			Target:     r.TargetID,
			TargetLen:  r.TargetLen,
			TargetIval: r.TargetIval,
			NumMatch:   r.NumMatch,
			BlockLen:   r.BlockLen,
			MapQ:       r.MapQ,
			Score:      r.Score,
		})
		return nil
	})
	if err != nil {
		return nil, malformed, err
	}
	return store, malformed, nil
}

func loadDistances(path string, table *contig.Table, excluded map[string]bool) (*dist.Index, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("pipeline: opening mash %q: %w", path, err)
	}
	defer f.Close()

	idx := dist.NewIndex()
	malformed, err := dist.ScanMash(f, func(p dist.PairRecord) error {
		if excluded[p.A] || excluded[p.B] {
			return nil
		}
		ha, ok := table.Lookup(p.A)
		if !ok {
			return nil
		}
		hb, ok := table.Lookup(p.B)
		if !ok {
			return nil
		}
		idx.Set(ha, hb, p.D)
		return nil
	})
	if err != nil {
		return nil, malformed, err
	}
	return idx, malformed, nil
}

// tileAll runs C3 over every query holding at least one alignment on
// its primary target, spread across a worker pool: each query only
// ever mutates its own contig.Summary, so no synchronization is
// needed between workers, only a WaitGroup to join the pool before
// the driver proceeds to C4/C5.
func tileAll(ctx context.Context, table *contig.Table, store *align.Store, minOverlap, threads int) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	jobs := make(chan contig.Handle)

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				if ctx.Err() != nil {
					continue
				}
				s := table.At(q)
				targetAlignments := targetOnly(store.Query(q), s.PrimaryTarget)
				if len(targetAlignments) == 0 {
					continue
				}
				locus.TileContig(table, q, targetAlignments, minOverlap)
			}
		}()
	}

	table.All(func(s *contig.Summary) {
		if s.HasPrimary {
			jobs <- s.Handle
		}
	})
	close(jobs)
	wg.Wait()
}

func targetOnly(alignments []align.Alignment, target string) []align.Alignment {
	out := alignments[:0:0]
	for _, a := range alignments {
		if a.Target == target {
			out = append(out, a)
		}
	}
	return out
}
