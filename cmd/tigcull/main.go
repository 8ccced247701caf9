// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tigcull removes redundant haplotig contigs from a genome assembly.
// It takes a query FASTA, a PAF alignment of the query against a
// reference, and a Mash-style pairwise distance file, and reports a
// verdict for every query contig: kept, discarded, or, for contigs
// with no surviving alignment, kept or discarded on sequence
// similarity to what has already been kept.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/internal/config"
	"github.com/kortschak/tigcull/internal/pipeline"
	"github.com/kortschak/tigcull/ledger"
	"github.com/kortschak/tigcull/report"
)

func main() {
	fasta := flag.String("fasta", "", "specify query assembly FASTA (required)")
	paf := flag.String("paf", "", "specify PAF alignment of query against reference (required)")
	mash := flag.String("mash", "", "specify Mash-style pairwise distance file (required)")
	buscoTable := flag.String("busco", "", "specify optional BUSCO full_table.tsv for reporting")

	minMQ := flag.Int("min-mq", 0, "specify minimum mapping quality retained (0 uses the default)")
	minOverlap := flag.Int("min-overlap", 0, "specify minimum overlap in bases for tiling and locus grouping (0 uses the default)")
	safeguard := flag.Float64("min-size-safeguard", 0, "specify the length-ratio size safeguard (0 uses the default)")
	safeguardScore := flag.Float64("min-size-safeguard-score", 0, "specify the score-ratio size safeguard (0 uses the default)")
	tau := flag.Float64("distance-threshold", -1, "specify a fixed distance threshold, bypassing estimation (<0 estimates from data)")
	alignedOnly := flag.Bool("aligned-only", false, "specify to discard every unaligned contig outright")
	maxIters := flag.Int("max-tournament-iterations", 0, "specify the tournament iteration cap (0 uses the default)")
	threads := flag.Int("threads", 0, "specify worker count (0 uses all cores)")
	gcStdDevs := flag.Float64("gc-outlier-stddevs", 0, "specify the GC-content outlier threshold in standard deviations (0 uses the default)")
	memLimit := flag.Int64("memory-limit-bytes", 0, "specify a pre-flight memory budget in bytes for the alignment store and distance index (0 disables the check)")

	keptFasta := flag.String("out-fasta", "", "specify output FASTA path for kept contigs")
	tsvOut := flag.String("out-tsv", "", "specify output TSV path for the decision ledger")
	htmlOut := flag.String("out-html", "", "specify output HTML path for a summary report")
	dotOut := flag.String("out-dot", "", "specify output DOT path for the disqualifier graph")
	kvOut := flag.String("out-db", "", "specify output path for a persisted, queryable ledger")

	flag.Parse()

	if *fasta == "" || *paf == "" || *mash == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *minMQ != 0 {
		cfg.MinMQ = *minMQ
	}
	if *minOverlap != 0 {
		cfg.MinOverlap = *minOverlap
	}
	if *safeguard != 0 {
		cfg.MinSizeSafeguard = *safeguard
	}
	if *safeguardScore != 0 {
		cfg.SafeguardScoreRatio = *safeguardScore
	}
	if *tau >= 0 {
		cfg.DistanceThreshold = tau
	}
	cfg.AlignedOnly = *alignedOnly
	if *maxIters != 0 {
		cfg.MaxTournamentIters = *maxIters
	}
	if *threads != 0 {
		cfg.Threads = *threads
	}
	if *gcStdDevs != 0 {
		cfg.GCOutlierStdDevs = *gcStdDevs
	}
	cfg.MemoryLimitBytes = *memLimit

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	log.Println(os.Args)
	res, err := pipeline.Run(context.Background(), pipeline.Inputs{
		FASTA: *fasta,
		PAF:   *paf,
		Mash:  *mash,
		BUSCO: *buscoTable,
	}, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *keptFasta != "" {
		if err := writeKeptFasta(*keptFasta, *fasta, res); err != nil {
			log.Fatal(err)
		}
	}
	if *tsvOut != "" {
		if err := writeFile(*tsvOut, func(f *os.File) error { return report.WriteTSV(f, res.Ledger) }); err != nil {
			log.Fatal(err)
		}
	}
	if *htmlOut != "" {
		assembly := report.ComputeAssemblyStats(res.Table, func(s *contig.Summary) bool {
			return s.Verdict == contig.Kept || s.Verdict == contig.UnalignedKept
		})
		if err := writeFile(*htmlOut, func(f *os.File) error {
			return report.WriteHTML(f, res.Ledger, res.Threshold, assembly)
		}); err != nil {
			log.Fatal(err)
		}
	}
	if *dotOut != "" {
		if err := writeDot(*dotOut, res.Ledger); err != nil {
			log.Fatal(err)
		}
	}
	if *kvOut != "" {
		if err := persistLedger(*kvOut, res.Ledger); err != nil {
			log.Fatal(err)
		}
	}
}

func writeKeptFasta(path, fastaPath string, res *pipeline.Result) error {
	idx, err := contig.OpenIndex(fastaPath)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return idx.WriteKept(f, res.Table, func(s *contig.Summary) bool {
		return s.Verdict == contig.Kept || s.Verdict == contig.UnalignedKept
	})
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}

func writeDot(path string, l *ledger.Ledger) error {
	b, err := report.DisqualifierGraph(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o664)
}

func persistLedger(path string, l *ledger.Ledger) error {
	db, err := ledger.OpenStore(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return ledger.Persist(db, l)
}
