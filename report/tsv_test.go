// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/ledger"
	"github.com/kortschak/tigcull/threshold"
)

func sampleLedger() *ledger.Ledger {
	table := contig.NewTable(2)
	a := table.Add("a", 100)
	b := table.Add("b", 200)
	table.At(a).Verdict = contig.Kept
	table.At(a).NormalisedScore = 0.91
	table.At(a).GC = 0.4
	table.At(a).BUSCO = []contig.GeneStatus{{Gene: "gene1", Status: "Complete"}}
	table.At(b).Verdict = contig.Discarded
	table.At(b).HasDisqualifier = true
	table.At(b).Disqualifier = a
	table.At(b).Reason = contig.ReasonSimilarityLoser
	table.At(b).Iteration = 1

	l := ledger.New()
	l.WriteAll(table)
	return l
}

func sampleTable() *contig.Table {
	table := contig.NewTable(2)
	a := table.Add("a", 100)
	b := table.Add("b", 200)
	table.At(a).Verdict = contig.Kept
	table.At(b).Verdict = contig.Discarded
	return table
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sampleLedger()); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 records)", len(lines))
	}
	if !strings.Contains(lines[1], "a\tKEPT\t\t\t\t0.91\t0.4\tComplete:1") {
		t.Errorf("record line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "b\tDISCARDED\tsimilarity-loser\ta\t1") {
		t.Errorf("record line = %q", lines[2])
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	thr := threshold.Report{Tau: 0.05, SampleSize: 12, Status: threshold.StatusKDEValley}
	assembly := ComputeAssemblyStats(sampleTable(), func(s *contig.Summary) bool {
		return s.Verdict == contig.Kept
	})
	if err := WriteHTML(&buf, sampleLedger(), thr, assembly); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "KEPT") || !strings.Contains(out, "DISCARDED") {
		t.Error("expected HTML output to mention both verdicts")
	}
	if !strings.Contains(out, "0.05") {
		t.Error("expected HTML output to include the threshold tau")
	}
	if !strings.Contains(out, "100") {
		t.Error("expected HTML output to include assembly N50/total-bases stats")
	}
}

func TestComputeAssemblyStats(t *testing.T) {
	stats := ComputeAssemblyStats(sampleTable(), func(s *contig.Summary) bool {
		return s.Verdict == contig.Kept
	})
	if stats.NumContigs != 1 || stats.TotalBases != 100 || stats.N50 != 100 || stats.L50 != 1 {
		t.Errorf("stats = %+v, want {NumContigs:1 TotalBases:100 N50:100 L50:1}", stats)
	}
}

func TestDisqualifierGraph(t *testing.T) {
	b, err := DisqualifierGraph(sampleLedger())
	if err != nil {
		t.Fatalf("DisqualifierGraph: %v", err)
	}
	if !strings.Contains(string(b), "->") && !strings.Contains(string(b), "--") {
		t.Errorf("expected DOT output to contain an edge, got %s", b)
	}
}
