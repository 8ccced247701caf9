// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledger

import (
	"path/filepath"
	"testing"

	"github.com/kortschak/tigcull/contig"
)

func TestByVerdictThenID(t *testing.T) {
	x := marshalKey(Record{ID: "b", Verdict: contig.Kept})
	y := marshalKey(Record{ID: "a", Verdict: contig.Discarded})
	if got := ByVerdictThenID(x, y); got <= 0 {
		t.Errorf("ByVerdictThenID(Kept/b, Discarded/a) = %d, want > 0 (Discarded sorts before Kept)", got)
	}

	x = marshalKey(Record{ID: "a", Verdict: contig.Kept})
	y = marshalKey(Record{ID: "b", Verdict: contig.Kept})
	if got := ByVerdictThenID(x, y); got >= 0 {
		t.Errorf("ByVerdictThenID(Kept/a, Kept/b) = %d, want < 0", got)
	}
}

func TestPersistAndLoadAll(t *testing.T) {
	table := contig.NewTable(2)
	a := table.Add("a", 100)
	b := table.Add("b", 200)
	table.At(a).Verdict = contig.Kept
	table.At(a).NormalisedScore = 0.92
	table.At(a).GC = 0.41
	table.At(a).BUSCO = []contig.GeneStatus{{Gene: "gene1", Status: "Complete"}}
	table.At(b).Verdict = contig.Discarded
	table.At(b).HasDisqualifier = true
	table.At(b).Disqualifier = a
	table.At(b).Reason = contig.ReasonSimilarityLoser
	table.At(b).Opponents = []contig.Handle{a}

	l := New()
	l.WriteAll(table)

	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer db.Close()

	if err := Persist(db, l); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	recs, err := LoadAll(db)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// Discarded sorts before Kept.
	if recs[0].ID != "b" || recs[0].Verdict != contig.Discarded {
		t.Errorf("recs[0] = %+v, want id=b verdict=Discarded", recs[0])
	}
	if recs[0].Disqualifier != "a" || len(recs[0].Opponents) != 1 || recs[0].Opponents[0] != "a" {
		t.Errorf("recs[0] disqualifier/opponents = %q/%v, want a/[a]", recs[0].Disqualifier, recs[0].Opponents)
	}

	if recs[1].ID != "a" || recs[1].Verdict != contig.Kept {
		t.Fatalf("recs[1] = %+v, want id=a verdict=Kept", recs[1])
	}
	if recs[1].NormalisedScore != 0.92 || recs[1].GC != 0.41 {
		t.Errorf("recs[1] score/gc = %v/%v, want 0.92/0.41", recs[1].NormalisedScore, recs[1].GC)
	}
	if len(recs[1].BUSCO) != 1 || recs[1].BUSCO[0].Gene != "gene1" || recs[1].BUSCO[0].Status != "Complete" {
		t.Errorf("recs[1].BUSCO = %+v, want [{gene1 Complete}]", recs[1].BUSCO)
	}
}
