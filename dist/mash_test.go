// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dist

import (
	"strings"
	"testing"
)

func TestScanMash(t *testing.T) {
	data := "a\tb\t0.02\na\ta\t0.0\nb\tc\t0.95\n"
	var recs []PairRecord
	malformed, err := ScanMash(strings.NewReader(data), func(p PairRecord) error {
		recs = append(recs, p)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanMash returned error: %v", err)
	}
	if malformed != 0 {
		t.Errorf("malformed = %d, want 0", malformed)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (self-pair skipped)", len(recs))
	}
	if recs[0].A != "a" || recs[0].B != "b" || recs[0].D != 0.02 {
		t.Errorf("recs[0] = %+v", recs[0])
	}
}

func TestScanMashBadShape(t *testing.T) {
	malformed, err := ScanMash(strings.NewReader("a\tb\n"), func(PairRecord) error { return nil })
	if err != nil {
		t.Fatalf("isolated malformed row should not abort: %v", err)
	}
	if malformed != 1 {
		t.Errorf("malformed = %d, want 1", malformed)
	}
}

func TestScanMashDistanceOutOfRange(t *testing.T) {
	malformed, err := ScanMash(strings.NewReader("a\tb\t1.5\n"), func(PairRecord) error { return nil })
	if err != nil {
		t.Fatalf("isolated malformed row should not abort: %v", err)
	}
	if malformed != 1 {
		t.Errorf("malformed = %d, want 1", malformed)
	}
}

func TestScanMashBudgetExceeded(t *testing.T) {
	goodRow := "a\tb\t0.02\n"
	var buf strings.Builder
	for i := 0; i < 98; i++ {
		buf.WriteString(goodRow)
	}
	// Two malformed rows among 100 total trips the >1% budget.
	buf.WriteString("bad row\nbad row\n")
	_, err := ScanMash(strings.NewReader(buf.String()), func(PairRecord) error { return nil })
	if err == nil {
		t.Fatal("expected malformed-row budget to be exceeded")
	}
}
