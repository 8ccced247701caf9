// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package busco implements D5: parsing an optional BUSCO completion
// table into per-contig gene/status records. BUSCO data is purely
// informational in this specification (spec §4.13, §6) — it is
// attached to the ledger for reporting and never influences a
// verdict, per the §9 open question's resolution.
package busco

import (
	"bufio"
	"bytes"
	"io"

	"github.com/kortschak/tigcull/contig"
)

// Attach reads a BUSCO full_table.tsv-style stream (gene id, contig
// id, status, and further columns which are ignored) from r and
// appends a contig.GeneStatus to the matching contig.Summary in
// table. Rows referencing an id absent from table are skipped rather
// than treated as an error: BUSCO completion is informational, so a
// stale or mismatched table must never be able to abort a run.
func Attach(r io.Reader, table *contig.Table) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := bytes.Split(line, []byte{'\t'})
		if len(fields) < 3 {
			continue
		}
		id := string(fields[1])
		h, ok := table.Lookup(id)
		if !ok {
			continue
		}
		s := table.At(h)
		s.BUSCO = append(s.BUSCO, contig.GeneStatus{
			Gene:   string(fields[0]),
			Status: string(fields[2]),
		})
	}
	return sc.Err()
}
