// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dist

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/kortschak/tigcull/internal/errs"
)

// PairRecord is one parsed row of a Mash-style pairwise distance
// file: two contig ids and a distance in [0,1].
type PairRecord struct {
	A, B string
	D    float64
}

// ScanMash reads three-column, tab-separated "a b d" rows from r,
// calling fn for each well-formed one. Self-pairs (a == b) are
// silently skipped, per spec §3. A row with the wrong field count, an
// unparsable distance, or a distance outside [0,1] is malformed;
// ScanMash tolerates isolated malformed rows (skip, tallied in the
// returned count) but aborts once more than 1% of rows seen so far
// are malformed, per spec §7 — the same policy align.ScanPAF applies
// to malformed PAF rows.
func ScanMash(r io.Reader, fn func(PairRecord) error) (malformed int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var total int
	for sc.Scan() {
		total++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte{'\t'})
		if len(fields) != 3 {
			malformed++
			if budgetExceeded(malformed, total) {
				return malformed, errs.New(errs.InputShape,
					"too many malformed mash rows: %d/%d", malformed, total)
			}
			continue
		}
		a := string(fields[0])
		b := string(fields[1])
		if a == b {
			continue
		}
		d, perr := strconv.ParseFloat(string(fields[2]), 64)
		if perr != nil || d < 0 || d > 1 {
			malformed++
			if budgetExceeded(malformed, total) {
				return malformed, errs.New(errs.InputShape,
					"too many malformed mash rows: %d/%d", malformed, total)
			}
			continue
		}
		if err := fn(PairRecord{A: a, B: b, D: d}); err != nil {
			return malformed, err
		}
	}
	if err := sc.Err(); err != nil {
		return malformed, errs.Wrap(errs.InputShape, err, "reading mash stream")
	}
	return malformed, nil
}

// budgetExceeded implements spec §7's ">1% of rows malformed" abort
// rule, shared with align.ScanPAF. It never fires before at least 100
// rows have been seen, so a single bad line in a small test file does
// not itself abort.
func budgetExceeded(malformed, total int) bool {
	return total >= 100 && malformed*100 > total
}
