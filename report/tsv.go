// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/ledger"
)

// WriteTSV writes one row per ledger record: id, verdict, reason,
// disqualifier (empty if none), iteration, normalised score, GC%,
// BUSCO summary and comma-joined opponents, in write order.
func WriteTSV(w io.Writer, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tverdict\treason\tdisqualifier\titeration\tnormalised_score\tgc\tbusco\topponents")
	var werr error
	l.All(func(r ledger.Record) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\t%.4g\t%.4g\t%s\t%s\n",
			r.ID, r.Verdict, r.Reason, r.Disqualifier,
			iterationField(r), r.NormalisedScore, r.GC,
			buscoSummary(r.BUSCO), strings.Join(r.Opponents, ","))
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

func iterationField(r ledger.Record) string {
	if r.Iteration == 0 {
		return ""
	}
	return strconv.Itoa(r.Iteration)
}

// buscoSummary condenses a contig's BUSCO rows into a status-count
// tally, e.g. "Complete:2,Fragmented:1", sorted by status for a
// deterministic column.
func buscoSummary(genes []contig.GeneStatus) string {
	if len(genes) == 0 {
		return ""
	}
	counts := make(map[string]int, len(genes))
	for _, g := range genes {
		counts[g.Status]++
	}
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = fmt.Sprintf("%s:%d", s, counts[s])
	}
	return strings.Join(parts, ",")
}
