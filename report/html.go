// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"html/template"
	"io"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/ledger"
	"github.com/kortschak/tigcull/threshold"
)

var summaryTmpl = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head><title>tigcull report</title></head>
<body>
<h1>tigcull report</h1>
<h2>Threshold</h2>
<table border="1" cellpadding="4">
<tr><th>Tau</th><th>Sample size</th><th>Status</th></tr>
<tr><td>{{.Threshold.Tau}}</td><td>{{.Threshold.SampleSize}}</td><td>{{.Threshold.Status}}</td></tr>
</table>
<h2>Assembly</h2>
<table border="1" cellpadding="4">
<tr><th>Contigs</th><th>Total bases</th><th>N50</th><th>L50</th></tr>
<tr><td>{{.Assembly.NumContigs}}</td><td>{{.Assembly.TotalBases}}</td><td>{{.Assembly.N50}}</td><td>{{.Assembly.L50}}</td></tr>
</table>
<h2>Verdicts</h2>
<table border="1" cellpadding="4">
<tr><th>Verdict</th><th>Count</th></tr>
{{range .Counts}}<tr><td>{{.Verdict}}</td><td>{{.N}}</td></tr>
{{end}}
</table>
<h2>Records</h2>
<table border="1" cellpadding="4">
<tr><th>ID</th><th>Verdict</th><th>Reason</th><th>Disqualifier</th><th>Iteration</th><th>Score</th><th>GC</th></tr>
{{range .Records}}<tr><td>{{.ID}}</td><td>{{.Verdict}}</td><td>{{.Reason}}</td><td>{{.Disqualifier}}</td><td>{{.Iteration}}</td><td>{{.NormalisedScore}}</td><td>{{.GC}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

type countRow struct {
	Verdict contig.Verdict
	N       int
}

// WriteHTML renders a self-contained summary-and-detail page for l:
// the C5 threshold report, the kept set's contig count, total bases,
// N50 and L50 (the L-curve series is not rendered), per-verdict
// counts, and the per-contig detail table.
func WriteHTML(w io.Writer, l *ledger.Ledger, thr threshold.Report, assembly AssemblyStats) error {
	counts := l.Summarise()
	order := []contig.Verdict{
		contig.Kept, contig.Discarded,
		contig.UnalignedKept, contig.UnalignedDiscarded,
		contig.Pending, contig.UnalignedPending,
	}
	var rows []countRow
	for _, v := range order {
		if n := counts[v]; n > 0 {
			rows = append(rows, countRow{Verdict: v, N: n})
		}
	}

	var records []ledger.Record
	l.All(func(r ledger.Record) { records = append(records, r) })

	return summaryTmpl.Execute(w, struct {
		Threshold threshold.Report
		Assembly  AssemblyStats
		Counts    []countRow
		Records   []ledger.Record
	}{thr, assembly, rows, records})
}
