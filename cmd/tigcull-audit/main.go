// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The tigcull-audit command allows a ledger persisted by tigcull's
// -out-db flag to be queried after the run completes. Output is a
// JSON stream of ledger records on stdout, one per line, ordered by
// verdict and then by contig id.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/kortschak/tigcull/ledger"
)

func main() {
	path := flag.String("db", "", "specify ledger db file to audit (required)")
	verdict := flag.String("verdict", "", "specify verdict to filter on (KEPT, DISCARDED, UNALIGNED-KEPT, UNALIGNED-DISCARDED); empty lists all")
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := ledger.OpenStore(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	recs, err := ledger.LoadAll(db)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, r := range recs {
		if *verdict != "" && r.Verdict.String() != *verdict {
			continue
		}
		if err := enc.Encode(r); err != nil {
			log.Fatalf("failed to write record: %v", err)
		}
	}
}
