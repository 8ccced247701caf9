// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contig

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/fai"
)

// Index wraps a FASTA index (D3): contig id → length, plus random
// access to the underlying sequence for writing the retained-contig
// FASTA. It is built exactly the way the teacher's cmd/ins builds its
// query index: fai.NewIndex scans the FASTA once to build an
// in-memory index, and fai.NewFile then gives seek-based SeqRange
// access without holding every sequence in memory at once.
type Index struct {
	file *fai.File
	idx  fai.Index
}

// OpenIndex opens the FASTA at path and builds its index.
func OpenIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("contig: opening fasta %q: %w", path, err)
	}
	idx, err := fai.NewIndex(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("contig: indexing fasta %q: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("contig: rewinding fasta %q: %w", path, err)
	}
	return &Index{file: fai.NewFile(f, idx), idx: idx}, nil
}

// Populate adds every contig named in the index to table, keyed by
// the length recorded in the index. This is the table's only
// construction path: spec §3 requires exactly one Summary per contig
// present in the FASTA, so the FASTA index — not the alignment or
// distance streams — is what drives table construction.
func (x *Index) Populate(table *Table) {
	names := make([]string, 0, len(x.idx))
	for name := range x.idx {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.Add(name, x.idx[name].Length)
	}
}

// WriteKept writes the sequence of every contig for which keep
// returns true to dst, in the order returned by Summary iteration in
// table, wrapped at 60 bases per line in the teacher's FASTA output
// style (cmd/ins/main.go's `%60a` verb).
func (x *Index) WriteKept(dst io.Writer, table *Table, keep func(*Summary) bool) error {
	var werr error
	table.All(func(s *Summary) {
		if werr != nil || !keep(s) {
			return
		}
		r, err := x.file.SeqRange(s.ID, 0, s.Length)
		if err != nil {
			werr = fmt.Errorf("contig: reading sequence %q: %w", s.ID, err)
			return
		}
		b, err := ioutil.ReadAll(r)
		if err != nil {
			werr = fmt.Errorf("contig: reading sequence %q: %w", s.ID, err)
			return
		}
		seq := linear.NewSeq(s.ID, alphabet.BytesToLetters(b), alphabet.DNAredundant)
		if _, err := fmt.Fprintf(dst, "%60a\n", seq); err != nil {
			werr = err
		}
	})
	return werr
}
