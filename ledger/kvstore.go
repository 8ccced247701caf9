// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"modernc.org/kv"

	"github.com/kortschak/tigcull/contig"
)

// ByVerdictThenID is a kv compare function ordering ledger keys by
// verdict name (so DISCARDED sorts before KEPT) and then by contig
// id, so that a persisted ledger can be
// scanned one verdict bucket at a time without an index. Grounded on
// the teacher's internal/store compare functions
// (GroupByQueryOrderSubjectLeft, BySubjectPosition), which order BLAST
// hit keys the same way: group first, then break ties
// lexicographically.
func ByVerdictThenID(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}
	kx := unmarshalKey(x)
	ky := unmarshalKey(y)

	vx, vy := kx.Verdict.String(), ky.Verdict.String()
	switch {
	case vx < vy:
		return -1
	case vx > vy:
		return 1
	}
	switch {
	case kx.ID < ky.ID:
		return -1
	case kx.ID > ky.ID:
		return 1
	}
	return 0
}

type recordKey struct {
	Verdict contig.Verdict
	ID      string
}

var order = binary.BigEndian

func marshalKey(r Record) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(r.Verdict))
	var n [8]byte
	order.PutUint64(n[:], uint64(len(r.ID)))
	buf.Write(n[:])
	buf.WriteString(r.ID)
	return buf.Bytes()
}

func unmarshalKey(data []byte) recordKey {
	var k recordKey
	k.Verdict = contig.Verdict(data[0])
	data = data[1:]
	n := order.Uint64(data[:8])
	data = data[8:]
	k.ID = string(data[:n])
	return k
}

func marshalValue(r Record) []byte {
	var buf bytes.Buffer
	writeString := func(s string) {
		var n [8]byte
		order.PutUint64(n[:], uint64(len(s)))
		buf.Write(n[:])
		buf.WriteString(s)
	}
	writeString(string(r.Reason))
	writeString(r.Disqualifier)
	var hd byte
	if r.HasDisqualifier {
		hd = 1
	}
	buf.WriteByte(hd)
	var it [8]byte
	order.PutUint64(it[:], uint64(r.Iteration))
	buf.Write(it[:])
	var n [8]byte
	order.PutUint64(n[:], uint64(len(r.Opponents)))
	buf.Write(n[:])
	for _, o := range r.Opponents {
		writeString(o)
	}

	var score [8]byte
	order.PutUint64(score[:], math.Float64bits(r.NormalisedScore))
	buf.Write(score[:])
	var gc [8]byte
	order.PutUint64(gc[:], math.Float64bits(r.GC))
	buf.Write(gc[:])

	var bn [8]byte
	order.PutUint64(bn[:], uint64(len(r.BUSCO)))
	buf.Write(bn[:])
	for _, g := range r.BUSCO {
		writeString(g.Gene)
		writeString(g.Status)
	}
	return buf.Bytes()
}

func unmarshalValue(key recordKey, data []byte) Record {
	readString := func() string {
		n := order.Uint64(data[:8])
		data = data[8:]
		s := string(data[:n])
		data = data[n:]
		return s
	}
	r := Record{ID: key.ID, Verdict: key.Verdict}
	r.Reason = contig.Reason(readString())
	r.Disqualifier = readString()
	r.HasDisqualifier = data[0] == 1
	data = data[1:]
	r.Iteration = int(order.Uint64(data[:8]))
	data = data[8:]
	n := order.Uint64(data[:8])
	data = data[8:]
	r.Opponents = make([]string, n)
	for i := range r.Opponents {
		nlen := order.Uint64(data[:8])
		data = data[8:]
		r.Opponents[i] = string(data[:nlen])
		data = data[nlen:]
	}

	r.NormalisedScore = math.Float64frombits(order.Uint64(data[:8]))
	data = data[8:]
	r.GC = math.Float64frombits(order.Uint64(data[:8]))
	data = data[8:]

	bn := order.Uint64(data[:8])
	data = data[8:]
	r.BUSCO = make([]contig.GeneStatus, bn)
	for i := range r.BUSCO {
		glen := order.Uint64(data[:8])
		data = data[8:]
		gene := string(data[:glen])
		data = data[glen:]
		slen := order.Uint64(data[:8])
		data = data[8:]
		status := string(data[:slen])
		data = data[slen:]
		r.BUSCO[i] = contig.GeneStatus{Gene: gene, Status: status}
	}
	return r
}

// OpenStore opens (creating if absent) an ordered, on-disk ledger
// store at path, for the "audit the run later" workflow (spec §6),
// directly grounded on the teacher's cmd/audit-ins-db and
// internal/store: a modernc.org/kv database keyed with a
// domain-specific Compare function instead of a dense in-memory map.
func OpenStore(path string) (*kv.DB, error) {
	opts := &kv.Options{Compare: ByVerdictThenID}
	db, err := kv.Open(path, opts)
	if err != nil {
		db, err = kv.Create(path, opts)
		if err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Persist writes every record in l to db, keyed by (verdict, id).
func Persist(db *kv.DB, l *Ledger) error {
	var err error
	l.All(func(r Record) {
		if err != nil {
			return
		}
		err = db.Set(marshalKey(r), marshalValue(r))
	})
	return err
}

// LoadAll reads every record persisted in db, in key order (verdict,
// then id). Used by the audit tool.
func LoadAll(db *kv.DB) ([]Record, error) {
	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var recs []Record
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		key := unmarshalKey(k)
		recs = append(recs, unmarshalValue(key, v))
	}
	return recs, nil
}
