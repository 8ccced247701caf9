// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders a finished Ledger as TSV, HTML and DOT
// output for downstream inspection.
package report

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kortschak/tigcull/contig"
	"github.com/kortschak/tigcull/ledger"
)

// DisqualifierGraph renders the ledger's disqualifier relation as a
// DOT-format directed graph, one edge per DISCARDED contig pointing
// at the contig that beat it, weighted by the round it lost in. This
// repurposes the teacher's cmpint discordance graph (nameGraph/node/
// edge, gonum's WeightedUndirectedGraph and encoding/dot) for the
// disqualifier chain rather than GFF annotation mismatches; unlike
// the discordance graph, ties here are directed, so the underlying
// graph is a WeightedDirectedGraph instead.
func DisqualifierGraph(l *ledger.Ledger) ([]byte, error) {
	g := newVerdictGraph()
	l.All(func(r ledger.Record) {
		g.nodeFor(r.ID, r.Verdict)
		if r.HasDisqualifier {
			g.nodeFor(r.Disqualifier, contig.Kept)
			e := verdictEdge{
				f: g.nodeFor(r.ID, r.Verdict),
				t: g.nodeFor(r.Disqualifier, contig.Kept),
				w: float64(r.Iteration),
			}
			g.SetWeightedEdge(e)
		}
	})
	return dot.Marshal(g, "disqualifiers", "", "\t")
}

type verdictGraph struct {
	*simple.WeightedDirectedGraph
	idFor map[string]int64
}

func newVerdictGraph() verdictGraph {
	return verdictGraph{
		WeightedDirectedGraph: simple.NewWeightedDirectedGraph(0, 0),
		idFor:                 make(map[string]int64),
	}
}

func (g verdictGraph) nodeFor(id string, v contig.Verdict) graph.Node {
	nid, ok := g.idFor[id]
	if ok {
		return g.Node(nid)
	}
	nid = g.WeightedDirectedGraph.NewNode().ID()
	g.idFor[id] = nid
	n := verdictNode{id: nid, name: id, verdict: v}
	g.AddNode(n)
	return n
}

type verdictNode struct {
	id      int64
	name    string
	verdict contig.Verdict
}

func (n verdictNode) ID() int64     { return n.id }
func (n verdictNode) DOTID() string { return n.name }
func (n verdictNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "verdict", Value: n.verdict.String()}}
}

type verdictEdge struct {
	f, t graph.Node
	w    float64
}

func (e verdictEdge) From() graph.Node         { return e.f }
func (e verdictEdge) To() graph.Node           { return e.t }
func (e verdictEdge) ReversedEdge() graph.Edge { return verdictEdge{f: e.t, t: e.f, w: e.w} }
func (e verdictEdge) Weight() float64          { return e.w }
func (e verdictEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "round", Value: fmt.Sprint(e.w)}}
}
