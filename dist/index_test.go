// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dist

import (
	"testing"

	"github.com/kortschak/tigcull/contig"
)

func TestIndexSetDistance(t *testing.T) {
	idx := NewIndex()
	idx.Set(1, 2, 0.05)
	if d, ok := idx.Distance(1, 2); !ok || d != 0.05 {
		t.Errorf("Distance(1,2) = %v, %v, want 0.05, true", d, ok)
	}
	if d, ok := idx.Distance(2, 1); !ok || d != 0.05 {
		t.Errorf("Distance is not symmetric: got %v, %v", d, ok)
	}
	if _, ok := idx.Distance(1, 3); ok {
		t.Error("expected unrecorded pair to report not-found")
	}
	if d, ok := idx.Distance(1, 1); !ok || d != 0 {
		t.Errorf("Distance to self = %v, %v, want 0, true", d, ok)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestIndexNeighbors(t *testing.T) {
	idx := NewIndex()
	idx.Set(1, 2, 0.01)
	idx.Set(1, 3, 0.5)

	var got []contig.Handle
	idx.Neighbors(1, 0.1, func(h contig.Handle, d float64) {
		got = append(got, h)
	})
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Neighbors(1, 0.1) = %v, want [2]", got)
	}
}
