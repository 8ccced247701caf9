// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threshold

import "testing"

func TestEstimateUserSupplied(t *testing.T) {
	tau := 0.1
	r := Estimate([]float64{0.5, 0.6}, &tau)
	if r.Tau != 0.1 || r.Status != StatusUserSupplied {
		t.Errorf("Estimate = %+v, want Tau=0.1 Status=%s", r, StatusUserSupplied)
	}
}

func TestEstimateBypassedSmallSample(t *testing.T) {
	samples := make([]float64, MinSample-1)
	for i := range samples {
		samples[i] = 0.1
	}
	r := Estimate(samples, nil)
	if r.Status != StatusBypassedSmall {
		t.Errorf("Status = %s, want %s", r.Status, StatusBypassedSmall)
	}
}

func TestEstimateDegenerate(t *testing.T) {
	samples := make([]float64, MinSample)
	for i := range samples {
		samples[i] = 0.02
	}
	r := Estimate(samples, nil)
	if r.Status != StatusDegenerate {
		t.Errorf("Status = %s, want %s", r.Status, StatusDegenerate)
	}
	if r.Tau <= 0.02 {
		t.Errorf("Tau = %v, want > 0.02", r.Tau)
	}
}

func TestEstimateBimodalFindsValley(t *testing.T) {
	var samples []float64
	for i := 0; i < 40; i++ {
		samples = append(samples, 0.01)
	}
	for i := 0; i < 40; i++ {
		samples = append(samples, 0.30)
	}
	r := Estimate(samples, nil)
	if r.Status != StatusKDEValley && r.Status != StatusMedianFallback {
		t.Errorf("Status = %s, want kde-valley or median-fallback for a clearly bimodal sample", r.Status)
	}
	if r.Tau <= 0.01 || r.Tau >= 0.30 {
		t.Errorf("Tau = %v, want a value strictly between the two clusters", r.Tau)
	}
}

func TestInteriorLocalMinima(t *testing.T) {
	density := []float64{1, 0.5, 1, 0.2, 1}
	got := interiorLocalMinima(density)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("interiorLocalMinima = %v, want [1 3]", got)
	}
}
