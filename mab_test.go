// seehuhn.de/go/icc - read and write ICC profiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package icc

import (
	"math"
	"testing"
)

func TestCLUT3DApplyCorners(t *testing.T) {
	data := encodeCLUT2x2x2SwapRB()
	clut, err := decodeCLUT3D(data, 0, "CLUT")
	if err != nil {
		t.Fatal(err)
	}
	if clut.Dims != [3]int{2, 2, 2} {
		t.Fatalf("Dims = %v, want [2 2 2]", clut.Dims)
	}

	out := clut.Apply([3]float64{1, 0, 0}) // pure R in -> pure B out
	want := [3]float64{0, 0, 1}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-6 {
			t.Errorf("Apply([1 0 0]) = %v, want %v", out, want)
			break
		}
	}
}

func TestCLUT3DApplyInterpolatesMidpoint(t *testing.T) {
	data := encodeCLUT2x2x2SwapRB()
	clut, err := decodeCLUT3D(data, 0, "CLUT")
	if err != nil {
		t.Fatal(err)
	}
	out := clut.Apply([3]float64{0.5, 0, 0})
	if math.Abs(out[2]-0.5) > 1e-6 {
		t.Errorf("midpoint interpolation: out[2] = %v, want 0.5", out[2])
	}
}

func TestCLUT3DApplyClampsOutOfRangeInput(t *testing.T) {
	data := encodeCLUT2x2x2SwapRB()
	clut, err := decodeCLUT3D(data, 0, "CLUT")
	if err != nil {
		t.Fatal(err)
	}
	inRange := clut.Apply([3]float64{1, 0, 0})
	outOfRange := clut.Apply([3]float64{5, 0, 0})
	for i := range inRange {
		if math.Abs(inRange[i]-outOfRange[i]) > 1e-9 {
			t.Errorf("out-of-range input should clamp to the same result as 1.0: got %v vs %v", outOfRange, inRange)
			break
		}
	}
}

func TestDecodeMABRejectsWrongChannelCount(t *testing.T) {
	mab := make([]byte, 32)
	copy(mab[0:4], "mAB ")
	mab[8] = 4
	mab[9] = 3
	if _, err := decodeMAB(mab, "A2B0", false); err == nil {
		t.Error("expected ChannelCountMismatch for a 4-channel input")
	}
}

func TestDecodeMABIdentityPipeline(t *testing.T) {
	buf := buildMabProfile()
	h, err := parseHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	data, err := h.payload(buf, "A2B0")
	if err != nil {
		t.Fatal(err)
	}
	pipeline, err := decodeMAB(data, "A2B0", false)
	if err != nil {
		t.Fatal(err)
	}

	out := pipeline.Apply([3]float64{1, 0, 0})
	want := [3]float64{0, 0, 1}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-6 {
			t.Errorf("Apply([1 0 0]) = %v, want %v (identity A/M curves around a swap CLUT)", out, want)
			break
		}
	}
}

func TestDecodeMABMatrixAndBCurvesRetainedNotApplied(t *testing.T) {
	buf := buildMabProfile()
	h, err := parseHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	data, err := h.payload(buf, "A2B0")
	if err != nil {
		t.Fatal(err)
	}
	pipeline, err := decodeMAB(data, "A2B0", false)
	if err != nil {
		t.Fatal(err)
	}
	// A zero matrix offset in the test fixture decodes to the identity
	// matrix, and Apply must not fold it into the A-curve/CLUT/M-curve
	// result at all.
	wantIdentity := [12]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}
	if pipeline.Matrix != wantIdentity {
		t.Errorf("Matrix = %v, want identity %v", pipeline.Matrix, wantIdentity)
	}
	for i, c := range pipeline.BCurves {
		if !c.IsIdentity() {
			t.Errorf("BCurves[%d] = %+v, want identity (retained but unused)", i, c)
		}
	}
}
