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

func TestU8Fixed8(t *testing.T) {
	buf := make([]byte, 2)
	putUint16(buf, 0, 0x0200) // 2.0
	v, err := u8Fixed8(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v-2.0) > 1e-9 {
		t.Errorf("got %v, want 2.0", v)
	}

	if _, err := u8Fixed8(buf, 1); err == nil {
		t.Error("expected ShortBuffer error for truncated read")
	}
}

func TestS15Fixed16RoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 2.2, -0.5, 32767.9999}
	buf := make([]byte, 4)
	for _, want := range cases {
		putS15Fixed16(buf, 0, want)
		got, err := s15Fixed16(buf, 0)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1.0/65536.0 {
			t.Errorf("round trip %v -> %v, exceeds one LSB", want, got)
		}
	}
}

func TestU16Fixed16(t *testing.T) {
	buf := make([]byte, 4)
	putUint32(buf, 0, 0x00018000) // 1.5
	v, err := u16Fixed16(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v-1.5) > 1e-9 {
		t.Errorf("got %v, want 1.5", v)
	}
}

func TestReadXYZType(t *testing.T) {
	want := XYZ{X: 0.9642, Y: 1.0, Z: 0.8249}
	buf := encodeXYZType(want)
	got, err := readXYZType(buf, "test")
	if err != nil {
		t.Fatal(err)
	}
	const tol = 1e-4
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadXYZTypeWrongSignature(t *testing.T) {
	buf := encodeXYZType(XYZ{})
	copy(buf[0:4], "curv")
	if _, err := readXYZType(buf, "test"); err == nil {
		t.Error("expected UnexpectedTagType error")
	}
}

func TestReadSF32Matrix3Identity(t *testing.T) {
	id := Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	buf := encodeSF32Matrix(id)
	got, err := readSF32Matrix3(buf, "chad")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsIdentity() {
		t.Errorf("got %+v, want identity", got)
	}
}

func TestMatrix3IsIdentityFalse(t *testing.T) {
	m := Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 0.5}
	if m.IsIdentity() {
		t.Error("0.5 on the diagonal should not be identity")
	}
}

func TestShortBufferOnTruncatedXYZ(t *testing.T) {
	buf := encodeXYZType(XYZ{X: 1, Y: 1, Z: 1})
	if _, err := readXYZType(buf[:10], "test"); err == nil {
		t.Error("expected ShortBuffer error")
	}
}
