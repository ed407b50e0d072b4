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

import "math"

// Test fixtures are synthesised byte-by-byte from the documented ICC
// header/tag-table/tag-payload layout rather than embedded as binary
// files, since this is an executable cross-check of that layout as well as
// a source of test profiles.

type taggedPayload struct {
	sig  string
	data []byte
}

// profileBuilder assembles a conforming ICC profile byte buffer: a 128-byte
// header, a tag count and tag table at offset 128, and tag payloads packed
// after the table, each padded to a 4-byte boundary.
type profileBuilder struct {
	colorSpace string
	pcs        string
	version    byte // minor<<4|bugfix, as stored at offset 9
	tags       []taggedPayload
}

func newProfileBuilder() *profileBuilder {
	return &profileBuilder{colorSpace: "RGB ", pcs: "XYZ ", version: 0x40}
}

func (b *profileBuilder) addTag(sig string, data []byte) *profileBuilder {
	b.tags = append(b.tags, taggedPayload{sig: sig, data: data})
	return b
}

func (b *profileBuilder) build() []byte {
	tableStart := tagTableStart
	count := len(b.tags)
	tableLen := count * 12

	padded := make([][]byte, count)
	for i, t := range b.tags {
		n := len(t.data)
		pad := (4 - n%4) % 4
		padded[i] = append(append([]byte{}, t.data...), make([]byte, pad)...)
	}

	dataStart := tableStart + tableLen
	total := dataStart
	offsets := make([]int, count)
	for i, d := range padded {
		offsets[i] = total
		total += len(d)
	}

	buf := make([]byte, total)

	copy(buf[offMagic:offMagic+4], []byte("acsp"))
	copy(buf[offColorSpace:offColorSpace+4], []byte(b.colorSpace))
	copy(buf[offPCS:offPCS+4], []byte(b.pcs))
	buf[offVersion] = 4
	buf[offVersion+1] = b.version
	copy(buf[offPCSIlluminant:offPCSIlluminant+12], d50Bytes12)

	putUint32(buf, offTagCount, uint32(count))
	for i, t := range b.tags {
		row := tableStart + i*12
		copy(buf[row:row+4], []byte(t.sig))
		putUint32(buf, row+4, uint32(offsets[i]))
		putUint32(buf, row+8, uint32(len(t.data)))
		copy(buf[offsets[i]:offsets[i]+len(padded[i])], padded[i])
	}

	return buf
}

// --- tag payload encoders ---

func encodeCurvIdentity() []byte {
	buf := make([]byte, 12)
	copy(buf[0:4], "curv")
	return buf
}

func encodeCurvGamma(gamma float64) []byte {
	buf := make([]byte, 14)
	copy(buf[0:4], "curv")
	putUint32(buf, 8, 1)
	putUint16(buf, 12, uint16(math.Round(gamma*256.0)))
	return buf
}

func encodeCurvTable(entries []uint16) []byte {
	n := len(entries)
	buf := make([]byte, 12+2*n)
	copy(buf[0:4], "curv")
	putUint32(buf, 8, uint32(n))
	for i, v := range entries {
		putUint16(buf, 12+i*2, v)
	}
	return buf
}

func encodePara(mode int, params []float64) []byte {
	buf := make([]byte, 12+4*len(params))
	copy(buf[0:4], "para")
	putUint16(buf, 8, uint16(mode))
	for i, v := range params {
		putS15Fixed16(buf, 12+i*4, v)
	}
	return buf
}

func encodeXYZType(v XYZ) []byte {
	buf := make([]byte, 20)
	copy(buf[0:4], "XYZ ")
	putS15Fixed16(buf, 8, v.X)
	putS15Fixed16(buf, 12, v.Y)
	putS15Fixed16(buf, 16, v.Z)
	return buf
}

func encodeSF32Matrix(m Matrix3) []byte {
	buf := make([]byte, 8+9*4)
	copy(buf[0:4], "sf32")
	for i, v := range m {
		putS15Fixed16(buf, 8+i*4, v)
	}
	return buf
}

func encodeTextDescription(s string) []byte {
	raw := append([]byte(s), 0)
	buf := make([]byte, 12+len(raw))
	copy(buf[0:4], "desc")
	putUint32(buf, 8, uint32(len(raw)))
	copy(buf[12:], raw)
	return buf
}

// --- composite profile builders ---

// buildMatrixTRCProfile assembles a complete Matrix/TRC profile: rXYZ/
// gXYZ/bXYZ plus rTRC/gTRC/bTRC (all sharing the same curve bytes when
// uniform is true, and three distinct gamma curves otherwise).
func buildMatrixTRCProfile(uniform bool) []byte {
	b := newProfileBuilder()
	b.addTag("rXYZ", encodeXYZType(XYZ{X: 0.4361, Y: 0.2225, Z: 0.0139}))
	b.addTag("gXYZ", encodeXYZType(XYZ{X: 0.3851, Y: 0.7169, Z: 0.0971}))
	b.addTag("bXYZ", encodeXYZType(XYZ{X: 0.1431, Y: 0.0606, Z: 0.7139}))
	b.addTag("wtpt", encodeXYZType(XYZ{X: 0.9642, Y: 1.0, Z: 0.8249})) // D50

	if uniform {
		curve := encodeCurvGamma(2.2)
		b.addTag("rTRC", curve)
		b.addTag("gTRC", curve)
		b.addTag("bTRC", curve)
	} else {
		b.addTag("rTRC", encodeCurvGamma(2.2))
		b.addTag("gTRC", encodeCurvGamma(2.4))
		b.addTag("bTRC", encodeCurvGamma(1.8))
	}
	b.addTag("desc", encodeTextDescription("Test Matrix Profile.icc"))
	return b.build()
}

// buildMabProfile assembles a minimal A2B0/mAB profile: identity A-curves,
// a 2x2x2 CLUT that simply swaps R and B, and identity M-curves.
func buildMabProfile() []byte {
	b := newProfileBuilder()

	mab := make([]byte, 32)
	copy(mab[0:4], "mAB ")
	mab[8] = 3
	mab[9] = 3

	aCurve := encodeCurvIdentity()
	mCurve := encodeCurvIdentity()

	offA := len(mab)
	aBlock := append(append(append([]byte{}, aCurve...), aCurve...), aCurve...)

	offM := offA + len(aBlock)
	mBlock := append(append(append([]byte{}, mCurve...), mCurve...), mCurve...)

	clut := encodeCLUT2x2x2SwapRB()
	offCLUT := offM + len(mBlock)

	putUint32(mab, 20, uint32(offM))
	putUint32(mab, 24, uint32(offCLUT))
	putUint32(mab, 28, uint32(offA))

	payload := append(append(append(append([]byte{}, mab...), aBlock...), mBlock...), clut...)
	b.addTag("A2B0", payload)
	b.addTag("desc", encodeTextDescription("Test Mab Profile"))
	return b.build()
}

func encodeCLUT2x2x2SwapRB() []byte {
	buf := make([]byte, 20)
	buf[0], buf[1], buf[2] = 2, 2, 2
	buf[16] = 1 // 8-bit precision

	corners := [8][3]byte{
		{0, 0, 0}, {0, 0, 1},
		{0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1},
		{1, 1, 0}, {1, 1, 1},
	}
	data := make([]byte, 0, 8*3)
	for _, c := range corners {
		r, g, bch := c[0], c[1], c[2]
		out := [3]byte{bch * 255, g * 255, r * 255} // swap R/B
		data = append(data, out[0], out[1], out[2])
	}
	return append(buf, data...)
}
