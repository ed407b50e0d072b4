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

// CLUT3D is a three-input-channel, three-output-channel colour lookup
// table, as stored in an mAB tag's CLUT sub-element. Grid values are
// normalised to [0, 1].
type CLUT3D struct {
	// Dims holds the grid point count along each input dimension
	// (Dims[0]*Dims[1]*Dims[2] == len(Table)).
	Dims [3]int
	// Table holds one [3]float64 output per grid point, in the ICC storage
	// order: the first input channel varies slowest.
	Table [][3]float64
}

func (c *CLUT3D) index(i, j, k int) int {
	return (i*c.Dims[1]+j)*c.Dims[2] + k
}

// Apply performs trilinear interpolation of in (each component clamped to
// [0, 1] before indexing, since the CLUT has no defined values outside its
// grid).
func (c *CLUT3D) Apply(in [3]float64) [3]float64 {
	var g [3]float64
	var i0 [3]int
	var frac [3]float64

	for d := 0; d < 3; d++ {
		x := in[d]
		if x < 0 {
			x = 0
		}
		if x > 1 {
			x = 1
		}
		n := c.Dims[d]
		g[d] = x * float64(n-1)
		i0[d] = int(g[d])
		if i0[d] > n-2 {
			i0[d] = n - 2
		}
		if i0[d] < 0 {
			i0[d] = 0
		}
		frac[d] = g[d] - float64(i0[d])
	}

	fx, fy, fz := frac[0], frac[1], frac[2]
	i, j, k := i0[0], i0[1], i0[2]

	c000 := c.Table[c.index(i, j, k)]
	c100 := c.Table[c.index(i+1, j, k)]
	c010 := c.Table[c.index(i, j+1, k)]
	c110 := c.Table[c.index(i+1, j+1, k)]
	c001 := c.Table[c.index(i, j, k+1)]
	c101 := c.Table[c.index(i+1, j, k+1)]
	c011 := c.Table[c.index(i, j+1, k+1)]
	c111 := c.Table[c.index(i+1, j+1, k+1)]

	var out [3]float64
	for n := 0; n < 3; n++ {
		c00 := c000[n]*(1-fx) + c100[n]*fx
		c10 := c010[n]*(1-fx) + c110[n]*fx
		c01 := c001[n]*(1-fx) + c101[n]*fx
		c11 := c011[n]*(1-fx) + c111[n]*fx

		c0 := c00*(1-fy) + c10*fy
		c1 := c01*(1-fy) + c11*fy

		out[n] = c0*(1-fz) + c1*fz
	}
	return out
}

// MabPipeline is a decoded mAB-type A2B0 tag, restricted to the stages this
// decoder applies (spec.md §4.6: only the A-curves, the CLUT, and the
// M-curves feed the returned linear value; the matrix and B-curves are
// parsed and retained for introspection but never applied, matching the
// "display-profile linear RGB" contract these tags provide here).
type MabPipeline struct {
	ACurves [3]*Curve
	CLUT    *CLUT3D
	MCurves [3]*Curve

	// Matrix and BCurves are retained but not applied by Apply.
	Matrix  [12]float64 // row-major 3x4: 3x3 linear part + translation column
	BCurves [3]*Curve
}

// Apply runs the A-curves, the 3D CLUT, and the M-curves in sequence.
// The matrix and B-curve stages are intentionally skipped.
func (p *MabPipeline) Apply(in [3]float64) [3]float64 {
	var afterA [3]float64
	for i := 0; i < 3; i++ {
		afterA[i] = p.ACurves[i].Evaluate(in[i])
	}

	afterCLUT := p.CLUT.Apply(afterA)

	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = p.MCurves[i].Evaluate(afterCLUT[i])
	}
	return out
}

// decodeMAB parses an mAB-type (lutAtoBType) tag payload into a
// MabPipeline. Layout (ICC.1, lutAtoBType with sub-signature "mAB "):
//
//	offset 0:  "mAB " signature
//	offset 4:  4 reserved bytes
//	offset 8:  input channel count (byte)
//	offset 9:  output channel count (byte)
//	offset 10: 2 padding bytes
//	offset 12: offset to first B-curve
//	offset 16: offset to matrix
//	offset 20: offset to first M-curve
//	offset 24: offset to CLUT
//	offset 28: offset to first A-curve
//
// Each curve offset, if non-zero, points at three consecutive curveType/
// parametricCurveType sub-tags, each padded to a 4-byte boundary. A zero
// offset for an A/M/B-curve group means "identity" for all three channels.
func decodeMAB(data []byte, context string, strict bool) (*MabPipeline, error) {
	if len(data) < 32 {
		return nil, errShortBuffer(context, len(data))
	}
	if string(data[0:4]) != "mAB " {
		return nil, errUnexpectedTagType(context, 0, "expected 'mAB ' sub-type signature")
	}
	inChans := int(data[8])
	outChans := int(data[9])
	if inChans != 3 || outChans != 3 {
		return nil, errChannelCountMismatch(context, inChans, 3)
	}

	offB := getUint32(data, 12)
	offMatrix := getUint32(data, 16)
	offM := getUint32(data, 20)
	offCLUT := getUint32(data, 24)
	offA := getUint32(data, 28)

	aCurves, err := decodeCurveTriple(data, offA, context+".A", strict)
	if err != nil {
		return nil, err
	}
	mCurves, err := decodeCurveTriple(data, offM, context+".M", strict)
	if err != nil {
		return nil, err
	}
	bCurves, err := decodeCurveTriple(data, offB, context+".B", strict)
	if err != nil {
		return nil, err
	}

	var matrix [12]float64
	matrix[0], matrix[5], matrix[10] = 1, 1, 1
	if offMatrix != 0 {
		base := int(offMatrix)
		if base+12*4 > len(data) {
			return nil, errShortBuffer(context+".matrix", base)
		}
		for i := 0; i < 12; i++ {
			v, err := s15Fixed16(data, base+i*4)
			if err != nil {
				return nil, err
			}
			matrix[i] = v
		}
	}

	clut, err := decodeCLUT3D(data, offCLUT, context+".CLUT")
	if err != nil {
		return nil, err
	}

	return &MabPipeline{
		ACurves: aCurves,
		CLUT:    clut,
		MCurves: mCurves,
		Matrix:  matrix,
		BCurves: bCurves,
	}, nil
}

// decodeCurveTriple decodes three consecutive curve sub-tags starting at
// offset within data. offset == 0 means "identity for all three channels"
// (the A/M-curve group is optional in the mAB layout).
func decodeCurveTriple(data []byte, offset uint32, context string, strict bool) ([3]*Curve, error) {
	var out [3]*Curve
	if offset == 0 {
		for i := range out {
			out[i] = &Curve{Kind: CurveGamma, Gamma: 1.0}
		}
		return out, nil
	}

	pos := int(offset)
	for i := 0; i < 3; i++ {
		if pos+12 > len(data) {
			return out, errShortBuffer(context, pos)
		}
		c, size, err := decodeCurveAt(data, pos, context, strict)
		if err != nil {
			return out, err
		}
		out[i] = c
		// curve sub-elements are padded to a 4-byte boundary.
		pos += (size + 3) &^ 3
	}
	return out, nil
}

// decodeCurveAt decodes one curve sub-element starting at pos, returning the
// curve and the number of bytes it occupies (needed since curveType entries
// are variable length and mAB does not separately record each one's size).
func decodeCurveAt(data []byte, pos int, context string, strict bool) (*Curve, int, error) {
	if pos+12 > len(data) {
		return nil, 0, errShortBuffer(context, pos)
	}
	switch string(data[pos : pos+4]) {
	case "curv":
		count := getUint32(data, pos+8)
		var size int
		switch {
		case count == 0:
			size = 12
		case count == 1:
			size = 14
		default:
			size = 12 + 2*int(count)
		}
		if pos+size > len(data) {
			return nil, 0, errShortBuffer(context, pos)
		}
		c, err := decodeCurv(data[pos:pos+size], context, strict)
		return c, size, err
	case "para":
		mode := int(getUint16(data, pos+8))
		k, ok := paraParamCount[mode]
		if !ok {
			return nil, 0, errUnsupportedCurveMode(context, mode)
		}
		size := 12 + 4*k
		if pos+size > len(data) {
			return nil, 0, errShortBuffer(context, pos)
		}
		c, err := decodePara(data[pos:pos+size], context)
		return c, size, err
	default:
		return nil, 0, errUnexpectedTagType(context, pos, "expected 'curv' or 'para' sub-type signature")
	}
}

// decodeCLUT3D parses the CLUT sub-element of an mAB tag:
//
//	offset 0:  grid point count per input dimension, one byte each,
//	           16 bytes total (only the first 3 are used here)
//	offset 16: precision, 1 (uint8) or 2 (uint16)
//	offset 17: 3 padding bytes
//	offset 20: grid point data, outChans values per point, in precision's
//	           width, first input channel slowest
func decodeCLUT3D(data []byte, offset uint32, context string) (*CLUT3D, error) {
	pos := int(offset)
	if pos+20 > len(data) {
		return nil, errShortBuffer(context, pos)
	}
	dims := [3]int{int(data[pos]), int(data[pos+1]), int(data[pos+2])}
	for _, d := range dims {
		if d < 2 {
			return nil, errUnsupportedProfile("CLUT grid dimension smaller than 2")
		}
	}
	precision := int(data[pos+16])
	n := dims[0] * dims[1] * dims[2]

	base := pos + 20
	table := make([][3]float64, n)
	switch precision {
	case 1:
		if base+n*3 > len(data) {
			return nil, errShortBuffer(context, base)
		}
		for i := 0; i < n; i++ {
			for c := 0; c < 3; c++ {
				table[i][c] = float64(data[base+i*3+c]) / 255.0
			}
		}
	case 2:
		if base+n*6 > len(data) {
			return nil, errShortBuffer(context, base)
		}
		for i := 0; i < n; i++ {
			for c := 0; c < 3; c++ {
				table[i][c] = float64(getUint16(data, base+i*6+c*2)) / 65535.0
			}
		}
	default:
		return nil, errUnsupportedProfile("unsupported CLUT precision")
	}

	return &CLUT3D{Dims: dims, Table: table}, nil
}
