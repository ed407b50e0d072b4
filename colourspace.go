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

import "gonum.org/v1/gonum/mat"

// D50XY is the CIE xy chromaticity of the ICC profile connection space's
// D50 illuminant. This is the same constant the source this decoder was
// distilled from hard-codes, kept here as a reference value for callers and
// tests that want to cross-check a profile's header-encoded illuminant
// without recomputing it.
var D50XY = [2]float64{0.34570292, 0.35853753}

// bradfordM and bradfordMInv are the Bradford cone-response matrix and its
// inverse, used for chromatic adaptation between whitepoints.
var (
	bradfordM = Matrix3{
		0.8951, 0.2664, -0.1614,
		-0.7502, 1.7135, 0.0367,
		0.0389, -0.0685, 1.0296,
	}
	bradfordMInv = Matrix3{
		0.9869929, -0.1470543, 0.1599627,
		0.4323053, 0.5183603, 0.0492912,
		-0.0085287, 0.0400428, 0.9684867,
	}
)

// Colourspace is the linear-RGB colourspace descriptor recovered from a
// Matrix/TRC profile's rXYZ/gXYZ/bXYZ tags and (optionally) its chad/wtpt
// tags.
type Colourspace struct {
	Name         string
	PrimariesXY  [3][2]float64 // R, G, B
	WhitepointXY [2]float64
}

// xyzToXY converts an XYZ tristimulus value to CIE xy chromaticity
// coordinates. The zero value (X=Y=Z=0) maps to (0, 0).
func xyzToXY(v XYZ) [2]float64 {
	sum := v.X + v.Y + v.Z
	if sum == 0 {
		return [2]float64{0, 0}
	}
	return [2]float64{v.X / sum, v.Y / sum}
}

// matrix3ToDense converts a row-major Matrix3 into a gonum 3x3 Dense matrix.
func matrix3ToDense(m Matrix3) *mat.Dense {
	return mat.NewDense(3, 3, m[:])
}

// denseToMatrix3 converts a 3x3 gonum Dense matrix back into a Matrix3. It
// reads only the top-left 3x3 block and panics if d is smaller than that (a
// programmer error, not a parse failure: every caller below constructs d
// itself).
func denseToMatrix3(d *mat.Dense) Matrix3 {
	var m Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i*3+j] = d.At(i, j)
		}
	}
	return m
}

// invertMatrix3 inverts a row-major 3x3 matrix via gonum, returning
// errUnsupportedProfile if m is singular (or near enough that the inverse
// is not numerically meaningful).
func invertMatrix3(m Matrix3) (Matrix3, error) {
	src := matrix3ToDense(m)
	var dst mat.Dense
	if err := dst.Inverse(src); err != nil {
		return Matrix3{}, errUnsupportedProfile("chad matrix is singular")
	}
	return denseToMatrix3(&dst), nil
}

// mulMatrix3Vec applies a row-major 3x3 matrix to an XYZ column vector.
func mulMatrix3Vec(m Matrix3, v XYZ) XYZ {
	return XYZ{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// bradfordAdapt chromatically adapts src (an XYZ value referenced to
// srcWhite) to the equivalent value referenced to dstWhite, via the
// Bradford cone-response transform:
//
//	M_adapt = M_Bradford^-1 * diag(dstCone / srcCone) * M_Bradford
//
// composed here with gonum (spec.md §4.5/§9; grounded on the original
// source's numpy matrix-chain implementation of the same transform).
func bradfordAdapt(src, srcWhite, dstWhite XYZ) (XYZ, error) {
	srcCone := mulMatrix3Vec(bradfordM, srcWhite)
	dstCone := mulMatrix3Vec(bradfordM, dstWhite)
	if srcCone.X == 0 || srcCone.Y == 0 || srcCone.Z == 0 {
		return XYZ{}, errUnsupportedProfile("degenerate source whitepoint in Bradford adaptation")
	}

	diag := mat.NewDense(3, 3, []float64{
		dstCone.X / srcCone.X, 0, 0,
		0, dstCone.Y / srcCone.Y, 0,
		0, 0, dstCone.Z / srcCone.Z,
	})

	mB := matrix3ToDense(bradfordM)
	mBInv := matrix3ToDense(bradfordMInv)

	var tmp, adapt mat.Dense
	tmp.Mul(diag, mB)
	adapt.Mul(mBInv, &tmp)

	adaptM := denseToMatrix3(&adapt)
	return mulMatrix3Vec(adaptM, src), nil
}

// recoverNativeWhitepoint computes the profile's own whitepoint in XYZ.
// When a chad tag is present and not the identity matrix, it inverts that
// matrix and applies it to the header's PCS illuminant (spec.md §4.5:
// "recover the native whitepoint via the inverse chad matrix"). An identity
// chad carries no adaptation information, so it falls through to wtpt, the
// same as if chad were absent entirely. When neither is usable, it falls
// back to the PCS illuminant itself (no adaptation needed) and reports a
// warning.
func recoverNativeWhitepoint(h *header, buf []byte) (XYZ, bool, string) {
	if chadData, err := h.payload(buf, "chad"); err == nil {
		if m, err := readSF32Matrix3(chadData, "chad"); err == nil && !m.IsIdentity() {
			if inv, err := invertMatrix3(m); err == nil {
				return mulMatrix3Vec(inv, h.PCSIlluminant), true, ""
			}
		}
	}
	if wtptData, err := h.payload(buf, "wtpt"); err == nil {
		if xyz, err := readXYZType(wtptData, "wtpt"); err == nil {
			return xyz, true, ""
		}
	}
	return h.PCSIlluminant, false, "no usable chad or wtpt tag; using the PCS illuminant unadapted"
}

// buildColourspace reads the rXYZ/gXYZ/bXYZ tags and produces a Colourspace,
// chromatically adapting the D50-PCS-relative primaries to the profile's
// recovered native whitepoint. A singular or identity chad is skipped in
// favour of wtpt. When neither chad nor wtpt is usable, or the Bradford
// adaptation fails (a PCS illuminant with a zero cone response), it returns
// the un-adapted D50 primaries with a warning appended to warnings, rather
// than failing the whole parse. It returns nil when rXYZ/gXYZ/bXYZ are
// missing or malformed.
func buildColourspace(h *header, buf []byte, name string) (*Colourspace, []string) {
	var warnings []string

	rXYZData, err := h.payload(buf, "rXYZ")
	if err != nil {
		return nil, warnings
	}
	gXYZData, err := h.payload(buf, "gXYZ")
	if err != nil {
		return nil, warnings
	}
	bXYZData, err := h.payload(buf, "bXYZ")
	if err != nil {
		return nil, warnings
	}

	rXYZ, err := readXYZType(rXYZData, "rXYZ")
	if err != nil {
		return nil, warnings
	}
	gXYZ, err := readXYZType(gXYZData, "gXYZ")
	if err != nil {
		return nil, warnings
	}
	bXYZ, err := readXYZType(bXYZData, "bXYZ")
	if err != nil {
		return nil, warnings
	}

	nativeWhite, ok, warn := recoverNativeWhitepoint(h, buf)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	cs := &Colourspace{Name: name}

	if !ok {
		cs.PrimariesXY = [3][2]float64{xyzToXY(rXYZ), xyzToXY(gXYZ), xyzToXY(bXYZ)}
		cs.WhitepointXY = xyzToXY(h.PCSIlluminant)
		return cs, warnings
	}

	d50 := h.PCSIlluminant
	adaptedR, errR := bradfordAdapt(rXYZ, d50, nativeWhite)
	adaptedG, errG := bradfordAdapt(gXYZ, d50, nativeWhite)
	adaptedB, errB := bradfordAdapt(bXYZ, d50, nativeWhite)

	if errR != nil || errG != nil || errB != nil {
		warnings = append(warnings, "Bradford adaptation failed; using un-adapted D50-referenced primaries")
		cs.PrimariesXY = [3][2]float64{xyzToXY(rXYZ), xyzToXY(gXYZ), xyzToXY(bXYZ)}
		cs.WhitepointXY = xyzToXY(d50)
		return cs, warnings
	}

	cs.PrimariesXY = [3][2]float64{xyzToXY(adaptedR), xyzToXY(adaptedG), xyzToXY(adaptedB)}
	cs.WhitepointXY = xyzToXY(nativeWhite)
	return cs, warnings
}
