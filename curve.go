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

// CurveKind identifies which of the four TRC representations a Curve holds.
type CurveKind int

const (
	// CurveGamma is a single-exponent curve: y = sign(x)*|x|^Gamma.
	CurveGamma CurveKind = iota
	// CurveSampledLUT is a curveType with two or more table entries.
	CurveSampledLUT
	// CurveParametric is a parametricCurveType (ICC function types 0-4),
	// evaluated in closed form.
	CurveParametric
	// CurveParaAsLUT is a CurveParametric curve rasterised into a LUT for
	// fast repeated evaluation. See Curve.Rasterize.
	CurveParaAsLUT
)

// defaultRasterPoints is the sample count used when rasterising a
// parametric curve into a LUT (spec default N = 8192).
const defaultRasterPoints = 8192

// Curve represents one ICC tone-reproduction curve (a curveType or
// parametricCurveType tag payload). The zero value is not meaningful; build
// one with decodeCurve or Rasterize.
//
// A Curve is immutable once constructed and safe for concurrent read-only
// use, including concurrent Evaluate calls from the channel-parallel pixel
// decoder.
type Curve struct {
	Kind CurveKind

	Gamma float64

	FuncType int
	Params   []float64 // length 1, 3, 4, 5, or 7, matching FuncType

	// Xs, Ys hold a sampled or rasterised LUT. Xs is strictly increasing,
	// Xs[0] == 0, Xs[len-1] == 1. Ys is normalised to [0, 1].
	Xs, Ys []float64
}

func decodeCurve(data []byte, context string, strict bool) (*Curve, error) {
	if len(data) < 4 {
		return nil, errShortBuffer(context, len(data))
	}
	switch string(data[0:4]) {
	case "curv":
		return decodeCurv(data, context, strict)
	case "para":
		return decodePara(data, context)
	default:
		return nil, errUnexpectedTagType(context, 0, "expected 'curv' or 'para' type signature")
	}
}

// decodeCurv parses a curveType payload: [sig][reserved 4][count u32][count
// x u16 entries]. count == 0 is the identity curve; count == 1 is a single
// u8.8 gamma; count >= 2 is a sampled LUT.
//
// Quirk (spec.md §9): entries are normalised by the table's own maximum
// value, not by 65535, matching the source this core was distilled from.
// When strict is true, entries are normalised by 65535 instead.
func decodeCurv(data []byte, context string, strict bool) (*Curve, error) {
	if len(data) < 12 {
		return nil, errShortBuffer(context, len(data))
	}
	count := getUint32(data, 8)

	if count == 0 {
		return &Curve{Kind: CurveGamma, Gamma: 1.0}, nil
	}
	if count == 1 {
		if len(data) < 14 {
			return nil, errShortBuffer(context, len(data))
		}
		g, err := u8Fixed8(data, 12)
		if err != nil {
			return nil, err
		}
		return &Curve{Kind: CurveGamma, Gamma: g}, nil
	}

	n := int(count)
	if len(data) < 12+2*n {
		return nil, errShortBuffer(context, len(data))
	}
	entries := make([]uint16, n)
	maxEntry := uint16(0)
	for i := range entries {
		entries[i] = getUint16(data, 12+i*2)
		if entries[i] > maxEntry {
			maxEntry = entries[i]
		}
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	denom := float64(maxEntry)
	if strict || maxEntry == 0 {
		denom = 65535.0
	}
	for i := range entries {
		xs[i] = float64(i) / float64(n-1)
		ys[i] = float64(entries[i]) / denom
	}

	return &Curve{Kind: CurveSampledLUT, Xs: xs, Ys: ys}, nil
}

var paraParamCount = map[int]int{0: 1, 1: 3, 2: 4, 3: 5, 4: 7}

// decodePara parses a parametricCurveType payload: [sig][reserved
// 4][mode u16][reserved 2][k x s15.16], k given by mode per spec.md §4.3.
func decodePara(data []byte, context string) (*Curve, error) {
	if len(data) < 12 {
		return nil, errShortBuffer(context, len(data))
	}
	mode := int(getUint16(data, 8))
	k, ok := paraParamCount[mode]
	if !ok {
		return nil, errUnsupportedCurveMode(context, mode)
	}
	if len(data) < 12+4*k {
		return nil, errShortBuffer(context, len(data))
	}
	params := make([]float64, k)
	for i := range params {
		v, err := s15Fixed16(data, 12+i*4)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}

	// mode 1/2 divide by the second parameter to find the threshold
	// (-b/a); a == 0 makes the curve undefined rather than silently
	// producing +/-Inf or NaN downstream. Modes 3/4 threshold on the d
	// parameter directly and never divide by a, so a == 0 is conforming
	// there.
	if (mode == 1 || mode == 2) && params[1] == 0 {
		return nil, errUnsupportedCurveMode(context, mode)
	}

	return &Curve{Kind: CurveParametric, FuncType: mode, Params: params}, nil
}

// IsIdentity reports whether the curve computes y = x exactly.
func (c *Curve) IsIdentity() bool {
	switch c.Kind {
	case CurveGamma:
		return c.Gamma == 1.0
	case CurveParametric:
		return c.FuncType == 0 && c.Params[0] == 1.0
	default:
		return false
	}
}

// Rasterize samples a CurveParametric curve into an N-point LUT
// (CurveParaAsLUT), trading a small amount of accuracy for fast repeated
// evaluation. Callers needing reference-accurate evaluation should not call
// Rasterize and should instead evaluate the CurveParametric curve directly
// (spec.md §4.3: this caching is the only source of precision loss in SDR
// decoding and is opt-in). Identity curves are returned unchanged: there is
// nothing to gain from rasterising y = x.
//
// Rasterize only applies to CurveParametric curves; any other kind is
// returned unchanged.
func (c *Curve) Rasterize(n int) *Curve {
	if c.Kind != CurveParametric || c.IsIdentity() {
		return c
	}
	if n <= 1 {
		n = defaultRasterPoints
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		xs[i] = x
		ys[i] = c.evaluateParametric(x)
	}
	return &Curve{Kind: CurveParaAsLUT, Xs: xs, Ys: ys}
}

// Evaluate computes y for input x. x may lie outside [0, 1]; HDR-encoded
// pixels legitimately do. LUT-backed curves (CurveSampledLUT,
// CurveParaAsLUT) linearly extrapolate from their two outermost samples on
// either side; CurveGamma and CurveParametric extrapolate naturally via
// their closed-form formulas.
func (c *Curve) Evaluate(x float64) float64 {
	switch c.Kind {
	case CurveGamma:
		return signPow(x, c.Gamma)
	case CurveParametric:
		return c.evaluateParametric(x)
	case CurveSampledLUT, CurveParaAsLUT:
		return evalLUT(c.Xs, c.Ys, x)
	default:
		return x
	}
}

// evaluateParametric computes the ICC parametric curve formula (modes
// 0-4). Parameter naming follows the source's positional convention:
// Params = [g, a, b, c, d, e, f] truncated to the mode's k; the mode 1/2
// threshold -b/a is computed from Params[2]/Params[1] (spec.md §9: this is
// not a naming mistake, it agrees with the ICC v4 definition of mode 1).
func (c *Curve) evaluateParametric(x float64) float64 {
	p := c.Params
	g := p[0]

	switch c.FuncType {
	case 0:
		return signPow(x, g)

	case 1:
		a, b := p[1], p[2]
		threshold := -b / a
		if x >= threshold {
			return signPow(a*x+b, g)
		}
		return 0

	case 2:
		a, b, cc := p[1], p[2], p[3]
		threshold := -b / a
		if x >= threshold {
			return signPow(a*x+b, g) + cc
		}
		return cc

	case 3:
		a, b, cc, d := p[1], p[2], p[3], p[4]
		if x >= d {
			return signPow(a*x+b, g)
		}
		return cc * x

	case 4:
		a, b, cc, d, e, f := p[1], p[2], p[3], p[4], p[5], p[6]
		if x >= d {
			return signPow(a*x+b, g) + e
		}
		return cc*x + f
	}

	return x
}

// signPow computes sign(x)*|x|^g. This is the sign-preserving gamma
// convention spec.md §4.6/§9 recommends (rather than plain x^g, which is
// NaN for x < 0 and non-integer g): HDR pixels can go slightly negative
// after upstream matrix operations, and the decoder must stay finite there.
func signPow(x, g float64) float64 {
	if x == 0 {
		if g == 0 {
			return 1
		}
		return 0
	}
	neg := x < 0
	ax := x
	if neg {
		ax = -x
	}
	y := math.Pow(ax, g)
	if neg {
		return -y
	}
	return y
}

// evalLUT performs linear interpolation over (xs, ys), with linear
// extrapolation from the two outermost samples when x falls outside
// [xs[0], xs[len-1]].
func evalLUT(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return x
	}
	if n == 1 {
		return ys[0]
	}

	if x < xs[0] {
		slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
		return ys[0] + slope*(x-xs[0])
	}
	if x > xs[n-1] {
		slope := (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
		return ys[n-1] + slope*(x-xs[n-1])
	}

	// binary search for the containing interval
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	span := xs[hi] - xs[lo]
	if span == 0 {
		return ys[lo]
	}
	frac := (x - xs[lo]) / span
	return ys[lo] + frac*(ys[hi]-ys[lo])
}
