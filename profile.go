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

// Package icc reads ICC v2/v4 display profiles and decodes their tone
// reproduction curves into linear RGB. It supports the two profile classes
// used by display profiles: Matrix/TRC profiles (rXYZ/gXYZ/bXYZ plus
// rTRC/gTRC/bTRC) and A2B0 profiles using the mAB sub-type (A-curves, a 3D
// lookup table, and M-curves; the trailing matrix and B-curve stages are
// parsed but not applied). Besides these it reads only the wtpt, chad, and
// description tags, and it supports no other profile class: lut8/lut16, mBA,
// named-colour, device-link, and CMYK/Lab
// profile connection spaces are all out of scope, and the package never
// writes a profile back out.
package icc

import "bytes"

// Class identifies which of the two supported profile shapes Open found.
type Class int

const (
	// ClassMatrixTRC is an rXYZ/gXYZ/bXYZ + rTRC/gTRC/bTRC profile.
	ClassMatrixTRC Class = iota
	// ClassMab is an A2B0 profile using the mAB lut sub-type.
	ClassMab
)

func (c Class) String() string {
	if c == ClassMab {
		return "Mab"
	}
	return "MatrixTRC"
}

// options holds the Open configuration built up by functional Options.
type options struct {
	strictCurveNorm bool
	rasterize       bool
	rasterPoints    int
}

func defaultOptions() *options {
	return &options{
		strictCurveNorm: false,
		rasterize:       true,
		rasterPoints:    defaultRasterPoints,
	}
}

// Option configures Open. Passing no options normalises sampled curv tables
// by their own maximum value and rasterises parametric curves into an
// 8192-point lookup table.
type Option func(*options)

// WithStrictCurveNormalization normalises sampled curveType (curv) tables
// by 65535 instead of the table's own maximum value. The default matches
// the decoder this package was distilled from, which normalises by the
// table's own maximum.
func WithStrictCurveNormalization() Option {
	return func(o *options) { o.strictCurveNorm = true }
}

// WithExactParametricEval disables rasterising parametricCurveType (para)
// curves into a lookup table, evaluating the closed-form formula on every
// call instead. Use this when reference accuracy matters more than
// throughput; the default rasterises at 8192 points.
func WithExactParametricEval() Option {
	return func(o *options) { o.rasterize = false }
}

// WithRasterPoints overrides the number of samples used when rasterising a
// parametricCurveType curve (default 8192). Values <= 1 are ignored.
func WithRasterPoints(n int) Option {
	return func(o *options) {
		if n > 1 {
			o.rasterPoints = n
		}
	}
}

// Profile is a parsed ICC display profile: either a Matrix/TRC profile or
// an mAB-based profile, never both. Check Class to see which branch is
// populated.
type Profile struct {
	class Class
	h     *header
	buf   []byte

	trc         *ChannelTrc
	mab         *MabPipeline
	colourspace *Colourspace
	name        string
	warnings    []string
}

// Open parses buf as an ICC profile and classifies it as Matrix/TRC or mAB.
// It returns an UnsupportedProfile error for any other profile shape
// (missing TRC/XYZ tags, an A2B0 tag that is not mAB-typed, lut8/lut16,
// mBA, and so on).
func Open(buf []byte, opts ...Option) (*Profile, error) {
	cfg := defaultOptions()
	for _, o := range opts {
		o(cfg)
	}

	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	p := &Profile{h: h, buf: buf}
	if !h.PCSIsD50 {
		p.warnings = append(p.warnings, "PCS illuminant is not the canonical D50 encoding; continuing with the header-encoded illuminant")
	}
	p.name = p.readName(buf)

	// Classification tries Matrix/TRC first, then mAB, matching spec
	// order: a profile carrying both a complete Matrix/TRC tag set and an
	// A2B0 tag is a Matrix/TRC profile.
	if hasMatrixTRCTags(h) {
		if err := p.openMatrixTRC(buf, h, cfg); err != nil {
			return nil, err
		}
	} else if _, ok := h.find("A2B0"); ok {
		if err := p.openMab(buf, h, cfg); err != nil {
			return nil, err
		}
	} else {
		return nil, errUnsupportedProfile("profile has neither an A2B0 tag nor a complete set of TRC/XYZ/wtpt tags")
	}

	return p, nil
}

func (p *Profile) openMab(buf []byte, h *header, cfg *options) error {
	data, err := h.payload(buf, "A2B0")
	if err != nil {
		return err
	}
	if len(data) >= 4 && string(data[0:4]) != "mAB " {
		return errUnsupportedProfile("A2B0 tag is not of the mAB type")
	}
	pipeline, err := decodeMAB(data, "A2B0", cfg.strictCurveNorm)
	if err != nil {
		return err
	}
	if cfg.rasterize {
		for i := range pipeline.ACurves {
			pipeline.ACurves[i] = pipeline.ACurves[i].Rasterize(cfg.rasterPoints)
		}
		for i := range pipeline.MCurves {
			pipeline.MCurves[i] = pipeline.MCurves[i].Rasterize(cfg.rasterPoints)
		}
	}
	p.class = ClassMab
	p.mab = pipeline
	return nil
}

// hasMatrixTRCTags reports whether h carries the complete tag set spec.md
// §4.4 step 2 requires for Matrix/TRC classification: rTRC/gTRC/bTRC,
// rXYZ/gXYZ/bXYZ, and wtpt.
func hasMatrixTRCTags(h *header) bool {
	for _, sig := range [...]string{"rTRC", "gTRC", "bTRC", "rXYZ", "gXYZ", "bXYZ", "wtpt"} {
		if _, ok := h.find(sig); !ok {
			return false
		}
	}
	return true
}

func (p *Profile) openMatrixTRC(buf []byte, h *header, cfg *options) error {
	const (
		sigR = "rTRC"
		sigG = "gTRC"
		sigB = "bTRC"
	)

	rData, err := h.payload(buf, sigR)
	if err != nil {
		return err
	}
	gData, err := h.payload(buf, sigG)
	if err != nil {
		return err
	}
	bData, err := h.payload(buf, sigB)
	if err != nil {
		return err
	}

	rCurve, err := decodeCurve(rData, sigR, cfg.strictCurveNorm)
	if err != nil {
		return err
	}
	gCurve, err := decodeCurve(gData, sigG, cfg.strictCurveNorm)
	if err != nil {
		return err
	}
	bCurve, err := decodeCurve(bData, sigB, cfg.strictCurveNorm)
	if err != nil {
		return err
	}

	uniform := p.sameTagOffsets(h, sigR, sigG, sigB) || p.sameTagPayloads(buf, h, sigR, sigG, sigB)

	if cfg.rasterize {
		rCurve = rCurve.Rasterize(cfg.rasterPoints)
		gCurve = gCurve.Rasterize(cfg.rasterPoints)
		bCurve = bCurve.Rasterize(cfg.rasterPoints)
	}

	p.class = ClassMatrixTRC
	p.trc = &ChannelTrc{R: rCurve, G: gCurve, B: bCurve, Uniform: uniform}

	cs, warnings := buildColourspace(h, buf, p.name)
	p.colourspace = cs
	p.warnings = append(p.warnings, warnings...)
	return nil
}

// sameTagOffsets reports whether the three tags share the same tag-table
// offset, the first of the two uniformity checks the source this package
// was distilled from performs (SPEC_FULL.md §10).
func (p *Profile) sameTagOffsets(h *header, a, b, c string) bool {
	ta, ok := h.find(a)
	if !ok {
		return false
	}
	tb, ok := h.find(b)
	if !ok {
		return false
	}
	tc, ok := h.find(c)
	if !ok {
		return false
	}
	return ta.Offset == tb.Offset && tb.Offset == tc.Offset
}

// sameTagPayloads reports whether the three tags' raw payload bytes are
// identical, even when their tag-table offsets differ -- the second,
// independent uniformity check alongside sameTagOffsets.
func (p *Profile) sameTagPayloads(buf []byte, h *header, a, b, c string) bool {
	pa, err := h.payload(buf, a)
	if err != nil {
		return false
	}
	pb, err := h.payload(buf, b)
	if err != nil {
		return false
	}
	pc, err := h.payload(buf, c)
	if err != nil {
		return false
	}
	return bytes.Equal(pa, pb) && bytes.Equal(pb, pc)
}

// readName extracts and cleans the profile description, trying "desc" then
// "dmdd" (device model description) then falling back to the empty string,
// never failing Open over a missing or malformed description.
func (p *Profile) readName(buf []byte) string {
	for _, sig := range [...]string{"desc", "dmdd"} {
		data, err := p.h.payload(buf, sig)
		if err != nil {
			continue
		}
		s, err := decodeDescription(data, sig)
		if err != nil {
			continue
		}
		if s = cleanProfileName(s); s != "" {
			return s
		}
	}
	return ""
}

// Class reports whether this is a Matrix/TRC or an mAB profile.
func (p *Profile) Class() Class { return p.class }

// Version reports the profile's ICC specification version as (major,
// minor, bugfix), e.g. (4, 3, 0) for ICC v4.3.0.
func (p *Profile) Version() (major, minor, bugfix int) {
	return p.h.VersionMajor, p.h.VersionMinor, p.h.VersionBugfix
}

// Name returns the profile's cleaned description string, or "" if none of
// the description tags were present or decodable.
func (p *Profile) Name() string { return p.name }

// IsPCSD50 reports whether the header's profile connection space
// illuminant is encoded as the canonical D50 XYZNumber.
func (p *Profile) IsPCSD50() bool { return p.h.PCSIsD50 }

// Warnings returns accumulated non-fatal issues found while parsing this
// profile (a non-D50 PCS illuminant, a Bradford adaptation fallback, and so
// on). It returns nil if there were none.
func (p *Profile) Warnings() []string { return p.warnings }

// TagSignatures returns every tag signature present in the profile's tag
// directory, in directory order (duplicates included, matching the
// directory's own declared scan order).
func (p *Profile) TagSignatures() []string { return p.h.signatures() }

// Description reads and returns the "desc" tag's text, independent of the
// cleaned Name(). It returns a TagNotFound error if the profile has no
// description tag.
func (p *Profile) Description() (string, error) {
	data, err := p.h.payload(p.buf, "desc")
	if err != nil {
		return "", err
	}
	return decodeDescription(data, "desc")
}

// Colourspace returns the profile's recovered linear-RGB colourspace
// descriptor. It is only populated for ClassMatrixTRC profiles; calling it
// on an mAB profile returns nil (an mAB pipeline has no single set of
// primaries to report -- its CLUT may be non-linear in ways a set of
// primaries cannot capture).
//
// nameOverride, if given, replaces the profile's own description (spec.md
// §4.7's "colourspace(name_override?)"); only the first value is used.
func (p *Profile) Colourspace(nameOverride ...string) *Colourspace {
	if p.colourspace == nil {
		return nil
	}
	if len(nameOverride) == 0 || nameOverride[0] == p.colourspace.Name {
		return p.colourspace
	}
	cs := *p.colourspace
	cs.Name = nameOverride[0]
	return &cs
}

// Decode applies this profile's tone-reproduction curves (ClassMatrixTRC)
// or A-curve/CLUT/M-curve pipeline (ClassMab) to a slice of RGB pixels,
// returning a new slice of the same length. Input and output components
// are not clamped to [0, 1]: HDR-encoded pixels may legitimately fall
// outside that range, and Decode preserves whatever the profile's curves
// and CLUT produce.
func (p *Profile) Decode(pixels [][3]float64) [][3]float64 {
	if p.class == ClassMab {
		return decodeMab(pixels, p.mab)
	}
	return decodeMatrixTRC(pixels, p.trc)
}
