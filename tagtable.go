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

import "bytes"

// Header byte offsets, as specified by the ICC profile format (ICC.1).
const (
	offVersion       = 8
	offColorSpace    = 16
	offPCS           = 20
	offMagic         = 36
	offPCSIlluminant = 68
	offTagCount      = 128
	tagTableStart    = 132
	minProfileLength = tagTableStart // header + empty tag table
)

// TagEntry is one row of the ICC tag directory: a four-byte signature and
// the offset/length of its payload within the profile buffer.
type TagEntry struct {
	Sig    [4]byte
	Offset uint32
	Length uint32
}

func (e TagEntry) sig() string { return string(e.Sig[:]) }

// d50Bytes12 is the canonical D50 XYZNumber encoding used for the PCS
// illuminant field, and its one-LSB-off variant seen in some real profiles.
var (
	d50Bytes12    = []byte{0x00, 0x00, 0xF6, 0xD6, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xD3, 0x2D}
	d50Bytes12Alt = []byte{0x00, 0x00, 0xF6, 0xD6, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xD3, 0x2C}
)

// header holds the subset of the 128-byte ICC header this package cares
// about, plus the parsed tag directory.
type header struct {
	VersionMajor int
	VersionMinor int
	VersionBugfix int
	ColorSpace   string
	PCS          string
	PCSIlluminant XYZ
	PCSIsD50     bool
	Tags         []TagEntry
}

// parseHeader validates and reads the ICC header and tag directory from
// buf. It does not interpret any tag payloads.
func parseHeader(buf []byte) (*header, error) {
	if len(buf) < minProfileLength {
		return nil, errInvalidHeader(0, "profile is shorter than the minimum header and tag table")
	}
	if string(buf[offMagic:offMagic+4]) != "acsp" {
		return nil, errInvalidHeader(offMagic, "missing 'acsp' signature")
	}
	pcs := string(buf[offPCS : offPCS+4])
	if pcs != "XYZ " {
		return nil, errInvalidHeader(offPCS, "PCS is not 'XYZ '")
	}

	h := &header{
		VersionMajor:  int(buf[offVersion]),
		VersionMinor:  int(buf[offVersion+1] >> 4),
		VersionBugfix: int(buf[offVersion+1] & 0x0F),
		ColorSpace:    string(buf[offColorSpace : offColorSpace+4]),
		PCS:           pcs,
	}

	illum, err := readXYZNumber(buf, offPCSIlluminant)
	if err != nil {
		return nil, errInvalidHeader(offPCSIlluminant, "truncated PCS illuminant")
	}
	h.PCSIlluminant = illum
	raw := buf[offPCSIlluminant : offPCSIlluminant+12]
	h.PCSIsD50 = bytes.Equal(raw, d50Bytes12) || bytes.Equal(raw, d50Bytes12Alt)

	if len(buf) < offTagCount+4 {
		return nil, errShortBuffer("tag-count", offTagCount)
	}
	count := getUint32(buf, offTagCount)

	maxCount := uint32((len(buf) - tagTableStart) / 12)
	if count > maxCount {
		return nil, errShortBuffer("tag-table", tagTableStart)
	}

	tags := make([]TagEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		rowOffset := tagTableStart + int(i)*12
		var sig [4]byte
		copy(sig[:], buf[rowOffset:rowOffset+4])
		tagOffset := getUint32(buf, rowOffset+4)
		tagLength := getUint32(buf, rowOffset+8)

		start := int64(tagOffset)
		end := start + int64(tagLength)
		if start < 0 || end > int64(len(buf)) {
			return nil, errShortBuffer(string(sig[:]), rowOffset)
		}
		tags = append(tags, TagEntry{Sig: sig, Offset: tagOffset, Length: tagLength})
	}
	h.Tags = tags

	return h, nil
}

// find returns the first tag directory entry matching sig (4 bytes).
// Duplicate signatures: the first occurrence wins, matching the tag
// directory's declared scan order. The directory region itself is the only
// thing searched -- never the whole buffer, so a tag payload that happens
// to contain bytes spelling another tag's signature cannot produce a false
// match.
func (h *header) find(sig string) (TagEntry, bool) {
	for _, t := range h.Tags {
		if t.sig() == sig {
			return t, true
		}
	}
	return TagEntry{}, false
}

func (h *header) payload(buf []byte, sig string) ([]byte, error) {
	t, ok := h.find(sig)
	if !ok {
		return nil, errTagNotFound(sig)
	}
	return buf[t.Offset : t.Offset+t.Length], nil
}

// signatures returns every tag signature present in the directory, in
// directory order (duplicates included), for introspection.
func (h *header) signatures() []string {
	out := make([]string, len(h.Tags))
	for i, t := range h.Tags {
		out[i] = t.sig()
	}
	return out
}
