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
	"strings"
	"unicode/utf16"
)

// decodeDescription reads a human-readable string out of a v2
// textDescriptionType ("desc"), a v4 multiLocalizedUnicodeType ("mluc"), or
// a plain textType ("text") tag payload, the signatures ICC profiles use for
// the profile description and device model name.
func decodeDescription(data []byte, context string) (string, error) {
	if len(data) < 4 {
		return "", errShortBuffer(context, len(data))
	}
	switch string(data[0:4]) {
	case "desc":
		return decodeTextDescription(data, context)
	case "mluc":
		return decodeMLUC(data, context)
	case "text":
		return decodeTextType(data, context)
	default:
		return "", errUnexpectedTagType(context, 0, "expected 'desc', 'mluc', or 'text' type signature")
	}
}

// decodeTextDescription parses a v2 textDescriptionType: [sig][reserved
// 4][ASCII count u32][ASCII bytes, NUL-terminated]. Only the ASCII portion
// is used; the Unicode and ScriptCode portions that may follow are not
// needed for a display name.
func decodeTextDescription(data []byte, context string) (string, error) {
	if len(data) < 12 {
		return "", errShortBuffer(context, len(data))
	}
	n := int(getUint32(data, 8))
	if n == 0 {
		return "", nil
	}
	if len(data) < 12+n {
		return "", errShortBuffer(context, len(data))
	}
	s := data[12 : 12+n]
	// the count includes the NUL terminator.
	if len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return string(s), nil
}

// decodeTextType parses a plain textType: [sig][reserved 4][ASCII, NUL
// terminated, running to the end of the payload].
func decodeTextType(data []byte, context string) (string, error) {
	if len(data) < 8 {
		return "", errShortBuffer(context, len(data))
	}
	s := data[8:]
	if i := strings.IndexByte(string(s), 0); i >= 0 {
		s = s[:i]
	}
	return string(s), nil
}

// decodeMLUC parses a v4 multiLocalizedUnicodeType tag and returns the
// first record's string, UTF-16BE decoded. Layout: [sig][reserved
// 4][record count u32][record size u32][records...]; each record is
// [language u16][country u16][length u32][offset u32], offset relative to
// the start of the tag.
func decodeMLUC(data []byte, context string) (string, error) {
	if len(data) < 16 {
		return "", errShortBuffer(context, len(data))
	}
	count := getUint32(data, 8)
	if count == 0 {
		return "", nil
	}
	recordSize := getUint32(data, 12)
	if recordSize < 12 {
		return "", errUnexpectedTagType(context, 12, "multiLocalizedUnicodeType record size too small")
	}
	recordStart := 16
	if len(data) < recordStart+int(recordSize) {
		return "", errShortBuffer(context, recordStart)
	}
	length := getUint32(data, recordStart+4)
	offset := getUint32(data, recordStart+8)

	start := int(offset)
	end := start + int(length)
	if start < 0 || end > len(data) {
		return "", errShortBuffer(context, start)
	}
	raw := data[start:end]

	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = getUint16(raw, i*2)
	}
	return string(utf16.Decode(units)), nil
}

// cleanProfileName strips a trailing ".icc"/".icm" suffix and surrounding
// whitespace from a profile description, matching the convention the
// decoder this core was distilled from uses for display names.
func cleanProfileName(s string) string {
	s = strings.TrimSuffix(s, ".icc")
	s = strings.TrimSuffix(s, ".icm")
	return strings.TrimSpace(s)
}
