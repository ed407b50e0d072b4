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

import "fmt"

// Kind identifies the category of a [ParseError], so callers can branch on
// the failure mode without a type switch over every concrete error type.
type Kind int

// Error kinds returned while parsing or classifying an ICC profile.
const (
	InvalidHeader Kind = iota
	TagNotFound
	UnexpectedTagType
	ShortBuffer
	UnsupportedProfile
	UnsupportedCurveMode
	ChannelCountMismatch
)

func (k Kind) String() string {
	switch k {
	case InvalidHeader:
		return "InvalidHeader"
	case TagNotFound:
		return "TagNotFound"
	case UnexpectedTagType:
		return "UnexpectedTagType"
	case ShortBuffer:
		return "ShortBuffer"
	case UnsupportedProfile:
		return "UnsupportedProfile"
	case UnsupportedCurveMode:
		return "UnsupportedCurveMode"
	case ChannelCountMismatch:
		return "ChannelCountMismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseError is returned by [Open] and the tag/curve decoders below it.
// Context is the failing tag signature when the error concerns a specific
// tag (e.g. "rTRC"); otherwise it names the header field or reader that
// failed (e.g. "tag-table"), or is empty.
type ParseError struct {
	Kind    Kind
	Context string
	Offset  int
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("icc: %s (tag %q, offset %d): %s", e.Kind, e.Context, e.Offset, e.Reason)
	}
	return fmt.Sprintf("icc: %s (offset %d): %s", e.Kind, e.Offset, e.Reason)
}

// Is lets errors.Is(err, icc.ErrTagNotFound) style sentinels compare by kind
// without requiring an exact offset/context match.
func (e *ParseError) Is(target error) bool {
	other, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func errInvalidHeader(offset int, reason string) error {
	return &ParseError{Kind: InvalidHeader, Offset: offset, Reason: reason}
}

func errTagNotFound(context string) error {
	return &ParseError{Kind: TagNotFound, Context: context, Reason: "required tag is absent"}
}

func errUnexpectedTagType(context string, offset int, reason string) error {
	return &ParseError{Kind: UnexpectedTagType, Context: context, Offset: offset, Reason: reason}
}

func errShortBuffer(context string, offset int) error {
	return &ParseError{Kind: ShortBuffer, Context: context, Offset: offset, Reason: "read would pass the end of the buffer"}
}

func errUnsupportedProfile(reason string) error {
	return &ParseError{Kind: UnsupportedProfile, Reason: reason}
}

func errUnsupportedCurveMode(context string, mode int) error {
	return &ParseError{Kind: UnsupportedCurveMode, Context: context, Reason: fmt.Sprintf("parametric curve mode %d is not supported", mode)}
}

func errChannelCountMismatch(context string, got, want int) error {
	return &ParseError{Kind: ChannelCountMismatch, Context: context, Reason: fmt.Sprintf("channel count %d, want %d", got, want)}
}

// Sentinel values usable with errors.Is for callers that only care about the
// error kind, e.g. errors.Is(err, ErrTagNotFound).
var (
	ErrInvalidHeader        = &ParseError{Kind: InvalidHeader}
	ErrTagNotFound          = &ParseError{Kind: TagNotFound}
	ErrUnexpectedTagType    = &ParseError{Kind: UnexpectedTagType}
	ErrShortBuffer          = &ParseError{Kind: ShortBuffer}
	ErrUnsupportedProfile   = &ParseError{Kind: UnsupportedProfile}
	ErrUnsupportedCurveMode = &ParseError{Kind: UnsupportedCurveMode}
	ErrChannelCountMismatch = &ParseError{Kind: ChannelCountMismatch}
)
