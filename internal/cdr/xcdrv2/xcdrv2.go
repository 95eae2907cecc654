// Package xcdrv2 implements the XCDR v2 dialect: D-headers in front of
// appendable and mutable aggregates, EM-headers framing individual mutable
// members, a single presence byte in front of optional members of a
// non-mutable aggregate, and bit_bound-driven enum widths outside of keys.
// Maximum alignment drops to 4, unlike basic CDR and XCDR v1's 8.
package xcdrv2

import (
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// MaxAlignment is the dialect's alignment cap.
const MaxAlignment uint8 = 4

// WriteDHeader writes the 4-byte content-length placeholder that precedes
// every appendable or mutable aggregate's members, and returns a patch
// function the caller invokes with the aggregate's encoded byte length once
// every member has been written. The length counts only the bytes after the
// header itself.
func WriteDHeader(s *stream.Stream) (patchLength func(contentLen uint32)) {
	if s.Aborted() {
		return func(uint32) {}
	}
	s.Align(4, true)
	pos := s.Position()
	basic.WriteUint32(s, 0)
	return func(contentLen uint32) {
		patchUint32At(s, pos, contentLen)
	}
}

// ReadDHeader reads a D-header and returns the content length in bytes; the
// caller uses it to skip unknown trailing members of an appendable
// aggregate read by an older reader (forward-compatible bounded-subrange
// skip).
func ReadDHeader(s *stream.Stream) (uint32, bool) {
	s.Align(4, false)
	return basic.ReadUint32(s)
}

// SkipToContentEnd discards whatever remains of an appendable aggregate's
// content beyond what this reader's type understands, so that a reader
// built from an older type description can still consume samples written by
// a newer one with extra trailing members.
func SkipToContentEnd(s *stream.Stream, contentStart uint64, contentLen uint32) {
	end := contentStart + uint64(contentLen)
	if s.Position() >= end {
		return
	}
	s.ReadRaw(end - s.Position())
}

// LengthCode is the 3-bit field in an EM-header selecting how the member's
// length is encoded.
type LengthCode uint8

const (
	LC1Byte    LengthCode = 0 // length is implicitly 1 byte
	LC2Byte    LengthCode = 1 // length is implicitly 2 bytes
	LC4Byte    LengthCode = 2 // length is implicitly 4 bytes
	LC8Byte    LengthCode = 3 // length is implicitly 8 bytes
	LCNextInt1 LengthCode = 4 // a following uint32 (NEXTINT) gives the length directly, in bytes
	LCNextInt4 LengthCode = 5 // NEXTINT gives the length in 4-byte words
	LCNextInt8 LengthCode = 6 // NEXTINT gives the length in 8-byte words
)

const (
	emMustUnderstand uint32 = 1 << 31
	emLengthCodeMask uint32 = 0x7
	emLengthCodeShift       = 28
	emMemberIDMask   uint32 = 0x0FFFFFFF
)

// lengthCodeFor picks the narrowest EM-header length code that can express
// payloadLen, given the fixed width (if any) implied by the member's own
// primitive size; constructed-type members always use a NEXTINT form since
// their size is not tied to those four fixed widths.
func lengthCodeFor(payloadLen uint32, fixedWidth uint8) LengthCode {
	switch fixedWidth {
	case 1:
		return LC1Byte
	case 2:
		return LC2Byte
	case 4:
		return LC4Byte
	case 8:
		return LC8Byte
	}
	switch {
	case payloadLen%8 == 0:
		return LCNextInt8
	case payloadLen%4 == 0:
		return LCNextInt4
	default:
		return LCNextInt1
	}
}

// WriteMemberHeader writes an EM-header for a mutable struct's member.
// fixedWidth is the member's primitive width in {1,2,4,8} when known ahead
// of time (scalars), or 0 for constructed members whose length is only
// known after encoding. It returns a patch function the caller invokes
// with the payload's byte length once written; for the four fixed-width
// codes the patch is a no-op since the length was implicit in the code
// itself.
func WriteMemberHeader(s *stream.Stream, memberID uint32, mustUnderstand bool, fixedWidth uint8) (patchLength func(payloadLen uint32)) {
	if s.Aborted() {
		return func(uint32) {}
	}
	s.Align(4, true)
	headerPos := s.Position()

	lc := lengthCodeFor(0, fixedWidth)
	header := (memberID & emMemberIDMask) | (uint32(lc) << emLengthCodeShift)
	if mustUnderstand {
		header |= emMustUnderstand
	}
	basic.WriteUint32(s, header)

	if lc < LCNextInt1 {
		return func(uint32) {}
	}

	nextIntPos := s.Position()
	basic.WriteUint32(s, 0)
	return func(payloadLen uint32) {
		actualLC := lengthCodeFor(payloadLen, fixedWidth)
		if actualLC != lc {
			rewriteHeader(s, headerPos, memberID, mustUnderstand, actualLC)
		}
		switch actualLC {
		case LCNextInt4:
			patchUint32At(s, nextIntPos, payloadLen/4)
		case LCNextInt8:
			patchUint32At(s, nextIntPos, payloadLen/8)
		default:
			patchUint32At(s, nextIntPos, payloadLen)
		}
	}
}

func rewriteHeader(s *stream.Stream, pos uint64, memberID uint32, mustUnderstand bool, lc LengthCode) {
	header := (memberID & emMemberIDMask) | (uint32(lc) << emLengthCodeShift)
	if mustUnderstand {
		header |= emMustUnderstand
	}
	patchUint32At(s, pos, header)
}

// MemberHeader is a parsed EM-header.
type MemberHeader struct {
	MemberID       uint32
	MustUnderstand bool
	Length         uint32
}

// ReadMemberHeader reads one EM-header, resolving the length regardless of
// which length code was used.
func ReadMemberHeader(s *stream.Stream) (MemberHeader, bool) {
	s.Align(4, false)
	word, ok := basic.ReadUint32(s)
	if !ok {
		return MemberHeader{}, false
	}
	lc := LengthCode((word >> emLengthCodeShift) & emLengthCodeMask)
	h := MemberHeader{
		MemberID:       word & emMemberIDMask,
		MustUnderstand: word&emMustUnderstand != 0,
	}
	switch lc {
	case LC1Byte:
		h.Length = 1
		return h, true
	case LC2Byte:
		h.Length = 2
		return h, true
	case LC4Byte:
		h.Length = 4
		return h, true
	case LC8Byte:
		h.Length = 8
		return h, true
	}
	nextInt, ok := basic.ReadUint32(s)
	if !ok {
		return MemberHeader{}, false
	}
	switch lc {
	case LCNextInt1:
		h.Length = nextInt
	case LCNextInt4:
		h.Length = nextInt * 4
	case LCNextInt8:
		h.Length = nextInt * 8
	default:
		s.Raise(stream.IllegalFieldValue)
		return MemberHeader{}, false
	}
	return h, true
}

// SkipMember discards a member this reader's type does not recognize.
func SkipMember(s *stream.Stream, h MemberHeader) {
	s.ReadRaw(uint64(h.Length))
}

// WritePresence writes the single boolean tag that precedes an optional
// member of a final or appendable (non-mutable) aggregate.
func WritePresence(s *stream.Stream, present bool) { basic.WriteBool(s, present) }

// ReadPresence reads that presence tag.
func ReadPresence(s *stream.Stream) (bool, bool) { return basic.ReadBool(s) }

// WriteEnum writes an enum using its declared bit_bound (8, 16, or 32 bits)
// when it is not part of a key; inside a key, callers must instead use
// basic.WriteEnum, which is always 32-bit regardless of dialect.
func WriteEnum(s *stream.Stream, bound descriptor.BitBound, v uint32) {
	switch bound {
	case descriptor.BitBound8:
		basic.WriteUint8(s, uint8(v))
	case descriptor.BitBound16:
		basic.WriteUint16(s, uint16(v))
	default:
		basic.WriteUint32(s, v)
	}
}

// ReadEnum reads an enum encoded with WriteEnum's width rule.
func ReadEnum(s *stream.Stream, bound descriptor.BitBound) (uint32, bool) {
	switch bound {
	case descriptor.BitBound8:
		v, ok := basic.ReadUint8(s)
		return uint32(v), ok
	case descriptor.BitBound16:
		v, ok := basic.ReadUint16(s)
		return uint32(v), ok
	default:
		return basic.ReadUint32(s)
	}
}

func patchUint32At(s *stream.Stream, pos uint64, v uint32) {
	b := s.Bytes()
	if pos+4 > uint64(len(b)) {
		return
	}
	stream.NativeOrder.PutUint32(b[pos:], v)
	if s.SwapNeeded() {
		b[pos], b[pos+3] = b[pos+3], b[pos]
		b[pos+1], b[pos+2] = b[pos+2], b[pos+1]
	}
}
