// Package xcdrv1 implements the XCDR v1 dialect: basic CDR plus
// parameter-list (PID) framing for fields that are optional or that live
// inside a mutable-extensibility entity. Maximum alignment remains 8, as in
// basic CDR.
package xcdrv1

import (
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// MaxAlignment is the dialect's alignment cap.
const MaxAlignment uint8 = 8

// Parameter-id layout: bits 0..13 member id, bit 14 implementation-specific
// extension flag, bit 15 must-understand flag. id values above maxShortID
// (still within pidMask) are reserved for the sentinels below instead of
// real member ids.
const (
	pidMask              uint16 = 0x3FFF
	pidFlagImplExtension uint16 = 0x4000
	pidFlagMustUnderstand uint16 = 0x8000

	// maxShortID is the highest member id the short PID form can carry
	// (16128); ids above it, or payloads longer than 65535 bytes, require
	// the extended form.
	maxShortID uint32 = 16128

	pidExtended uint16 = 0x3F01 // sentinel: an extended 32-bit id/length follows
	pidListEnd  uint16 = 0x3F02 // sentinel: terminates a parameter list
	pidIgnore   uint16 = 0x3F03 // sentinel: skip this entry
)

// UnknownLength is passed as WriteFieldHeader's worstCaseLen when a field's
// payload has no usable upper bound (an unbounded string or sequence, for
// instance): it unconditionally forces the extended PID form, since the
// short form's 4-byte header cannot be widened to 12 bytes once bytes after
// it have already been written.
const UnknownLength uint32 = 1<<32 - 1

const (
	extFlagImplExtension uint32 = 1 << 30
	extFlagMustUnderstand uint32 = 1 << 31
	extIDMask             uint32 = 0x3FFFFFFF
)

// useExtended reports whether a field with the given member id and payload
// length must use the extended PID form.
func useExtended(memberID uint32, length uint32) bool {
	return memberID > maxShortID || length > 0xFFFF
}

// WriteFieldHeader writes a PID header for a field about to be written and
// returns a patch function the caller must invoke with the payload's actual
// byte length once it has been written, so the header's length slot can be
// backfilled. This is the "emit header with placeholder, remember offset,
// write payload, go back and patch length" pattern used throughout this
// package.
//
// worstCaseLen is the caller's upper bound on the payload's byte length,
// known before any of the payload is written (the field's declared bound,
// or UnknownLength if it has none); WriteFieldHeader uses it, together with
// memberID, to decide short vs. extended form up front. Unlike an EM-header,
// a PID header cannot be widened from 4 to 12 bytes after the fact once
// later bytes have already been written, so this decision cannot be
// deferred to patch time the way the length itself can.
//
// mustUnderstand should be true for fields whose descriptor marks them
// must_understand and whose enclosing entity is mutable; for purely
// optional fields outside a mutable entity it should be false (only
// presence is at stake, not the whole-sample-rejection contract).
func WriteFieldHeader(s *stream.Stream, memberID uint32, mustUnderstand bool, worstCaseLen uint32) (patchLength func(payloadLen uint32)) {
	if s.Aborted() {
		return func(uint32) {}
	}

	// Header alignment: the short form is two uint16s (4-byte aligned
	// start), the extended form is two uint32s (4-byte aligned start);
	// either way the stream must be 4-byte aligned before the header.
	s.Align(4, true)
	if s.Aborted() {
		return func(uint32) {}
	}

	if useExtended(memberID, worstCaseLen) {
		return writeExtendedHeader(s, memberID, mustUnderstand)
	}

	lengthPos := s.Position() + 2
	flags := uint16(0)
	if mustUnderstand {
		flags |= pidFlagMustUnderstand
	}
	basic.WriteUint16(s, uint16(memberID)|flags)
	basic.WriteUint16(s, 0) // length placeholder

	return func(payloadLen uint32) {
		if payloadLen > 0xFFFF {
			// worstCaseLen under-predicted the payload: the short form was
			// already committed to the wire and cannot be widened, so the
			// sample is unrepresentable as framed. This is a caller bug
			// (worstCaseLen should have forced the extended form), not a
			// transient wire condition, but it must not pass silently.
			s.Raise(stream.IllegalFieldValue)
			return
		}
		patchUint16At(s, lengthPos, uint16(payloadLen))
	}
}

func writeExtendedHeader(s *stream.Stream, memberID uint32, mustUnderstand bool) func(uint32) {
	basic.WriteUint16(s, pidExtended)
	basic.WriteUint16(s, 8) // extended header body is two uint32s = 8 bytes
	idFlags := memberID & extIDMask
	if mustUnderstand {
		idFlags |= extFlagMustUnderstand
	}
	basic.WriteUint32(s, idFlags)
	lengthPos := s.Position()
	basic.WriteUint32(s, 0) // length placeholder
	return func(payloadLen uint32) {
		patchUint32At(s, lengthPos, payloadLen)
	}
}

// WriteListEnd terminates a mutable struct's parameter list.
func WriteListEnd(s *stream.Stream) {
	if s.Aborted() {
		return
	}
	s.Align(4, true)
	basic.WriteUint16(s, pidListEnd)
	basic.WriteUint16(s, 0)
}

// FieldHeader is a parsed PID header: the member id, flags, and the
// payload's byte length, ready for the reader to act on.
type FieldHeader struct {
	MemberID       uint32
	MustUnderstand bool
	ImplExtension  bool
	Length         uint32
	IsListEnd      bool
	IsIgnore       bool
}

// ReadFieldHeader reads one PID header. Callers must check IsListEnd before
// treating MemberID/Length as meaningful.
func ReadFieldHeader(s *stream.Stream) (FieldHeader, bool) {
	if s.Aborted() {
		return FieldHeader{}, false
	}
	s.Align(4, false)
	idWord, ok := basic.ReadUint16(s)
	if !ok {
		return FieldHeader{}, false
	}
	shortID := idWord & pidMask
	switch shortID {
	case pidListEnd:
		basic.ReadUint16(s) // discard length, always 0
		return FieldHeader{IsListEnd: true}, true
	case pidIgnore:
		length, ok := basic.ReadUint16(s)
		if !ok {
			return FieldHeader{}, false
		}
		return FieldHeader{IsIgnore: true, Length: uint32(length)}, true
	case pidExtended:
		return readExtendedHeader(s)
	default:
		length, ok := basic.ReadUint16(s)
		if !ok {
			return FieldHeader{}, false
		}
		return FieldHeader{
			MemberID:       uint32(shortID),
			MustUnderstand: idWord&pidFlagMustUnderstand != 0,
			ImplExtension:  idWord&pidFlagImplExtension != 0,
			Length:         uint32(length),
		}, true
	}
}

func readExtendedHeader(s *stream.Stream) (FieldHeader, bool) {
	headerLen, ok := basic.ReadUint16(s)
	if !ok || headerLen != 8 {
		s.Raise(stream.IllegalFieldValue)
		return FieldHeader{}, false
	}
	idFlags, ok := basic.ReadUint32(s)
	if !ok {
		return FieldHeader{}, false
	}
	length, ok := basic.ReadUint32(s)
	if !ok {
		return FieldHeader{}, false
	}
	return FieldHeader{
		MemberID:       idFlags & extIDMask,
		MustUnderstand: idFlags&extFlagMustUnderstand != 0,
		ImplExtension:  idFlags&extFlagImplExtension != 0,
		Length:         length,
	}, true
}

// SkipField discards a recognized-but-ignorable field's payload.
func SkipField(s *stream.Stream, h FieldHeader) {
	if s.Aborted() {
		return
	}
	s.ReadRaw(uint64(h.Length))
}

func patchUint16At(s *stream.Stream, pos uint64, v uint16) {
	b := s.Bytes()
	if pos+2 > uint64(len(b)) {
		return
	}
	stream.NativeOrder.PutUint16(b[pos:], v)
	if s.SwapNeeded() {
		b[pos], b[pos+1] = b[pos+1], b[pos]
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
