// Package basic implements the basic CDR dialect: primitive read, write,
// and size ("move") operations assuming a maximum 8-byte alignment and no
// per-field framing. XCDR v1 and XCDR v2 both build their scalar handling
// on top of this package and add their own framing around it.
//
// There is no separate "move" entry point per type: calling a Write
// function on a stream.Stream created with stream.NewSizeStream computes
// the byte count without touching memory, since Align/PutScalar already
// branch on stream mode. There is no "max" primitive here either: the cdr
// package's MaxSerializedSize takes the worst-case size from the type's own
// MaxCDRSize method when it implements cdr.MaxSizeable, and otherwise
// reports the serialized size of the value it is given.
package basic

import (
	"math"

	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// WriteInt8 writes a single-byte signed integer. Single-byte values are
// never swapped.
func WriteInt8(s *stream.Stream, v int8) { s.PutScalar([]byte{byte(v)}) }

// ReadInt8 reads a single-byte signed integer.
func ReadInt8(s *stream.Stream) (int8, bool) {
	b := make([]byte, 1)
	if !s.GetScalar(b) {
		return 0, false
	}
	return int8(b[0]), true
}

// WriteUint8 writes a single-byte unsigned integer.
func WriteUint8(s *stream.Stream, v uint8) { s.PutScalar([]byte{v}) }

// ReadUint8 reads a single-byte unsigned integer.
func ReadUint8(s *stream.Stream) (uint8, bool) {
	b := make([]byte, 1)
	if !s.GetScalar(b) {
		return 0, false
	}
	return b[0], true
}

// WriteBool writes an OMG-CDR boolean: a single octet, 0 or 1.
func WriteBool(s *stream.Stream, v bool) {
	var b byte
	if v {
		b = 1
	}
	s.PutScalar([]byte{b})
}

// ReadBool reads an OMG-CDR boolean.
func ReadBool(s *stream.Stream) (bool, bool) {
	b := make([]byte, 1)
	if !s.GetScalar(b) {
		return false, false
	}
	return b[0] != 0, true
}

// WriteChar writes a single-byte character.
func WriteChar(s *stream.Stream, v byte) { s.PutScalar([]byte{v}) }

// ReadChar reads a single-byte character.
func ReadChar(s *stream.Stream) (byte, bool) {
	b := make([]byte, 1)
	if !s.GetScalar(b) {
		return 0, false
	}
	return b[0], true
}

// WriteInt16 writes a 2-byte signed integer, 2-byte aligned.
func WriteInt16(s *stream.Stream, v int16) { WriteUint16(s, uint16(v)) }

// ReadInt16 reads a 2-byte signed integer.
func ReadInt16(s *stream.Stream) (int16, bool) {
	v, ok := ReadUint16(s)
	return int16(v), ok
}

// WriteUint16 writes a 2-byte unsigned integer, 2-byte aligned.
func WriteUint16(s *stream.Stream, v uint16) {
	b := make([]byte, 2)
	stream.NativeOrder.PutUint16(b, v)
	s.PutScalar(b)
}

// ReadUint16 reads a 2-byte unsigned integer.
func ReadUint16(s *stream.Stream) (uint16, bool) {
	b := make([]byte, 2)
	if !s.GetScalar(b) {
		return 0, false
	}
	return stream.NativeOrder.Uint16(b), true
}

// WriteInt32 writes a 4-byte signed integer, 4-byte aligned.
func WriteInt32(s *stream.Stream, v int32) { WriteUint32(s, uint32(v)) }

// ReadInt32 reads a 4-byte signed integer.
func ReadInt32(s *stream.Stream) (int32, bool) {
	v, ok := ReadUint32(s)
	return int32(v), ok
}

// WriteUint32 writes a 4-byte unsigned integer, 4-byte aligned.
func WriteUint32(s *stream.Stream, v uint32) {
	b := make([]byte, 4)
	stream.NativeOrder.PutUint32(b, v)
	s.PutScalar(b)
}

// ReadUint32 reads a 4-byte unsigned integer.
func ReadUint32(s *stream.Stream) (uint32, bool) {
	b := make([]byte, 4)
	if !s.GetScalar(b) {
		return 0, false
	}
	return stream.NativeOrder.Uint32(b), true
}

// WriteInt64 writes an 8-byte signed integer, aligned to min(8, max
// alignment) — 8 in basic CDR / XCDR v1, 4 in XCDR v2.
func WriteInt64(s *stream.Stream, v int64) { WriteUint64(s, uint64(v)) }

// ReadInt64 reads an 8-byte signed integer.
func ReadInt64(s *stream.Stream) (int64, bool) {
	v, ok := ReadUint64(s)
	return int64(v), ok
}

// WriteUint64 writes an 8-byte unsigned integer.
func WriteUint64(s *stream.Stream, v uint64) {
	b := make([]byte, 8)
	stream.NativeOrder.PutUint64(b, v)
	s.PutScalar(b)
}

// ReadUint64 reads an 8-byte unsigned integer.
func ReadUint64(s *stream.Stream) (uint64, bool) {
	b := make([]byte, 8)
	if !s.GetScalar(b) {
		return 0, false
	}
	return stream.NativeOrder.Uint64(b), true
}

// WriteFloat32 writes a 4-byte IEEE-754 float, 4-byte aligned.
func WriteFloat32(s *stream.Stream, v float32) { WriteUint32(s, math.Float32bits(v)) }

// ReadFloat32 reads a 4-byte IEEE-754 float.
func ReadFloat32(s *stream.Stream) (float32, bool) {
	bits, ok := ReadUint32(s)
	return math.Float32frombits(bits), ok
}

// WriteFloat64 writes an 8-byte IEEE-754 float.
func WriteFloat64(s *stream.Stream, v float64) { WriteUint64(s, math.Float64bits(v)) }

// ReadFloat64 reads an 8-byte IEEE-754 float.
func ReadFloat64(s *stream.Stream) (float64, bool) {
	bits, ok := ReadUint64(s)
	return math.Float64frombits(bits), ok
}

// WriteEnum writes an enum value. In basic CDR (and XCDR v1) enums are
// always encoded as a 4-byte integer regardless of their declared
// bit_bound; XCDR v2 narrows this outside of keys (see the xcdrv2
// package).
func WriteEnum(s *stream.Stream, v uint32) { WriteUint32(s, v) }

// ReadEnum reads a basic-CDR/XCDR-v1 enum value.
func ReadEnum(s *stream.Stream) (uint32, bool) { return ReadUint32(s) }
