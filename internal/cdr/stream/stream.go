// Package stream implements the cursor that every CDR dialect serializes
// through: position tracking, stream-relative alignment, endianness
// negotiation, and the fault-status bitmask. It has no notion of member
// ids, extensibility, or headers — those live one layer up in the basic,
// xcdrv1, and xcdrv2 packages.
package stream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/marmos91/cdrcodec/internal/xdrutil"
)

// Endianness identifies the byte order of a CDR stream or the host.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// order returns the encoding/binary.ByteOrder that packs a scalar the same
// way this endianness does.
func (e Endianness) order() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// HostEndianness is the endianness of the process currently executing.
var HostEndianness = func() Endianness {
	if binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// Status is a bitmask of faults observed on a stream. Multiple faults can
// be set simultaneously; whether any given bit aborts the stream is decided
// by the stream's fault mask, not by the bit itself.
type Status uint64

const (
	// MoveBoundExceeded marks a size computation encountering an unbounded
	// accumulation past the representable maximum.
	MoveBoundExceeded Status = 1 << iota
	// WriteBoundExceeded marks an attempt to write a string/sequence longer
	// than its declared bound.
	WriteBoundExceeded
	// ReadBoundExceeded marks a decoded length that would overrun the
	// declared bound for a bounded field.
	ReadBoundExceeded
	// IllegalFieldValue marks a structural impossibility, such as a string
	// length of zero (the terminating null is always present).
	IllegalFieldValue
)

// AllFaults is the default fault mask: every fault kind aborts the stream.
const AllFaults = MoveBoundExceeded | WriteBoundExceeded | ReadBoundExceeded | IllegalFieldValue

func (k Status) String() string {
	switch k {
	case MoveBoundExceeded:
		return "MoveBoundExceeded"
	case WriteBoundExceeded:
		return "WriteBoundExceeded"
	case ReadBoundExceeded:
		return "ReadBoundExceeded"
	case IllegalFieldValue:
		return "IllegalFieldValue"
	default:
		return fmt.Sprintf("Status(0x%x)", uint64(k))
	}
}

// Mode is implicit in which Stream constructor was used and which methods
// are called on it; it is tracked only so the Mode accessor can
// give a clear answer without the caller threading a flag through.
type Mode uint8

const (
	ModeWrite Mode = iota
	ModeRead
	ModeSize
)

// Unbounded is the position sentinel meaning an unbounded maximum has been
// reached; once set, every further move is a no-op.
const Unbounded = math.MaxUint64

// Stream is a mutable cursor over a byte buffer. It does not own the
// buffer: SetBuffer attaches one, and the caller is responsible for its
// lifetime. A Stream is not safe for concurrent use by multiple goroutines;
// each sample is encoded or decoded strictly sequentially on one goroutine.
type Stream struct {
	buf              []byte
	position         uint64
	currentAlignment uint8
	maxAlignment     uint8
	streamEndian     Endianness
	mode             Mode
	status           Status
	faultMask        Status
}

// NewWriteStream creates a stream in write mode with a growable buffer.
// maxAlignment is the dialect cap (8 for basic CDR / XCDR v1, 4 for XCDR
// v2). faultMask selects which Status bits abort the stream; pass
// AllFaults unless the caller intends to tolerate specific faults.
func NewWriteStream(endian Endianness, maxAlignment uint8, faultMask Status) *Stream {
	return &Stream{
		buf:              make([]byte, 0, 64),
		currentAlignment: 1,
		maxAlignment:     maxAlignment,
		streamEndian:     endian,
		mode:             ModeWrite,
		faultMask:        faultMask,
	}
}

// NewReadStream creates a stream in read mode over buf.
func NewReadStream(buf []byte, endian Endianness, maxAlignment uint8, faultMask Status) *Stream {
	return &Stream{
		buf:              buf,
		currentAlignment: 1,
		maxAlignment:     maxAlignment,
		streamEndian:     endian,
		mode:             ModeRead,
		faultMask:        faultMask,
	}
}

// NewSizeStream creates a stream in size mode: buffer is always nil and
// position counts the bytes that would be written, without ever touching
// memory. Used to implement serialized_size and max_serialized_size.
func NewSizeStream(endian Endianness, maxAlignment uint8, faultMask Status) *Stream {
	return &Stream{
		currentAlignment: 1,
		maxAlignment:     maxAlignment,
		streamEndian:     endian,
		mode:             ModeSize,
		faultMask:        faultMask,
	}
}

// Mode reports which of write, read, or size mode this stream is in.
func (s *Stream) Mode() Mode { return s.mode }

// Position returns the cursor offset from the start of the payload (i.e.
// the encapsulation header is not counted; byte 4 of the wire sample is
// offset 0 here).
func (s *Stream) Position() uint64 { return s.position }

// Alignment returns the alignment the cursor is currently known to satisfy.
func (s *Stream) Alignment() uint8 { return s.currentAlignment }

// MaxAlignment returns the dialect's alignment cap.
func (s *Stream) MaxAlignment() uint8 { return s.maxAlignment }

// StreamEndianness returns the endianness the serialized form uses.
func (s *Stream) StreamEndianness() Endianness { return s.streamEndian }

// SwapNeeded reports whether scalar primitives must byte-swap to match the
// stream's endianness.
func (s *Stream) SwapNeeded() bool { return s.streamEndian != HostEndianness }

// Status returns the current fault bitmask.
func (s *Stream) Status() Status { return s.status }

// Raise ORs kind into the fault status and returns whether the stream is
// now aborted. Every primitive must check Aborted() before doing work, and
// primitives that can fail call Raise and bail out immediately afterward.
func (s *Stream) Raise(kind Status) bool {
	s.status |= kind
	return s.Aborted()
}

// Aborted reports whether (status & faultMask) != 0. Once true, every
// primitive on this stream is a no-op.
func (s *Stream) Aborted() bool { return s.status&s.faultMask != 0 }

// SetBuffer resets position and current alignment to their initial values
// and attaches a new buffer (read mode) or replaces the growable buffer
// (write mode, discarding anything written so far).
func (s *Stream) SetBuffer(buf []byte) {
	s.buf = buf
	s.position = 0
	s.currentAlignment = 1
}

// Reset rewinds position and current alignment to zero/one without
// touching the attached buffer, so the same stream and buffer can be
// used again from the start.
func (s *Stream) Reset() {
	s.position = 0
	s.currentAlignment = 1
}

// Bytes returns the bytes written so far in write mode. It is meaningless
// in read or size mode.
func (s *Stream) Bytes() []byte {
	if s.position == Unbounded {
		return s.buf
	}
	return s.buf[:s.position]
}

// Incr advances position by n, unless position is already the Unbounded
// sentinel, in which case it is left unchanged (I2: once unbounded, all
// further movement is a no-op).
func (s *Stream) Incr(n uint64) {
	if s.position == Unbounded {
		return
	}
	if n >= Unbounded-s.position {
		s.position = Unbounded
		return
	}
	s.position += n
}

// Align advances position to the next multiple of min(to, maxAlignment).
// In write mode, the skipped bytes are zeroed when zeroPad is true. In size
// mode no buffer access occurs. If the cursor already satisfies the target
// alignment, Align returns immediately (I2 holds trivially).
func (s *Stream) Align(to uint8, zeroPad bool) {
	if s.Aborted() || s.position == Unbounded {
		return
	}
	if to > s.maxAlignment {
		to = s.maxAlignment
	}
	if to <= 1 {
		return
	}
	if s.currentAlignment >= to && uint64(s.currentAlignment)%uint64(to) == 0 {
		return
	}
	// Unsigned modular arithmetic: position is always non-negative here, so
	// (to - position % to) % to never underflows the way a naive signed
	// `(to - position & (to-1)) & (to-1)` would for a to that isn't a power
	// of two.
	rem := s.position % uint64(to)
	if rem == 0 {
		s.currentAlignment = to
		return
	}
	pad := uint64(to) - rem

	switch s.mode {
	case ModeWrite:
		s.growTo(s.position + pad)
		for i := uint64(0); zeroPad && i < pad; i++ {
			s.buf[s.position+i] = 0
		}
		s.position += pad
	case ModeRead:
		s.position += pad
	case ModeSize:
		s.Incr(pad)
	}
	s.currentAlignment = to
}

// growTo ensures the write-mode buffer has at least n bytes, extending its
// length (and zeroing the extension) if needed.
func (s *Stream) growTo(n uint64) {
	if uint64(len(s.buf)) >= n {
		return
	}
	if uint64(cap(s.buf)) >= n {
		s.buf = s.buf[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, s.buf)
	s.buf = grown
}

// WriteRaw appends p at the cursor in write mode, advances position, and
// resets current alignment to 1 (the rule that follows every
// string/sequence payload: subsequent scalars realign from scratch). It is
// a no-op in size mode beyond the position increment, and should never be
// called in read mode.
func (s *Stream) WriteRaw(p []byte) {
	if s.Aborted() {
		return
	}
	switch s.mode {
	case ModeWrite:
		s.growTo(s.position + uint64(len(p)))
		copy(s.buf[s.position:], p)
		s.Incr(uint64(len(p)))
	case ModeSize:
		s.Incr(uint64(len(p)))
	}
	s.currentAlignment = 1
}

// ReadRaw consumes n bytes at the cursor in read mode and resets current
// alignment to 1 (the string/sequence-payload rule). Returns a fault if
// fewer than n bytes remain.
func (s *Stream) ReadRaw(n uint64) ([]byte, bool) {
	out, ok := s.readRawKeepAlignment(n)
	if ok {
		s.currentAlignment = 1
	}
	return out, ok
}

// readRawKeepAlignment consumes n bytes without touching currentAlignment;
// used by GetScalar, where Align already established the correct alignment
// for the bytes about to be consumed; GetScalar then narrows it to the
// scalar's width (a k-aligned position plus k bytes is still k-aligned, but
// not necessarily aligned to anything wider).
func (s *Stream) readRawKeepAlignment(n uint64) ([]byte, bool) {
	if s.Aborted() {
		return nil, false
	}
	if s.position+n > uint64(len(s.buf)) {
		return nil, false
	}
	out := s.buf[s.position : s.position+n]
	s.Incr(n)
	return out, true
}

// PutScalar writes the width-byte native representation of src into the
// stream at the cursor (write mode) or just advances the cursor (size
// mode), byte-swapping when the stream's endianness differs from the
// host's. src must already be in the host's native byte order.
func (s *Stream) PutScalar(src []byte) {
	if s.Aborted() {
		return
	}
	width := uint8(len(src))
	s.Align(width, true)
	if s.Aborted() {
		return
	}
	tmp := make([]byte, width)
	if err := xdrutil.TransferAndSwap(tmp, src, s.SwapNeeded()); err != nil {
		s.Raise(IllegalFieldValue)
		return
	}
	switch s.mode {
	case ModeWrite:
		s.growTo(s.position + uint64(width))
		copy(s.buf[s.position:], tmp)
		s.Incr(uint64(width))
	case ModeSize:
		s.Incr(uint64(width))
	}
	if width < s.currentAlignment {
		s.currentAlignment = width
	}
}

// GetScalar reads width bytes at the cursor (read mode), byte-swapping into
// dst when the stream's endianness differs from the host's, so that dst
// ends up in host-native order ready for reinterpretation.
func (s *Stream) GetScalar(dst []byte) bool {
	if s.Aborted() {
		return false
	}
	width := uint8(len(dst))
	s.Align(width, false)
	if s.Aborted() {
		return false
	}
	raw, ok := s.readRawKeepAlignment(uint64(width))
	if !ok {
		s.Raise(ReadBoundExceeded)
		return false
	}
	if width < s.currentAlignment {
		s.currentAlignment = width
	}
	if err := xdrutil.TransferAndSwap(dst, raw, s.SwapNeeded()); err != nil {
		s.Raise(IllegalFieldValue)
		return false
	}
	return true
}

// NativeOrder is the encoding/binary.ByteOrder matching the host's actual
// byte order; scalar encode/decode helpers in the dialect packages use it
// to go from a Go value to/from the native byte representation that
// PutScalar/GetScalar then conditionally swap.
var NativeOrder = HostEndianness.order()
