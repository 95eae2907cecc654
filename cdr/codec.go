package cdr

import (
	"sync/atomic"

	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/logger"
)

// Streamable is implemented by generated per-type code (or, in this
// library's tests, by hand-written stand-ins for it). Each method walks the
// type's members in descriptor order, branching internally on dialect for
// the framing differences described in the surrounding dialect packages;
// the scalar encode/decode calls themselves are dialect-agnostic (they all
// bottom out in internal/cdr/basic).
type Streamable interface {
	// Descriptor returns the type's static metadata.
	Descriptor() *descriptor.Descriptor
	// WriteCDR writes the type's members onto s using the framing rules of
	// dialect.
	WriteCDR(s *stream.Stream, dialect Dialect)
	// ReadCDR reads the type's members from s using the framing rules of
	// dialect, populating the receiver in place.
	ReadCDR(s *stream.Stream, dialect Dialect)
}

// KeyStreamable is implemented by types that have at least one @key member.
// WriteSortedKey writes exactly those members, in member-id order, using
// basic-dialect big-endian encoding regardless of the sample's negotiated
// dialect — the "sorted-key mode" the surrounding sample package's key hash
// is built on. Types with no @key members (keyless types) do not implement
// this interface, which the sample package takes as the signal that no key
// hash can be computed for them.
type KeyStreamable interface {
	Streamable
	WriteSortedKey(s *stream.Stream)
}

// MaxSizeable is an optional extension a type implements when it can report
// a worst-case encoded size without walking actual field values (every
// bounded string/sequence contributes its bound, not its current length).
// Types that do not implement it fall back to SerializedSize in
// MaxSerializedSize, which only bounds the *current* value, not the
// declared worst case — callers that need a true upper bound (to
// pre-allocate a loan, for instance) should implement MaxSizeable.
type MaxSizeable interface {
	MaxCDRSize(dialect Dialect) uint64
}

// KeyMode classifies how a type's key participates in the instance key
// hash: a type with no @key members, one whose key members are already in
// member-id order on the wire (unsorted-key is cheaper to stream but not
// comparable across endiannesses), or one whose key is serialized in sorted
// member-id order specifically so the resulting bytes are
// comparable/hashable regardless of field declaration order.
type KeyMode uint8

const (
	KeyModeNone KeyMode = iota
	KeyModeUnsorted
	KeyModeSorted
)

// WriteSample encodes v's header and payload into a new byte slice. endian
// selects the wire endianness; requested is tried in order against the
// encodings v's extensibility can structurally support (AllowedEncodings),
// via SelectEncoding. A nil requested uses DefaultRequested.
func WriteSample(v Streamable, endian stream.Endianness, requested []Encoding) ([]byte, stream.Status) {
	if requested == nil {
		requested = DefaultRequested
	}
	desc := v.Descriptor()
	enc, err := SelectEncoding(AllowedEncodings(desc.Extensibility), requested)
	if err != nil {
		logger.Debug("no common encoding", logger.TypeName(desc.TypeName), logger.Err(err))
		return nil, stream.IllegalFieldValue
	}
	dialect := enc.dialect()
	repID := representationFor(enc, desc.Extensibility, endian)

	s := stream.NewWriteStream(endian, dialect.MaxAlignment(), stream.AllFaults)
	v.WriteCDR(s, dialect)

	payload, pad := PadPayload(s.Bytes())
	out := WriteHeader(make([]byte, 0, HeaderSize+len(payload)), Header{Representation: repID, Options: uint16(pad)})
	out = append(out, payload...)
	if status := s.Status(); status != 0 {
		logger.Debug("write sample faulted", logger.TypeName(desc.TypeName), logger.Dialect(dialect.String()), logger.StatusBits(uint64(status)))
	}
	return out, s.Status()
}

// ReadSample decodes buf's header, resolves the dialect it implies, checks
// that dialect's extensibility against v's own descriptor, and reads v's
// members from the remaining bytes.
func ReadSample(buf []byte, v Streamable) stream.Status {
	h, err := ReadHeader(buf)
	if err != nil {
		return stream.IllegalFieldValue
	}
	dialect, endian, headerExt, err := ResolveHeader(h)
	if err != nil {
		return stream.IllegalFieldValue
	}
	desc := v.Descriptor()
	if headerExt != desc.Extensibility {
		logger.Debug("extensibility mismatch", logger.TypeName(desc.TypeName), logger.Dialect(dialect.String()))
		return stream.IllegalFieldValue
	}

	s := stream.NewReadStream(buf[HeaderSize:], endian, dialect.MaxAlignment(), stream.AllFaults)
	v.ReadCDR(s, dialect)
	if status := s.Status(); status != 0 {
		logger.Debug("read sample faulted", logger.TypeName(desc.TypeName), logger.Dialect(dialect.String()), logger.StatusBits(uint64(status)))
	}
	return s.Status()
}

// SerializedSize computes the exact payload length (header excluded) for
// v's current field values under dialect/endian, by driving a size-mode
// stream through the same WriteCDR path used to actually encode.
func SerializedSize(v Streamable, dialect Dialect, endian stream.Endianness) uint64 {
	s := stream.NewSizeStream(endian, dialect.MaxAlignment(), stream.AllFaults)
	v.WriteCDR(s, dialect)
	return s.Position()
}

// MaxSerializedSize returns a worst-case payload length: v's own
// MaxCDRSize when it implements MaxSizeable, otherwise the exact size of
// the current value (a safe bound only if no bounded field is below its
// declared maximum).
func MaxSerializedSize(v Streamable, dialect Dialect, endian stream.Endianness) uint64 {
	if m, ok := v.(MaxSizeable); ok {
		return m.MaxCDRSize(dialect)
	}
	return SerializedSize(v, dialect, endian)
}

// SizeCache memoizes a self-contained type's serialized size: the first
// caller computes and installs it, every later caller reads the cached
// value. Installation is double-checked — if two goroutines race to
// compute the size of an immutable value, they necessarily compute the same
// answer, so the second writer's CompareAndSwap failing is not an error,
// just confirmation the cache already holds the right value.
type SizeCache struct {
	value atomic.Int64
}

// NewSizeCache returns a cache with nothing computed yet.
func NewSizeCache() *SizeCache {
	c := &SizeCache{}
	c.value.Store(-1)
	return c
}

// Get returns the cached size, computing it via compute on first use.
func (c *SizeCache) Get(compute func() uint64) uint64 {
	if v := c.value.Load(); v >= 0 {
		return uint64(v)
	}
	computed := int64(compute())
	c.value.CompareAndSwap(-1, computed)
	return uint64(c.value.Load())
}

// Invalidate clears the cache, forcing the next Get to recompute.
func (c *SizeCache) Invalidate() {
	c.value.Store(-1)
}
