// Package sample implements the type-erased sample adapter: a container
// that holds a sample's wire bytes, lazily decodes them to a typed value
// (installing exactly one decoded value under concurrency), computes and caches the 16-byte instance
// key hash, and interoperates with an externally managed zero-copy loan.
//
// The surrounding transport (out of scope here) dispatches through a
// per-type VTable rather than through concrete type switches or
// inheritance: a struct of function pointers, composition of closures
// rather than a base class.
package sample

import (
	"sync/atomic"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// VTable is the per-type record the generic Adapter operations (the From*
// constructors and the Adapter methods) run against, built once per type
// and shared by every Adapter of that type. NewZero is required: a VTable
// without it panics on the first decode. Print is the only field with a
// fallback when left nil.
type VTable struct {
	// TypeName identifies the type in logs and in cdrdump's output.
	TypeName string

	// Extensibility is the type's wire extensibility, recorded for callers.
	// FromSample and ToWire do not read it: cdr.WriteSample picks the
	// dialect from the value's own Descriptor.
	Extensibility descriptor.Extensibility

	// Endian is the wire endianness new samples of this type are written
	// with; HostEndianness is the sensible default.
	Endian stream.Endianness

	// Requested overrides cdr.DefaultRequested for this type's encoding
	// negotiation; nil uses the default.
	Requested []cdr.Encoding

	// NewZero allocates a fresh zero-value instance for decoding into.
	NewZero func() cdr.Streamable

	// Print renders a typed value for diagnostics; nil falls back to
	// fmt's default formatting of the concrete value.
	Print func(v cdr.Streamable) string

	// keyHashModeKnown/keyHashIsMD5 cache, once per type, whether this
	// type's sorted-key serialization exceeds 16 bytes: one atomic.Bool pair
	// shared by every Adapter of the type, fixed by whichever goroutine
	// computes the first key hash.
	keyHashModeKnown atomic.Bool
	keyHashIsMD5     atomic.Bool
}

// HasKey reports whether a value of this VTable's type can produce a sorted
// key serialization, i.e. whether it implements cdr.KeyStreamable. It is
// checked dynamically against a representative instance rather than
// declared statically on VTable, so a hand-built VTable does not need to
// duplicate what the type itself already knows.
func (vt *VTable) HasKey(v cdr.Streamable) bool {
	_, ok := v.(cdr.KeyStreamable)
	return ok
}

// zero returns a fresh decode target, or panics if the VTable was built
// without NewZero — a programming error in the caller wiring the VTable,
// not a runtime fault.
func (vt *VTable) zero() cdr.Streamable {
	if vt.NewZero == nil {
		panic("sample: VTable." + vt.TypeName + " has no NewZero constructor")
	}
	return vt.NewZero()
}
