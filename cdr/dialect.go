package cdr

import (
	"errors"

	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// Dialect identifies which of the three wire encodings a sample uses.
type Dialect uint8

const (
	DialectBasic Dialect = iota
	DialectXCDRv1
	DialectXCDRv2
)

func (d Dialect) String() string {
	switch d {
	case DialectBasic:
		return "CDR"
	case DialectXCDRv1:
		return "XCDR1"
	case DialectXCDRv2:
		return "XCDR2"
	default:
		return "unknown"
	}
}

// MaxAlignment returns the dialect's alignment cap: 8 for basic CDR and
// XCDR v1, 4 for XCDR v2.
func (d Dialect) MaxAlignment() uint8 {
	if d == DialectXCDRv2 {
		return 4
	}
	return 8
}

// EncodingVersion mirrors the `encoding-version` concept: 1 for basic
// CDR/XCDR v1 (they share the wire-level primitive encoding), 2 for XCDR v2.
func (d Dialect) EncodingVersion() int {
	if d == DialectXCDRv2 {
		return 2
	}
	return 1
}

// Encoding is the abstract encoding family a dialect belongs to, independent
// of endianness or representation id — the unit allowed/requested encoding
// negotiation operates on.
type Encoding uint8

const (
	EncodingPlainCDR Encoding = iota
	EncodingXCDR1
	EncodingXCDR2
)

func (e Encoding) dialect() Dialect {
	switch e {
	case EncodingXCDR1:
		return DialectXCDRv1
	case EncodingXCDR2:
		return DialectXCDRv2
	default:
		return DialectBasic
	}
}

// ErrNoCommonEncoding is returned by SelectEncoding when requested and
// allowed share no encoding.
var ErrNoCommonEncoding = errors.New("cdr: no encoding in common between allowed and requested")

// AllowedEncodings returns the encodings structurally capable of carrying a
// type with the given extensibility: final types can use plain CDR or XCDR
// v2; appendable and mutable types need framing neither basic CDR nor (for
// appendable) XCDR v1 provide, so they are restricted to XCDR v2, except
// mutable which XCDR v1's PL_CDR also supports.
func AllowedEncodings(ext descriptor.Extensibility) []Encoding {
	switch ext {
	case descriptor.Final:
		return []Encoding{EncodingPlainCDR, EncodingXCDR2}
	case descriptor.Mutable:
		return []Encoding{EncodingXCDR1, EncodingXCDR2}
	default: // Appendable
		return []Encoding{EncodingXCDR2}
	}
}

// SelectEncoding picks the first entry of requested that also appears in
// allowed, preserving requested's priority order: a type's encoding is
// negotiated from a requested representation-id list rather than assuming a
// single hardcoded dialect.
func SelectEncoding(allowed, requested []Encoding) (Encoding, error) {
	for _, want := range requested {
		for _, have := range allowed {
			if want == have {
				return want, nil
			}
		}
	}
	return 0, ErrNoCommonEncoding
}

// DefaultRequested is the priority order used when a caller of WriteSample
// does not supply its own requested-encodings list: prefer plain CDR for
// its simplicity and universal support, falling back to XCDR v2 and then
// XCDR v1.
var DefaultRequested = []Encoding{EncodingPlainCDR, EncodingXCDR2, EncodingXCDR1}

// representationFor resolves a chosen encoding plus the type's
// extensibility and the wire endianness to a concrete representation id.
func representationFor(enc Encoding, ext descriptor.Extensibility, endian stream.Endianness) RepresentationID {
	switch enc {
	case EncodingXCDR1:
		return repFor(RepPLCDRBigEndian, RepPLCDRLittleEndian, endian)
	case EncodingXCDR2:
		switch ext {
		case descriptor.Appendable:
			return repFor(RepDCDR2BigEndian, RepDCDR2LittleEndian, endian)
		case descriptor.Mutable:
			return repFor(RepPLCDR2BigEndian, RepPLCDR2LittleEndian, endian)
		default:
			return repFor(RepCDR2BigEndian, RepCDR2LittleEndian, endian)
		}
	default:
		return repFor(RepCDRBigEndian, RepCDRLittleEndian, endian)
	}
}

func repFor(be, le RepresentationID, endian stream.Endianness) RepresentationID {
	if endian == stream.BigEndian {
		return be
	}
	return le
}

// ResolveHeader parses a header and returns the triple a reader needs to
// build the right kind of stream.Stream, rejecting representation ids this
// library does not implement.
func ResolveHeader(h Header) (Dialect, stream.Endianness, descriptor.Extensibility, error) {
	return h.Representation.resolve()
}
