// Package cdr is the public entry point: the 4-byte encapsulation header
// that precedes every sample on the wire, dialect selection from that
// header, and the write_sample/read_sample/serialized_size/
// max_serialized_size operations that drive the three dialect packages
// underneath (internal/cdr/basic, internal/cdr/xcdrv1, internal/cdr/xcdrv2).
package cdr

import (
	"errors"
	"fmt"

	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// HeaderSize is the fixed byte length of the encapsulation header.
const HeaderSize = 4

// RepresentationID is the wire value identifying how a sample's payload is
// encoded, carried in the first two bytes of the encapsulation header.
type RepresentationID uint16

// Representation identifiers. Values follow the OMG DDS-XTypes
// representation-identifier table so that samples produced here are
// byte-layout-compatible with other XTypes implementations at the header
// level, even though this library's PID/EM-header numeric sentinels are its
// own choice (see DESIGN.md).
const (
	RepCDRBigEndian      RepresentationID = 0x0000
	RepCDRLittleEndian   RepresentationID = 0x0001
	RepPLCDRBigEndian    RepresentationID = 0x0002
	RepPLCDRLittleEndian RepresentationID = 0x0003
	RepCDR2BigEndian     RepresentationID = 0x0006
	RepCDR2LittleEndian  RepresentationID = 0x0007
	RepDCDR2BigEndian    RepresentationID = 0x0008
	RepDCDR2LittleEndian RepresentationID = 0x0009
	RepPLCDR2BigEndian   RepresentationID = 0x000a
	RepPLCDR2LittleEndian RepresentationID = 0x000b
)

// ErrUnknownRepresentation is returned when a header's representation id
// does not match any dialect this library implements.
var ErrUnknownRepresentation = errors.New("cdr: unknown representation id")

// ErrShortBuffer is returned when fewer than HeaderSize bytes are available
// to read a header from.
var ErrShortBuffer = errors.New("cdr: buffer shorter than encapsulation header")

// ErrExtensibilityMismatch names the case where a header's representation
// id implies an extensibility that does not match the type being decoded
// into (I.e. a mutable PL_CDR2 sample handed to a type described as final).
// ReadSample does not return it: it reports that case as
// stream.IllegalFieldValue in its status.
var ErrExtensibilityMismatch = errors.New("cdr: header extensibility does not match type descriptor")

// Header is the parsed form of the 4-byte encapsulation prefix.
type Header struct {
	Representation RepresentationID
	// Options occupies the header's third and fourth bytes. Byte 2 (the high
	// byte) is reserved and always written as zero. Byte 3 (the low byte)
	// holds the number of zero bytes appended after the payload so that
	// HeaderSize-excluded payload length is a multiple of 4; a reader
	// subtracts this count from the payload length to find the logical end.
	Options uint16
}

// PaddingCount returns the end-of-payload zero-padding byte count a header
// carries in its low byte.
func (h Header) PaddingCount() uint8 {
	return uint8(h.Options)
}

// PadPayload appends the zero bytes needed to bring payload to a multiple of
// 4 and returns the padded slice together with the count appended, ready to
// go into Header.Options so a reader can recover the unpadded length.
func PadPayload(payload []byte) ([]byte, uint8) {
	pad := (4 - len(payload)%4) % 4
	for i := 0; i < pad; i++ {
		payload = append(payload, 0)
	}
	return payload, uint8(pad)
}

// WriteHeader appends the 4-byte encapsulation header to buf and returns
// the extended slice.
func WriteHeader(buf []byte, h Header) []byte {
	buf = append(buf, byte(h.Representation>>8), byte(h.Representation))
	buf = append(buf, byte(h.Options>>8), byte(h.Options))
	return buf
}

// ReadHeader parses the first HeaderSize bytes of buf.
func ReadHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrShortBuffer
	}
	return Header{
		Representation: RepresentationID(uint16(buf[0])<<8 | uint16(buf[1])),
		Options:        uint16(buf[2])<<8 | uint16(buf[3]),
	}, nil
}

// resolve maps a representation id to the (dialect, endianness,
// extensibility) triple it encodes, rejecting combinations this library
// does not recognize.
func (r RepresentationID) resolve() (Dialect, stream.Endianness, descriptor.Extensibility, error) {
	switch r {
	case RepCDRBigEndian:
		return DialectBasic, stream.BigEndian, descriptor.Final, nil
	case RepCDRLittleEndian:
		return DialectBasic, stream.LittleEndian, descriptor.Final, nil
	case RepPLCDRBigEndian:
		return DialectXCDRv1, stream.BigEndian, descriptor.Mutable, nil
	case RepPLCDRLittleEndian:
		return DialectXCDRv1, stream.LittleEndian, descriptor.Mutable, nil
	case RepCDR2BigEndian:
		return DialectXCDRv2, stream.BigEndian, descriptor.Final, nil
	case RepCDR2LittleEndian:
		return DialectXCDRv2, stream.LittleEndian, descriptor.Final, nil
	case RepDCDR2BigEndian:
		return DialectXCDRv2, stream.BigEndian, descriptor.Appendable, nil
	case RepDCDR2LittleEndian:
		return DialectXCDRv2, stream.LittleEndian, descriptor.Appendable, nil
	case RepPLCDR2BigEndian:
		return DialectXCDRv2, stream.BigEndian, descriptor.Mutable, nil
	case RepPLCDR2LittleEndian:
		return DialectXCDRv2, stream.LittleEndian, descriptor.Mutable, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: 0x%04x", ErrUnknownRepresentation, uint16(r))
	}
}
