package logger

import (
	"encoding/hex"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying; they are shared by every dialect and by the sample adapter.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Codec identity
	// ========================================================================
	KeyTypeName = "type_name" // Descriptor.TypeName of the sample being processed
	KeyDialect  = "dialect"   // resolved dialect: CDR, XCDR1, XCDR2
	KeyEncoding = "encoding"  // encapsulation header dialect code, hex
	KeyLE       = "little_endian"

	// ========================================================================
	// Stream position & faults
	// ========================================================================
	KeyPosition     = "position"      // stream cursor offset at time of log
	KeyAlignment    = "alignment"     // current_alignment at time of log
	KeyStatusBits   = "status_bits"   // raw status bitmask
	KeyFaultKind    = "fault_kind"    // MoveBoundExceeded / WriteBoundExceeded / ...
	KeyMemberID     = "member_id"     // PID/EM member id involved in a fault
	KeyMemberPath   = "member_path"   // dotted path to the offending field
	KeyBound        = "bound"         // declared bound for the offending container
	KeyActualLength = "actual_length" // observed length that violated the bound

	// ========================================================================
	// Key hash
	// ========================================================================
	KeyHashIsMD5  = "key_hash_is_md5"
	KeyHashBytes  = "key_hash" // hex-encoded 16 byte hash
	KeySampleKind = "sample_kind"

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// TypeName returns a slog.Attr for the descriptor type name
func TypeName(name string) slog.Attr {
	return slog.String(KeyTypeName, name)
}

// Dialect returns a slog.Attr for the resolved dialect name
func Dialect(name string) slog.Attr {
	return slog.String(KeyDialect, name)
}

// Position returns a slog.Attr for the stream cursor offset
func Position(pos uint64) slog.Attr {
	return slog.Uint64(KeyPosition, pos)
}

// Alignment returns a slog.Attr for the current stream alignment
func Alignment(align uint8) slog.Attr {
	return slog.Int(KeyAlignment, int(align))
}

// StatusBits returns a slog.Attr for the raw fault status bitmask
func StatusBits(bits uint64) slog.Attr {
	return slog.Uint64(KeyStatusBits, bits)
}

// FaultKind returns a slog.Attr naming the fault that was raised
func FaultKind(kind string) slog.Attr {
	return slog.String(KeyFaultKind, kind)
}

// MemberID returns a slog.Attr for a PID/EM header member id
func MemberID(id uint32) slog.Attr {
	return slog.Uint64(KeyMemberID, uint64(id))
}

// MemberPath returns a slog.Attr for the dotted path to an offending field
func MemberPath(path string) slog.Attr {
	return slog.String(KeyMemberPath, path)
}

// Bound returns a slog.Attr for a declared container bound
func Bound(bound uint32) slog.Attr {
	return slog.Uint64(KeyBound, uint64(bound))
}

// ActualLength returns a slog.Attr for an observed length that violated a bound
func ActualLength(length uint32) slog.Attr {
	return slog.Uint64(KeyActualLength, uint64(length))
}

// HashHex returns a slog.Attr for a 16-byte key hash, hex encoded
func HashHex(hash [16]byte) slog.Attr {
	return slog.String(KeyHashBytes, hex.EncodeToString(hash[:]))
}

// HashIsMD5 returns a slog.Attr indicating whether the key hash branch was MD5
func HashIsMD5(isMD5 bool) slog.Attr {
	return slog.Bool(KeyHashIsMD5, isMD5)
}

// SampleKind returns a slog.Attr for the sample adapter's kind (data/key/empty)
func SampleKind(kind string) slog.Attr {
	return slog.String(KeySampleKind, kind)
}

// Err returns a slog.Attr for an error value, or an empty Attr (which
// handlers skip) for a nil error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
