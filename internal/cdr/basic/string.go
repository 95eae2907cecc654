package basic

import "github.com/marmos91/cdrcodec/internal/cdr/stream"

// WriteString writes a length-prefixed string: a 4-byte count that
// includes the terminating null, followed by the string bytes and the
// null. bound is the declared maximum string length (0 means unbounded);
// bound is checked against the string's length excluding the null.
//
// After the payload, current alignment resets to 1 — a later scalar field
// realigns from scratch rather than assuming the string left it aligned.
func WriteString(s *stream.Stream, bound uint32, v string) bool {
	if s.Aborted() {
		return false
	}
	length := uint32(len(v))
	if bound != 0 && length > bound {
		s.Raise(stream.WriteBoundExceeded)
		return false
	}
	WriteUint32(s, length+1)
	if s.Aborted() {
		return false
	}
	payload := make([]byte, length+1)
	copy(payload, v)
	s.WriteRaw(payload)
	return !s.Aborted()
}

// ReadString reads a length-prefixed string. A wire length of zero is
// illegal (the null terminator is always present, so the minimum encoded
// length is 1). bound is checked against the string's length excluding the
// null.
func ReadString(s *stream.Stream, bound uint32) (string, bool) {
	total, ok := ReadUint32(s)
	if !ok {
		return "", false
	}
	if total == 0 {
		s.Raise(stream.IllegalFieldValue)
		return "", false
	}
	strLen := total - 1
	if bound != 0 && strLen > bound {
		s.Raise(stream.ReadBoundExceeded)
		return "", false
	}
	raw, ok := s.ReadRaw(uint64(total))
	if !ok {
		s.Raise(stream.ReadBoundExceeded)
		return "", false
	}
	return string(raw[:strLen]), true
}

// WriteSequenceHeader writes a sequence's 4-byte element count, enforcing
// bound (0 means unbounded). Unlike strings, a sequence of length zero is
// perfectly legal.
func WriteSequenceHeader(s *stream.Stream, bound uint32, count uint32) bool {
	if s.Aborted() {
		return false
	}
	if bound != 0 && count > bound {
		s.Raise(stream.WriteBoundExceeded)
		return false
	}
	WriteUint32(s, count)
	return !s.Aborted()
}

// ReadSequenceHeader reads and bound-checks a sequence's element count.
func ReadSequenceHeader(s *stream.Stream, bound uint32) (uint32, bool) {
	count, ok := ReadUint32(s)
	if !ok {
		return 0, false
	}
	if bound != 0 && count > bound {
		s.Raise(stream.ReadBoundExceeded)
		return 0, false
	}
	return count, true
}
