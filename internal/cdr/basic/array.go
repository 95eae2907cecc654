package basic

import "github.com/marmos91/cdrcodec/internal/cdr/stream"

// WriteUint32Array writes exactly len(vals) elements, no count prefix (this
// is for fixed-size arrays; sequences carry their own count via
// WriteSequenceHeader). When the stream's endianness matches the host's, a
// single bulk copy replaces the per-element swap loop — a
// correctness-preserving optimization explicitly called out in the
// surrounding spec's §4.3.
func WriteUint32Array(s *stream.Stream, vals []uint32) {
	if s.Aborted() || len(vals) == 0 {
		return
	}
	s.Align(4, true)
	if s.Aborted() {
		return
	}
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		stream.NativeOrder.PutUint32(buf[i*4:], v)
	}
	if s.SwapNeeded() {
		// Each 4-byte group must be swapped independently; a single swap
		// over the whole blob would reorder elements, not just their bytes.
		for off := 0; off < len(buf); off += 4 {
			group := buf[off : off+4]
			group[0], group[3] = group[3], group[0]
			group[1], group[2] = group[2], group[1]
		}
	}
	s.WriteRaw(buf)
}

// ReadUint32Array reads exactly n elements with the same bulk-copy
// optimization on the no-swap path.
func ReadUint32Array(s *stream.Stream, n uint32) ([]uint32, bool) {
	if n == 0 {
		return nil, true
	}
	s.Align(4, false)
	if s.Aborted() {
		return nil, false
	}
	raw, ok := s.ReadRaw(uint64(n) * 4)
	if !ok {
		return nil, false
	}
	out := make([]uint32, n)
	swap := s.SwapNeeded()
	for i := range out {
		group := raw[i*4 : i*4+4]
		if swap {
			group = []byte{group[3], group[2], group[1], group[0]}
		}
		out[i] = stream.NativeOrder.Uint32(group)
	}
	return out, true
}

// WriteByteArray writes raw octets with no swap and no count prefix (used
// for fixed-size byte/octet arrays and as the common path under opaque
// sequences).
func WriteByteArray(s *stream.Stream, vals []byte) {
	if s.Aborted() || len(vals) == 0 {
		return
	}
	s.WriteRaw(vals)
}

// ReadByteArray reads n raw octets.
func ReadByteArray(s *stream.Stream, n uint32) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	raw, ok := s.ReadRaw(uint64(n))
	if !ok {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, true
}
