package demotype_test

import (
	"testing"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/cdr/xcdrv2"
	"github.com/marmos91/cdrcodec/internal/demotype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointRoundTripAllDialects(t *testing.T) {
	cases := []struct {
		name      string
		requested []cdr.Encoding
	}{
		{"PlainCDR", []cdr.Encoding{cdr.EncodingPlainCDR}},
		{"XCDR2", []cdr.Encoding{cdr.EncodingXCDR2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &demotype.Point{ID: 7, Name: "abcde", Values: []int32{1, -2, 3}}
			buf, status := cdr.WriteSample(p, stream.LittleEndian, tc.requested)
			require.Equal(t, stream.Status(0), status)

			out := &demotype.Point{}
			status = cdr.ReadSample(buf, out)
			require.Equal(t, stream.Status(0), status)
			assert.Equal(t, p, out)
		})
	}
}

func TestPointNameOverBound(t *testing.T) {
	p := &demotype.Point{ID: 1, Name: "too-long-for-bound"}
	_, status := cdr.WriteSample(p, stream.LittleEndian, nil)
	assert.True(t, status&stream.WriteBoundExceeded != 0)
}

func TestProfileForwardCompatVsMustUnderstand(t *testing.T) {
	// Hand-roll a wire sample with one extra member Profile.ReadCDR does
	// not recognize (member id 99), to exercise both outcomes: skippable
	// when not must-understand, fatal when it is.
	build := func(extraMustUnderstand bool) []byte {
		s := stream.NewWriteStream(stream.LittleEndian, cdr.DialectXCDRv2.MaxAlignment(), stream.AllFaults)
		patch := xcdrv2.WriteDHeader(s)
		start := s.Position()

		idPatch := xcdrv2.WriteMemberHeader(s, 0, true, 4)
		basic.WriteInt32(s, 1)
		idPatch(4)

		extraPatch := xcdrv2.WriteMemberHeader(s, 99, extraMustUnderstand, 4)
		basic.WriteInt32(s, 0xDEAD)
		extraPatch(4)

		patch(uint32(s.Position() - start))

		buf := cdr.WriteHeader(nil, cdr.Header{Representation: cdr.RepPLCDR2LittleEndian})
		return append(buf, s.Bytes()...)
	}

	t.Run("SkippedWhenNotMustUnderstand", func(t *testing.T) {
		out := &demotype.Profile{}
		status := cdr.ReadSample(build(false), out)
		assert.Equal(t, stream.Status(0), status)
		assert.Equal(t, int32(1), out.ID)
	})

	t.Run("FatalWhenMustUnderstand", func(t *testing.T) {
		out := &demotype.Profile{}
		status := cdr.ReadSample(build(true), out)
		assert.True(t, status&stream.IllegalFieldValue != 0)
	})
}

func TestReadingAppendableRoundTrip(t *testing.T) {
	r := &demotype.Reading{SensorID: 11, Celsius: -3.25}
	buf, status := cdr.WriteSample(r, stream.BigEndian, []cdr.Encoding{cdr.EncodingXCDR2})
	require.Equal(t, stream.Status(0), status)

	out := &demotype.Reading{}
	status = cdr.ReadSample(buf, out)
	require.Equal(t, stream.Status(0), status)
	assert.Equal(t, *r, *out)
}

func TestKeyedStringLongKeySerializationExceedsSixteenBytes(t *testing.T) {
	k := &demotype.KeyedString{ID: "abcdefghijklm"}
	s := stream.NewWriteStream(stream.BigEndian, 8, stream.AllFaults)
	k.WriteSortedKey(s)
	// 4-byte length prefix plus the string and its null terminator already
	// exceeds the 16-byte direct-copy threshold, forcing the MD5 branch.
	assert.Greater(t, len(s.Bytes()), 16)
}
