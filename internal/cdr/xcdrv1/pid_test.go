package xcdrv1

import (
	"testing"

	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldHeaderRoundTrip(t *testing.T) {
	t.Run("ShortFormPatchesLengthAfterPayload", func(t *testing.T) {
		s := stream.NewWriteStream(stream.LittleEndian, MaxAlignment, stream.AllFaults)
		patch := WriteFieldHeader(s, 7, true, 4)
		start := s.Position()
		basic.WriteInt32(s, 42)
		patch(uint32(s.Position() - start))
		WriteListEnd(s)

		r := stream.NewReadStream(s.Bytes(), stream.LittleEndian, MaxAlignment, stream.AllFaults)
		h, ok := ReadFieldHeader(r)
		require.True(t, ok)
		assert.False(t, h.IsListEnd)
		assert.Equal(t, uint32(7), h.MemberID)
		assert.True(t, h.MustUnderstand)
		assert.Equal(t, uint32(4), h.Length)

		v, ok := basic.ReadInt32(r)
		require.True(t, ok)
		assert.Equal(t, int32(42), v)

		end, ok := ReadFieldHeader(r)
		require.True(t, ok)
		assert.True(t, end.IsListEnd)
	})

	t.Run("ExtendedFormForHighMemberID", func(t *testing.T) {
		s := stream.NewWriteStream(stream.LittleEndian, MaxAlignment, stream.AllFaults)
		patch := WriteFieldHeader(s, 20000, false, 4)
		start := s.Position()
		basic.WriteInt32(s, 1)
		patch(uint32(s.Position() - start))

		r := stream.NewReadStream(s.Bytes(), stream.LittleEndian, MaxAlignment, stream.AllFaults)
		h, ok := ReadFieldHeader(r)
		require.True(t, ok)
		assert.Equal(t, uint32(20000), h.MemberID)
		assert.Equal(t, uint32(4), h.Length)
	})

	t.Run("SkipFieldDiscardsPayload", func(t *testing.T) {
		s := stream.NewWriteStream(stream.LittleEndian, MaxAlignment, stream.AllFaults)
		patch := WriteFieldHeader(s, 3, false, 4)
		start := s.Position()
		basic.WriteInt32(s, 99)
		patch(uint32(s.Position() - start))
		patch2 := WriteFieldHeader(s, 4, false, 4)
		start2 := s.Position()
		basic.WriteInt32(s, 100)
		patch2(uint32(s.Position() - start2))

		r := stream.NewReadStream(s.Bytes(), stream.LittleEndian, MaxAlignment, stream.AllFaults)
		h1, ok := ReadFieldHeader(r)
		require.True(t, ok)
		SkipField(r, h1)
		h2, ok := ReadFieldHeader(r)
		require.True(t, ok)
		v, ok := basic.ReadInt32(r)
		require.True(t, ok)
		assert.Equal(t, uint32(4), h2.MemberID)
		assert.Equal(t, int32(100), v)
	})

	t.Run("UnknownLengthForcesExtendedFormRegardlessOfActualSize", func(t *testing.T) {
		s := stream.NewWriteStream(stream.LittleEndian, MaxAlignment, stream.AllFaults)
		patch := WriteFieldHeader(s, 1, false, UnknownLength)
		start := s.Position()
		basic.WriteInt32(s, 7)
		patch(uint32(s.Position() - start))

		r := stream.NewReadStream(s.Bytes(), stream.LittleEndian, MaxAlignment, stream.AllFaults)
		h, ok := ReadFieldHeader(r)
		require.True(t, ok)
		assert.Equal(t, uint32(1), h.MemberID)
		assert.Equal(t, uint32(4), h.Length)
	})

	t.Run("ShortFormPatchRaisesFaultIfPayloadExceedsPrediction", func(t *testing.T) {
		s := stream.NewWriteStream(stream.LittleEndian, MaxAlignment, stream.AllFaults)
		// worstCaseLen of 4 commits to the short form; patch is then
		// invoked with a length that could never have fit it, simulating a
		// caller that mis-predicted the bound.
		patch := WriteFieldHeader(s, 1, false, 4)
		patch(0x10000)
		assert.True(t, s.Status()&stream.IllegalFieldValue != 0)
	})
}
