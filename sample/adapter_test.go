package sample_test

import (
	"sync"
	"testing"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/demotype"
	"github.com/marmos91/cdrcodec/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointVTable() *sample.VTable {
	return &sample.VTable{
		TypeName:      "Point",
		Extensibility: demotype.Point{}.Descriptor().Extensibility,
		Endian:        stream.LittleEndian,
		NewZero:       func() cdr.Streamable { return &demotype.Point{} },
	}
}

func readingVTable() *sample.VTable {
	return &sample.VTable{
		TypeName:      "Reading",
		Extensibility: (&demotype.Reading{}).Descriptor().Extensibility,
		Endian:        stream.LittleEndian,
		Requested:     []cdr.Encoding{cdr.EncodingXCDR2},
		NewZero:       func() cdr.Streamable { return &demotype.Reading{} },
	}
}

func TestFromSampleAndFromWire(t *testing.T) {
	t.Run("FromSampleThenFromWireRoundTrips", func(t *testing.T) {
		vt := pointVTable()
		p := &demotype.Point{ID: 1, Name: "abc", Values: []int32{1, 2}}
		a, err := sample.FromSample(vt, sample.KindData, p)
		require.NoError(t, err)

		buf, err := a.ToWire()
		require.NoError(t, err)

		b := sample.FromWire(vt, sample.KindData, buf)
		typed, err := b.GetTyped()
		require.NoError(t, err)
		assert.Equal(t, p, typed)
	})

	t.Run("FromWireFailureLeavesTypedCacheEmpty", func(t *testing.T) {
		vt := pointVTable()
		a := sample.FromWire(vt, sample.KindData, []byte{0x00}) // too short to even hold a header
		_, err := a.GetTyped()
		assert.ErrorIs(t, err, sample.ErrDecodeFailed)
	})
}

func TestKeyHashBranches(t *testing.T) {
	t.Run("ShortKeyIsDirectCopyNoMD5", func(t *testing.T) {
		vt := pointVTable()
		p := &demotype.Point{ID: 42, Name: "x"}
		a, err := sample.FromSample(vt, sample.KindData, p)
		require.NoError(t, err)

		h, err := a.GetKeyHash()
		require.NoError(t, err)
		assert.False(t, h.IsMD5)
		assert.Equal(t, [16]byte{0, 0, 0, 42}, h.Bytes)
	})

	t.Run("LongKeyIsMD5", func(t *testing.T) {
		vt := &sample.VTable{
			TypeName: "KeyedString",
			Endian:   stream.LittleEndian,
			NewZero:  func() cdr.Streamable { return &demotype.KeyedString{} },
		}
		k := &demotype.KeyedString{ID: "abcdefghijklm"}
		a, err := sample.FromSample(vt, sample.KindData, k)
		require.NoError(t, err)

		h, err := a.GetKeyHash()
		require.NoError(t, err)
		assert.True(t, h.IsMD5)
	})

	t.Run("DeterministicAcrossAdapters", func(t *testing.T) {
		vt := pointVTable()
		p1 := &demotype.Point{ID: 9, Name: "a"}
		p2 := &demotype.Point{ID: 9, Name: "other"}
		a1, _ := sample.FromSample(vt, sample.KindData, p1)
		a2, _ := sample.FromSample(vt, sample.KindData, p2)
		h1, _ := a1.GetKeyHash()
		h2, _ := a2.GetKeyHash()
		assert.Equal(t, h1, h2)
	})
}

func TestLazyDecodeConcurrentInstallOnce(t *testing.T) {
	vt := pointVTable()
	p := &demotype.Point{ID: 3, Name: "race", Values: []int32{1, 2, 3, 4}}
	buf, status := cdr.WriteSample(p, stream.LittleEndian, nil)
	require.Equal(t, stream.Status(0), status)

	wireAdapter := sample.FromWire(vt, sample.KindData, buf)

	const n = 16
	results := make([]cdr.Streamable, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := wireAdapter.GetTyped()
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestEqualKey(t *testing.T) {
	vt := pointVTable()
	a1, _ := sample.FromSample(vt, sample.KindData, &demotype.Point{ID: 1, Name: "a"})
	a2, _ := sample.FromSample(vt, sample.KindData, &demotype.Point{ID: 1, Name: "other"})
	a3, _ := sample.FromSample(vt, sample.KindData, &demotype.Point{ID: 2, Name: "a"})

	eq12, err := a1.EqualKey(a2)
	require.NoError(t, err)
	assert.True(t, eq12)

	eq13, err := a1.EqualKey(a3)
	require.NoError(t, err)
	assert.False(t, eq13)
}

func TestToUntyped(t *testing.T) {
	vt := pointVTable()
	a, _ := sample.FromSample(vt, sample.KindData, &demotype.Point{ID: 5, Name: "a"})
	untyped, err := a.ToUntyped()
	require.NoError(t, err)
	assert.Equal(t, sample.KindKey, untyped.Kind())

	originalHash, _ := a.GetKeyHash()
	untypedHash, _ := untyped.GetKeyHash()
	assert.Equal(t, originalHash, untypedHash)
}

func TestFromKeyHashKeylessType(t *testing.T) {
	vt := readingVTable()
	hash := [16]byte{1, 2, 3}
	a, err := sample.FromKeyHash(vt, &demotype.Reading{}, hash)
	require.NoError(t, err)
	assert.Equal(t, sample.KindKey, a.Kind())
}

func TestFromKeyHashRejectsKeyedType(t *testing.T) {
	vt := pointVTable()
	_, err := sample.FromKeyHash(vt, &demotype.Point{}, [16]byte{})
	assert.ErrorIs(t, err, sample.ErrKeyHashConstructionUnsupported)
}

func TestLoanRefCounting(t *testing.T) {
	released := false
	loan := sample.NewLoan([]byte{0}, sample.LoanRaw, func() { released = true })
	vt := pointVTable()

	a, err := sample.FromLoan(vt, sample.KindData, loan, &demotype.Point{ID: 1}, true)
	require.NoError(t, err)
	assert.Equal(t, sample.LoanSerialized, loan.State)

	a.Free()
	assert.True(t, released)
}
