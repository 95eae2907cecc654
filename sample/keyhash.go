package sample

import (
	"crypto/md5" //nolint:gosec // content digest for the instance key hash, not a security boundary

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/logger"
	"github.com/marmos91/cdrcodec/pkg/bufpool"
)

// keyScratchSize covers every demonstration key shape with room to spare;
// bufpool.Get hands back a buffer from its smallest tier, so WriteSortedKey
// only reallocates if a key outgrows that tier's capacity.
const keyScratchSize = 32

// KeyHash is the 16-byte content-derived identifier the transport uses to
// recognize an instance on the wire.
type KeyHash struct {
	Bytes [16]byte
	IsMD5 bool
}

// computeKeyHash serializes v in sorted-key mode and reduces the result to
// 16 bytes: a direct zero-padded copy when the serialization fits, an MD5
// digest otherwise. The copy-vs-MD5 branch is decided once per type and
// cached on vt (see VTable.keyHashModeKnown). A type whose key serialization
// length can vary across instances (a @key string crossing the 16-byte
// boundary between calls) keeps whichever branch the first instance
// happened to take.
func computeKeyHash(vt *VTable, v cdr.KeyStreamable) KeyHash {
	scratch := bufpool.Get(keyScratchSize)
	defer bufpool.Put(scratch)

	s := stream.NewWriteStream(stream.BigEndian, 8, stream.AllFaults)
	s.SetBuffer(scratch[:0])
	v.WriteSortedKey(s)
	raw := s.Bytes()

	isMD5 := decideKeyHashMode(vt, len(raw) > 16)

	if isMD5 {
		sum := md5.Sum(raw) //nolint:gosec // see package-level rationale above
		return KeyHash{Bytes: sum, IsMD5: true}
	}
	var h [16]byte
	copy(h[:], raw)
	return KeyHash{Bytes: h, IsMD5: false}
}

// decideKeyHashMode installs observedMD5 as the type's permanent branch on
// the first call and returns whichever value won the race on later calls.
func decideKeyHashMode(vt *VTable, observedMD5 bool) bool {
	if vt.keyHashModeKnown.Load() {
		return vt.keyHashIsMD5.Load()
	}
	vt.keyHashIsMD5.Store(observedMD5)
	if vt.keyHashModeKnown.CompareAndSwap(false, true) {
		logger.Debug("key hash mode fixed", logger.TypeName(vt.TypeName), logger.HashIsMD5(observedMD5))
		return observedMD5
	}
	// Lost the race: another goroutine already fixed the mode. For a
	// deterministic key layout this is necessarily the same value; for the
	// pathological varying-length case described above, the earlier
	// winner's choice governs.
	return vt.keyHashIsMD5.Load()
}
