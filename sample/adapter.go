package sample

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/logger"
)

// Kind is the adapter's sample-kind state. It is set exactly once at
// construction and never changes afterward (transitions between kinds
// within one adapter are forbidden; to_untyped instead produces a new
// adapter of kind Key).
type Kind uint8

const (
	KindEmpty Kind = iota
	KindData
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindKey:
		return "key"
	default:
		return "empty"
	}
}

var (
	// ErrKeyHashConstructionUnsupported is returned by FromKeyHash when the
	// type is not keyless (it has @key members, i.e. implements
	// cdr.KeyStreamable), so a hash alone cannot reconstruct a sample.
	ErrKeyHashConstructionUnsupported = errors.New("sample: from_keyhash is only supported for keyless types")

	// ErrNoKey is returned when a key-hash or sorted-key operation is
	// attempted on a typed value that does not implement cdr.KeyStreamable.
	ErrNoKey = errors.New("sample: type has no @key members")

	// ErrDecodeFailed is returned by GetTyped when the wire bytes fail to
	// decode; the typed-value cache stays empty so a later call (e.g. after
	// the caller fixes a misconfigured VTable) can retry.
	ErrDecodeFailed = errors.New("sample: wire decode failed")
)

// typedBox indirects the lazily installed typed value so that
// atomic.Pointer has something to swing a pointer to; cdr.Streamable is
// itself an interface value and cannot be the target of CompareAndSwap
// directly.
type typedBox struct {
	v cdr.Streamable
}

// Adapter is the type-erased sample container. It pairs the wire bytes
// (when present) with a lazily decoded typed value and a lazily computed
// key hash, and optionally defers storage ownership to an external Loan.
type Adapter struct {
	vtable *VTable
	kind   Kind

	// encodedBytes holds the full wire sample (4-byte header plus payload)
	// when this adapter owns its own serialized storage, or is nil when
	// the bytes live in a Loan instead.
	encodedBytes []byte

	loan *Loan

	typed atomic.Pointer[typedBox]

	hashPopulated atomic.Bool
	hash          KeyHash
}

// Kind reports this adapter's sample kind.
func (a *Adapter) Kind() Kind { return a.kind }

// VTable returns the per-type operation table this adapter was built with.
func (a *Adapter) VTable() *VTable { return a.vtable }

// FromWire allocates encoded_bytes from a single contiguous fragment and
// attempts an eager typed decode, populating the key hash from the decoded
// value when that succeeds. Decode failure is not itself an error here —
// the adapter is still constructed, just with an empty typed-value cache;
// the caller discovers the failure on the first GetTyped call, matching the
// lazy-decode contract.
func FromWire(vt *VTable, kind Kind, buf []byte) *Adapter {
	a := &Adapter{vtable: vt, kind: kind, encodedBytes: append([]byte(nil), buf...)}
	a.eagerDecode()
	return a
}

// FromIOVec is FromWire's gather-write counterpart: it copies a chain of
// fragments into one contiguous buffer bounded by their combined length.
func FromIOVec(vt *VTable, kind Kind, iovec [][]byte) *Adapter {
	total := 0
	for _, frag := range iovec {
		total += len(frag)
	}
	buf := make([]byte, 0, total)
	for _, frag := range iovec {
		buf = append(buf, frag...)
	}
	a := &Adapter{vtable: vt, kind: kind, encodedBytes: buf}
	a.eagerDecode()
	return a
}

// eagerDecode performs the "from wire" path's best-effort immediate decode;
// on failure the typed cache is simply left empty.
func (a *Adapter) eagerDecode() {
	v := a.vtable.zero()
	if status := cdr.ReadSample(a.encodedBytes, v); status != 0 {
		logger.Debug("eager decode failed", logger.TypeName(a.vtable.TypeName), logger.SampleKind(a.kind.String()), logger.StatusBits(uint64(status)))
		return
	}
	a.typed.Store(&typedBox{v: v})
	if kv, ok := v.(cdr.KeyStreamable); ok {
		a.installHash(computeKeyHash(a.vtable, kv))
	}
}

// FromKeyHash builds a kind-Key adapter directly from a 16-byte hash. It
// accepts only keyless types — types with no @key members, whose zero
// value does not implement cdr.KeyStreamable — and returns
// ErrKeyHashConstructionUnsupported for any other. zero must be a representative
// zero-value instance used only to check HasKey; it is not retained.
func FromKeyHash(vt *VTable, zero cdr.Streamable, hash [16]byte) (*Adapter, error) {
	if vt.HasKey(zero) {
		return nil, ErrKeyHashConstructionUnsupported
	}
	a := &Adapter{vtable: vt, kind: KindKey}
	a.installHash(KeyHash{Bytes: hash})
	return a, nil
}

// FromSample builds an adapter from an already-constructed typed value:
// it measures and serializes the value (sorted-key mode when kind is
// KindKey, the type's negotiated dialect otherwise), caches the typed
// value, and computes the key hash.
func FromSample(vt *VTable, kind Kind, v cdr.Streamable) (*Adapter, error) {
	a := &Adapter{vtable: vt, kind: kind}
	a.typed.Store(&typedBox{v: v})

	switch kind {
	case KindKey:
		kv, ok := v.(cdr.KeyStreamable)
		if !ok {
			return nil, ErrNoKey
		}
		s := stream.NewWriteStream(stream.BigEndian, 8, stream.AllFaults)
		kv.WriteSortedKey(s)
		if s.Status() != 0 {
			return nil, fmt.Errorf("sample: sorted-key serialization faulted: %v", s.Status())
		}
		payload, pad := cdr.PadPayload(s.Bytes())
		a.encodedBytes = append(cdr.WriteHeader(nil, cdr.Header{Representation: cdr.RepCDRBigEndian, Options: uint16(pad)}), payload...)
		a.installHash(computeKeyHash(vt, kv))
	default:
		buf, status := cdr.WriteSample(v, vt.Endian, vt.Requested)
		if status != 0 {
			return nil, fmt.Errorf("sample: serialization faulted: %v", status)
		}
		a.encodedBytes = buf
		if kv, ok := v.(cdr.KeyStreamable); ok {
			a.installHash(computeKeyHash(vt, kv))
		}
	}
	return a, nil
}

// FromLoan builds an adapter whose storage is owned by loan rather than by
// the adapter itself. If the loan is already serialized, or forceSerialize
// is set, v is serialized into the loan's buffer and the loan's state is
// advanced to LoanSerialized; otherwise the adapter simply keeps a typed
// reference and leaves the loan's storage raw, to be serialized lazily
// (or never, if the transport ends up using shared memory end to end).
func FromLoan(vt *VTable, kind Kind, loan *Loan, v cdr.Streamable, forceSerialize bool) (*Adapter, error) {
	a := &Adapter{vtable: vt, kind: kind, loan: loan}
	a.typed.Store(&typedBox{v: v})

	if loan.State == LoanSerialized || forceSerialize {
		buf, status := cdr.WriteSample(v, vt.Endian, vt.Requested)
		if status != 0 {
			return nil, fmt.Errorf("sample: loan serialization faulted: %v", status)
		}
		loan.Buffer = buf
		loan.State = LoanSerialized
		a.encodedBytes = buf
	}
	if kv, ok := v.(cdr.KeyStreamable); ok {
		a.installHash(computeKeyHash(vt, kv))
	}
	return a, nil
}

// FromPSMX adopts a PSMX-plugin-provided loan. A serialized loan is decoded
// using the dialect its CDRIdentifier names; a raw loan's typed slot is
// adopted directly (no decode necessary since the plugin already produced
// an in-memory value in the plugin's own representation, which this
// library treats opaquely as a pre-typed cdr.Streamable built by the
// caller's plugin glue).
func FromPSMX(vt *VTable, loan *Loan, rawValue cdr.Streamable) (*Adapter, error) {
	a := &Adapter{vtable: vt, kind: KindData, loan: loan}

	if loan.State == LoanRaw {
		if rawValue == nil {
			return nil, errors.New("sample: from_psmx raw loan requires a pre-typed value")
		}
		a.typed.Store(&typedBox{v: rawValue})
		if kv, ok := rawValue.(cdr.KeyStreamable); ok {
			a.installHash(computeKeyHash(vt, kv))
		}
		return a, nil
	}

	h, err := cdr.ReadHeader(loan.Buffer)
	if err != nil {
		return nil, fmt.Errorf("sample: from_psmx: %w", err)
	}
	if uint16(h.Representation) != loan.CDRIdentifier {
		return nil, fmt.Errorf("sample: from_psmx: loan CDR identifier 0x%04x does not match header 0x%04x", loan.CDRIdentifier, h.Representation)
	}
	a.encodedBytes = loan.Buffer
	a.eagerDecode()
	return a, nil
}

// GetTyped returns the cached typed value, decoding and installing one on
// first use. Concurrent first callers race on the same install point;
// exactly one draft decode wins and becomes visible to every later caller,
// the rest are discarded (Go's GC reclaims them, since nothing else
// references a losing draft).
func (a *Adapter) GetTyped() (cdr.Streamable, error) {
	if box := a.typed.Load(); box != nil {
		return box.v, nil
	}
	if a.encodedBytes == nil {
		return nil, ErrDecodeFailed
	}
	draft := a.vtable.zero()
	if cdr.ReadSample(a.encodedBytes, draft) != 0 {
		return nil, ErrDecodeFailed
	}
	box := &typedBox{v: draft}
	a.typed.CompareAndSwap(nil, box)
	// Whether this call's CAS won or lost, a.typed now holds a valid box —
	// either this draft or an equivalent one from the winning racer.
	return a.typed.Load().v, nil
}

// ToWire returns the adapter's wire bytes, decoding-then-reencoding from
// the typed cache only if no wire bytes were ever produced (the FromSample
// and FromWire paths both already populate encodedBytes).
func (a *Adapter) ToWire() ([]byte, error) {
	if a.encodedBytes != nil {
		return a.encodedBytes, nil
	}
	box := a.typed.Load()
	if box == nil {
		return nil, ErrDecodeFailed
	}
	buf, status := cdr.WriteSample(box.v, a.vtable.Endian, a.vtable.Requested)
	if status != 0 {
		return nil, fmt.Errorf("sample: to_wire faulted: %v", status)
	}
	a.encodedBytes = buf
	return buf, nil
}

// GetKeyHash returns the adapter's key hash, computing it from the typed
// value on first use if it was not already populated at construction time.
func (a *Adapter) GetKeyHash() (KeyHash, error) {
	if a.hashPopulated.Load() {
		return a.hash, nil
	}
	v, err := a.GetTyped()
	if err != nil {
		return KeyHash{}, err
	}
	kv, ok := v.(cdr.KeyStreamable)
	if !ok {
		return KeyHash{}, ErrNoKey
	}
	h := computeKeyHash(a.vtable, kv)
	a.installHash(h)
	return h, nil
}

func (a *Adapter) installHash(h KeyHash) {
	a.hash = h
	a.hashPopulated.Store(true)
}

// EqualKey compares this adapter's key to another's, purely on their typed
// values' @key members, via descriptor.EqualKey-style comparison — it never
// invokes the wire codec.
func (a *Adapter) EqualKey(other *Adapter) (bool, error) {
	av, err := a.GetTyped()
	if err != nil {
		return false, err
	}
	bv, err := other.GetTyped()
	if err != nil {
		return false, err
	}
	ak, ok := av.(descriptor.KeyValue)
	if !ok {
		return false, ErrNoKey
	}
	bk, ok := bv.(descriptor.KeyValue)
	if !ok {
		return false, ErrNoKey
	}
	return descriptor.EqualKey(ak, bk), nil
}

// ToUntyped produces a new KindKey adapter carrying only this adapter's key
// hash, with no typed value — the `to_untyped` transition in the
// surrounding state machine. The source adapter is unaffected, since
// transitions never happen in place.
func (a *Adapter) ToUntyped() (*Adapter, error) {
	h, err := a.GetKeyHash()
	if err != nil {
		return nil, err
	}
	out := &Adapter{vtable: a.vtable, kind: KindKey}
	out.installHash(h)
	return out, nil
}

// Print renders the adapter's typed value for diagnostics, via the
// VTable's Print hook when set, or fmt's default formatting otherwise.
func (a *Adapter) Print() string {
	v, err := a.GetTyped()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", a.vtable.TypeName, err)
	}
	if a.vtable.Print != nil {
		return a.vtable.Print(v)
	}
	return fmt.Sprintf("%+v", v)
}

// Free releases any loan reference this adapter holds. Adapters not backed
// by a loan need no explicit release — their storage is ordinary
// Go-garbage-collected memory — but Free is still exposed so that code
// written generically against the function-pointer-table model does not
// need to special-case loaned vs. owned adapters.
func (a *Adapter) Free() {
	if a.loan != nil {
		a.loan.Unref()
		a.loan = nil
	}
}
