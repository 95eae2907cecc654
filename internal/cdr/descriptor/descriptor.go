// Package descriptor defines the compile-time-derived metadata that every
// non-primitive field carries at runtime: member id, extensibility,
// must-understand/optional/key flags, enum bit-bound, and the ordered list
// of child descriptors for constructed types. An IDL-to-binding generator
// (out of scope here) would normally emit one of these per user type; this
// package only defines the shape and the handful of operations that work
// directly off it without invoking the full codec — in particular EqualKey.
package descriptor

// Extensibility controls how a constructed type may evolve on the wire.
type Extensibility uint8

const (
	Final Extensibility = iota
	Appendable
	Mutable
)

func (e Extensibility) String() string {
	switch e {
	case Final:
		return "final"
	case Appendable:
		return "appendable"
	case Mutable:
		return "mutable"
	default:
		return "unknown"
	}
}

// BitBound is the wire width of an enum's underlying integer, used by XCDR
// v2 to pick 8/16/32-bit encoding outside of keys.
type BitBound uint8

const (
	BitBound8  BitBound = 8
	BitBound16 BitBound = 16
	BitBound32 BitBound = 32
)

// Descriptor is the static, process-wide metadata for one field or one
// constructed type. Descriptors are built once (by generated code, or by
// hand for tests) and never mutated; a type's Descriptor method returns the
// same shared one for every value of that type.
type Descriptor struct {
	// TypeName is a human-readable name used in logs and fault messages;
	// it plays no role in wire compatibility.
	TypeName string

	// MemberID is the stable numeric id used in PID/EM headers. Meaningless
	// for the top-level type descriptor itself.
	MemberID uint32

	// Extensibility applies to constructed types; primitive field
	// descriptors inherit their enclosing type's value for header framing
	// decisions but do not interpret it themselves.
	Extensibility Extensibility

	// MustUnderstand, if set on a mutable field not recognized by the
	// reader, causes the whole sample to be rejected.
	MustUnderstand bool

	// Optional fields may be absent; presence is indicated on the wire.
	Optional bool

	// Key marks that this field participates in the instance key.
	Key bool

	// BitBound is only meaningful when Kind is KindEnum.
	BitBound BitBound

	// Kind distinguishes primitive scalars from constructed/container
	// shapes so that descriptor-only operations like EqualKey can recurse
	// without needing the full codec.
	Kind Kind

	// Bound is the declared maximum length for KindString/KindSequence (0
	// means unbounded); for KindArray it is the fixed element count.
	Bound uint32

	// Children holds, in declaration order, the descriptors of a
	// constructed type's members.
	Children []*Descriptor
}

// Kind enumerates the shapes a descriptor can describe.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindEnum
	KindString
	KindSequence
	KindArray
	KindStruct
	KindUnion
)

// KeyValue is satisfied by any concrete type whose fields EqualKey can read
// generically; generated per-type code provides KeyFields, a flat list of
// this type's @key member values in descriptor order, without invoking the
// wire codec at all.
type KeyValue interface {
	KeyFields() []any
}

// EqualKey compares only the @key members of a and b, recursively,
// independent of serialization; it never invokes the wire codec, just
// compares key-tagged fields directly.
func EqualKey(a, b KeyValue) bool {
	af, bf := a.KeyFields(), b.KeyFields()
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if !equalKeyValue(af[i], bf[i]) {
			return false
		}
	}
	return true
}

func equalKeyValue(a, b any) bool {
	if ak, ok := a.(KeyValue); ok {
		bk, ok := b.(KeyValue)
		return ok && EqualKey(ak, bk)
	}
	if as, ok := a.([]byte); ok {
		bs, ok := b.([]byte)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
