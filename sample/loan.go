package sample

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// LoanState tracks whether a loaned buffer currently holds a serialized
// sample or a raw (already-typed, not-yet-serialized) one.
type LoanState uint8

const (
	LoanRaw LoanState = iota
	LoanSerialized
)

// Loan represents storage owned by something outside this package — a
// shared-memory segment, a PSMX plugin's buffer, or any other externally
// managed sample region used for zero-copy publish/subscribe. An Adapter
// built from a Loan holds only a counted, non-owning reference to it; the
// Loan itself decides what happens to its storage once that count reaches
// zero.
type Loan struct {
	// ID correlates this loan across the release callback and any
	// out-of-band PSMX plugin bookkeeping keyed by loan rather than by
	// pointer identity (the Buffer slice header can be copied around; the
	// ID can't).
	ID uuid.UUID

	// Buffer is the loaned storage. When State is LoanSerialized it holds
	// an encapsulated sample (header plus payload); when LoanRaw it holds
	// whatever native layout the loan's allocator used for the typed slot.
	Buffer []byte

	State LoanState

	// CDRIdentifier is meaningful only when State is LoanSerialized: the
	// representation id a from_psmx adapter should resolve the dialect
	// from, mirroring the PSMX construction path's "using the dialect
	// identified by the loan's CDR identifier" rule.
	CDRIdentifier uint16

	// Release is invoked once refCount drops to zero. It is the loan
	// owner's hook to return the storage to whatever pool or shared-memory
	// allocator produced it; nil means the loan needs no explicit release.
	Release func()

	refCount atomic.Int32
}

// NewLoan wraps buf as a loan with an initial reference count of one.
func NewLoan(buf []byte, state LoanState, release func()) *Loan {
	l := &Loan{ID: uuid.New(), Buffer: buf, State: state, Release: release}
	l.refCount.Store(1)
	return l
}

// Retain increments the loan's reference count; callers that hand the same
// Loan to more than one Adapter must call this once per extra reference.
func (l *Loan) Retain() { l.refCount.Add(1) }

// Unref decrements the reference count and invokes Release when it reaches
// zero. Safe to call from any goroutine; callers must not touch Buffer
// after the count reaches zero.
func (l *Loan) Unref() {
	if l.refCount.Add(-1) == 0 && l.Release != nil {
		l.Release()
	}
}
