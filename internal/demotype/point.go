// Package demotype provides small, hand-written types exercising the
// codec's three dialects end to end: a final struct with a scalar key
// (Point), a mutable struct with a must-understand key field
// (Profile), and an appendable struct (Reading). These stand in for what an
// IDL-to-binding generator would normally emit.
package demotype

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// Point is a final (non-extensible) type with a single int32 key, a bounded
// string, and an unbounded sequence of int32: primitive, string, and
// sequence shapes all in one type.
type Point struct {
	ID     int32
	Name   string
	Values []int32
}

// NameBound is Point.Name's declared maximum length, excluding the null.
const NameBound = 5

var pointDescriptor = &descriptor.Descriptor{
	TypeName:      "Point",
	Extensibility: descriptor.Final,
	Children: []*descriptor.Descriptor{
		{MemberID: 0, Key: true, Kind: descriptor.KindPrimitive},
		{MemberID: 1, Kind: descriptor.KindString, Bound: NameBound},
		{MemberID: 2, Kind: descriptor.KindSequence, Bound: 0},
	},
}

// Descriptor implements cdr.Streamable.
func (p *Point) Descriptor() *descriptor.Descriptor { return pointDescriptor }

// WriteCDR implements cdr.Streamable. Point is final, so its layout is the
// same in every dialect; only the stream's own alignment cap (set by the
// caller from the negotiated dialect) differs between them.
func (p *Point) WriteCDR(s *stream.Stream, _ cdr.Dialect) {
	basic.WriteInt32(s, p.ID)
	basic.WriteString(s, NameBound, p.Name)
	basic.WriteSequenceHeader(s, 0, uint32(len(p.Values)))
	for _, v := range p.Values {
		basic.WriteInt32(s, v)
	}
}

// ReadCDR implements cdr.Streamable.
func (p *Point) ReadCDR(s *stream.Stream, _ cdr.Dialect) {
	id, ok := basic.ReadInt32(s)
	if !ok {
		return
	}
	name, ok := basic.ReadString(s, NameBound)
	if !ok {
		return
	}
	count, ok := basic.ReadSequenceHeader(s, 0)
	if !ok {
		return
	}
	values := make([]int32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, ok := basic.ReadInt32(s)
		if !ok {
			return
		}
		values = append(values, v)
	}
	p.ID, p.Name, p.Values = id, name, values
}

// WriteSortedKey implements cdr.KeyStreamable: Point's only key member is
// ID, so sorted-key mode is simply its big-endian encoding.
func (p *Point) WriteSortedKey(s *stream.Stream) {
	basic.WriteInt32(s, p.ID)
}

// KeyFields implements descriptor.KeyValue for sample.Adapter.EqualKey.
func (p *Point) KeyFields() []any { return []any{p.ID} }

func (p *Point) String() string {
	return fmt.Sprintf("Point{ID:%d Name:%q Values:%v}", p.ID, p.Name, p.Values)
}
