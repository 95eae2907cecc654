package demotype

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/cdr/xcdrv2"
)

// Reading is an appendable type: its members are written in declaration
// order with no per-member framing, but the whole member list is wrapped in
// a D-header so a reader built from an older description (fewer trailing
// members) can skip whatever it doesn't recognize instead of
// misinterpreting it.
type Reading struct {
	SensorID int32
	Celsius  float64
}

var readingDescriptor = &descriptor.Descriptor{
	TypeName:      "Reading",
	Extensibility: descriptor.Appendable,
	Children: []*descriptor.Descriptor{
		{MemberID: 0, Kind: descriptor.KindPrimitive},
		{MemberID: 1, Kind: descriptor.KindPrimitive},
	},
}

func (r *Reading) Descriptor() *descriptor.Descriptor { return readingDescriptor }

func (r *Reading) WriteCDR(s *stream.Stream, dialect cdr.Dialect) {
	if dialect != cdr.DialectXCDRv2 {
		// Appendable has no framing of its own outside XCDR v2;
		// SelectEncoding never picks another dialect for it, but a direct
		// caller bypassing that gets the plain, unframed layout.
		basic.WriteInt32(s, r.SensorID)
		basic.WriteFloat64(s, r.Celsius)
		return
	}
	patch := xcdrv2.WriteDHeader(s)
	start := s.Position()
	basic.WriteInt32(s, r.SensorID)
	basic.WriteFloat64(s, r.Celsius)
	patch(uint32(s.Position() - start))
}

func (r *Reading) ReadCDR(s *stream.Stream, dialect cdr.Dialect) {
	if dialect != cdr.DialectXCDRv2 {
		id, ok := basic.ReadInt32(s)
		if !ok {
			return
		}
		c, ok := basic.ReadFloat64(s)
		if !ok {
			return
		}
		r.SensorID, r.Celsius = id, c
		return
	}

	contentLen, ok := xcdrv2.ReadDHeader(s)
	if !ok {
		return
	}
	contentStart := s.Position()

	id, ok := basic.ReadInt32(s)
	if !ok {
		return
	}
	r.SensorID = id

	if s.Position()-contentStart >= uint64(contentLen) {
		// Older writer, no Celsius field at all: leave it zero and stop
		// before the D-header boundary.
		return
	}
	c, ok := basic.ReadFloat64(s)
	if !ok {
		return
	}
	r.Celsius = c

	xcdrv2.SkipToContentEnd(s, contentStart, contentLen)
}

func (r *Reading) String() string {
	return fmt.Sprintf("Reading{SensorID:%d Celsius:%g}", r.SensorID, r.Celsius)
}
