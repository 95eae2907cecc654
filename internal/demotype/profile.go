package demotype

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/cdr/xcdrv1"
	"github.com/marmos91/cdrcodec/internal/cdr/xcdrv2"
)

// Profile is a mutable type: ID is must-understand (a reader that doesn't
// recognize it must reject the whole sample), Bio is not. An older reader
// that doesn't know about Bio skips it silently, but one that doesn't know
// about a hypothetical must-understand field would abort.
type Profile struct {
	ID  int32
	Bio string
}

const (
	profileMemberID  uint32 = 0
	profileMemberBio uint32 = 1
)

var profileDescriptor = &descriptor.Descriptor{
	TypeName:      "Profile",
	Extensibility: descriptor.Mutable,
	Children: []*descriptor.Descriptor{
		{MemberID: profileMemberID, Key: true, MustUnderstand: true, Kind: descriptor.KindPrimitive},
		{MemberID: profileMemberBio, Kind: descriptor.KindString},
	},
}

func (p *Profile) Descriptor() *descriptor.Descriptor { return profileDescriptor }

func (p *Profile) WriteCDR(s *stream.Stream, dialect cdr.Dialect) {
	switch dialect {
	case cdr.DialectXCDRv2:
		patch := xcdrv2.WriteDHeader(s)
		contentStart := s.Position()

		idPatch := xcdrv2.WriteMemberHeader(s, profileMemberID, true, 4)
		basic.WriteInt32(s, p.ID)
		idPatch(4)

		bioPatch := xcdrv2.WriteMemberHeader(s, profileMemberBio, false, 0)
		bioStart := s.Position()
		basic.WriteString(s, 0, p.Bio)
		bioPatch(uint32(s.Position() - bioStart))

		patch(uint32(s.Position() - contentStart))
	default: // XCDR v1 (and, defensively, basic — mutable types never pick it)
		idPatch := xcdrv1.WriteFieldHeader(s, profileMemberID, true, 4)
		idStart := s.Position()
		basic.WriteInt32(s, p.ID)
		idPatch(uint32(s.Position() - idStart))

		bioPatch := xcdrv1.WriteFieldHeader(s, profileMemberBio, false, xcdrv1.UnknownLength)
		bioStart := s.Position()
		basic.WriteString(s, 0, p.Bio)
		bioPatch(uint32(s.Position() - bioStart))

		xcdrv1.WriteListEnd(s)
	}
}

func (p *Profile) ReadCDR(s *stream.Stream, dialect cdr.Dialect) {
	switch dialect {
	case cdr.DialectXCDRv2:
		p.readV2(s)
	default:
		p.readV1(s)
	}
}

func (p *Profile) readV1(s *stream.Stream) {
	for {
		h, ok := xcdrv1.ReadFieldHeader(s)
		if !ok {
			return
		}
		if h.IsListEnd {
			return
		}
		switch h.MemberID {
		case profileMemberID:
			v, ok := basic.ReadInt32(s)
			if !ok {
				return
			}
			p.ID = v
		case profileMemberBio:
			v, ok := basic.ReadString(s, 0)
			if !ok {
				return
			}
			p.Bio = v
		default:
			if h.MustUnderstand {
				s.Raise(stream.IllegalFieldValue)
				return
			}
			xcdrv1.SkipField(s, h)
		}
	}
}

func (p *Profile) readV2(s *stream.Stream) {
	contentLen, ok := xcdrv2.ReadDHeader(s)
	if !ok {
		return
	}
	contentStart := s.Position()
	contentEnd := contentStart + uint64(contentLen)

	for s.Position() < contentEnd {
		h, ok := xcdrv2.ReadMemberHeader(s)
		if !ok {
			return
		}
		switch h.MemberID {
		case profileMemberID:
			v, ok := basic.ReadInt32(s)
			if !ok {
				return
			}
			p.ID = v
		case profileMemberBio:
			v, ok := basic.ReadString(s, 0)
			if !ok {
				return
			}
			p.Bio = v
		default:
			if h.MustUnderstand {
				s.Raise(stream.IllegalFieldValue)
				return
			}
			xcdrv2.SkipMember(s, h)
		}
	}
}

func (p *Profile) WriteSortedKey(s *stream.Stream) {
	basic.WriteInt32(s, p.ID)
}

func (p *Profile) KeyFields() []any { return []any{p.ID} }

func (p *Profile) String() string {
	return fmt.Sprintf("Profile{ID:%d Bio:%q}", p.ID, p.Bio)
}
