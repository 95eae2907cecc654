package demotype

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/basic"
	"github.com/marmos91/cdrcodec/internal/cdr/descriptor"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
)

// KeyedString is a final type whose sole member is also its key: a string
// with no declared bound. It exists to exercise the key-hash MD5 branch,
// whose sorted-key serialization (length prefix plus payload) commonly
// exceeds 16 bytes even for short strings.
type KeyedString struct {
	ID string
}

var keyedStringDescriptor = &descriptor.Descriptor{
	TypeName:      "KeyedString",
	Extensibility: descriptor.Final,
	Children: []*descriptor.Descriptor{
		{MemberID: 0, Key: true, Kind: descriptor.KindString},
	},
}

func (k *KeyedString) Descriptor() *descriptor.Descriptor { return keyedStringDescriptor }

func (k *KeyedString) WriteCDR(s *stream.Stream, _ cdr.Dialect) {
	basic.WriteString(s, 0, k.ID)
}

func (k *KeyedString) ReadCDR(s *stream.Stream, _ cdr.Dialect) {
	v, ok := basic.ReadString(s, 0)
	if !ok {
		return
	}
	k.ID = v
}

func (k *KeyedString) WriteSortedKey(s *stream.Stream) {
	basic.WriteString(s, 0, k.ID)
}

func (k *KeyedString) KeyFields() []any { return []any{k.ID} }

func (k *KeyedString) String() string { return fmt.Sprintf("KeyedString{ID:%q}", k.ID) }
