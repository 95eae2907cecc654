package commands

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/marmos91/cdrcodec/internal/cdr/stream"
	"github.com/marmos91/cdrcodec/internal/demotype"
	"github.com/marmos91/cdrcodec/sample"
	"github.com/spf13/cobra"
)

var (
	dumpFile string
	dumpType string
)

// registry maps a --type name to the VTable needed to decode it. Real
// bindings would generate one VTable per IDL type; this CLI only knows the
// handful of demonstration types this module ships.
var registry = map[string]*sample.VTable{
	"point": {
		TypeName:      "Point",
		Extensibility: demotype.Point{}.Descriptor().Extensibility,
		Endian:        stream.LittleEndian,
		NewZero:       func() cdr.Streamable { return &demotype.Point{} },
	},
	"profile": {
		TypeName:      "Profile",
		Extensibility: (&demotype.Profile{}).Descriptor().Extensibility,
		Endian:        stream.LittleEndian,
		Requested:     []cdr.Encoding{cdr.EncodingXCDR2},
		NewZero:       func() cdr.Streamable { return &demotype.Profile{} },
	},
	"reading": {
		TypeName:      "Reading",
		Extensibility: (&demotype.Reading{}).Descriptor().Extensibility,
		Endian:        stream.LittleEndian,
		Requested:     []cdr.Encoding{cdr.EncodingXCDR2},
		NewZero:       func() cdr.Streamable { return &demotype.Reading{} },
	},
	"keyedstring": {
		TypeName: "KeyedString",
		Endian:   stream.LittleEndian,
		NewZero:  func() cdr.Streamable { return &demotype.KeyedString{} },
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Decode a sample of a known type and print its fields and key hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		vt, ok := registry[dumpType]
		if !ok {
			return fmt.Errorf("unknown --type %q (known: point, profile, reading, keyedstring)", dumpType)
		}
		buf, err := readInput(dumpFile)
		if err != nil {
			return err
		}

		a := sample.FromWire(vt, sample.KindData, buf)
		typed, err := a.GetTyped()
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Printf("type:  %s\n", vt.TypeName)
		fmt.Printf("value: %v\n", typed)

		if !vt.HasKey(typed) {
			fmt.Println("key:   (none)")
			return nil
		}
		hash, err := a.GetKeyHash()
		if err != nil {
			return fmt.Errorf("key hash: %w", err)
		}
		fmt.Printf("key hash (md5=%v): % x\n", hash.IsMD5, hash.Bytes)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFile, "file", "f", "", "input file (default: stdin)")
	dumpCmd.Flags().StringVarP(&dumpType, "type", "t", "", "registered type name (point|profile|reading|keyedstring)")
	dumpCmd.MarkFlagRequired("type")
}
