package commands

import (
	"fmt"

	"github.com/marmos91/cdrcodec/cdr"
	"github.com/spf13/cobra"
)

var headerFile string

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Print the resolved dialect, endianness, and extensibility of a sample's encapsulation header",
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := readInput(headerFile)
		if err != nil {
			return err
		}
		h, err := cdr.ReadHeader(buf)
		if err != nil {
			return err
		}
		dialect, endian, ext, err := cdr.ResolveHeader(h)
		if err != nil {
			return err
		}
		fmt.Printf("representation: 0x%04x\n", uint16(h.Representation))
		fmt.Printf("dialect:        %s\n", dialect)
		fmt.Printf("endianness:     %s\n", endian)
		fmt.Printf("extensibility:  %s\n", ext)
		paddedLen := len(buf) - cdr.HeaderSize
		fmt.Printf("padding bytes:  %d\n", h.PaddingCount())
		fmt.Printf("payload bytes:  %d (padded), %d (logical)\n", paddedLen, paddedLen-int(h.PaddingCount()))
		return nil
	},
}

func init() {
	headerCmd.Flags().StringVarP(&headerFile, "file", "f", "", "input file (default: stdin)")
}
