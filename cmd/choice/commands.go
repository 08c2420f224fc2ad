package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/bitwire-runtime/bitstream"
	"github.com/wippyai/bitwire-runtime/gen/pmr"
)

func newEncodeCmd() *cobra.Command {
	var (
		tag   bool
		value int64
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a value under a discriminant",
		Example: `  choice encode --tag=true --value=-5
  choice encode --tag=false --value=300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := encodeValue(tag, value)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "alternative: %s\n", enc.alternative)
			fmt.Fprintf(out, "hex: %x\n", enc.data)
			fmt.Fprintf(out, "bits: %d\n", enc.bits)
			return nil
		},
	}
	cmd.Flags().BoolVar(&tag, "tag", true, "Discriminant (true selects valueA int8, false selects valueB int16)")
	cmd.Flags().Int64Var(&value, "value", 0, "Payload value")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var (
		tag    bool
		hexStr string
		pages  uint32
	)
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode hex bytes under a discriminant",
		Example: `  choice decode --tag=true --hex=fb
  choice decode --tag=false --hex=012c --linear-pages=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := decodeHex(cmd.Context(), tag, hexStr, pages)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "alternative: %s\n", dec.alternative)
			fmt.Fprintf(out, "value: %d\n", dec.value)
			fmt.Fprintf(out, "bits consumed: %d\n", dec.consumed)
			fmt.Fprintf(out, "trailing bits: %d\n", dec.trailing)
			if dec.canonical != nil {
				fmt.Fprintf(out, "canonical @%d: % x\n", dec.offset, dec.canonical)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tag, "tag", true, "Discriminant used when the bytes were written")
	cmd.Flags().StringVar(&hexStr, "hex", "", "Encoded bytes as hex")
	cmd.Flags().Uint32Var(&pages, "linear-pages", 0, "Also place the Canonical ABI image in a wazero linear memory of this many pages")
	_ = cmd.MarkFlagRequired("hex")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the WIT declaration and Canonical ABI layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := pmr.BoolParamChoiceSchema()
			lay := schema.Layout()

			var b strings.Builder
			b.WriteString(schema.WIT())
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "size: %d\nalign: %d\ndiscriminant: %d byte(s)\npayload offset: %d\n",
				lay.Size, lay.Align, lay.DiscSize, lay.PayloadOffset)
			for i, c := range lay.Cases {
				alt, _ := schema.Alternative(i)
				fmt.Fprintf(&b, "  [%d] %s %s: size %d, align %d\n", i, c.Name, alt.SchemaType(), c.Size, c.Align)
			}
			b.WriteString("\n")
			for _, tag := range []bool{true, false} {
				enc, err := encodeValue(tag, 0)
				if err != nil {
					return err
				}
				fmt.Fprintf(&b, "tag %v selects %s: %d bits on the wire (%d bytes)\n",
					tag, enc.alternative, enc.bits, bitstream.ByteLen(enc.bits))
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
