package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/celldag/archive"
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/compress"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
	"github.com/arloliu/celldag/internal/collision"
	"github.com/arloliu/celldag/section"
)

// cellRoot is one deserialized root with its position in the bag.
type cellRoot struct {
	index int
	cell  *cell.Cell
}

func deserializeRoots(boc []byte) ([]*cellRoot, error) {
	cells, err := cell.Deserialize(boc)
	if err != nil {
		return nil, err
	}

	roots := make([]*cellRoot, len(cells))
	for i, c := range cells {
		roots[i] = &cellRoot{index: i, cell: c}
	}

	return roots, nil
}

func rootCells(roots []*cellRoot) []*cell.Cell {
	out := make([]*cell.Cell, len(roots))
	for i, r := range roots {
		out[i] = r.cell
	}

	return out
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "`inspect` prints the header, root hashes and cell tree of a bag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boc, roots, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			h, _, err := section.ParseBOCHeader(boc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "magic:  0x%08X\n", h.Magic)
			fmt.Fprintf(w, "cells:  %d\n", h.CellCount)
			fmt.Fprintf(w, "roots:  %d\n", h.RootCount)
			if unique := trackCells(roots); unique.HasCollision() {
				fmt.Fprintf(w, "unique: %d (fingerprint collision)\n", unique.Count())
			} else {
				fmt.Fprintf(w, "unique: %d\n", unique.Count())
			}
			fmt.Fprintf(w, "size:   %d bytes (records %d)\n", len(boc), h.TotalCellsSize)
			fmt.Fprintf(w, "index:  %t\n", h.HasIndex())
			fmt.Fprintf(w, "crc32c: %t\n", h.HasCRC32C())
			for _, r := range roots {
				fmt.Fprintf(w, "\nroot %d\n", r.index)
				fmt.Fprintf(w, "  hash:  %s\n", hex.EncodeToString(hashOf(r.cell)))
				fmt.Fprintf(w, "  depth: %d\n", r.cell.Depth())
				fmt.Fprintf(w, "  type:  %s\n", r.cell.Type())
				fmt.Fprintln(w, indent(r.cell.String(), "  "))
			}

			return nil
		},
	}
}

// trackCells walks the DAG under roots, tracking every distinct cell hash.
func trackCells(roots []*cellRoot) *collision.Tracker {
	tracker := collision.NewTracker()

	var walk func(c *cell.Cell)
	walk = func(c *cell.Cell) {
		if _, existed := tracker.Track(c.Hash()); existed {
			return
		}
		for _, ref := range c.Refs() {
			walk(ref)
		}
	}
	for _, r := range roots {
		walk(r.cell)
	}

	return tracker
}

func hashOf(c *cell.Cell) []byte {
	h := c.Hash()
	return h[:]
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func newHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [file|-]",
		Short: "`hash` prints the representation hash of every root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, roots, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			for _, r := range roots {
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(hashOf(r.cell)))
			}

			return nil
		},
	}
}

// render writes roots in the named output format. "boc" writes raw bytes.
func (a *app) render(w io.Writer, output string, roots []*cellRoot, to string) error {
	if to == "boc" {
		boc, err := cell.Serialize(rootCells(roots), a.cfg.BOC.serializeOptions()...)
		if err != nil {
			return err
		}

		return writeOutput(w, output, boc)
	}

	f, err := format.ParseTextFormat(to)
	if err != nil {
		return err
	}

	var sb strings.Builder
	switch f {
	case format.FiftHex, format.FiftBin:
		for _, r := range roots {
			s, err := r.cell.ToString(f)
			if err != nil {
				return err
			}
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	default:
		boc, err := cell.Serialize(rootCells(roots), a.cfg.BOC.serializeOptions()...)
		if err != nil {
			return err
		}
		s, err := encodeText(boc, f)
		if err != nil {
			return err
		}
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	return writeOutput(w, output, []byte(sb.String()))
}

func encodeText(boc []byte, f format.TextFormat) (string, error) {
	switch f {
	case format.Hex:
		return hex.EncodeToString(boc), nil
	case format.Base64:
		return base64.StdEncoding.EncodeToString(boc), nil
	case format.Base64URL:
		return base64.URLEncoding.EncodeToString(boc), nil
	default:
		return "", fmt.Errorf("%w: %s for a bag of cells", errs.ErrUnsupportedFormat, f)
	}
}

func newConvertCmd(a *app) *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "`convert` rewrites a bag of cells in another format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, roots, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			a.applyBOCFlags(cmd)

			return a.render(cmd.OutOrStdout(), output, roots, to)
		},
	}
	addBOCFlags(cmd)
	cmd.Flags().StringVarP(&to, "to", "t", "base64", "output format: boc, hex, base64, base64url, fift-hex, fift-bin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func addBOCFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("index", false, "write the offset index (overrides config)")
	cmd.Flags().Bool("crc32c", true, "write the crc32c trailer (overrides config)")
	cmd.Flags().Bool("cache-bits", false, "write cache bits, implies --index (overrides config)")
}

// applyBOCFlags copies explicitly set serializer flags over the config.
func (a *app) applyBOCFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("index") {
		a.cfg.BOC.Index, _ = flags.GetBool("index")
	}
	if flags.Changed("crc32c") {
		a.cfg.BOC.CRC32C, _ = flags.GetBool("crc32c")
	}
	if flags.Changed("cache-bits") {
		a.cfg.BOC.CacheBits, _ = flags.GetBool("cache-bits")
	}
}

func newPackCmd(a *app) *cobra.Command {
	var compression, output string

	cmd := &cobra.Command{
		Use:   "pack [file|-]",
		Short: "`pack` wraps a bag of cells in a compressed archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, roots, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			a.applyBOCFlags(cmd)

			name := a.cfg.Archive.Compression
			if cmd.Flags().Changed("compression") {
				name = compression
			}
			ct, err := format.ParseCompressionType(name)
			if err != nil {
				return err
			}

			boc, err := cell.Serialize(rootCells(roots), a.cfg.BOC.serializeOptions()...)
			if err != nil {
				return err
			}
			packed, err := archive.Pack(boc, archive.WithCompression(ct))
			if err != nil {
				return err
			}

			stats := compress.NewStats(ct, len(boc), len(packed))
			a.log.WithFields(logrus.Fields{
				"compression": ct.String(),
				"original":    stats.OriginalSize,
				"packed":      stats.CompressedSize,
				"savings":     fmt.Sprintf("%.1f%%", stats.SpaceSavings()),
			}).Info("packed bag of cells")

			return writeOutput(cmd.OutOrStdout(), output, packed)
		},
	}
	addBOCFlags(cmd)
	cmd.Flags().StringVar(&compression, "compression", "zstd", "compression: none, zstd, s2, lz4 (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func newUnpackCmd(a *app) *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "unpack [file|-]",
		Short: "`unpack` restores the bag of cells inside an archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			h, err := archive.Inspect(data)
			if err != nil {
				return err
			}
			raw, err := archive.Unpack(data)
			if err != nil {
				return err
			}
			roots, err := deserializeRoots(raw)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"compression": h.Compression.String(),
				"original":    h.OriginalSize,
				"roots":       len(roots),
			}).Info("unpacked archive")

			if to == "boc" {
				return writeOutput(cmd.OutOrStdout(), output, raw)
			}

			return a.render(cmd.OutOrStdout(), output, roots, to)
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "boc", "output format: boc, hex, base64, base64url, fift-hex, fift-bin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
