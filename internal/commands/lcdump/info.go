package lcdump

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/blacktop/lcdump/internal/colors"
	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/dustin/go-humanize"
)

var (
	colorField   = colors.BoldBlue().SprintFunc()
	colorCmd     = colors.HiMagenta().SprintFunc()
	colorKind    = colors.Faint().SprintFunc()
	colorUnknown = colors.FaintYellow().SprintFunc()
	colorName    = colors.BoldHiGreen().SprintFunc()
)

// InfoConfig selects what Info prints.
type InfoConfig struct {
	Header       bool
	LoadCommands bool
	Verbose      bool
}

// Info prints the header and load commands of f.
func Info(w io.Writer, name string, f *macho.File, conf *InfoConfig) error {
	if conf == nil {
		conf = &InfoConfig{Header: true, LoadCommands: true}
	}

	if name != "" {
		fmt.Fprintf(w, "%s\n\n", colorName(name))
	}

	if conf.Header {
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s\n", colorField("Magic"), f.Magic)
		if f.Ident.Swapped {
			fmt.Fprintf(tw, "%s\t%s\n", colorField("Byte Order"), f.Ident.ByteOrder())
		}
		fmt.Fprintf(tw, "%s\t%s\n", colorField("Type"), f.Type)
		fmt.Fprintf(tw, "%s\t%s, %s\n", colorField("CPU"), f.CPU, f.SubCPU.String(f.CPU))
		fmt.Fprintf(tw, "%s\t%d (%s)\n", colorField("Commands"), f.NCommands, humanize.Bytes(uint64(f.SizeCommands)))
		fmt.Fprintf(tw, "%s\t%s\n", colorField("Flags"), strings.Join(f.Flags.Flags(), ", "))
		fmt.Fprintf(tw, "%s\t%d\n", colorField("Segments"), len(f.LoadsOfKind(macho.KindSegment64)))
		if n := len(f.LoadsOfKind(macho.KindNone)); n > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", colorField("Undecoded"), n)
		}
		if text := f.Segment("__TEXT"); text != nil {
			fmt.Fprintf(tw, "%s\t%#x\n", colorField("Base Address"), text.Addr)
		}
		if e := f.EntryPoint(); e != nil {
			fmt.Fprintf(tw, "%s\t%#x\n", colorField("Entry Offset"), e.EntryOffset)
		}
		if v := f.VersionMin(); v != nil {
			fmt.Fprintf(tw, "%s\t%s (SDK %s)\n", colorField("Min OS"), v.Version, v.Sdk)
		}
		if sv := f.SourceVersion(); sv != nil {
			fmt.Fprintf(tw, "%s\t%s\n", colorField("Source Version"), sv.Version)
		}
		if u := f.UUID(); u != nil {
			fmt.Fprintf(tw, "%s\t%s\n", colorField("UUID"), u.UUID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if !conf.LoadCommands {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range f.Commands {
		desc := describe(c, conf.Verbose)
		tag := colorCmd(c.Command())
		if c.Kind() == macho.KindNone {
			tag = colorUnknown(c.Command())
		}
		fmt.Fprintf(tw, "%03d:\t%s\t%s\t%s\t%s\n",
			i,
			tag,
			colorKind(c.Kind()),
			humanize.IBytes(uint64(c.LoadSize())),
			desc,
		)
	}
	return tw.Flush()
}

// describe returns the one-line summary of c.
func describe(c macho.Command, verbose bool) string {
	switch c := c.(type) {
	case *macho.NoPayload:
		if verbose {
			return fmt.Sprintf("cmdsize=%d (not decoded)", c.LoadSize())
		}
		return ""
	case *macho.Segment64:
		if verbose {
			return fmt.Sprintf("%s memsz=%s filesz=%s", c, humanize.IBytes(c.Memsz), humanize.IBytes(c.Filesz))
		}
		return c.String()
	case fmt.Stringer:
		return c.String()
	default:
		return ""
	}
}
