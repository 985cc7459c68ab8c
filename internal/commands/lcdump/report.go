// Package lcdump renders decoded Mach-O load commands for the lcdump CLI.
package lcdump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/blacktop/lcdump/pkg/macho"
)

const (
	sdkVersionLine  = "MacOS SDK Version : %s\n"
	segmentNameLine = "Data Segment Name : %s\n"
)

// Report writes one line per minimum OS version command and one line per
// 64-bit segment, in command order. Every other command is skipped.
func Report(w io.Writer, cmds []macho.Command) error {
	bw := bufio.NewWriter(w)
	for _, c := range cmds {
		switch c := c.(type) {
		case *macho.VersionMinCmd:
			fmt.Fprintf(bw, sdkVersionLine, c.Version)
		case *macho.Segment64:
			fmt.Fprintf(bw, segmentNameLine, c.SegName())
		}
	}
	return bw.Flush()
}
