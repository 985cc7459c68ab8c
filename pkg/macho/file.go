package macho

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// Config controls the optional decode stages.
type Config struct {
	// Strict validates every command against its cmdsize and the header's
	// sizeofcmds.
	Strict bool
	// NoSwap skips the byte-swap stage for files written in the opposite
	// byte order.
	NoSwap bool
}

// A File is a decoded Mach-O file: its header and its load commands in
// file order.
type File struct {
	FileHeader
	Ident    Ident
	Commands []Command
}

// Open opens the named file and decodes it. The file is closed before Open
// returns.
func Open(name string, conf *Config) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", name)
	}
	return m, nil
}

// Decode reads a Mach-O header and all of its load commands from rs.
// A failure anywhere aborts the decode; no partial File is returned.
func Decode(rs io.ReadSeeker, conf *Config) (*File, error) {
	if conf == nil {
		conf = &Config{}
	}

	id, err := Sniff(rs)
	if err != nil {
		return nil, err
	}
	swap := id.Swapped && !conf.NoSwap

	r := NewReader(rs, nil)
	if err := r.SeekTo(0); err != nil {
		return nil, err
	}

	hdr, err := readHeader(r, id)
	if err != nil {
		return nil, &FormatError{Off: 0, Msg: "reading mach header", Err: err}
	}
	if swap {
		hdr.swap()
	}

	log.WithFields(log.Fields{
		"magic": id.Magic,
		"ncmds": hdr.NCommands,
		"size":  hdr.SizeCommands,
		"swap":  swap,
	}).Debug("Parsed header")

	f := &File{FileHeader: hdr, Ident: id}
	if hdr.NCommands > 0 {
		f.Commands = make([]Command, 0, min(hdr.NCommands, 1024))
	}

	var consumed uint64
	for i := uint32(0); i < hdr.NCommands; i++ {
		off, err := r.Offset()
		if err != nil {
			return nil, err
		}

		lc, err := PeekFixed[LoadCommand](r)
		if err != nil {
			return nil, &FormatError{Off: off, Msg: fmt.Sprintf("reading load command %d", i), Err: err}
		}
		if swap {
			lc.swap()
		}

		if err := checkPrefix(lc, off); err != nil {
			return nil, err
		}
		if conf.Strict {
			if err := validateCommand(lc, off, consumed, hdr.SizeCommands); err != nil {
				return nil, err
			}
		}

		cmd, err := DecodeCommand(r, lc.Cmd)
		if err != nil {
			return nil, err
		}
		if swap {
			cmd = SwapBytes(cmd)
		}

		log.WithFields(log.Fields{
			"cmd":    lc.Cmd,
			"kind":   cmd.Kind(),
			"size":   lc.Len,
			"offset": fmt.Sprintf("%#x", off),
		}).Debug("Load command")

		f.Commands = append(f.Commands, cmd)

		if err := r.Skip(int64(lc.Len)); err != nil {
			return nil, err
		}
		consumed += uint64(lc.Len)
	}

	if conf.Strict {
		off, err := r.Offset()
		if err != nil {
			return nil, err
		}
		if err := validateCommands(off, consumed, hdr.SizeCommands); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// LoadsOfKind returns the commands decoded as kind k, in file order.
func (f *File) LoadsOfKind(k Kind) []Command {
	var cmds []Command
	for _, c := range f.Commands {
		if c.Kind() == k {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

// Segments returns the 64-bit segments in file order.
func (f *File) Segments() []*Segment64 {
	var segs []*Segment64
	for _, c := range f.Commands {
		if s, ok := c.(*Segment64); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// Segment returns the first 64-bit segment with the given name, or nil.
func (f *File) Segment(name string) *Segment64 {
	for _, s := range f.Segments() {
		if s.SegName() == name {
			return s
		}
	}
	return nil
}

// VersionMin returns the first minimum OS version command, or nil.
func (f *File) VersionMin() *VersionMinCmd {
	for _, c := range f.Commands {
		if v, ok := c.(*VersionMinCmd); ok {
			return v
		}
	}
	return nil
}

// UUID returns the LC_UUID command, or nil.
func (f *File) UUID() *UUIDCmd {
	for _, c := range f.Commands {
		if u, ok := c.(*UUIDCmd); ok {
			return u
		}
	}
	return nil
}

// EntryPoint returns the LC_MAIN command, or nil.
func (f *File) EntryPoint() *EntryPointCmd {
	for _, c := range f.Commands {
		if e, ok := c.(*EntryPointCmd); ok {
			return e
		}
	}
	return nil
}

// SourceVersion returns the LC_SOURCE_VERSION command, or nil.
func (f *File) SourceVersion() *SourceVersionCmd {
	for _, c := range f.Commands {
		if s, ok := c.(*SourceVersionCmd); ok {
			return s
		}
	}
	return nil
}
