// Package machotest builds small Mach-O images in memory for tests.
package machotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/go-macho/types"
	"github.com/blacktop/lcdump/pkg/macho"
)

// A Builder assembles a Mach-O header followed by load commands.
type Builder struct {
	Header macho.FileHeader
	Order  binary.ByteOrder

	cmds   []func(binary.ByteOrder) []byte
	ncmds  *uint32
	sizeof *uint32
}

// New returns a Builder for a little-endian executable of the given
// architecture.
func New(arch macho.Arch) *Builder {
	h := macho.NewFileHeader(arch)
	h.Type = types.MH_EXECUTE
	if arch == macho.Arch64 {
		h.CPU = types.CPUArm64
	} else {
		h.CPU = types.CPUArm
	}
	return &Builder{Header: h, Order: binary.LittleEndian}
}

// BigEndian makes the builder write every field big-endian, which a
// little-endian reader sees as a swapped (CIGAM) file.
func (b *Builder) BigEndian() *Builder {
	b.Order = binary.BigEndian
	return b
}

// Add appends rec as a load command. When cmdsize is zero the command is
// exactly rec.Size() bytes; a larger cmdsize pads with zeros and a smaller
// one is written into the prefix as is, with the full record still
// following it.
func (b *Builder) Add(rec macho.Record, cmdsize uint32) *Builder {
	n := rec.Size()
	if cmdsize == 0 {
		cmdsize = uint32(n)
	}
	b.cmds = append(b.cmds, func(o binary.ByteOrder) []byte {
		buf := make([]byte, max(n, int(cmdsize)))
		rec.Put(buf, o)
		o.PutUint32(buf[4:], cmdsize)
		return buf
	})
	return b
}

// Raw appends a command with tag cmd and the given payload after the
// prefix.
func (b *Builder) Raw(cmd macho.LoadCmd, payload []byte) *Builder {
	lc := macho.LoadCommand{Cmd: cmd, Len: uint32(macho.LoadCommandSize + len(payload))}
	b.cmds = append(b.cmds, func(o binary.ByteOrder) []byte {
		buf := make([]byte, lc.Len)
		lc.Put(buf, o)
		copy(buf[macho.LoadCommandSize:], payload)
		return buf
	})
	return b
}

// NCommands overrides the ncmds header field.
func (b *Builder) NCommands(n uint32) *Builder {
	b.ncmds = &n
	return b
}

// SizeCommands overrides the sizeofcmds header field.
func (b *Builder) SizeCommands(n uint32) *Builder {
	b.sizeof = &n
	return b
}

// Bytes returns the encoded image. Commands are encoded in the builder's
// byte order at this point, not when they were added.
func (b *Builder) Bytes() []byte {
	cmds := make([][]byte, len(b.cmds))
	h := b.Header
	h.NCommands = uint32(len(b.cmds))
	h.SizeCommands = 0
	for i, enc := range b.cmds {
		cmds[i] = enc(b.Order)
		h.SizeCommands += uint32(len(cmds[i]))
	}
	if b.ncmds != nil {
		h.NCommands = *b.ncmds
	}
	if b.sizeof != nil {
		h.SizeCommands = *b.sizeof
	}

	var buf bytes.Buffer
	hb := make([]byte, h.Size())
	h.Put(hb, b.Order)
	buf.Write(hb)
	for _, c := range cmds {
		buf.Write(c)
	}
	return buf.Bytes()
}

// Reader returns the encoded image as a seekable reader.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}

// WriteFile writes the encoded image to name in a temporary directory
// owned by tb and returns its path.
func (b *Builder) WriteFile(tb testing.TB, name string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

// Segment64 returns an LC_SEGMENT_64 command named name.
func Segment64(name string, addr, size uint64) *macho.Segment64 {
	s := &macho.Segment64{
		LoadCommand: macho.LoadCommand{Cmd: macho.LoadCmdSegment64, Len: 72},
		Addr:        addr,
		Memsz:       size,
		Filesz:      size,
		Maxprot:     7,
		Prot:        5,
	}
	copy(s.Name[:], name)
	return s
}

// VersionMin returns a minimum OS version command for tag cmd.
func VersionMin(cmd macho.LoadCmd, version, sdk macho.Version) *macho.VersionMinCmd {
	return &macho.VersionMinCmd{
		LoadCommand: macho.LoadCommand{Cmd: cmd, Len: 16},
		Version:     version,
		Sdk:         sdk,
	}
}

// Symtab returns an LC_SYMTAB command.
func Symtab(symoff, nsyms, stroff, strsize uint32) *macho.SymtabCmd {
	return &macho.SymtabCmd{
		LoadCommand: macho.LoadCommand{Cmd: macho.LoadCmdSymtab, Len: 24},
		Symoff:      symoff,
		Nsyms:       nsyms,
		Stroff:      stroff,
		Strsize:     strsize,
	}
}

// UUID returns an LC_UUID command.
func UUID(u macho.UUID) *macho.UUIDCmd {
	return &macho.UUIDCmd{
		LoadCommand: macho.LoadCommand{Cmd: macho.LoadCmdUUID, Len: 24},
		UUID:        u,
	}
}

// Main returns an LC_MAIN command.
func Main(entry, stack uint64) *macho.EntryPointCmd {
	return &macho.EntryPointCmd{
		LoadCommand: macho.LoadCommand{Cmd: macho.LoadCmdMain, Len: 24},
		EntryOffset: entry,
		StackSize:   stack,
	}
}

// Dylib returns a dylib command for tag cmd whose name follows the record.
func Dylib(cmd macho.LoadCmd, current, compat macho.Version) *macho.DylibCmd {
	return &macho.DylibCmd{
		LoadCommand:    macho.LoadCommand{Cmd: cmd, Len: 24},
		Name:           24,
		Time:           2,
		CurrentVersion: current,
		CompatVersion:  compat,
	}
}
