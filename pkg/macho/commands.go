package macho

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// LoadCommandSize is the size of the prefix shared by every load command.
const LoadCommandSize = 8

// A LoadCommand is the prefix every load command starts with: its tag and
// its total size in bytes, prefix included.
type LoadCommand struct {
	Cmd LoadCmd
	Len uint32
}

func (l *LoadCommand) Size() int { return LoadCommandSize }

func (l *LoadCommand) Decode(b []byte, o binary.ByteOrder) {
	l.Cmd = LoadCmd(o.Uint32(b[0:]))
	l.Len = o.Uint32(b[4:])
}

func (l *LoadCommand) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[0:], uint32(l.Cmd))
	o.PutUint32(b[4:], l.Len)
	return LoadCommandSize
}

// Command returns the load command tag.
func (l LoadCommand) Command() LoadCmd { return l.Cmd }

// LoadSize returns cmdsize, the number of bytes the command occupies.
func (l LoadCommand) LoadSize() uint32 { return l.Len }

// decodeWords decodes consecutive uint32 fields that follow the prefix.
func decodeWords(b []byte, o binary.ByteOrder, ws ...*uint32) {
	for i, w := range ws {
		*w = o.Uint32(b[LoadCommandSize+4*i:])
	}
}

func putWords(b []byte, o binary.ByteOrder, ws ...uint32) int {
	for i, w := range ws {
		o.PutUint32(b[LoadCommandSize+4*i:], w)
	}
	return LoadCommandSize + 4*len(ws)
}

// VmProtection is a set of VM protection bits.
type VmProtection int32

func (v VmProtection) Read() bool    { return (v & 0x01) != 0 }
func (v VmProtection) Write() bool   { return (v & 0x02) != 0 }
func (v VmProtection) Execute() bool { return (v & 0x04) != 0 }

func (v VmProtection) String() string {
	var sb strings.Builder
	for _, p := range []struct {
		set bool
		c   byte
	}{{v.Read(), 'r'}, {v.Write(), 'w'}, {v.Execute(), 'x'}} {
		if p.set {
			sb.WriteByte(p.c)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func (v VmProtection) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

type (
	// A Segment32 is a 32-bit Mach-O segment load command.
	Segment32 struct {
		LoadCommand              // LC_SEGMENT
		Name        [16]byte     // segment name
		Addr        uint32       // memory address of this segment
		Memsz       uint32       // memory size of this segment
		Offset      uint32       // file offset of this segment
		Filesz      uint32       // amount to map from the file
		Maxprot     VmProtection // maximum VM protection
		Prot        VmProtection // initial VM protection
		Nsect       uint32       // number of sections in segment
		Flag        uint32       // flags
	}

	// A Segment64 is a 64-bit Mach-O segment load command.
	Segment64 struct {
		LoadCommand              // LC_SEGMENT_64
		Name        [16]byte     // segment name
		Addr        uint64       // memory address of this segment
		Memsz       uint64       // memory size of this segment
		Offset      uint64       // file offset of this segment
		Filesz      uint64       // amount to map from the file
		Maxprot     VmProtection // maximum VM protection
		Prot        VmProtection // initial VM protection
		Nsect       uint32       // number of sections in segment
		Flag        uint32       // flags
	}

	// A SymtabCmd is a Mach-O symbol table command.
	SymtabCmd struct {
		LoadCommand // LC_SYMTAB
		Symoff      uint32
		Nsyms       uint32
		Stroff      uint32
		Strsize     uint32
	}

	// A DysymtabCmd is a Mach-O dynamic symbol table command.
	DysymtabCmd struct {
		LoadCommand    // LC_DYSYMTAB
		Ilocalsym      uint32
		Nlocalsym      uint32
		Iextdefsym     uint32
		Nextdefsym     uint32
		Iundefsym      uint32
		Nundefsym      uint32
		Tocoffset      uint32
		Ntoc           uint32
		Modtaboff      uint32
		Nmodtab        uint32
		Extrefsymoff   uint32
		Nextrefsyms    uint32
		Indirectsymoff uint32
		Nindirectsyms  uint32
		Extreloff      uint32
		Nextrel        uint32
		Locreloff      uint32
		Nlocrel        uint32
	}

	// A RoutinesCmd is a Mach-O 32-bit image routines command.
	RoutinesCmd struct {
		LoadCommand // LC_ROUTINES
		InitAddress uint32 // address of initialization routine
		InitModule  uint32 // index into the module table the init routine is defined in
		Reserved1   uint32
		Reserved2   uint32
		Reserved3   uint32
		Reserved4   uint32
		Reserved5   uint32
		Reserved6   uint32
	}

	// A Routines64Cmd is a Mach-O 64-bit image routines command.
	Routines64Cmd struct {
		LoadCommand // LC_ROUTINES_64
		InitAddress uint64
		InitModule  uint64
		Reserved1   uint64
		Reserved2   uint64
		Reserved3   uint64
		Reserved4   uint64
		Reserved5   uint64
		Reserved6   uint64
	}

	// A DylibCmd is a Mach-O dynamic library command. It is shared by the
	// load, id, weak-load and re-export dylib tags.
	DylibCmd struct {
		LoadCommand
		Name           uint32 // offset of the path name from the start of the command
		Time           uint32
		CurrentVersion Version
		CompatVersion  Version
	}

	// A DylinkerCmd identifies a dynamic linker, or carries a dyld
	// environment string.
	DylinkerCmd struct {
		LoadCommand        // LC_ID_DYLINKER, LC_LOAD_DYLINKER or LC_DYLD_ENVIRONMENT
		Name        uint32 // offset of the string from the start of the command
	}

	// A UUIDCmd is a Mach-O uuid load command contains a single
	// 128-bit unique random number that identifies an object produced
	// by the static link editor.
	UUIDCmd struct {
		LoadCommand // LC_UUID
		UUID        UUID
	}

	// A SourceVersionCmd is a Mach-O source version command.
	SourceVersionCmd struct {
		LoadCommand            // LC_SOURCE_VERSION
		Version     SrcVersion // A.B.C.D.E packed as a24.b10.c10.d10.e10
	}

	// A VersionMinCmd holds the minimum OS version the binary was built
	// to run on.
	VersionMinCmd struct {
		LoadCommand         // LC_VERSION_MIN_MACOSX or LC_VERSION_MIN_IPHONEOS
		Version     Version // X.Y.Z is encoded in nibbles xxxx.yy.zz
		Sdk         Version // X.Y.Z is encoded in nibbles xxxx.yy.zz
	}

	// A LinkEditDataCmd points at a blob of data in the __LINKEDIT segment.
	LinkEditDataCmd struct {
		LoadCommand
		Offset   uint32 // file offset of data in __LINKEDIT segment
		DataSize uint32 // file size of data in __LINKEDIT segment
	}

	// A DyldInfoCmd holds the offsets and sizes of the compressed dyld
	// information.
	DyldInfoCmd struct {
		LoadCommand         // LC_DYLD_INFO_ONLY
		RebaseOff    uint32 // file offset to rebase info
		RebaseSize   uint32 // size of rebase info
		BindOff      uint32 // file offset to binding info
		BindSize     uint32 // size of binding info
		WeakBindOff  uint32 // file offset to weak binding info
		WeakBindSize uint32 // size of weak binding info
		LazyBindOff  uint32 // file offset to lazy binding info
		LazyBindSize uint32 // size of lazy binding info
		ExportOff    uint32 // file offset to export info
		ExportSize   uint32 // size of export info
	}

	// An EntryPointCmd is a Mach-O main command.
	EntryPointCmd struct {
		LoadCommand        // LC_MAIN
		EntryOffset uint64 // file (__TEXT) offset of main()
		StackSize   uint64 // if not zero, initial stack size
	}

	// NoPayload stands in for every tag the dispatcher does not decode.
	// Only the prefix is kept.
	NoPayload struct {
		LoadCommand
	}
)

/*******************************************************************************
 * Wire layouts
 *******************************************************************************/

func (s *Segment32) Size() int { return 56 }

func (s *Segment32) Decode(b []byte, o binary.ByteOrder) {
	s.LoadCommand.Decode(b, o)
	copy(s.Name[:], b[8:24])
	s.Addr = o.Uint32(b[24:])
	s.Memsz = o.Uint32(b[28:])
	s.Offset = o.Uint32(b[32:])
	s.Filesz = o.Uint32(b[36:])
	s.Maxprot = VmProtection(o.Uint32(b[40:]))
	s.Prot = VmProtection(o.Uint32(b[44:]))
	s.Nsect = o.Uint32(b[48:])
	s.Flag = o.Uint32(b[52:])
}

func (s *Segment32) Put(b []byte, o binary.ByteOrder) int {
	s.LoadCommand.Put(b, o)
	copy(b[8:24], s.Name[:])
	o.PutUint32(b[24:], s.Addr)
	o.PutUint32(b[28:], s.Memsz)
	o.PutUint32(b[32:], s.Offset)
	o.PutUint32(b[36:], s.Filesz)
	o.PutUint32(b[40:], uint32(s.Maxprot))
	o.PutUint32(b[44:], uint32(s.Prot))
	o.PutUint32(b[48:], s.Nsect)
	o.PutUint32(b[52:], s.Flag)
	return s.Size()
}

func (s *Segment64) Size() int { return 72 }

func (s *Segment64) Decode(b []byte, o binary.ByteOrder) {
	s.LoadCommand.Decode(b, o)
	copy(s.Name[:], b[8:24])
	s.Addr = o.Uint64(b[24:])
	s.Memsz = o.Uint64(b[32:])
	s.Offset = o.Uint64(b[40:])
	s.Filesz = o.Uint64(b[48:])
	s.Maxprot = VmProtection(o.Uint32(b[56:]))
	s.Prot = VmProtection(o.Uint32(b[60:]))
	s.Nsect = o.Uint32(b[64:])
	s.Flag = o.Uint32(b[68:])
}

func (s *Segment64) Put(b []byte, o binary.ByteOrder) int {
	s.LoadCommand.Put(b, o)
	copy(b[8:24], s.Name[:])
	o.PutUint64(b[24:], s.Addr)
	o.PutUint64(b[32:], s.Memsz)
	o.PutUint64(b[40:], s.Offset)
	o.PutUint64(b[48:], s.Filesz)
	o.PutUint32(b[56:], uint32(s.Maxprot))
	o.PutUint32(b[60:], uint32(s.Prot))
	o.PutUint32(b[64:], s.Nsect)
	o.PutUint32(b[68:], s.Flag)
	return s.Size()
}

// SegName returns the segment name up to the first NUL.
func (s *Segment64) SegName() string { return cstring(s.Name[:]) }

// SegName returns the segment name up to the first NUL.
func (s *Segment32) SegName() string { return cstring(s.Name[:]) }

func (c *SymtabCmd) Size() int { return 24 }

func (c *SymtabCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o, &c.Symoff, &c.Nsyms, &c.Stroff, &c.Strsize)
}

func (c *SymtabCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o, c.Symoff, c.Nsyms, c.Stroff, c.Strsize)
}

func (c *DysymtabCmd) Size() int { return 80 }

func (c *DysymtabCmd) fields() []*uint32 {
	return []*uint32{
		&c.Ilocalsym, &c.Nlocalsym,
		&c.Iextdefsym, &c.Nextdefsym,
		&c.Iundefsym, &c.Nundefsym,
		&c.Tocoffset, &c.Ntoc,
		&c.Modtaboff, &c.Nmodtab,
		&c.Extrefsymoff, &c.Nextrefsyms,
		&c.Indirectsymoff, &c.Nindirectsyms,
		&c.Extreloff, &c.Nextrel,
		&c.Locreloff, &c.Nlocrel,
	}
}

func (c *DysymtabCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o, c.fields()...)
}

func (c *DysymtabCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	fs := c.fields()
	ws := make([]uint32, len(fs))
	for i, f := range fs {
		ws[i] = *f
	}
	return putWords(b, o, ws...)
}

func (c *RoutinesCmd) Size() int { return 40 }

func (c *RoutinesCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o,
		&c.InitAddress, &c.InitModule,
		&c.Reserved1, &c.Reserved2, &c.Reserved3,
		&c.Reserved4, &c.Reserved5, &c.Reserved6)
}

func (c *RoutinesCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o,
		c.InitAddress, c.InitModule,
		c.Reserved1, c.Reserved2, c.Reserved3,
		c.Reserved4, c.Reserved5, c.Reserved6)
}

func (c *Routines64Cmd) Size() int { return 72 }

func (c *Routines64Cmd) fields() []*uint64 {
	return []*uint64{
		&c.InitAddress, &c.InitModule,
		&c.Reserved1, &c.Reserved2, &c.Reserved3,
		&c.Reserved4, &c.Reserved5, &c.Reserved6,
	}
}

func (c *Routines64Cmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	for i, f := range c.fields() {
		*f = o.Uint64(b[LoadCommandSize+8*i:])
	}
}

func (c *Routines64Cmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	for i, f := range c.fields() {
		o.PutUint64(b[LoadCommandSize+8*i:], *f)
	}
	return c.Size()
}

func (c *DylibCmd) Size() int { return 24 }

func (c *DylibCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	c.Name = o.Uint32(b[8:])
	c.Time = o.Uint32(b[12:])
	c.CurrentVersion = Version(o.Uint32(b[16:]))
	c.CompatVersion = Version(o.Uint32(b[20:]))
}

func (c *DylibCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o, c.Name, c.Time, uint32(c.CurrentVersion), uint32(c.CompatVersion))
}

func (c *DylinkerCmd) Size() int { return 12 }

func (c *DylinkerCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o, &c.Name)
}

func (c *DylinkerCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o, c.Name)
}

func (c *UUIDCmd) Size() int { return 24 }

func (c *UUIDCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	copy(c.UUID[:], b[8:24])
}

func (c *UUIDCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	copy(b[8:24], c.UUID[:])
	return c.Size()
}

func (c *SourceVersionCmd) Size() int { return 16 }

func (c *SourceVersionCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	c.Version = SrcVersion(o.Uint64(b[8:]))
}

func (c *SourceVersionCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	o.PutUint64(b[8:], uint64(c.Version))
	return c.Size()
}

func (c *VersionMinCmd) Size() int { return 16 }

func (c *VersionMinCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	c.Version = Version(o.Uint32(b[8:]))
	c.Sdk = Version(o.Uint32(b[12:]))
}

func (c *VersionMinCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o, uint32(c.Version), uint32(c.Sdk))
}

func (c *LinkEditDataCmd) Size() int { return 16 }

func (c *LinkEditDataCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o, &c.Offset, &c.DataSize)
}

func (c *LinkEditDataCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o, c.Offset, c.DataSize)
}

func (c *DyldInfoCmd) Size() int { return 48 }

func (c *DyldInfoCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	decodeWords(b, o,
		&c.RebaseOff, &c.RebaseSize,
		&c.BindOff, &c.BindSize,
		&c.WeakBindOff, &c.WeakBindSize,
		&c.LazyBindOff, &c.LazyBindSize,
		&c.ExportOff, &c.ExportSize)
}

func (c *DyldInfoCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	return putWords(b, o,
		c.RebaseOff, c.RebaseSize,
		c.BindOff, c.BindSize,
		c.WeakBindOff, c.WeakBindSize,
		c.LazyBindOff, c.LazyBindSize,
		c.ExportOff, c.ExportSize)
}

func (c *EntryPointCmd) Size() int { return 24 }

func (c *EntryPointCmd) Decode(b []byte, o binary.ByteOrder) {
	c.LoadCommand.Decode(b, o)
	c.EntryOffset = o.Uint64(b[8:])
	c.StackSize = o.Uint64(b[16:])
}

func (c *EntryPointCmd) Put(b []byte, o binary.ByteOrder) int {
	c.LoadCommand.Put(b, o)
	o.PutUint64(b[8:], c.EntryOffset)
	o.PutUint64(b[16:], c.StackSize)
	return c.Size()
}

/*******************************************************************************
 * Descriptions
 *******************************************************************************/

func (s *Segment64) String() string {
	return fmt.Sprintf("sz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x %s/%s %-18s nsect=%d",
		s.Filesz, s.Offset, s.Offset+s.Filesz, s.Addr, s.Addr+s.Memsz, s.Prot, s.Maxprot, s.SegName(), s.Nsect)
}

func (c *SymtabCmd) String() string {
	return fmt.Sprintf("Symbol offset=0x%08X, Num Syms: %d, String offset=0x%08X-0x%08X",
		c.Symoff, c.Nsyms, c.Stroff, c.Stroff+c.Strsize)
}

func (c *DysymtabCmd) String() string {
	return fmt.Sprintf("%d local, %d external, %d undefined, %d indirect",
		c.Nlocalsym, c.Nextdefsym, c.Nundefsym, c.Nindirectsyms)
}

func (c *RoutinesCmd) String() string {
	return fmt.Sprintf("Address: %#08x, Module: %d", c.InitAddress, c.InitModule)
}

func (c *Routines64Cmd) String() string {
	return fmt.Sprintf("Address: %#016x, Module: %d", c.InitAddress, c.InitModule)
}

func (c *DylibCmd) String() string {
	return fmt.Sprintf("name@%d (%s, compat %s)", c.Name, c.CurrentVersion, c.CompatVersion)
}

func (c *DylinkerCmd) String() string { return fmt.Sprintf("name@%d", c.Name) }

func (c *UUIDCmd) String() string { return c.UUID.String() }

func (c *SourceVersionCmd) String() string { return c.Version.String() }

func (c *VersionMinCmd) String() string {
	return fmt.Sprintf("Version=%s, SDK=%s", c.Version, c.Sdk)
}

func (c *LinkEditDataCmd) String() string {
	return fmt.Sprintf("offset=0x%08x-0x%08x size=%5d", c.Offset, c.Offset+c.DataSize, c.DataSize)
}

func (c *DyldInfoCmd) String() string {
	return fmt.Sprintf("Rebase=%d@%#x Bind=%d@%#x WeakBind=%d@%#x LazyBind=%d@%#x Export=%d@%#x",
		c.RebaseSize, c.RebaseOff, c.BindSize, c.BindOff, c.WeakBindSize, c.WeakBindOff,
		c.LazyBindSize, c.LazyBindOff, c.ExportSize, c.ExportOff)
}

func (c *EntryPointCmd) String() string {
	return fmt.Sprintf("Entry Point: 0x%016x, Stack Size: %#x", c.EntryOffset, c.StackSize)
}

func (c *NoPayload) String() string { return "" }
