package macho

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/blacktop/go-macho/types"
)

const (
	FileHeaderSize32 = 7 * 4
	FileHeaderSize64 = 8 * 4
)

// A FileHeader represents a Mach-O file header.
//
// Reserved only exists in the 64-bit layout; it is zero for 32-bit files.
type FileHeader struct {
	Magic        Magic
	CPU          types.CPU
	SubCPU       types.CPUSubtype
	Type         types.HeaderFileType
	NCommands    uint32
	SizeCommands uint32
	Flags        types.HeaderFlag
	Reserved     uint32

	is64 bool
}

// fileHeader32 and fileHeader64 are the two wire layouts of FileHeader.
type (
	fileHeader32 struct{ FileHeader }
	fileHeader64 struct{ FileHeader }
)

func (h *fileHeader32) Size() int { return FileHeaderSize32 }

func (h *fileHeader32) Decode(b []byte, o binary.ByteOrder) {
	h.decodeCommon(b, o)
	h.Reserved = 0
	h.is64 = false
}

func (h *fileHeader32) Put(b []byte, o binary.ByteOrder) int {
	h.putCommon(b, o)
	return FileHeaderSize32
}

func (h *fileHeader64) Size() int { return FileHeaderSize64 }

func (h *fileHeader64) Decode(b []byte, o binary.ByteOrder) {
	h.decodeCommon(b, o)
	h.Reserved = o.Uint32(b[28:])
	h.is64 = true
}

func (h *fileHeader64) Put(b []byte, o binary.ByteOrder) int {
	h.putCommon(b, o)
	o.PutUint32(b[28:], h.Reserved)
	return FileHeaderSize64
}

// Size returns the on-disk size of the header.
func (h *FileHeader) Size() int {
	if h.is64 {
		return FileHeaderSize64
	}
	return FileHeaderSize32
}

// Is64 reports whether the header uses the 64-bit layout.
func (h *FileHeader) Is64() bool { return h.is64 }

// Put encodes the header in the layout selected by Is64 and returns the
// number of bytes written.
func (h *FileHeader) Put(b []byte, o binary.ByteOrder) int {
	if h.is64 {
		return (&fileHeader64{*h}).Put(b, o)
	}
	return (&fileHeader32{*h}).Put(b, o)
}

func (h *FileHeader) decodeCommon(b []byte, o binary.ByteOrder) {
	h.Magic = Magic(o.Uint32(b[0:]))
	h.CPU = types.CPU(o.Uint32(b[4:]))
	h.SubCPU = types.CPUSubtype(o.Uint32(b[8:]))
	h.Type = types.HeaderFileType(o.Uint32(b[12:]))
	h.NCommands = o.Uint32(b[16:])
	h.SizeCommands = o.Uint32(b[20:])
	h.Flags = types.HeaderFlag(o.Uint32(b[24:]))
}

func (h *FileHeader) putCommon(b []byte, o binary.ByteOrder) {
	o.PutUint32(b[0:], uint32(h.Magic))
	o.PutUint32(b[4:], uint32(h.CPU))
	o.PutUint32(b[8:], uint32(h.SubCPU))
	o.PutUint32(b[12:], uint32(h.Type))
	o.PutUint32(b[16:], h.NCommands)
	o.PutUint32(b[20:], h.SizeCommands)
	o.PutUint32(b[24:], uint32(h.Flags))
}

// NewFileHeader returns a header in the layout for arch, mainly for
// building files.
func NewFileHeader(arch Arch) FileHeader {
	if arch == Arch64 {
		return FileHeader{Magic: Magic64, is64: true}
	}
	return FileHeader{Magic: Magic32}
}

func (h FileHeader) String() string {
	return fmt.Sprintf(
		"Magic         = %s\n"+
			"Type          = %s\n"+
			"CPU           = %s, %s\n"+
			"Commands      = %d (Size: %d)\n"+
			"Flags         = %s\n",
		h.Magic,
		h.Type,
		h.CPU, h.SubCPU.String(h.CPU),
		h.NCommands,
		h.SizeCommands,
		strings.Join(h.Flags.Flags(), ", "),
	)
}

// readHeader consumes the header whose layout matches id.
func readHeader(r *Reader, id Ident) (FileHeader, error) {
	if id.HeaderSize() == FileHeaderSize64 {
		h, err := ReadFixed[fileHeader64](r)
		return h.FileHeader, err
	}
	h, err := ReadFixed[fileHeader32](r)
	return h.FileHeader, err
}
