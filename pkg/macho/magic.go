package macho

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Magic is the signature in the first four bytes of a Mach-O file, read in
// the reader's native (little-endian) byte order.
type Magic uint32

const (
	Magic32 Magic = 0xfeedface // MH_MAGIC
	Cigam32 Magic = 0xcefaedfe // MH_CIGAM
	Magic64 Magic = 0xfeedfacf // MH_MAGIC_64
	Cigam64 Magic = 0xcffaedfe // MH_CIGAM_64
)

var magicStrings = []intName{
	{uint32(Magic32), "32-bit MachO"},
	{uint32(Cigam32), "32-bit MachO (swapped)"},
	{uint32(Magic64), "64-bit MachO"},
	{uint32(Cigam64), "64-bit MachO (swapped)"},
}

func (m Magic) String() string { return stringName(uint32(m), magicStrings) }

// MagicSize is the size in bytes of the signature.
const MagicSize = 4

// Arch is the pointer width a Mach-O file was built for.
type Arch int

const (
	Arch32 Arch = 32
	Arch64 Arch = 64
)

func (a Arch) String() string { return fmt.Sprintf("%d-bit", int(a)) }

// Ident is the result of sniffing a file's signature.
type Ident struct {
	Magic Magic
	Arch  Arch
	// Swapped is set for the CIGAM signatures: the file was written in the
	// opposite byte order of the reader and every multi-byte field needs
	// swapping.
	Swapped bool
}

// ByteOrder returns the byte order the file was written in.
func (id Ident) ByteOrder() binary.ByteOrder {
	if id.Swapped {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// HeaderSize returns the size of the mach header for the sniffed architecture.
func (id Ident) HeaderSize() int {
	if id.Arch == Arch64 {
		return FileHeaderSize64
	}
	return FileHeaderSize32
}

// Classify maps a signature to its Ident.
func Classify(m Magic) (Ident, error) {
	switch m {
	case Magic32:
		return Ident{Magic: m, Arch: Arch32}, nil
	case Cigam32:
		return Ident{Magic: m, Arch: Arch32, Swapped: true}, nil
	case Magic64:
		return Ident{Magic: m, Arch: Arch64}, nil
	case Cigam64:
		return Ident{Magic: m, Arch: Arch64, Swapped: true}, nil
	default:
		return Ident{}, errors.Wrapf(ErrUnrecognizedSignature, "magic %#08x", uint32(m))
	}
}

// Sniff classifies the signature at the start of rs. The cursor of rs is
// left where it was, wherever that is.
func Sniff(rs io.ReadSeeker) (Ident, error) {
	orig, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Ident{}, err
	}
	defer rs.Seek(orig, io.SeekStart)

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Ident{}, err
	}
	var b [MagicSize]byte
	if _, err := io.ReadFull(rs, b[:]); err != nil {
		return Ident{}, errors.Wrapf(ErrUnrecognizedSignature, "reading magic: %v", err)
	}
	return Classify(Magic(binary.LittleEndian.Uint32(b[:])))
}

// IsMachO reports whether head starts with a single-architecture Mach-O
// signature in either byte order.
func IsMachO(head []byte) bool {
	if len(head) < MagicSize {
		return false
	}
	_, err := Classify(Magic(binary.LittleEndian.Uint32(head)))
	return err == nil
}
