package magic

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/blacktop/lcdump/pkg/macho"
)

type Magic uint32

const (
	MagicFatBE Magic = 0xcafebabe
	MagicFatLE Magic = 0xbebafeca
)

// Kind is the kind of file identified from its first four bytes.
type Kind int

const (
	Unknown Kind = iota
	MachO
	Universal
)

func (k Kind) String() string {
	switch k {
	case MachO:
		return "Mach-O"
	case Universal:
		return "universal Mach-O"
	default:
		return "unknown"
	}
}

// Detect reads the first four bytes of filePath and identifies them.
func Detect(filePath string) (Kind, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Unknown, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err = io.ReadFull(f, magic[:]); err != nil {
		return Unknown, nil
	}

	if macho.IsMachO(magic[:]) {
		return MachO, nil
	}
	switch Magic(binary.LittleEndian.Uint32(magic[:])) {
	case MagicFatBE, MagicFatLE:
		return Universal, nil
	default:
		return Unknown, nil
	}
}

// IsMachO reports whether filePath is a single-architecture Mach-O.
func IsMachO(filePath string) (bool, error) {
	k, err := Detect(filePath)
	if err != nil {
		return false, err
	}
	switch k {
	case MachO:
		return true, nil
	case Universal:
		return false, fmt.Errorf("%s is a universal binary; extract a single architecture first", filePath)
	default:
		return false, fmt.Errorf("not a macho file")
	}
}
