package macho

import "encoding/binary"

// swapRecord reverses the bytes of every multi-byte field of rec in place.
// Byte arrays such as segment names and UUIDs keep their order.
func swapRecord(rec Record) {
	b := make([]byte, rec.Size())
	rec.Put(b, binary.LittleEndian)
	rec.Decode(b, binary.BigEndian)
}

// SwapBytes converts a command decoded in the reader's byte order from a
// file written in the opposite order. It modifies c and returns it.
func SwapBytes(c Command) Command {
	swapRecord(c)
	return c
}

func (h *FileHeader) swap() {
	if h.is64 {
		fh := fileHeader64{*h}
		swapRecord(&fh)
		*h = fh.FileHeader
		return
	}
	fh := fileHeader32{*h}
	swapRecord(&fh)
	*h = fh.FileHeader
}

func (l *LoadCommand) swap() { swapRecord(l) }
