package macho

import "fmt"

// checkPrefix rejects a cmdsize that cannot hold the prefix itself. Such a
// command would never move the cursor, so it is fatal in every mode.
func checkPrefix(lc LoadCommand, off int64) error {
	if lc.Len < LoadCommandSize {
		return &FormatError{Off: off, Msg: fmt.Sprintf("%s cmdsize %d", lc.Cmd, lc.Len), Err: ErrCommandTooSmall}
	}
	return nil
}

// validateCommand checks a command prefix against the record shape its tag
// implies and against the header's sizeofcmds, before the record is read.
// consumed is the number of command bytes before lc. lc has already passed
// checkPrefix.
func validateCommand(lc LoadCommand, off int64, consumed uint64, sizeofcmds uint32) error {
	if k := ShapeOf(lc.Cmd); k != KindNone {
		if sz := newCommand(k).Size(); uint32(sz) > lc.Len {
			return &FormatError{
				Off: off,
				Msg: fmt.Sprintf("%s cmdsize %d cannot hold %d byte %s record", lc.Cmd, lc.Len, sz, k),
				Err: ErrCommandTooSmall,
			}
		}
	}
	if end := consumed + uint64(lc.Len); end > uint64(sizeofcmds) {
		return &FormatError{
			Off: off,
			Msg: fmt.Sprintf("%s ends at %d of %d command bytes", lc.Cmd, end, sizeofcmds),
			Err: ErrCommandsOverflow,
		}
	}
	return nil
}

// validateCommands runs after the last command has been consumed.
func validateCommands(off int64, consumed uint64, sizeofcmds uint32) error {
	if consumed != uint64(sizeofcmds) {
		return &FormatError{
			Off: off,
			Msg: fmt.Sprintf("load commands use %d of %d bytes", consumed, sizeofcmds),
			Err: ErrCommandsUnderflow,
		}
	}
	return nil
}
