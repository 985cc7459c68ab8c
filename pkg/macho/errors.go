package macho

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnrecognizedSignature is returned when the first four bytes of the
	// input are not a 32-bit or 64-bit Mach-O magic in either byte order.
	ErrUnrecognizedSignature = errors.New("not a recognized Mach-O binary")
	// ErrShortRead is returned when fewer bytes remain than a record needs.
	ErrShortRead = errors.New("short read")
	// ErrCommandTooSmall is returned when a command's cmdsize cannot hold
	// its prefix, or in strict mode the record shape implied by its tag.
	ErrCommandTooSmall = errors.New("load command smaller than its record")
	// ErrCommandsOverflow is returned in strict mode when the load commands
	// extend past sizeofcmds.
	ErrCommandsOverflow = errors.New("load commands larger than declared size")
	// ErrCommandsUnderflow is returned in strict mode when the load commands
	// end before sizeofcmds is used up.
	ErrCommandsUnderflow = errors.New("load commands smaller than declared size")
)

// FormatError is returned by some operations if the data does
// not have the correct format for a Mach-O file.
type FormatError struct {
	Off int64
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	msg += fmt.Sprintf(" in record at byte %#x", e.Off)
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }
