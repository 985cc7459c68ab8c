package macho

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// A Record is a fixed-size Mach-O structure that knows its own wire layout.
//
// Decode reads every field from b at its fixed offset using o; b is always
// exactly Size bytes long. Put is the inverse and returns the number of bytes
// written.
type Record interface {
	Size() int
	Decode(b []byte, o binary.ByteOrder)
	Put(b []byte, o binary.ByteOrder) int
}

// recordPtr constrains a type parameter to a pointer to a Record struct so
// ReadFixed[SymtabCmd](r) can allocate and fill the value.
type recordPtr[T any] interface {
	*T
	Record
}

// Reader performs positional reads of fixed-size records from a seekable
// byte source. It holds no state besides the source's own cursor.
type Reader struct {
	rs    io.ReadSeeker
	order binary.ByteOrder
}

// NewReader returns a Reader decoding records from rs in byte order o.
func NewReader(rs io.ReadSeeker, o binary.ByteOrder) *Reader {
	if o == nil {
		o = binary.LittleEndian
	}
	return &Reader{rs: rs, order: o}
}

// ByteOrder returns the byte order records are decoded in.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.order }

// Offset returns the current cursor position.
func (r *Reader) Offset() (int64, error) {
	return r.rs.Seek(0, io.SeekCurrent)
}

// SeekTo sets the cursor to the absolute offset off.
func (r *Reader) SeekTo(off int64) error {
	_, err := r.rs.Seek(off, io.SeekStart)
	return err
}

// Skip advances the cursor by n bytes without reading them.
func (r *Reader) Skip(n int64) error {
	_, err := r.rs.Seek(n, io.SeekCurrent)
	return err
}

// readFull fills p from the current cursor. Running out of input is always
// reported as ErrShortRead.
func (r *Reader) readFull(p []byte) error {
	if _, err := io.ReadFull(r.rs, p); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrShortRead, "need %d bytes (%v)", len(p), err)
		}
		return err
	}
	return nil
}

// ReadFixed consumes the next Size() bytes and decodes them as T,
// advancing the cursor.
func ReadFixed[T any, P recordPtr[T]](r *Reader) (T, error) {
	var v T
	p := P(&v)
	buf := make([]byte, p.Size())
	if err := r.readFull(buf); err != nil {
		var zero T
		return zero, err
	}
	p.Decode(buf, r.order)
	return v, nil
}

// peek fills p from the cursor and moves the cursor back, even when the
// read fails.
func (r *Reader) peek(p []byte) error {
	off, err := r.Offset()
	if err != nil {
		return err
	}
	rerr := r.readFull(p)
	if err := r.SeekTo(off); err != nil {
		return err
	}
	return rerr
}

// PeekFixed decodes T at the cursor like ReadFixed, then restores the cursor
// to where it was. The cursor is restored on failure too.
func PeekFixed[T any, P recordPtr[T]](r *Reader) (T, error) {
	var v T
	p := P(&v)
	buf := make([]byte, p.Size())
	if err := r.peek(buf); err != nil {
		var zero T
		return zero, err
	}
	p.Decode(buf, r.order)
	return v, nil
}
