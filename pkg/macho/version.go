package macho

import (
	"fmt"

	"github.com/google/uuid"
)

// Version is an X.Y.Z version packed in nibbles as xxxx.yy.zz.
type Version uint32

// NewVersion packs major.minor.patch.
func NewVersion(major, minor, patch uint32) Version {
	return Version(major<<16 | (minor&0xff)<<8 | patch&0xff)
}

func (v Version) Major() uint32 { return uint32(v) >> 16 }
func (v Version) Minor() uint32 { return (uint32(v) >> 8) & 0xff }
func (v Version) Patch() uint32 { return uint32(v) & 0xff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// SrcVersion is an A.B.C.D.E version packed as a24.b10.c10.d10.e10.
type SrcVersion uint64

func (sv SrcVersion) String() string {
	a := sv >> 40
	b := (sv >> 30) & 0x3ff
	c := (sv >> 20) & 0x3ff
	d := (sv >> 10) & 0x3ff
	e := sv & 0x3ff
	if e != 0 {
		return fmt.Sprintf("%d.%d.%d.%d.%d", a, b, c, d, e)
	} else if d != 0 {
		return fmt.Sprintf("%d.%d.%d.%d", a, b, c, d)
	} else if c != 0 {
		return fmt.Sprintf("%d.%d.%d", a, b, c)
	}
	return fmt.Sprintf("%d.%d", a, b)
}

// UUID is the 128-bit identifier of an LC_UUID command.
type UUID [16]byte

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (v Version) MarshalText() ([]byte, error)    { return []byte(v.String()), nil }
func (sv SrcVersion) MarshalText() ([]byte, error) { return []byte(sv.String()), nil }
func (u UUID) MarshalText() ([]byte, error)        { return []byte(u.String()), nil }
