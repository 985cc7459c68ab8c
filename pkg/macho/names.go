package macho

import "strconv"

type intName struct {
	i uint32
	s string
}

// stringName looks i up in names, falling back to the hex value so unknown
// tags stay readable in logs.
func stringName(i uint32, names []intName) string {
	for _, n := range names {
		if n.i == i {
			return n.s
		}
	}
	return "0x" + strconv.FormatUint(uint64(i), 16)
}

// cstring returns b up to the first NUL, or all of b when there is none.
func cstring(b []byte) string {
	for i := range b {
		if b[i] == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
