package macho

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/blacktop/go-macho/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapBytes(t *testing.T) {
	want := &Segment64{
		LoadCommand: LoadCommand{Cmd: LoadCmdSegment64, Len: 72},
		Addr:        0x100000000,
		Memsz:       0x8000,
		Filesz:      0x4000,
		Maxprot:     7,
		Prot:        3,
		Nsect:       2,
		Flag:        0x10,
	}
	copy(want.Name[:], "__DATA")

	b := make([]byte, want.Size())
	want.Put(b, binary.BigEndian)

	// read as if the file were native
	got := new(Segment64)
	got.Decode(b, binary.LittleEndian)
	require.NotEqual(t, want.Cmd, got.Cmd)

	c := SwapBytes(got)
	if diff := cmp.Diff(Command(want), c); diff != "" {
		t.Errorf("SwapBytes (-want +got):\n%s", diff)
	}
	assert.Equal(t, "__DATA", got.SegName(), "byte arrays keep their order")
}

func TestSwapBytesIsInvolution(t *testing.T) {
	u := &UUIDCmd{LoadCommand: LoadCommand{Cmd: LoadCmdUUID, Len: 24}}
	copy(u.UUID[:], "0123456789abcdef")
	orig := *u

	SwapBytes(SwapBytes(u))
	assert.Equal(t, orig, *u)
	assert.Equal(t, orig.UUID, SwapBytes(u).(*UUIDCmd).UUID)
}

func TestFileHeaderSwap(t *testing.T) {
	h := NewFileHeader(Arch64)
	h.CPU = types.CPUArm64
	h.Type = types.MH_EXECUTE
	h.NCommands = 3
	h.SizeCommands = 0x98
	h.Flags = types.HeaderFlag(0x00200085)

	b := make([]byte, h.Size())
	h.Put(b, binary.BigEndian)

	got, err := readHeader(NewReader(bytes.NewReader(b), nil), Ident{Arch: Arch64, Swapped: true})
	require.NoError(t, err)
	assert.Equal(t, Cigam64, got.Magic)

	got.swap()
	assert.Equal(t, h, got)
	assert.True(t, got.Is64())
	assert.Contains(t, got.String(), "Commands      = 3 (Size: 152)")
}
