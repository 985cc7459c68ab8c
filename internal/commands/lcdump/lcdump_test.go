package lcdump

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/go-macho/types"
	"github.com/blacktop/lcdump/internal/machotest"
	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b *machotest.Builder) *macho.File {
	t.Helper()
	f, err := macho.Decode(b.Reader(), nil)
	require.NoError(t, err)
	return f
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		b    *machotest.Builder
		want string
	}{
		{
			name: "version then segment",
			b: machotest.New(macho.Arch64).
				Add(machotest.VersionMin(macho.LoadCmdVersionMinMacosx, 0x000a0c00, 0), 0).
				Add(machotest.Segment64("__TEXT", 0, 0), 0),
			want: "MacOS SDK Version : 10.12.0\nData Segment Name : __TEXT\n",
		},
		{
			name: "unknown commands are not rendered",
			b: machotest.New(macho.Arch64).
				Raw(macho.LoadCmdTwolevelHints, make([]byte, 8)).
				Add(machotest.Symtab(1, 2, 3, 4), 0).
				Add(machotest.Segment64("__LINKEDIT", 0, 0), 0),
			want: "Data Segment Name : __LINKEDIT\n",
		},
		{
			name: "full width segment name",
			b: machotest.New(macho.Arch64).
				Add(machotest.Segment64("0123456789abcdef", 0, 0), 0),
			want: "Data Segment Name : 0123456789abcdef\n",
		},
		{
			name: "iOS minimum version",
			b: machotest.New(macho.Arch64).
				Add(machotest.VersionMin(macho.LoadCmdVersionMinIphoneos, macho.NewVersion(9, 3, 5), 0), 0),
			want: "MacOS SDK Version : 9.3.5\n",
		},
		{
			name: "nothing to report",
			b:    machotest.New(macho.Arch64).Add(machotest.Main(0x1000, 0), 0),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Report(&buf, decode(t, tt.b).Commands))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func noColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestInfo(t *testing.T) {
	noColor(t)

	f := decode(t, machotest.New(macho.Arch64).
		Add(machotest.Segment64("__TEXT", 0x100000000, 0x4000), 0).
		Add(machotest.UUID(macho.UUID{0xde, 0xad, 0xbe, 0xef}), 0).
		Raw(macho.LoadCmdBuildVersion, make([]byte, 16)))

	var buf bytes.Buffer
	require.NoError(t, Info(&buf, "a.out", f, nil))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "a.out\n\n"))
	assert.Contains(t, out, "64-bit MachO")
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "LC_SEGMENT_64")
	assert.Contains(t, out, "__TEXT")
	assert.Contains(t, out, "deadbeef-0000-0000-0000-000000000000")
	assert.Contains(t, out, "LC_BUILD_VERSION")

	buf.Reset()
	require.NoError(t, Info(&buf, "", f, &InfoConfig{Header: true}))
	assert.NotContains(t, buf.String(), "LC_SEGMENT_64")

	buf.Reset()
	require.NoError(t, Info(&buf, "", f, &InfoConfig{LoadCommands: true, Verbose: true}))
	assert.NotContains(t, buf.String(), "Magic")
	assert.Contains(t, buf.String(), "not decoded")
}

func TestInfoHeaderSummary(t *testing.T) {
	noColor(t)

	b := machotest.New(macho.Arch64).
		Add(machotest.Segment64("__PAGEZERO", 0, 0x100000000), 0).
		Add(machotest.Segment64("__TEXT", 0x100000000, 0x4000), 0).
		Add(machotest.VersionMin(macho.LoadCmdVersionMinMacosx, 0x000a0c00, 0x000a0e00), 0).
		Add(&macho.SourceVersionCmd{
			LoadCommand: macho.LoadCommand{Cmd: macho.LoadCmdSourceVersion, Len: 16},
			Version:     macho.SrcVersion(1311<<40 | 2<<30 | 3<<20),
		}, 0).
		Add(machotest.Main(0x3f50, 0), 0).
		Raw(macho.LoadCmdRpath, make([]byte, 8))
	b.Header.Flags = types.HeaderFlag(0x1 | 0x4)
	f := decode(t, b)

	var buf bytes.Buffer
	require.NoError(t, Info(&buf, "", f, &InfoConfig{Header: true}))
	out := buf.String()

	for _, want := range []string{
		`Segments\s+2\n`,
		`Undecoded\s+1\n`,
		`Base Address\s+0x100000000\n`,
		`Entry Offset\s+0x3f50\n`,
		`Min OS\s+10\.12\.0 \(SDK 10\.14\.0\)\n`,
		`Source Version\s+1311\.2\.3\n`,
	} {
		assert.Regexp(t, want, out)
	}
	assert.NotContains(t, out, "UUID")
	assert.NotRegexp(t, `Flags\s+\[`, out)
}

func TestJSON(t *testing.T) {
	b := machotest.New(macho.Arch64).
		Add(machotest.Segment64("__DATA", 0, 0), 0).
		Add(machotest.VersionMin(macho.LoadCmdVersionMinMacosx, 0x000a0c00, 0x000a0d00), 0).
		Raw(macho.LoadCmdRpath, make([]byte, 8))
	b.Header.Flags = types.HeaderFlag(0x1 | 0x4)
	f := decode(t, b)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ToJSON("a.out", f)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.out", got["path"])

	hdr, ok := got["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "64-bit MachO", hdr["magic"])
	assert.NotEmpty(t, hdr["type"])
	flags, ok := hdr["flags"].([]any)
	require.True(t, ok, "flags is a list, got %T", hdr["flags"])
	assert.Len(t, flags, 2)

	cmds, ok := got["load_commands"].([]any)
	require.True(t, ok)
	require.Len(t, cmds, 3)

	seg := cmds[0].(map[string]any)
	assert.Equal(t, "LC_SEGMENT_64", seg["cmd"])
	assert.Equal(t, "__DATA", seg["name"])
	assert.EqualValues(t, 72, seg["cmdsize"])

	vm := cmds[1].(map[string]any)
	assert.Equal(t, "version_min", vm["kind"])
	payload := vm["payload"].(map[string]any)
	assert.Equal(t, "10.12.0", payload["Version"])
	assert.Equal(t, "10.13.0", payload["Sdk"])

	rpath := cmds[2].(map[string]any)
	assert.Equal(t, "LC_RPATH", rpath["cmd"])
	assert.Equal(t, "none", rpath["kind"])
	assert.NotContains(t, rpath, "payload")
}

func TestDecodeAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, name := range []string{"a", "b", "c", "d"} {
		b := machotest.New(macho.Arch64)
		for range i + 1 {
			b.Add(machotest.Segment64("__TEXT", 0, 0), 0)
		}
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
		paths = append(paths, path)
	}
	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte{0, 0, 0, 0}, 0o644))
	paths = append(paths, bad)

	results, err := DecodeAll(context.Background(), paths, nil, 2)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results[:4] {
		assert.Equal(t, paths[i], r.Path)
		require.NoError(t, r.Err)
		assert.Len(t, r.File.Commands, i+1)
	}
	assert.ErrorIs(t, results[4].Err, macho.ErrUnrecognizedSignature)
	assert.Nil(t, results[4].File)
}

func TestDecodeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DecodeAll(ctx, []string{"x", "y"}, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
