package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/lcdump/internal/machotest"
	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		reset(c.Flags())
		reset(c.PersistentFlags())
	}
	cfgFile = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func sample() *machotest.Builder {
	return machotest.New(macho.Arch64).
		Add(machotest.Segment64("__PAGEZERO", 0, 0x100000000), 0).
		Add(machotest.VersionMin(macho.LoadCmdVersionMinMacosx, 0x000a0c00, 0x000a0e00), 0).
		Raw(macho.LoadCmdTwolevelHints, make([]byte, 8)).
		Add(machotest.Segment64("__TEXT", 0x100000000, 0x4000), 0).
		Add(machotest.Symtab(0x8000, 3, 0x8030, 0x20), 0)
}

func TestDecodeToFile(t *testing.T) {
	in := sample().WriteFile(t, "a.out")
	out := filepath.Join(t.TempDir(), "report.txt")

	_, err := execute(t, in, out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"Data Segment Name : __PAGEZERO\n"+
			"MacOS SDK Version : 10.12.0\n"+
			"Data Segment Name : __TEXT\n",
		string(got))
}

func TestDecodeToFileSwapped(t *testing.T) {
	in := sample().BigEndian().WriteFile(t, "a.out")
	out := filepath.Join(t.TempDir(), "report.txt")

	_, err := execute(t, in, out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "MacOS SDK Version : 10.12.0\n")
}

func TestDecodeToFileFailures(t *testing.T) {
	zero := sample()
	zero.Header.Magic = 0
	truncated := sample().Bytes()

	tests := []struct {
		name  string
		input func(t *testing.T) string
		want  error
	}{
		{
			name:  "not a Mach-O",
			input: func(t *testing.T) string { return zero.WriteFile(t, "zero") },
			want:  macho.ErrUnrecognizedSignature,
		},
		{
			name: "truncated",
			input: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "short")
				require.NoError(t, os.WriteFile(path, truncated[:len(truncated)-12], 0o644))
				return path
			},
			want: macho.ErrShortRead,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "report.txt")
			_, err := execute(t, tt.input(t), out)
			require.ErrorIs(t, err, tt.want)
			assert.NoFileExists(t, out)
		})
	}
}

func TestDecodeUniversal(t *testing.T) {
	in := filepath.Join(t.TempDir(), "fat")
	require.NoError(t, os.WriteFile(in, []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 2}, 0o644))
	out := filepath.Join(t.TempDir(), "report.txt")

	_, err := execute(t, in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "universal")
	assert.NoFileExists(t, out)
}

func TestStrictFlag(t *testing.T) {
	in := machotest.New(macho.Arch64).
		Add(machotest.Segment64("__TEXT", 0, 0), 0).
		SizeCommands(200).
		WriteFile(t, "a.out")
	out := filepath.Join(t.TempDir(), "report.txt")

	_, err := execute(t, in, out)
	require.NoError(t, err)

	_, err = execute(t, "--strict", in, out+".strict")
	require.ErrorIs(t, err, macho.ErrCommandsUnderflow)
	assert.NoFileExists(t, out+".strict")
}

func TestStrictFromEnv(t *testing.T) {
	in := machotest.New(macho.Arch64).
		Add(machotest.Segment64("__TEXT", 0, 0), 0).
		SizeCommands(200).
		WriteFile(t, "a.out")

	t.Setenv("LCDUMP_DECODE_STRICT", "true")
	_, err := execute(t, in, filepath.Join(t.TempDir(), "report.txt"))
	require.ErrorIs(t, err, macho.ErrCommandsUnderflow)
}

func TestArgs(t *testing.T) {
	_, err := execute(t, "only-one")
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	in := sample().WriteFile(t, "a.out")

	out, err := execute(t, "info", in)
	require.NoError(t, err)
	assert.Contains(t, out, "64-bit MachO")
	assert.Contains(t, out, "LC_SEGMENT_64")
	assert.Contains(t, out, "LC_TWOLEVEL_HINTS")
	assert.Contains(t, out, "Version=10.12.0, SDK=10.14.0")
}

func TestInfoJSON(t *testing.T) {
	a := sample().WriteFile(t, "a.out")
	b := filepath.Join(t.TempDir(), "junk")
	require.NoError(t, os.WriteFile(b, []byte("junk junk junk"), 0o644))

	out, err := execute(t, "info", "--json", "--jobs", "2", a, b)
	require.Error(t, err, "one file does not decode")

	var files []struct {
		Path     string `json:"path"`
		Error    string `json:"error"`
		Commands []struct {
			Cmd  string `json:"cmd"`
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"load_commands"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)

	assert.Equal(t, a, files[0].Path)
	assert.Empty(t, files[0].Error)
	require.Len(t, files[0].Commands, 5)
	assert.Equal(t, "LC_SEGMENT_64", files[0].Commands[0].Cmd)
	assert.Equal(t, "__PAGEZERO", files[0].Commands[0].Name)
	assert.Equal(t, "version_min", files[0].Commands[1].Kind)
	assert.Equal(t, "LC_TWOLEVEL_HINTS", files[0].Commands[2].Cmd)
	assert.Equal(t, "none", files[0].Commands[2].Kind)

	assert.Equal(t, b, files[1].Path)
	assert.NotEmpty(t, files[1].Error)
}

func TestVersion(t *testing.T) {
	AppVersion = "1.2.3"
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lcdump version: 1.2.3")
}
