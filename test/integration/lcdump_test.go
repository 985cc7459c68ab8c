package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/lcdump/internal/machotest"
	"github.com/blacktop/lcdump/pkg/macho"
)

func TestDecodeBinary(t *testing.T) {
	GetTestData(t)

	binPath := BuildLcdump(t)
	in := machotest.New(macho.Arch64).
		Add(machotest.VersionMin(macho.LoadCmdVersionMinMacosx, 0x000a0c00, 0), 0).
		Add(machotest.Segment64("__DATA", 0x100004000, 0x4000), 0).
		BigEndian().
		WriteFile(t, "a.out")

	t.Run("report", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.txt")
		RunLcdumpExpectSuccess(t, binPath, in, out)

		want := "MacOS SDK Version : 10.12.0\nData Segment Name : __DATA\n"
		if got := ReadFile(t, out); got != want {
			t.Errorf("report = %q, want %q", got, want)
		}
	})

	t.Run("not a Mach-O", func(t *testing.T) {
		junk := filepath.Join(t.TempDir(), "junk")
		if err := os.WriteFile(junk, []byte("#!/bin/sh\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		out := filepath.Join(t.TempDir(), "report.txt")

		_, stderr, exitCode := RunLcdump(t, binPath, junk, out)
		if exitCode != 1 {
			t.Errorf("exit code = %d, want 1", exitCode)
		}
		if !strings.Contains(stderr, "not a recognized Mach-O") {
			t.Errorf("stderr does not name the failure: %s", stderr)
		}
		if FileExists(out) {
			t.Error("report written for undecodable input")
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		if _, _, exitCode := RunLcdump(t, binPath, in); exitCode == 0 {
			t.Error("expected non-zero exit with one argument")
		}
	})
}

func TestDecodeRealBinary(t *testing.T) {
	td := GetTestData(t)
	td.SkipIfNoMachO(t)

	binPath := BuildLcdump(t)

	t.Run("report", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.txt")
		RunLcdumpExpectSuccess(t, binPath, td.MachOPath, out)
		if !strings.Contains(ReadFile(t, out), "Data Segment Name : __TEXT") {
			t.Errorf("report has no __TEXT segment:\n%s", ReadFile(t, out))
		}
	})

	t.Run("info json", func(t *testing.T) {
		stdout := RunLcdumpExpectSuccess(t, binPath, "info", "--json", td.MachOPath)

		var f struct {
			Path     string            `json:"path"`
			Commands []json.RawMessage `json:"load_commands"`
		}
		if err := json.Unmarshal([]byte(stdout), &f); err != nil {
			t.Fatalf("info --json output is not JSON: %v", err)
		}
		if len(f.Commands) == 0 {
			t.Error("no load commands decoded")
		}
	})
}
