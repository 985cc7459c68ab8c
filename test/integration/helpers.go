package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// BuildLcdump builds the lcdump binary and returns the path to it
func BuildLcdump(t *testing.T) string {
	t.Helper()

	binPath := filepath.Join(t.TempDir(), "lcdump")
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/lcdump")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build lcdump binary: %v\nOutput: %s", err, output)
	}

	return binPath
}

// RunLcdump runs the lcdump binary with the given arguments
func RunLcdump(t *testing.T, binPath string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run lcdump: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

// RunLcdumpExpectSuccess runs lcdump and expects it to succeed
func RunLcdumpExpectSuccess(t *testing.T, binPath string, args ...string) string {
	t.Helper()

	stdout, stderr, exitCode := RunLcdump(t, binPath, args...)
	if exitCode != 0 {
		t.Fatalf("lcdump command failed with exit code %d\nArgs: %v\nStdout: %s\nStderr: %s",
			exitCode, args, stdout, stderr)
	}

	return stdout
}

// ReadFile returns the contents of path as a string
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	return string(data)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
