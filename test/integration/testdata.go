package integration

import (
	"os"
	"testing"
)

// TestData manages test data paths and availability
type TestData struct {
	// MachOPath is the path to a real single-architecture Mach-O
	MachOPath string
}

// GetTestData returns test data configuration from environment variables
func GetTestData(t *testing.T) *TestData {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("LCDUMP_INTEGRATION") == "" {
		t.Skip("Skipping integration test: set LCDUMP_INTEGRATION=1 to build and run the lcdump binary")
	}
	return &TestData{
		MachOPath: os.Getenv("LCDUMP_TEST_MACHO"),
	}
}

// HasMachO returns true if a real Mach-O file is available for testing
func (td *TestData) HasMachO() bool {
	return td.MachOPath != "" && FileExists(td.MachOPath)
}

// SkipIfNoMachO skips the test if no real Mach-O is available
func (td *TestData) SkipIfNoMachO(t *testing.T) {
	if !td.HasMachO() {
		t.Skip("Skipping test: no Mach-O available. Set LCDUMP_TEST_MACHO environment variable to enable.")
	}
}
