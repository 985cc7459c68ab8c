package magic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Kind
	}{
		{"macho64", []byte{0xcf, 0xfa, 0xed, 0xfe, 0x0c, 0x00, 0x00, 0x01}, MachO},
		{"macho32 swapped", []byte{0xfe, 0xed, 0xfa, 0xce}, MachO},
		{"fat", []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 2}, Universal},
		{"text", []byte("#!/bin/sh\n"), Unknown},
		{"short", []byte{0xcf}, Unknown},
	}
	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, tt.head, 0o644))

			got, err := Detect(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			ok, err := IsMachO(path)
			assert.Equal(t, tt.want == MachO, ok)
			if tt.want != MachO {
				assert.Error(t, err)
			}
		})
	}
}

func TestDetectMissing(t *testing.T) {
	_, err := Detect(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
