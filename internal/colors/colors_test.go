package colors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode    string
		want    *bool
		wantErr bool
	}{
		{mode: "", want: nil},
		{mode: "auto", want: nil},
		{mode: "always", want: ptr(true)},
		{mode: "ALWAYS", want: ptr(true)},
		{mode: "never", want: ptr(false)},
		{mode: "off", want: ptr(false)},
		{mode: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := ParseMode(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseMode(%q) = %v, want nil", tt.mode, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("ParseMode(%q) = %v, want %v", tt.mode, got, *tt.want)
			}
		})
	}
}

func ptr(b bool) *bool { return &b }

func TestInit_ForceOn(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	Init(ptr(true))

	if !Enabled() {
		t.Error("expected colors enabled when Init(true)")
	}
}

func TestInit_ForceOff(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = false
	Init(ptr(false))

	if Enabled() {
		t.Error("expected colors disabled when Init(false)")
	}
}

func TestInit_Nil_KeepsExisting(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	for _, noColor := range []bool{false, true} {
		color.NoColor = noColor
		Init(nil)
		if color.NoColor != noColor {
			t.Errorf("Init(nil) changed NoColor from %v", noColor)
		}
	}
}

func TestColorOutput(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	constructors := map[string]func() *color.Color{
		"Bold":        Bold,
		"Faint":       Faint,
		"Red":         Red,
		"HiMagenta":   HiMagenta,
		"BoldBlue":    BoldBlue,
		"BoldHiGreen": BoldHiGreen,
		"FaintYellow": FaintYellow,
	}
	for name, fn := range constructors {
		t.Run(name, func(t *testing.T) {
			color.NoColor = false
			if got := fn().Sprint("x"); !strings.Contains(got, "\x1b[") {
				t.Errorf("expected ANSI codes when colors enabled, got: %q", got)
			}
			color.NoColor = true
			if got := fn().Sprint("x"); got != "x" {
				t.Errorf("expected plain 'x' when colors disabled, got: %q", got)
			}
		})
	}
}
