// Package colors provides the color helpers used by lcdump's output.
//
// Colors are disabled automatically when stdout is not a terminal; fatih/color
// detects this on its own. Init overrides the detection from the --color flag.
package colors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Modes accepted by ParseMode.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// ParseMode converts a --color value into the argument for Init.
func ParseMode(mode string) (*bool, error) {
	switch strings.ToLower(mode) {
	case "", ModeAuto:
		return nil, nil
	case ModeAlways, "true", "on":
		on := true
		return &on, nil
	case ModeNever, "false", "off":
		off := false
		return &off, nil
	default:
		return nil, fmt.Errorf("invalid color mode %q (want %s, %s or %s)", mode, ModeAuto, ModeAlways, ModeNever)
	}
}

// Init overrides the auto-detected color setting. A nil forceColor keeps
// the detected value.
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color        { return color.New(color.Bold) }
func Faint() *color.Color       { return color.New(color.Faint) }
func Red() *color.Color         { return color.New(color.FgRed) }
func HiMagenta() *color.Color   { return color.New(color.FgHiMagenta) }
func BoldBlue() *color.Color    { return color.New(color.Bold, color.FgBlue) }
func BoldHiGreen() *color.Color { return color.New(color.Bold, color.FgHiGreen) }
func FaintYellow() *color.Color { return color.New(color.Faint, color.FgYellow) }
