package lcdump

import (
	"encoding/json"
	"io"

	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/pkg/errors"
)

type headerJSON struct {
	Magic        string   `json:"magic"`
	Arch         string   `json:"arch"`
	Swapped      bool     `json:"swapped,omitempty"`
	CPU          string   `json:"cpu"`
	SubCPU       string   `json:"sub_cpu"`
	Type         string   `json:"type"`
	NCommands    uint32   `json:"ncmds"`
	SizeCommands uint32   `json:"sizeofcmds"`
	Flags        []string `json:"flags"`
}

type commandJSON struct {
	Index   int           `json:"index"`
	Cmd     macho.LoadCmd `json:"cmd"`
	Tag     uint32        `json:"tag"`
	Size    uint32        `json:"cmdsize"`
	Kind    macho.Kind    `json:"kind"`
	Name    string        `json:"name,omitempty"`
	Summary string        `json:"summary,omitempty"`
	Payload macho.Command `json:"payload,omitempty"`
}

// FileJSON is the JSON form of a decoded file.
type FileJSON struct {
	Path     string        `json:"path,omitempty"`
	Header   headerJSON    `json:"header"`
	Commands []commandJSON `json:"load_commands"`
	Error    string        `json:"error,omitempty"`
}

// ToJSON converts f into its JSON form.
func ToJSON(path string, f *macho.File) FileJSON {
	out := FileJSON{
		Path: path,
		Header: headerJSON{
			Magic:        f.Magic.String(),
			Arch:         f.Ident.Arch.String(),
			Swapped:      f.Ident.Swapped,
			CPU:          f.CPU.String(),
			SubCPU:       f.SubCPU.String(f.CPU),
			Type:         f.Type.String(),
			NCommands:    f.NCommands,
			SizeCommands: f.SizeCommands,
			Flags:        f.Flags.Flags(),
		},
		Commands: make([]commandJSON, 0, len(f.Commands)),
	}
	for i, c := range f.Commands {
		cj := commandJSON{
			Index:   i,
			Cmd:     c.Command(),
			Tag:     uint32(c.Command()),
			Size:    c.LoadSize(),
			Kind:    c.Kind(),
			Summary: describe(c, false),
		}
		if s, ok := c.(*macho.Segment64); ok {
			cj.Name = s.SegName()
		}
		if c.Kind() != macho.KindNone {
			cj.Payload = c
		}
		out.Commands = append(out.Commands, cj)
	}
	return out
}

// WriteJSON encodes files as an indented JSON array, or a single object
// when there is exactly one.
func WriteJSON(w io.Writer, files ...FileJSON) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var v any = files
	if len(files) == 1 {
		v = files[0]
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to marshal load commands as JSON")
	}
	return nil
}
