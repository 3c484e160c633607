package printers

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format selects structured output. The zero Format pretty prints.
type Format struct {
	JSON bool
	YAML bool
}

// Structured reports whether output should be encoded instead of pretty printed.
func (f Format) Structured() bool {
	return f.JSON || f.YAML
}

// Encode writes v to color.Output as JSON or YAML, whichever was requested.
func (f Format) Encode(v any) error {
	return f.EncodeTo(color.Output, v)
}

// EncodeTo writes v to w. JSON wins when both formats are set.
func (f Format) EncodeTo(w io.Writer, v any) error {
	if f.YAML && !f.JSON {
		return YAML(w, v)
	}
	return JSON(w, v)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
