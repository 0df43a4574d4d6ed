package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// render writes v as indented json or the text form
func render(opts *rootOptions, w io.Writer, v any, text func() string) error {
	if opts.format() == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text())
	return err
}
