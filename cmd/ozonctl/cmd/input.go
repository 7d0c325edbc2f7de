package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readJSONFile decodes the JSON document at path into dst. A path of "-"
// reads from stdin.
func readJSONFile(path string, stdin io.Reader, dst any) error {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path) //nolint:gosec // path from trusted CLI flag
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", displayName(path), err)
	}
	return nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
