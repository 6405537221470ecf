package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/layout"
)

// WriteState encodes a middle state as indented JSON.
// The output can be read back with [ReadState].
func WriteState(state []column.State, w io.Writer) error {
	return writeJSON(state, w)
}

// ExportState writes a middle state to a JSON file at path.
func ExportState(state []column.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteState(state, f)
}

// WriteLayout encodes a full layout result as indented JSON.
func WriteLayout(res *layout.Result, w io.Writer) error {
	return writeJSON(res, w)
}

func writeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}
