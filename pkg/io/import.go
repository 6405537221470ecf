package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/matzehuels/colgrid/pkg/column"
	"github.com/matzehuels/colgrid/pkg/errors"
)

// Format is a specification encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s (want .json, .yaml, .yml or .toml)", path)
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", s)
}

type specDoc struct {
	Columns []column.Spec `json:"columns" yaml:"columns" toml:"columns"`
}

// ReadSpecs decodes a column specification from r.
//
// ReadSpecs does not close r. Malformed input and unknown fixed or width
// values fail with INVALID_FORMAT.
func ReadSpecs(r io.Reader, format Format) ([]column.Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read specs")
	}
	trimmed := bytes.TrimSpace(data)

	var doc specDoc
	switch format {
	case FormatJSON:
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &doc.Columns)
		} else {
			err = json.Unmarshal(trimmed, &doc)
		}
	case FormatYAML:
		if len(trimmed) > 0 && trimmed[0] == '-' {
			err = yaml.Unmarshal(trimmed, &doc.Columns)
		} else {
			err = yaml.Unmarshal(trimmed, &doc)
		}
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s specs", format)
	}
	return doc.Columns, nil
}

// ImportSpecs reads the specification file at path.
func ImportSpecs(path string) ([]column.Spec, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadSpecs(f, format)
}

// ReadState decodes a JSON middle state from r.
func ReadState(r io.Reader) ([]column.State, error) {
	var state []column.State
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode state")
	}
	return state, nil
}

// ImportState reads a JSON middle state file.
func ImportState(path string) ([]column.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadState(f)
}
