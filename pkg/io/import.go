package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Format is a parameter file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var extFormats = map[string]Format{
	".xlsx": FormatXLSX,
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// Extensions lists the file extensions [Import] and [Export] understand.
func Extensions() []string {
	return []string{".xlsx", ".toml", ".yaml", ".yml", ".json"}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported parameter file %q (want one of %s)", filepath.Base(path), strings.Join(Extensions(), ", "))
}

// parametersKey is the optional table that text formats may nest the
// values under, e.g. a [parameters] table in TOML.
const parametersKey = "parameters"

// Read decodes raw parameters from r in the given format.
//
// Text formats accept either a flat mapping of parameter keys to values or
// the same mapping nested under a top-level "parameters" key. Values are
// not checked here; pass the result to [params.Validate].
func Read(r io.Reader, f Format) (params.Raw, error) {
	switch f {
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatTOML:
		var m map[string]any
		if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		return flatten(m), nil
	case FormatYAML:
		var m map[string]any
		if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
		return flatten(m), nil
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
		return flatten(m), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}

func flatten(m map[string]any) params.Raw {
	if nested, ok := m[parametersKey].(map[string]any); ok {
		m = nested
	}
	raw := make(params.Raw, len(m))
	for k, v := range m {
		raw[k] = v
	}
	return raw
}

// Import reads the parameter file at path, choosing the decoder from the
// extension.
func Import(path string) (params.Raw, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	raw, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

// Load imports and validates the parameter file at path.
func Load(path string, opts params.Options) (*params.Set, error) {
	raw, err := Import(path)
	if err != nil {
		return nil, err
	}
	return params.Validate(raw, opts)
}
