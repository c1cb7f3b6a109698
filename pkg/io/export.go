package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Write encodes s to w in the given format. Text formats hold a flat
// mapping of parameter key to value; integers are written without a
// fractional part. The output re-imports to a set equal to s.
func Write(s *params.Set, w io.Writer, f Format) error {
	raw := map[string]any(s.Raw())
	switch f {
	case FormatXLSX:
		return WriteXLSX(s, w)
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(raw); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	return nil
}

// Export writes s to path, choosing the encoder from the extension.
func Export(s *params.Set, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(s, file, f); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}
