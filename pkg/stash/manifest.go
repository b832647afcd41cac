package stash

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the serialised view of a stash consumed by the capDL build
// step: the objects to create, each ELF's cspace layout and special pages.
type Manifest struct {
	Objects      map[string]Object        `json:"objects" yaml:"objects"`
	CSpaceLayout map[string][]Cap         `json:"cspace_layout" yaml:"cspace_layout"`
	SpecialPages map[string][]SpecialPage `json:"special_pages" yaml:"special_pages"`
	ELFs         map[string]ELF           `json:"elfs" yaml:"elfs"`
}

// Format selects the manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultManifestFile is the file written when a template does not name
// one.
func DefaultManifestFile(format Format) string {
	if format == "" {
		format = FormatJSON
	}
	return "manifest." + string(format)
}

// ParseFormat resolves a format name; empty means JSON.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("stash: unknown manifest format %q", raw)
	}
}

// FormatForPath picks the encoding from a file extension, defaulting to
// JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes m to w in the requested format.
func (m Manifest) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("stash: encode yaml manifest: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("stash: encode json manifest: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("stash: unknown manifest format %q", format)
	}
}

// DecodeManifest reads a manifest written by Encode.
func DecodeManifest(r io.Reader, format Format) (Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil {
			return Manifest{}, fmt.Errorf("stash: decode yaml manifest: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return Manifest{}, fmt.Errorf("stash: decode json manifest: %w", err)
		}
	default:
		return Manifest{}, fmt.Errorf("stash: unknown manifest format %q", format)
	}
	return m, nil
}
