package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tutorialgen/pkg/stash"
)

// MustLoadManifest decodes a manifest fixture, picking the format from the
// file extension.
func MustLoadManifest(t *testing.T, path string) stash.Manifest {
	t.Helper()

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	return manifest
}

// LoadManifest reads a manifest without requiring testing.T, allowing callers
// to wire fixtures in setup functions.
func LoadManifest(path string) (stash.Manifest, error) {
	if path == "" {
		return stash.Manifest{}, errors.New("testsupport: manifest path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return stash.Manifest{}, fmt.Errorf("testsupport: open manifest: %w", err)
	}
	defer f.Close()

	manifest, err := stash.DecodeManifest(f, stash.FormatForPath(path))
	if err != nil {
		return stash.Manifest{}, fmt.Errorf("testsupport: decode manifest: %w", err)
	}
	return manifest, nil
}

// ReadTree returns every regular file below dir keyed by its slash separated
// relative path. Generated output trees compare with a single cmp.Diff.
func ReadTree(t *testing.T, dir string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", dir, err)
	}
	return out
}

// WriteGolden rewrites a manifest golden file when UPDATE_GOLDENS is set,
// encoding it in the format the file extension selects.
func WriteGolden(t *testing.T, path string, manifest stash.Manifest) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	var buf bytes.Buffer
	if err := manifest.Encode(&buf, stash.FormatForPath(path)); err != nil {
		t.Fatalf("encode golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden diffs two manifests. Both sides should come from the same
// decoder so attribute numbers share a type.
func CompareGolden(want, got stash.Manifest) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
