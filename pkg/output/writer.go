package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Option configures a Writer.
type Option func(*Writer)

// WithDocSite disables file output; doc site renders only produce the
// document itself.
func WithDocSite(docsite bool) Option {
	return func(w *Writer) {
		w.docsite = docsite
	}
}

// WithLedger records every written path, one per line, on ledger.
func WithLedger(ledger io.Writer) Option {
	return func(w *Writer) {
		w.ledger = ledger
	}
}

// WithLogger attaches a logger for write events.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Writer emits generated files below a root directory.
type Writer struct {
	mu      sync.Mutex
	root    string
	docsite bool
	ledger  io.Writer
	logger  *zap.Logger
	written []string
}

// NewWriter returns a Writer rooted at outDir. An empty outDir disables
// output.
func NewWriter(outDir string, options ...Option) *Writer {
	w := &Writer{
		root:   strings.TrimSpace(outDir),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// Enabled reports whether Write touches the filesystem.
func (w *Writer) Enabled() bool {
	return w != nil && w.root != "" && !w.docsite
}

// Root returns the output directory.
func (w *Writer) Root() string {
	if w == nil {
		return ""
	}
	return w.root
}

// Path joins rel onto the output directory.
func (w *Writer) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// Write stores content at rel below the output directory and returns the
// written path. When output is disabled it returns "" and does nothing.
func (w *Writer) Write(rel, content string) (string, error) {
	if !w.Enabled() {
		return "", nil
	}
	if strings.TrimSpace(rel) == "" {
		return "", errors.New("output: file name is required")
	}

	path := w.Path(rel)
	if err := writeFile(path, content); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.record(path); err != nil {
		return "", err
	}
	w.logger.Debug("file written", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}

func (w *Writer) record(path string) error {
	w.written = append(w.written, path)
	if w.ledger == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w.ledger, path); err != nil {
		return fmt.Errorf("output: record %s: %w", path, err)
	}
	return nil
}

// Written returns the paths written so far, in order.
func (w *Writer) Written() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}

// WriteFile atomically replaces path with content, creating parent
// directories as needed. New files are created with mode 0644.
func WriteFile(path, content string) error {
	return writeFile(path, content)
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("output: create directory %s: %w", dir, err)
		}
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	if !existed {
		if err := os.Chmod(path, fileMode); err != nil {
			return fmt.Errorf("output: chmod %s: %w", path, err)
		}
	}
	return nil
}
