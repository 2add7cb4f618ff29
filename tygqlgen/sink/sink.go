// Package sink provides destinations for generated schema files.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// OutputSink receives generated file content. Implementations are safe for
// concurrent use.
type OutputSink interface {
	// WriteFile stores content at the slash-separated relative path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// BatchSink stores a set of files as a unit: when WriteFiles fails, none of
// the files it was given are left behind.
type BatchSink interface {
	OutputSink
	WriteFiles(ctx context.Context, files []File) error
}

// File is one output handed to a sink.
type File struct {
	// Path is slash-separated and relative to the sink root.
	Path    string
	Content []byte
}

// FilesystemSink writes below a root directory.
type FilesystemSink struct {
	Root string

	// Mode is the permission of written files. Zero means 0644.
	Mode os.FileMode

	// Overwrite replaces existing files. When false, writing an existing
	// path fails.
	Overwrite bool
}

// NewFilesystemSink returns a sink that overwrites files under root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644, Overwrite: true}
}

// WriteFile writes content through a temporary file in the target directory
// that is renamed into place, so readers never see a partial file.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	st, err := s.stage(ctx, path, content)
	if err != nil {
		return err
	}
	defer st.discard()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(st)
}

// WriteFiles stages every file next to its target before moving any of them
// into place. When a move fails, the files the batch created are removed;
// files it replaced keep their new content.
func (s *FilesystemSink) WriteFiles(ctx context.Context, files []File) error {
	var all []*staged
	defer func() {
		for _, st := range all {
			st.discard()
		}
	}()
	for _, f := range files {
		st, err := s.stage(ctx, f.Path, f.Content)
		if err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		all = append(all, st)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Overwrite {
		for _, st := range all {
			if st.existed {
				return fmt.Errorf("file already exists: %q", st.path)
			}
		}
	}

	for i, st := range all {
		if err := s.commit(st); err != nil {
			for _, done := range all[:i] {
				if !done.existed {
					os.Remove(done.full)
				}
			}
			return fmt.Errorf("write %s: %w", st.path, err)
		}
	}
	return nil
}

// staged is content written to a temporary file beside its target.
type staged struct {
	path    string
	full    string
	tmp     string
	existed bool
}

// discard removes the temporary file. It is a no-op once committed.
func (st *staged) discard() {
	os.Remove(st.tmp)
}

func (s *FilesystemSink) stage(ctx context.Context, path string, content []byte) (*staged, error) {
	full, err := resolve(s.Root, path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(dir, ".tygql-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	st := &staged{path: path, full: full, tmp: tmp.Name()}
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	switch {
	case werr != nil:
		st.discard()
		return nil, fmt.Errorf("write temp file: %w", werr)
	case cerr != nil:
		st.discard()
		return nil, fmt.Errorf("close temp file: %w", cerr)
	}
	if err := os.Chmod(st.tmp, mode); err != nil {
		st.discard()
		return nil, fmt.Errorf("set file mode: %w", err)
	}
	if _, err := os.Lstat(full); err == nil {
		st.existed = true
	}
	return st, nil
}

func (s *FilesystemSink) commit(st *staged) error {
	if s.Overwrite {
		if err := os.Rename(st.tmp, st.full); err != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}
	// Link fails if the target exists.
	if err := os.Link(st.tmp, st.full); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", st.path)
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// MemorySink keeps written files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// WriteFiles stores every file, or none when a path is invalid.
func (s *MemorySink) WriteFiles(ctx context.Context, files []File) error {
	for _, f := range files {
		if err := ValidatePath(f.Path); err != nil {
			return fmt.Errorf("invalid path %q: %w", f.Path, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range files {
		s.files[f.Path] = bytes.Clone(f.Content)
	}
	return nil
}

// Files returns a copy of every written file.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for path, content := range s.files {
		out[path] = bytes.Clone(content)
	}
	return out
}

// Get returns a copy of the file at path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Reset discards every file.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// CheckSink compares content against the files already under Root instead of
// writing it. It backs "tygql check".
type CheckSink struct {
	Root string

	mu    sync.Mutex
	stale []string
}

// NewCheckSink returns a CheckSink comparing against root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile records path as stale when the file on disk is missing or differs
// from content.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	existing, err := os.ReadFile(full)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err == nil && bytes.Equal(existing, content) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = append(s.stale, path)
	return nil
}

// Stale returns the out-of-date paths, sorted.
func (s *CheckSink) Stale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.stale)
	slices.Sort(out)
	return out
}

// resolve validates path and joins it onto root, refusing results outside root.
func resolve(root, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	full := filepath.Join(root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root directory: %q", path)
	}
	return full, nil
}

// ValidatePath reports whether path is a clean, relative, slash-separated
// path with no ".." elements.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case filepath.IsAbs(path), strings.HasPrefix(path, "/"):
		return errors.New("absolute paths not allowed")
	case len(path) >= 2 && path[1] == ':':
		return errors.New("absolute paths not allowed")
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}
