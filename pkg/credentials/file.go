package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads credentials from individual files in a directory.
//
// This supports Kubernetes-style secret mounting where each credential is a
// separate file named after the credential (e.g. <dir>/OPENAI_API_KEY).
// File permissions must be 0600 or 0400.
type FileSource struct {
	Dir string
}

// NewFileSource creates a file-based credential source.
// The directory must exist.
func NewFileSource(dir string) (*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", dir)
	}

	return &FileSource{Dir: dir}, nil
}

// Lookup reads the credential file for name.
//
// Whitespace around the value is trimmed. An empty file is treated as an
// unset credential.
func (s *FileSource) Lookup(ctx context.Context, name string) (string, error) {
	path := filepath.Join(s.Dir, name)

	absBase, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secrets directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve credential path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid credential name %q: path escapes secrets directory", name)
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat credential file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("credential path is not a regular file: %s", name)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path is confined to Dir above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: file %s is empty", ErrNotFound, name)
	}

	return value, nil
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return "file"
}
