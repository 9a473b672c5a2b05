package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAPIKeyName(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"huggingface", "HUGGINGFACE_API_KEY"},
		{"hugging-face", "HUGGING_FACE_API_KEY"},
	}

	for _, tt := range tests {
		if got := APIKeyName(tt.provider); got != tt.want {
			t.Errorf("APIKeyName(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestEnvSource_Lookup(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	src := NewEnvSource("")
	value, err := src.Lookup(context.Background(), "OPENAI_API_KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "sk-test" {
		t.Errorf("expected sk-test, got %q", value)
	}
}

func TestEnvSource_Prefix(t *testing.T) {
	t.Setenv("UW_EMAIL_SENDER", "alerts@example.com")

	src := NewEnvSource("UW_")
	value, err := src.Lookup(context.Background(), EmailSender)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "alerts@example.com" {
		t.Errorf("expected alerts@example.com, got %q", value)
	}
}

func TestEnvSource_EmptyIsNotFound(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewEnvSource("").Lookup(context.Background(), "ANTHROPIC_API_KEY")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(value), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile is subject to umask; force the exact mode.
	if err := os.Chmod(filepath.Join(dir, name), perm); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "GEMINI_API_KEY", "  gm-key\n", 0600)

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	value, err := src.Lookup(context.Background(), "GEMINI_API_KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "gm-key" {
		t.Errorf("expected trimmed value gm-key, got %q", value)
	}
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "LOOSE", "value", 0644)
	writeSecret(t, dir, "READONLY", "value", 0400)
	writeSecret(t, dir, "EMPTY", "\n", 0600)
	if err := os.Mkdir(filepath.Join(dir, "SUBDIR"), 0700); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileSource(dir)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}

	tests := []struct {
		name         string
		key          string
		wantErr      bool
		wantNotFound bool
	}{
		{name: "missing", key: "MISSING", wantErr: true, wantNotFound: true},
		{name: "empty file", key: "EMPTY", wantErr: true, wantNotFound: true},
		{name: "insecure permissions", key: "LOOSE", wantErr: true},
		{name: "read only is fine", key: "READONLY"},
		{name: "directory", key: "SUBDIR", wantErr: true},
		{name: "traversal", key: "../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Lookup(context.Background(), tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if errors.Is(err, ErrNotFound) != tt.wantNotFound {
				t.Errorf("Lookup(%q) ErrNotFound = %v, want %v", tt.key, errors.Is(err, ErrNotFound), tt.wantNotFound)
			}
		})
	}
}

func TestNewFileSource_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileSource(path); err == nil {
		t.Error("expected error for non-directory")
	}
	if _, err := NewFileSource(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

type stubSource struct {
	name   string
	values map[string]string
	err    error
	calls  int
}

func (s *stubSource) Lookup(ctx context.Context, name string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.values[name]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (s *stubSource) Name() string { return s.name }

func TestChain_Priority(t *testing.T) {
	first := &stubSource{name: "first", values: map[string]string{"A": "from-first"}}
	second := &stubSource{name: "second", values: map[string]string{"A": "from-second", "B": "b"}}
	chain := NewChain(nil, first, second)

	if v, err := chain.Lookup(context.Background(), "A"); err != nil || v != "from-first" {
		t.Errorf("Lookup(A) = %q, %v; want from-first", v, err)
	}
	if v, err := chain.Lookup(context.Background(), "B"); err != nil || v != "b" {
		t.Errorf("Lookup(B) = %q, %v; want b", v, err)
	}
	if _, err := chain.Lookup(context.Background(), "C"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(C) error = %v, want ErrNotFound", err)
	}
}

func TestChain_SourceFailureStops(t *testing.T) {
	boom := errors.New("permission denied")
	broken := &stubSource{name: "broken", err: boom}
	fallback := &stubSource{name: "fallback", values: map[string]string{"A": "a"}}
	chain := NewChain(nil, broken, fallback)

	_, err := chain.Lookup(context.Background(), "A")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("source failure must not look like a missing credential")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be consulted after a failure, got %d calls", fallback.calls)
	}
}

func TestLookupOptional(t *testing.T) {
	src := &stubSource{name: "s", values: map[string]string{"SET": "v"}}

	if v, err := LookupOptional(context.Background(), src, "SET"); err != nil || v != "v" {
		t.Errorf("LookupOptional(SET) = %q, %v", v, err)
	}
	if v, err := LookupOptional(context.Background(), src, "UNSET"); err != nil || v != "" {
		t.Errorf("LookupOptional(UNSET) = %q, %v; want empty, nil", v, err)
	}
}
