package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves a reference as the name of an environment variable.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider returns a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the value of the environment variable ref.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.lookup(ref)
	if !ok {
		return "", fmt.Errorf("%w: environment variable %q is not set", ErrInvalidRef, ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// FileProvider resolves a reference as a file path and returns the file's
// contents with surrounding whitespace trimmed. Relative paths are resolved
// against Dir.
type FileProvider struct {
	Dir string
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Resolve reads the file named by ref.
func (p *FileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := ref
	if !filepath.IsAbs(path) && p.Dir != "" {
		path = filepath.Join(p.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Close is a no-op.
func (p *FileProvider) Close() error { return nil }

var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*FileProvider)(nil)
)
