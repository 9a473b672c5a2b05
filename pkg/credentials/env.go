package credentials

import (
	"context"
	"fmt"
	"os"
)

// EnvSource reads credentials from environment variables.
//
// An optional prefix namespaces the variables: with prefix "USAGEWATCH_",
// the credential OPENAI_API_KEY is read from USAGEWATCH_OPENAI_API_KEY.
// An empty value is treated the same as an unset variable.
type EnvSource struct {
	Prefix string
}

// NewEnvSource creates an environment credential source.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{Prefix: prefix}
}

// Lookup returns the value of Prefix+name.
func (s *EnvSource) Lookup(ctx context.Context, name string) (string, error) {
	envVar := s.Prefix + name

	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("%w: env var %s", ErrNotFound, envVar)
	}

	return value, nil
}

// Name returns the source name.
func (s *EnvSource) Name() string {
	return "env"
}
