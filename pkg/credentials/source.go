package credentials

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a credential is not configured in a source.
var ErrNotFound = errors.New("credential not found")

// Well-known credential names for alert delivery.
const (
	EmailSender   = "EMAIL_SENDER"
	EmailPassword = "EMAIL_PASSWORD"
	EmailReceiver = "EMAIL_RECEIVER"
)

// Source resolves credentials by name.
//
// Names use environment variable form (OPENAI_API_KEY, EMAIL_SENDER).
// Implementations return an error wrapping ErrNotFound when the name is not
// configured, and any other error when the backend itself fails.
type Source interface {
	// Lookup returns the credential value for name.
	Lookup(ctx context.Context, name string) (string, error)

	// Name returns the source name (env, file) for logging.
	Name() string
}

// APIKeyName returns the credential name holding a provider's API key.
//
// Example: "openai" -> "OPENAI_API_KEY", "hugging-face" -> "HUGGING_FACE_API_KEY"
func APIKeyName(provider string) string {
	return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
}

// redactName returns a redacted version of a credential name for logging.
func redactName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
