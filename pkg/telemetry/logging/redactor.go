package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor scrubs credentials from log attributes.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and its replacement.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
	replace     func(string) string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
	PatternEmail       = "email"
)

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			{
				// OpenAI/Anthropic style sk- keys, Hugging Face hf_ tokens,
				// Perplexity pplx- keys and Google AIza keys.
				name:        PatternAPIKey,
				regex:       regexp.MustCompile(`\b(sk-[A-Za-z0-9_-]{4,}|hf_[A-Za-z0-9]{4,}|pplx-[A-Za-z0-9]{4,}|AIza[0-9A-Za-z_-]{8,})`),
				replacement: "***",
			},
			{
				name:        PatternBearerToken,
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				name:        PatternPassword,
				regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
				replacement: "$1: ***",
			},
			{
				name:    PatternEmail,
				regex:   regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
				replace: RedactEmail,
			},
		},
	}
}

// RedactString redacts secrets from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, p := range r.patterns {
		if p.replace != nil {
			redacted = p.regex.ReplaceAllStringFunc(redacted, p.replace)
			continue
		}
		redacted = p.regex.ReplaceAllString(redacted, p.replacement)
	}
	return redacted
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. String values under
// sensitive keys are masked entirely; every other string value and error is
// pattern-scrubbed.
func (r *Redactor) ReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, redactValue(a.Value.String()))
		}
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

// isSensitiveKey checks if a key name indicates secret data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"authorization",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value completely.
func redactValue(v string) string {
	if v == "" {
		return ""
	}
	return "***"
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return string(username[0]) + "***@" + domain
}
