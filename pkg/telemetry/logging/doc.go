// Package logging builds the process logger.
//
// The logger is a plain *slog.Logger (embedded in Logger) writing JSON or
// text to stderr, or to a size-rotated file via lumberjack when a file is
// configured. With Redact enabled every attribute passes through a
// Redactor, which masks values under secret-looking keys and scrubs
// provider API keys, bearer tokens and email addresses from free text.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Shutdown()
//
//	logger.Info("alert email sent", "provider", "openai", "to", "ops@example.com")
//	// {"level":"INFO","msg":"alert email sent","provider":"openai","to":"o***@example.com"}
package logging
