// Package credentials resolves API keys and mail credentials for a poll run.
//
// Credentials are looked up by their environment variable name. Provider keys
// follow the <PROVIDER>_API_KEY convention (see APIKeyName); alert delivery
// uses EMAIL_SENDER, EMAIL_PASSWORD and EMAIL_RECEIVER.
//
// Two sources are available and are usually chained, environment first:
//
//	chain := credentials.NewChain(logger,
//		credentials.NewEnvSource(""),
//		fileSource, // credentials.NewFileSource("/run/secrets/usagewatch")
//	)
//	key, err := chain.Lookup(ctx, credentials.APIKeyName("openai"))
//	if errors.Is(err, credentials.ErrNotFound) {
//		// provider has no key configured
//	}
//
// Values are never logged; names are redacted in debug output.
package credentials
