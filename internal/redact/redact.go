// Package redact strips sensitive values from strings before they are
// logged or embedded in error responses: connection strings, passwords,
// signed tokens, API keys and email addresses.
package redact

import "regexp"

// Redaction placeholders.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
)

var (
	// user:password@ in connection URLs (postgres://..., redis://...)
	connURLRegex = regexp.MustCompile(`(?i)(postgres|postgresql|redis|mysql)://[^@\s]+@`)

	// password=..., pwd: ... style credential assignments
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)(['"=:\s]+)[^'"&\s]{3,}`)

	// api_key=..., secret: ..., token=... style key assignments
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|secret|token|auth)(['"=:\s]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Three-part base64url JWTs
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String returns the input with all recognized sensitive fragments
// replaced by placeholders.
func String(input string) string {
	if input == "" {
		return input
	}
	out := connURLRegex.ReplaceAllString(input, "$1://"+CredentialPlaceholder+"@")
	out = jwtRegex.ReplaceAllString(out, KeyPlaceholder)
	out = passwordRegex.ReplaceAllString(out, "$1$2"+CredentialPlaceholder)
	out = apiKeyRegex.ReplaceAllString(out, "$1$2"+KeyPlaceholder)
	out = emailRegex.ReplaceAllString(out, Placeholder)
	return out
}

// Error redacts an error's message. Nil errors yield an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
