// Package redact strips sensitive material from strings before they reach
// logs or error responses. Error values in this codebase routinely carry
// connection strings, tokens, and SQL fragments; nothing from here should
// ever surface them.
package redact

import "regexp"

// Placeholders substituted for matched sensitive content.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// Password assignments in config dumps and error strings.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)

	// API keys and generic secrets.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|secret|access[_-]?key|auth[_-]?token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// The standard three-part base64url JWT shape.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses; they identify users and are routinely token subjects.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// SQL fragments leaked by driver errors.
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"]+)?`,
	)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{emailRegex, "[REDACTED_EMAIL]"},
		{sqlRegex, "[REDACTED_SQL]"},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, entry := range patternPlaceholders {
		result = entry.pattern.ReplaceAllString(result, entry.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
