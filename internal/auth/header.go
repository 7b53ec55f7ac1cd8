package auth

import (
	"encoding/base64"
	"strings"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Returns "" when the header is absent, malformed, or carries
// a different scheme.
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BasicCredentials decodes an "Authorization: Basic base64(user:pass)"
// header value into its identifier and password. The payload is split on
// the first colon, so a password may contain colons but an identifier
// may not.
func BasicCredentials(header string) (identifier, password string, ok bool) {
	scheme, payload, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", "", false
	}

	identifier, password, found = strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return identifier, password, true
}
