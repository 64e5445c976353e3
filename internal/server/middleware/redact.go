package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Redacted заменяет значение чувствительного поля в логах
const Redacted = "[REDACTED]"

// sensitiveFields are matched as lower-case substrings of a field name.
var sensitiveFields = []string{
	"password",
	"passwd",
	"pwd",
	"secret",
	"token",
	"key",
	"authorization",
	"auth",
	"bearer",
	"jwt",
	"session",
	"cookie",
	"ssn",
	"credit_card",
	"creditcard",
	"card_number",
	"cardnumber",
	"cvv",
	"cvc",
	"pin",
	"otp",
	"verification_code",
}

// sensitiveHeaders are matched exactly, case-insensitively.
var sensitiveHeaders = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"x-auth-token":        {},
	"x-access-token":      {},
	"x-refresh-token":     {},
	"proxy-authorization": {},
}

// IsSensitiveField проверяет, может ли поле содержать секрет
func IsSensitiveField(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// IsSensitiveHeader проверяет, является ли заголовок чувствительным
func IsSensitiveHeader(name string) bool {
	_, ok := sensitiveHeaders[strings.ToLower(name)]
	return ok
}

// RedactHeaders returns a copy of h with sensitive headers replaced.
func RedactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if IsSensitiveHeader(k) {
			out[k] = []string{Redacted}
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RedactValues returns a copy of v with sensitive keys replaced.
func RedactValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		if IsSensitiveField(k) {
			out[k] = []string{Redacted}
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// sanitizeURL returns path plus the query with sensitive parameters redacted.
func sanitizeURL(u *url.URL) string {
	path := sanitizePath(u.Path)
	if u.RawQuery == "" {
		return path
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return path
	}
	return path + "?" + RedactValues(q).Encode()
}

// sanitizePath заменяет сегмент после /token/ или /reset/ на ***
func sanitizePath(path string) string {
	if !strings.Contains(path, "/token/") && !strings.Contains(path, "/reset/") {
		return path
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if (part == "token" || part == "reset") && i+1 < len(parts) && parts[i+1] != "" {
			parts[i+1] = "***"
		}
	}
	return strings.Join(parts, "/")
}
