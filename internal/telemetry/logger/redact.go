package logger

import (
	"log/slog"
	"strings"

	"github.com/yndnr/linkdrop-go/pkg/token"
)

// downloadPathPrefix marks URL paths whose last segment is a link id.
const downloadPathPrefix = "/download/"

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Download URLs keep enough of the id to correlate requests.
		if strings.HasPrefix(strVal, downloadPathPrefix) {
			return slog.String(a.Key, RedactPath(strVal))
		}

		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactPath masks the link id in a /download/<id> URL path. Other paths
// are returned unchanged.
func RedactPath(path string) string {
	if !strings.HasPrefix(path, downloadPathPrefix) {
		return path
	}
	id := path[len(downloadPathPrefix):]
	if id == "" {
		return path
	}
	return downloadPathPrefix + token.Mask(id)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
