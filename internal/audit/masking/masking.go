package masking

import "strings"

const maskToken = "****"

var sensitiveKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"email":    {},
	"phone":    {},
}

// MaskValue redacts a value while keeping its last four characters.
func MaskValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// Redact copies metadata with the values of personal or secret keys masked.
// Nested maps are redacted recursively.
func Redact(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for key, value := range metadata {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			out[key] = Redact(nested)
			continue
		}
		if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			if s, ok := value.(string); ok {
				out[key] = MaskValue(s)
				continue
			}
		}
		out[key] = value
	}
	return out
}
