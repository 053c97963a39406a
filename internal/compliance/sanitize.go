package compliance

import (
	"html"
)

// Sanitizer escapes untrusted string content before it is interpolated into
// a document template. It walks nested maps and lists; non-string scalars
// pass through unchanged. Escaping is idempotent, so already-sanitized data
// is safe to sanitize again.
type Sanitizer struct {
	enabled bool
}

func NewSanitizer(enabled bool) *Sanitizer {
	return &Sanitizer{enabled: enabled}
}

// Sanitize returns a copy of value with every string scalar markup-escaped.
// When sanitization is disabled by configuration the value is returned as-is.
func (s *Sanitizer) Sanitize(value interface{}) interface{} {
	if !s.enabled {
		return value
	}
	return s.walk(value)
}

func (s *Sanitizer) walk(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return escape(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = s.walk(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			out[k] = escape(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = s.walk(item)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = escape(item)
		}
		return out
	default:
		return value
	}
}

// escape markup-escapes a string without double-escaping entities that are
// already escaped. html.EscapeString alone is not idempotent ("&lt;" would
// become "&amp;lt;"), so entities are unescaped first.
func escape(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}
