package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEscapesStrings(t *testing.T) {
	s := NewSanitizer(true)

	got := s.Sanitize("<script>alert(1)</script>")
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", got)

	got = s.Sanitize("Acme Co")
	assert.Equal(t, "Acme Co", got)
}

func TestSanitizeWalksNestedData(t *testing.T) {
	s := NewSanitizer(true)

	input := map[string]interface{}{
		"operator": map[string]interface{}{
			"name": "<b>Acme</b>",
		},
		"steps": []interface{}{
			map[string]interface{}{"company_name": "Mill & Sons"},
			"raw <tag>",
		},
		"depth":  2,
		"active": true,
	}

	got := s.Sanitize(input).(map[string]interface{})
	assert.Equal(t, "&lt;b&gt;Acme&lt;/b&gt;", got["operator"].(map[string]interface{})["name"])

	steps := got["steps"].([]interface{})
	assert.Equal(t, "Mill &amp; Sons", steps[0].(map[string]interface{})["company_name"])
	assert.Equal(t, "raw &lt;tag&gt;", steps[1])

	// non-string scalars pass through unchanged
	assert.Equal(t, 2, got["depth"])
	assert.Equal(t, true, got["active"])
}

func TestSanitizeIsIdempotent(t *testing.T) {
	s := NewSanitizer(true)

	input := map[string]interface{}{
		"name":  "<script>alert(1)</script>",
		"note":  "a & b",
		"plain": "hello",
		"list":  []interface{}{"<i>", "&lt;already&gt;"},
	}

	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestSanitizeDisabled(t *testing.T) {
	s := NewSanitizer(false)

	input := map[string]interface{}{"name": "<script>"}
	got := s.Sanitize(input)
	assert.Equal(t, input, got)
}
