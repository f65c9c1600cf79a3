package blogservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "<p>Hello, <strong>World</strong>!</p>",
			want:  "<p>Hello, <strong>World</strong>!</p>",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "multiple script tags",
			input: "<p>Here is some text.</p><script>alert(1);</script><p>More text.</p><SCRIPT SRC=\"evil.js\"></SCRIPT>",
			want:  "<p>Here is some text.</p><p>More text.</p>",
		},
		{
			name:  "multiline script body",
			input: "before<script type=\"text/javascript\">\nvar a = 1;\nalert(a);\n</script >after",
			want:  "beforeafter",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := sanitizeHTML(tc.input)
			assert.Equal(t, tc.want, output)
		})
	}
}

func TestSanitize_ActiveContent(t *testing.T) {
	payloads := []string{
		"<scr<script>x</script>ipt>alert(1)</script>",
		"<scr<script></script>ipt>alert(2)</scr<script></script>ipt>",
		`<img src="x" onerror="fetch('/delete/1')">`,
		`<p onclick="alert(1)">click</p>`,
		`<a href="javascript:alert(1)">link</a>`,
		`<svg><script>alert(1)</script></svg>`,
		`<iframe src="https://evil.example.com"></iframe>`,
	}

	for _, payload := range payloads {
		for name, sanitize := range map[string]func(string) string{"post": sanitizeHTML, "comment": sanitizeComment} {
			out := strings.ToLower(sanitize(payload))

			assert.NotContains(t, out, "<script", "%s: %s", name, payload)
			assert.NotContains(t, out, "onerror", "%s: %s", name, payload)
			assert.NotContains(t, out, "onclick", "%s: %s", name, payload)
			assert.NotContains(t, out, "javascript:", "%s: %s", name, payload)
			assert.NotContains(t, out, "<iframe", "%s: %s", name, payload)
		}
	}
}

func TestSanitizeComment(t *testing.T) {
	assert.Equal(t, "<p><em>nice</em> post</p>", sanitizeComment("<p><em>nice</em> post</p>"))
	assert.Equal(t, "hi", sanitizeComment(`<img src="https://example.com/a.png">hi`))

	link := sanitizeComment(`<a href="https://example.com">site</a>`)
	assert.Contains(t, link, `href="https://example.com"`)
	assert.Contains(t, link, `rel="nofollow`)
	assert.Contains(t, link, `target="_blank"`)
}
