package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/api/v1/articles", "/articles"},
		{"/api/v1", "/"},
		{"/api/v12/articles", "/articles"},
		{"/articles/some-slug", "/articles/some-slug"},
		{"/api/vnext/articles", "/vnext/articles"},
		{"", "/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePath(tc.in), "input %q", tc.in)
	}
}

func TestIsBotUA(t *testing.T) {
	assert.True(t, isBotUA("Mozilla/5.0 (compatible; Googlebot/2.1)"))
	assert.True(t, isBotUA("curl/8.4.0"))
	assert.True(t, isBotUA("python-requests/2.31"))
	assert.False(t, isBotUA("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0"))
}

func TestParseUA(t *testing.T) {
	got := parseUA("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36")
	assert.Equal(t, "Chrome", got["browser"])
	assert.Equal(t, "Windows", got["os"])
	assert.Equal(t, "desktop", got["type"])

	got = parseUA("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "Safari", got["browser"])
	assert.Equal(t, "iOS", got["os"])
}
