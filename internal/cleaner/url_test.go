package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "https", in: "https://example.com", want: true},
		{name: "http with path and query", in: "http://example.com/a/b?c=d#e", want: true},
		{name: "upper case scheme", in: "HTTPS://example.com", want: true},
		{name: "ftp scheme", in: "ftp://example.com", want: false},
		{name: "no scheme", in: "invalid-url", want: false},
		{name: "empty", in: "", want: false},
		{name: "blank", in: "   ", want: false},
		{name: "scheme only", in: "https://", want: false},
		{name: "relative path", in: "/docs/index.html", want: false},
		{name: "javascript", in: "javascript:alert(1)", want: false},
		{name: "mailto", in: "mailto:dev@example.com", want: false},
		{name: "port without host", in: "http://:80", want: false},
		{name: "host and port", in: "http://localhost:8080/x", want: true},
		{name: "bad escape", in: "https://exa mple.com/%zz", want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidURL(tc.in))
		})
	}
}
