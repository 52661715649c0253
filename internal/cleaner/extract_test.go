package cleaner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractLinks(t *testing.T) {
	testCases := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "document order",
			html: `<a href="https://example.com">x</a><a href="https://github.com">y</a>`,
			want: []string{"https://example.com", "https://github.com"},
		},
		{
			name: "duplicates and non urls kept verbatim",
			html: `<p><a href="/docs">d</a> <a href="#top">t</a><a href="/docs">again</a></p>`,
			want: []string{"/docs", "#top", "/docs"},
		},
		{
			name: "anchors without href skipped",
			html: `<a name="top">x</a><a href="https://example.com">y</a><a href="">z</a>`,
			want: []string{"https://example.com"},
		},
		{
			name: "malformed markup",
			html: `<a href="https://a.example">one</a><p>unclosed <a href='https://b.example'>two <a href=https://c.example>`,
			want: []string{"https://a.example", "https://b.example", "https://c.example"},
		},
		{
			name: "empty input",
			html: "",
			want: []string{},
		},
		{
			name: "plain text",
			html: "no markup here",
			want: []string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractLinks(tc.html)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ExtractLinks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractImages(t *testing.T) {
	html := `<p><img src="https://img.example/a.png"><img alt="no src"><span><img src="b.gif"/></span></p>`
	want := []string{"https://img.example/a.png", "b.gif"}

	if diff := cmp.Diff(want, ExtractImages(html)); diff != "" {
		t.Errorf("ExtractImages() mismatch (-want +got):\n%s", diff)
	}
	if got := ExtractImages(""); got == nil || len(got) != 0 {
		t.Errorf("ExtractImages(\"\") = %#v, want empty non-nil slice", got)
	}
}
