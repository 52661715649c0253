package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var stripCases = []struct {
	name string
	in   string
	want string
}{
	{name: "empty", in: "", want: ""},
	{name: "plain text", in: "just text", want: "just text"},
	{name: "nested inline", in: "<p>A test repository with <strong>HTML</strong> content</p>", want: "A test repository with HTML content"},
	{name: "whitespace runs", in: "  <div>\n\tline one\n\n   line two </div>  ", want: "line one line two"},
	{name: "entities decoded", in: "Fish &amp; Chips&nbsp;&gt; rest", want: "Fish & Chips > rest"},
	{name: "escaped markup", in: "a &lt;b&gt;bold&lt;/b&gt; word", want: "a bold word"},
	{name: "comments dropped", in: "keep<!-- drop -->this", want: "keepthis"},
	{name: "adjacent blocks concatenate", in: "<p>one</p><p>two</p>", want: "onetwo"},
	{name: "unclosed tag", in: "text <b>bold", want: "text bold"},
	{name: "lone angle bracket", in: "1 < 2 and 3 > 2", want: "1 < 2 and 3 > 2"},
	{name: "only tags", in: "<br/><hr>", want: ""},
}

func TestStripHTML(t *testing.T) {
	for _, tc := range stripCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripHTML(tc.in))
		})
	}
}

func TestStripHTML_Idempotent(t *testing.T) {
	inputs := []string{
		"&amp;lt;p&amp;gt;double escaped&amp;lt;/p&amp;gt;",
		"<scr<script>ipt>x</script>",
		"<<>>",
		"a<b",
		"&lt;",
		"&" + strings.Repeat("amp;", 12) + "lt;b&gt;x",
		"&" + strings.Repeat("amp;", 40) + "lt;p&" + strings.Repeat("amp;", 40) + "gt;deep",
	}
	for _, tc := range stripCases {
		inputs = append(inputs, tc.in)
	}

	for _, in := range inputs {
		once := StripHTML(in)
		assert.Equal(t, once, StripHTML(once), "input %q", in)
	}
}

func TestStripHTML_DeeplyEscapedMarkup(t *testing.T) {
	in := "&" + strings.Repeat("amp;", 12) + "lt;b&gt;x"
	assert.Equal(t, "x", StripHTML(in))
}
