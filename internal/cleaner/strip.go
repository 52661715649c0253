package cleaner

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML drops every tag, decodes entities and collapses whitespace.
//
// Decoded entities can spell new markup ("&lt;b&gt;" becomes "<b>"), so the
// text is stripped again until it stops changing. That keeps
// StripHTML(StripHTML(x)) == StripHTML(x). After the first pass a change
// always removes markup or an entity, so the loop ends.
func StripHTML(s string) string {
	out := stripOnce(s)
	for {
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func stripOnce(s string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a malformed tail the tokenizer gave up on
			return collapseSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
