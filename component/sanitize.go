package component

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var answerPolicy = bluemonday.UGCPolicy()

// SanitizeAnswer strips everything from FAQ answer HTML that is not safe user
// generated content and rebalances the remaining markup, so the answer always
// stays inside its container.
func SanitizeAnswer(s string) string {
	return canonicalFragment(strings.TrimSpace(answerPolicy.Sanitize(s)))
}

// canonicalFragment parses s as the content of a div and renders it back.
// Stray end tags are dropped and open elements are closed.
func canonicalFragment(s string) string {
	if len(s) == 0 {
		return s
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return html.EscapeString(s)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return html.EscapeString(s)
		}
	}

	return strings.TrimSpace(buf.String())
}
