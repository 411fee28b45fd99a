package editor

import (
	"strings"

	"golang.org/x/net/html"
)

type declaration struct {
	prop, value string
}

func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}

		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if len(prop) == 0 {
			continue
		}

		decls = append(decls, declaration{prop, value})
	}

	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ":" + d.value
	}

	return strings.Join(parts, ";")
}

// StyleProperty reads one declaration from the inline style of n.
func StyleProperty(n *html.Node, prop string) (string, bool) {
	style, _ := Attr(n, "style")
	for _, d := range parseStyle(style) {
		if d.prop == prop {
			return d.value, true
		}
	}

	return "", false
}

// SetStyleProperty updates one declaration of the inline style of n, keeping
// the others in place. An empty value removes the declaration.
func (f *Frame) SetStyleProperty(n *html.Node, prop, value string) {
	style, _ := Attr(n, "style")
	decls := parseStyle(style)

	out := decls[:0]
	found := false
	for _, d := range decls {
		if d.prop == prop {
			found = true
			if len(value) == 0 {
				continue
			}
			d.value = value
		}
		out = append(out, d)
	}

	if !found && len(value) > 0 {
		out = append(out, declaration{prop, value})
	}

	if len(out) == 0 {
		f.RemoveAttr(n, "style")
		return
	}

	f.SetAttr(n, "style", formatStyle(out))
}
