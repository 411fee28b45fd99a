package editor

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of an attribute of n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}

	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

// IsAncestorOrSelf reports whether n is root or lies inside root.
func IsAncestorOrSelf(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}

	return false
}

// Closest walks from n towards the root and returns the first element that
// satisfies match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}

	return nil
}

// ClosestTag returns the nearest element with one of the given tag names.
func ClosestTag(n *html.Node, tags ...string) *html.Node {
	return Closest(n, func(e *html.Node) bool {
		for _, t := range tags {
			if e.Data == t {
				return true
			}
		}
		return false
	})
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}

	if !fn(n) {
		return
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// ElementsByTag collects the elements named tag in the subtree of n.
func ElementsByTag(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	Walk(n, func(e *html.Node) bool {
		if e.Type == html.ElementNode && e.Data == tag {
			found = append(found, e)
		}
		return true
	})

	return found
}

func hasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}

	return false
}
