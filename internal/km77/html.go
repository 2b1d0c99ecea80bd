// SPDX-License-Identifier: MIT

package km77

import (
	"strings"

	"golang.org/x/net/html"
)

// Small traversal helpers over x/net/html node trees. The catalog pages
// are server-rendered and stable, so class/id anchors are enough; no CSS
// engine needed.

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// findAll collects every descendant (including n itself) matching pred,
// in document order.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if pred(node) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant matching pred in document order.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func elementWithClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return isElement(n, tag) && hasClass(n, class)
	}
}

func elementWithID(tag, id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return isElement(n, tag) && attr(n, "id") == id
	}
}

// textContent returns the concatenated text of a subtree with outer
// whitespace trimmed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
