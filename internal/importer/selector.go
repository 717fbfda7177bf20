package importer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// selectNode finds the first element matching selector. Supported forms are
// "#id", ".class" and a bare tag name. An empty selector selects <body>, or
// the document itself when there is no body.
func selectNode(doc *html.Node, selector string) (*html.Node, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		if body := find(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
			return body, nil
		}
		return doc, nil
	}

	var match func(*html.Node) bool
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		match = func(n *html.Node) bool { return attr(n, "id") == id }
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		match = func(n *html.Node) bool {
			for _, field := range strings.Fields(attr(n, "class")) {
				if field == class {
					return true
				}
			}
			return false
		}
	default:
		tag := strings.ToLower(selector)
		match = func(n *html.Node) bool { return n.Data == tag }
	}

	if node := find(doc, match); node != nil {
		return node, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSelectorNotFound, selector)
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// extractTitle prefers the document <title>, then the first <h1>.
func extractTitle(doc *html.Node) string {
	if title := find(doc, func(n *html.Node) bool { return n.Data == "title" }); title != nil {
		if value := text(title); value != "" {
			return value
		}
	}
	if h1 := find(doc, func(n *html.Node) bool { return n.Data == "h1" }); h1 != nil {
		return text(h1)
	}
	return ""
}

func extractMeta(doc *html.Node, name string) string {
	meta := find(doc, func(n *html.Node) bool {
		return n.Data == "meta" && strings.EqualFold(attr(n, "name"), name)
	})
	if meta == nil {
		return ""
	}
	return strings.TrimSpace(attr(meta, "content"))
}
