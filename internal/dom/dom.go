// Package dom wraps a parsed HTML tree behind a small set of typed queries.
//
// Extractors only ever ask for a node by marker (a CSS selector), the text of
// a node, its parent or its next sibling, and whether it carries an icon with
// a given SVG path signature. Keeping those queries here means a change in the
// page markup touches this package and the scraper layout, not every extractor.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page. Its embedded Node is the document root.
type Document struct {
	Node
}

// Parse reads HTML markup into a Document
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{Node: Node{sel: doc.Selection}}, nil
}

// ParseString is Parse for markup already held in memory
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Node is a single element of the tree, or the zero Node when a query
// matched nothing. Every method is safe to call on the zero Node.
type Node struct {
	sel *goquery.Selection
}

// Exists reports whether the node refers to an element
func (n Node) Exists() bool {
	return n.sel != nil && n.sel.Length() > 0
}

// Find returns the first descendant matching marker
func (n Node) Find(marker string) Node {
	if !n.Exists() {
		return Node{}
	}
	match := n.sel.Find(marker).First()
	if match.Length() == 0 {
		return Node{}
	}
	return Node{sel: match}
}

// FindAll returns every descendant matching marker, in document order
func (n Node) FindAll(marker string) []Node {
	if !n.Exists() {
		return nil
	}
	var nodes []Node
	n.sel.Find(marker).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s})
	})
	return nodes
}

// Parent returns the enclosing element
func (n Node) Parent() Node {
	if !n.Exists() {
		return Node{}
	}
	p := n.sel.Parent()
	if p.Length() == 0 {
		return Node{}
	}
	return Node{sel: p}
}

// Attr returns the value of the named attribute, or "" if absent
func (n Node) Attr(name string) string {
	if !n.Exists() {
		return ""
	}
	v, _ := n.sel.Attr(name)
	return v
}

// Text returns the node's text with every text fragment trimmed and the
// non-empty fragments concatenated.
func (n Node) Text() string {
	return n.TextJoin("")
}

// TextJoin is Text with the fragments joined by sep
func (n Node) TextJoin(sep string) string {
	if !n.Exists() {
		return ""
	}
	return joinText(n.sel.Nodes[0], sep)
}

// SiblingText returns the text of the node immediately following this one,
// which may be a bare text node. An element sibling yields its Text.
func (n Node) SiblingText() string {
	if !n.Exists() {
		return ""
	}
	next := n.sel.Nodes[0].NextSibling
	if next == nil {
		return ""
	}
	switch next.Type {
	case html.ElementNode:
		return joinText(next, "")
	default:
		return strings.TrimSpace(next.Data)
	}
}

// IconSignature returns the path data of the node's icon: the "d" attribute
// of the first path inside the first svg below the node.
func (n Node) IconSignature() string {
	return n.Find("svg").Find("path").Attr("d")
}

// HasIcon reports whether the node's icon signature equals signature exactly
func (n Node) HasIcon(signature string) bool {
	if signature == "" {
		return false
	}
	path := n.Find("svg").Find("path")
	if !path.Exists() {
		return false
	}
	return path.Attr("d") == signature
}

// joinText walks the subtree under root collecting text nodes
func joinText(root *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			if s := strings.TrimSpace(node.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			if node.Data == "script" || node.Data == "style" {
				return
			}
		case html.CommentNode:
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, sep)
}
