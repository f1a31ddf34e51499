// Package markup provides the structured document query capability used to discover episode links and media sources.
//
// Queries are by tag name and by attribute; results are optional values rather than
// nil selections so a missing element is explicit at the call site.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
)

// Node is an element, or the document root, of a parsed markup tree.
type Node struct {
	sel *goquery.Selection
}

// Parse reads an HTML document.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Node{}, fmt.Errorf("parse markup: %w", err)
	}
	return Node{sel: doc.Selection}, nil
}

// ParseString reads an HTML document held in memory.
func ParseString(s string) (Node, error) {
	return Parse(strings.NewReader(s))
}

// All returns every descendant element with the given tag, in document order.
func (n Node) All(tag string) []Node {
	if n.sel == nil {
		return nil
	}

	found := n.sel.Find(tag)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{sel: s})
	})
	return nodes
}

// First returns the first descendant element with the given tag.
func (n Node) First(tag string) mo.Option[Node] {
	if n.sel == nil {
		return mo.None[Node]()
	}

	found := n.sel.Find(tag).First()
	if found.Length() == 0 {
		return mo.None[Node]()
	}
	return mo.Some(Node{sel: found})
}

// Attr returns the value of the named attribute.
func (n Node) Attr(name string) mo.Option[string] {
	if n.sel == nil {
		return mo.None[string]()
	}
	return mo.TupleToOption(n.sel.Attr(name))
}

// Text returns the trimmed text content of the node.
func (n Node) Text() string {
	if n.sel == nil {
		return ""
	}
	return strings.TrimSpace(n.sel.Text())
}
