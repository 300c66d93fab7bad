// Package page wraps a parsed HTML document with the small DOM surface the
// dashboard scripts need: id lookup, text content, mutation and a ready event.
package page

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyListener runs once the document's structure is available.
type ReadyListener func(doc *Document) error

// Document is a parsed page.
type Document struct {
	root      *html.Node
	once      sync.Once
	listeners []ReadyListener
}

// Parse reads a complete HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	return &Document{root: root}, nil
}

// Load parses the document at path; "-" reads standard input.
func Load(path string) (*Document, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// OnReady registers a listener for the ready event. Listeners registered
// after the event has fired are never called.
func (d *Document) OnReady(fn ReadyListener) {
	d.listeners = append(d.listeners, fn)
}

// Ready fires the ready event. Only the first call has any effect; every
// listener runs even if an earlier one failed, and their errors are combined.
func (d *Document) Ready() error {
	var err error
	d.once.Do(func() {
		for _, fn := range d.listeners {
			err = multierr.Append(err, fn(d))
		}
		d.listeners = nil
	})
	return err
}

// ElementByID returns the first element whose id attribute equals id, or nil.
func (d *Document) ElementByID(id string) *Element {
	if n := findByID(d.root, id); n != nil {
		return &Element{node: n}
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("failed to render HTML document: %w", err)
	}
	return nil
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Element is a node inside a Document.
type Element struct {
	node *html.Node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// SetTag renames the element, keeping its attributes and children.
func (e *Element) SetTag(tag string) {
	e.node.Data = tag
	e.node.DataAtom = atom.Lookup([]byte(tag))
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// TextContent concatenates every descendant text node, like the DOM property.
func (e *Element) TextContent() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return sb.String()
}

// AppendElement creates a child element with the given attributes and returns it.
func (e *Element) AppendElement(tag string, attrs ...html.Attribute) *Element {
	child := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	e.node.AppendChild(child)
	return &Element{node: child}
}

// AppendText adds a text node as the last child.
func (e *Element) AppendText(text string) {
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Children returns the direct element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{node: c})
		}
	}
	return out
}
