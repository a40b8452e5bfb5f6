package vestractor

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"vestibot/pkg/htmlutil"
)

// Document is a parsed page that can be queried with css selectors.
type Document struct {
	Url string
	doc *goquery.Document
}

// Element is a single node selected from a Document.
type Element struct {
	node *html.Node
}

// ParseDocument reads an html page from r, url is the address it was fetched from.
func ParseDocument(url string, r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Url: url, Err: err}
	}
	return &Document{Url: url, doc: doc}, nil
}

// ParseDocumentString is ParseDocument for an in-memory page.
func ParseDocumentString(url, page string) (*Document, error) {
	return ParseDocument(url, bytes.NewBufferString(page))
}

// Find returns the elements matching selector in document order. goquery compiles an invalid
// selector into a matcher that matches nothing.
func (d *Document) Find(selector string) []Element {
	sel := d.doc.Find(selector)
	elements := make([]Element, len(sel.Nodes))
	for i, n := range sel.Nodes {
		elements[i] = Element{node: n}
	}
	return elements
}

// Tag is the lowercase tag name of the element.
func (e Element) Tag() string {
	return strings.ToLower(e.node.Data)
}

// Text is the trimmed text content of the element.
func (e Element) Text() string {
	return strings.TrimSpace(htmlutil.GetText(e.node))
}

// Attr looks up an attribute by name.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr is Attr with a fallback for missing attributes.
func (e Element) AttrOr(name, fallback string) string {
	value, ok := e.Attr(name)
	if !ok {
		return fallback
	}
	return value
}
