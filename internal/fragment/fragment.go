// Package fragment holds best-effort cleanup operations on a parsed wiki
// content fragment. Every operation takes ownership of the fragment, mutates
// it in place and returns it; a nil fragment is returned unchanged.
package fragment

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ContentSelector matches the wrapper MediaWiki puts around page content.
const ContentSelector = "div.mw-content-ltr, div.mw-parser-output"

// Fragment is an owned, mutable HTML subtree. It must not be shared between
// concurrent callers.
type Fragment struct {
	doc       *goquery.Document
	root      *goquery.Selection
	container bool
}

// Parse builds a fragment from markup. When the markup carries a MediaWiki
// content wrapper the fragment is rooted there, otherwise at the body.
func Parse(markup string) (*Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	if content := doc.Find(ContentSelector).First(); content.Length() > 0 {
		return &Fragment{doc: doc, root: content, container: true}, nil
	}
	return &Fragment{doc: doc, root: doc.Find("body").First()}, nil
}

// Root returns the selection every operation works on.
func (f *Fragment) Root() *goquery.Selection {
	if f == nil {
		return nil
	}
	return f.root
}

// HTML serializes the fragment. A content wrapper is kept; a bare body is
// serialized without the body element.
func (f *Fragment) HTML() (string, error) {
	if f == nil || f.root == nil || f.root.Length() == 0 {
		return "", nil
	}
	if f.container {
		return goquery.OuterHtml(f.root)
	}
	return f.root.Html()
}

// ImageAnchors returns the anchors carrying the image marker class, in
// document order.
func (f *Fragment) ImageAnchors() *goquery.Selection {
	if f == nil || f.root == nil {
		return nil
	}
	return f.root.Find("a.image")
}

// StripEditAffordances removes section edit links so no content-editing
// entry point reaches the public site.
func StripEditAffordances(f *Fragment) *Fragment {
	if f == nil || f.root == nil {
		return f
	}
	f.root.Find(".editsection, .mw-editsection").Remove()
	return f
}

// StripRedundantHeadings removes all top-level headings from the body. The
// page title is already shown from page metadata.
func StripRedundantHeadings(f *Fragment) *Fragment {
	if f == nil || f.root == nil {
		return f
	}
	f.root.Find("h1").Remove()
	return f
}

// RemoveComments drops HTML comment nodes, e.g. parser reports.
func RemoveComments(f *Fragment) *Fragment {
	if f == nil || f.root == nil {
		return f
	}
	for _, n := range f.root.Nodes {
		removeComments(n)
	}
	return f
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
