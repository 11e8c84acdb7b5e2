// Package importer builds tag trees from existing HTML markup.
package importer

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/tag"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// FromHTML parses r as an HTML fragment in a body context. The result is a
// fragment whose children are the top-level nodes of the markup.
//
// Attributes keep their source order. Whitespace-only text is dropped and
// other text is trimmed and normalized to NFC. Comments and doctypes are
// dropped.
func FromHTML(r io.Reader) (*tag.Tag, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}

	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, errors.WrapValidation(err, errors.ErrCodeInvalidMarkup, "failed to parse HTML")
	}

	root := tag.Fragment()
	for _, n := range nodes {
		root.Add(convert(n))
	}

	return root, nil
}

// FromString is FromHTML over a string.
func FromString(markup string) (*tag.Tag, error) {
	return FromHTML(strings.NewReader(markup))
}

// FromComponent renders c and imports the resulting markup.
func FromComponent(ctx context.Context, c templ.Component) (*tag.Tag, error) {
	if c == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidMarkup, "component is nil")
	}

	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, errors.ErrCodeRenderFailed, "failed to render component")
	}

	return FromHTML(&buf)
}

// convert returns nil for nodes that have no place in a tag tree.
func convert(n *html.Node) *tag.Tag {
	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		return tag.Text(norm.NFC.String(text))

	case html.ElementNode:
		attrs := make([]tag.Attr, 0, len(n.Attr))
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			attrs = append(attrs, tag.Attr{Key: key, Value: a.Val})
		}

		t := tag.New(tag.KindElement, n.Data, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.Add(convert(c))
		}
		return t

	default:
		return nil
	}
}
