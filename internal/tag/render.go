package tag

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// IndentUnit is the indentation emitted once per level of depth.
const IndentUnit = "  "

// voidElements never take a closing tag.
var voidElements = map[string]struct{}{
	"input": {},
	"img":   {},
	"meta":  {},
	"br":    {},
	"hr":    {},
	"link":  {},
}

var _ templ.Component = (*Tag)(nil)

// IsVoid reports whether name is rendered without a closing tag.
func IsVoid(name string) bool {
	_, ok := voidElements[name]
	return ok
}

// String renders t and its subtree as indented markup.
func (t *Tag) String() string {
	indent := strings.Repeat(IndentUnit, t.Depth())

	if t.Kind == KindText {
		return indent + t.Name
	}

	if t.Kind == KindFragment {
		return indent + t.renderChildren() + indent
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(t.Name)
	for _, a := range t.attrs.list() {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteString(`"`)
	}
	b.WriteString(" ")
	b.WriteString(strings.Join(t.args, " "))
	b.WriteString(">")

	switch {
	case len(t.children) > 0:
		b.WriteString("\n")
		b.WriteString(t.renderChildren())
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("</" + t.Name + ">")
	case IsVoid(t.Name):
	default:
		b.WriteString("</" + t.Name + ">")
	}

	return b.String()
}

func (t *Tag) renderChildren() string {
	parts := make([]string, len(t.children))
	for i, c := range t.children {
		parts[i] = c.String()
	}
	return strings.Join(parts, "\n")
}

// WriteTo writes the rendered subtree to w.
func (t *Tag) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// Render writes the rendered subtree to w so a tree can be used wherever a
// templ.Component is expected.
func (t *Tag) Render(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.WriteTo(w)
	return err
}
