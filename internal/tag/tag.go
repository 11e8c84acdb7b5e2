package tag

// Kind distinguishes the three node variants.
type Kind int

const (
	// KindElement is a named element with attributes and children.
	KindElement Kind = iota
	// KindText is a literal text leaf.
	KindText
	// KindFragment is a transparent grouping node.
	KindFragment
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Tag is a node of the document tree.
//
// For text nodes Name holds the literal content. Attributes, arguments and
// children may be present on text nodes but are never rendered.
type Tag struct {
	Name string
	Kind Kind

	attrs    attrSet
	args     []string
	children []*Tag

	// parent is a back link only; the parent owns t, never the reverse.
	parent *Tag
}

// New creates a node of the given kind. Attributes are stored in slice
// order, a repeated key overwrites the earlier value in place. Nil children
// are skipped.
func New(kind Kind, name string, attrs []Attr, children ...*Tag) *Tag {
	t := &Tag{Name: name, Kind: kind}
	for _, a := range attrs {
		t.attrs.set(a.Key, a.Value)
	}
	return t.Add(children...)
}

// Element creates an element node with the given children.
func Element(name string, children ...*Tag) *Tag {
	return New(KindElement, name, nil, children...)
}

// Text creates a text leaf holding content.
func Text(content string) *Tag {
	return New(KindText, content, nil)
}

// Fragment creates a transparent grouping node.
func Fragment(children ...*Tag) *Tag {
	return New(KindFragment, "", nil, children...)
}

// IsText reports whether t is a text leaf.
func (t *Tag) IsText() bool {
	return t.Kind == KindText
}

// IsFragment reports whether t is a transparent grouping node.
func (t *Tag) IsFragment() bool {
	return t.Kind == KindFragment
}

// Add appends children in argument order and points each one back at t.
// Nil entries are skipped. A child that already belongs to another parent
// is not removed from that parent's children.
func (t *Tag) Add(children ...*Tag) *Tag {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = t
		t.children = append(t.children, c)
	}
	return t
}

// Parent returns the node t was last attached to, or nil for a root.
func (t *Tag) Parent() *Tag {
	return t.parent
}

// Children returns the children of t in render order. The slice is shared
// with t and must not be modified.
func (t *Tag) Children() []*Tag {
	return t.children
}

// Args returns a copy of the raw argument strings of t.
func (t *Tag) Args() []string {
	out := make([]string, len(t.args))
	copy(out, t.args)
	return out
}

// AddArg appends a raw argument string to t.
func (t *Tag) AddArg(value string) *Tag {
	t.args = append(t.args, value)
	return t
}

// AddArgRecursive gives value to every node of the subtree rooted at t whose
// arguments are empty when it is visited. Nodes that already carry
// arguments are left alone, but their descendants are still visited.
func (t *Tag) AddArgRecursive(value string) {
	if len(t.args) == 0 {
		t.args = append(t.args, value)
	}
	for _, c := range t.children {
		c.AddArgRecursive(value)
	}
}

// Depth counts the non-fragment ancestors of t. A root has depth 0.
func (t *Tag) Depth() int {
	depth := 0
	for p := t.parent; p != nil; p = p.parent {
		if p.Kind != KindFragment {
			depth++
		}
	}
	return depth
}
