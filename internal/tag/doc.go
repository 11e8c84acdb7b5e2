// Package tag implements the in-memory document tree that tagtree builds,
// queries and renders.
//
// A tree is made of *Tag nodes. Each node is one of three kinds:
//
//   - KindElement: a named element with ordered attributes, raw argument
//     strings and ordered children.
//   - KindText: a leaf whose Name is the literal text it renders.
//   - KindFragment: a transparent grouping node. It renders only its
//     children and does not add an indentation level.
//
// Ownership is strictly top-down. A parent owns its children through its
// child slice; every child keeps a non-owning back link to its parent that
// is used for depth computation only. Attaching a node that already has a
// parent moves the back link without removing the node from the old
// parent's children, so callers must never attach one node to two parents.
//
// # Rendering
//
// String renders a subtree as indented markup. Text lines, fragment
// boundaries and closing tags are indented by two spaces per level; opening
// tags are not. The void elements input, img, meta, br, hr and link are
// rendered without a closing tag. Attribute values are written verbatim,
// without escaping:
//
//	root := tag.Element("div", tag.Text("hi"))
//	root.String() // "<div >\n  hi\n</div>"
//
// # Concurrency
//
// Trees are not safe for concurrent use. Every operation runs to completion
// synchronously; callers sharing a tree across goroutines must serialize
// access. Cycles are not detected.
package tag
