// Package document reads and writes tagtree documents: YAML (or JSON)
// descriptions of a tag tree.
//
// A node is a mapping with exactly one of the keys tag, text or fragment:
//
//	tag: ul
//	attrs:
//	  class: menu
//	args: [hidden]
//	broadcast: [data-menu]
//	children:
//	  - tag: li
//	    children: [Home]
//	  - fragment:
//	      - tag: hr
//
// A bare string inside children is shorthand for a text node. A sequence
// at the top level is read as a fragment. Attribute order follows the
// document. Each broadcast value is applied with AddArgRecursive once the
// node's subtree has been built.
package document

import (
	"fmt"
	"os"

	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/tag"
	"gopkg.in/yaml.v3"
)

// Node keys.
const (
	keyTag       = "tag"
	keyText      = "text"
	keyFragment  = "fragment"
	keyAttrs     = "attrs"
	keyArgs      = "args"
	keyBroadcast = "broadcast"
	keyChildren  = "children"
)

var allowedKeys = map[string]map[string]bool{
	keyTag:      {keyTag: true, keyAttrs: true, keyArgs: true, keyBroadcast: true, keyChildren: true},
	keyText:     {keyText: true},
	keyFragment: {keyFragment: true, keyArgs: true, keyBroadcast: true},
}

// Load reads and parses the document at path.
func Load(path string) (*tag.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeFileNotFound
		if !os.IsNotExist(err) {
			code = errors.ErrCodeInternalError
		}
		return nil, errors.WrapIO(err, code, "cannot read document").WithLocation(path, 0, 0)
	}
	return Parse(path, data)
}

// Parse builds a tree from document data. name is only used in error
// messages. Every schema problem in the document is reported, not just the
// first one.
func Parse(name string, data []byte) (*tag.Tag, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapValidation(err, errors.ErrCodeInvalidDocument, "malformed document").
			WithLocation(name, 0, 0)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument, "document is empty").
			WithLocation(name, 0, 0)
	}

	p := &parser{file: name, collector: errors.NewErrorCollector()}
	root := doc.Content[0]

	var t *tag.Tag
	if root.Kind == yaml.SequenceNode {
		t = tag.Fragment(p.children(root, "root")...)
	} else {
		t = p.node(root, "root", false)
	}

	if err := p.collector.Err(name); err != nil {
		return nil, err
	}
	return t, nil
}

type parser struct {
	file      string
	collector *errors.ErrorCollector
}

func (p *parser) fail(n *yaml.Node, path, format string, args ...interface{}) {
	p.collector.Add(errors.DocumentError{
		File:    p.file,
		Path:    path,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

// node converts one yaml node. Scalars are only accepted as text shorthand
// inside a children list.
func (p *parser) node(n *yaml.Node, path string, allowShorthand bool) *tag.Tag {
	n = resolveAlias(n)

	if n.Kind == yaml.ScalarNode && allowShorthand {
		return tag.Text(n.Value)
	}
	if n.Kind != yaml.MappingNode {
		p.fail(n, path, "node must be a mapping")
		return nil
	}

	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	var keys []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := fields[k.Value]; dup {
			p.fail(k, path, "duplicate key %q", k.Value)
			continue
		}
		fields[k.Value] = v
		keys = append(keys, k)
	}

	kind := ""
	for _, candidate := range []string{keyTag, keyText, keyFragment} {
		if _, ok := fields[candidate]; !ok {
			continue
		}
		if kind != "" {
			p.fail(n, path, "node has both %q and %q", kind, candidate)
			return nil
		}
		kind = candidate
	}
	if kind == "" {
		p.fail(n, path, "node needs one of %q, %q or %q", keyTag, keyText, keyFragment)
		return nil
	}

	for _, k := range keys {
		if !allowedKeys[kind][k.Value] {
			p.fail(k, path, "unknown key %q for a %s node", k.Value, kind)
		}
	}

	var t *tag.Tag
	switch kind {
	case keyText:
		v := resolveAlias(fields[keyText])
		if v.Kind != yaml.ScalarNode {
			p.fail(v, path+".text", "text must be a string")
			return nil
		}
		return tag.Text(v.Value)
	case keyFragment:
		t = tag.Fragment(p.children(fields[keyFragment], path+".fragment")...)
	default:
		v := resolveAlias(fields[keyTag])
		if v.Kind != yaml.ScalarNode {
			p.fail(v, path+".tag", "tag must be a string")
			return nil
		}
		t = tag.New(tag.KindElement, v.Value, p.attrs(fields[keyAttrs], path+".attrs"))
		if c, ok := fields[keyChildren]; ok {
			t.Add(p.children(c, path+".children")...)
		}
	}

	if a, ok := fields[keyArgs]; ok {
		for _, arg := range p.strings(a, path+".args") {
			t.AddArg(arg)
		}
	}
	if b, ok := fields[keyBroadcast]; ok {
		for _, arg := range p.strings(b, path+".broadcast") {
			t.AddArgRecursive(arg)
		}
	}

	return t
}

func (p *parser) children(n *yaml.Node, path string) []*tag.Tag {
	n = resolveAlias(n)
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		p.fail(n, path, "children must be a list")
		return nil
	}

	out := make([]*tag.Tag, 0, len(n.Content))
	for i, c := range n.Content {
		// nil results are already reported and are skipped by Add
		out = append(out, p.node(c, fmt.Sprintf("%s[%d]", path, i), true))
	}
	return out
}

func (p *parser) attrs(n *yaml.Node, path string) []tag.Attr {
	n = resolveAlias(n)
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		p.fail(n, path, "attrs must be a mapping")
		return nil
	}

	out := make([]tag.Attr, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolveAlias(n.Content[i+1])
		if v.Kind != yaml.ScalarNode {
			p.fail(v, path+"."+k.Value, "attribute value must be a scalar")
			continue
		}
		value := v.Value
		if isNull(v) {
			value = ""
		}
		out = append(out, tag.Attr{Key: k.Value, Value: value})
	}
	return out
}

func (p *parser) strings(n *yaml.Node, path string) []string {
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode && !isNull(n) {
		return []string{n.Value}
	}
	if n.Kind != yaml.SequenceNode {
		p.fail(n, path, "expected a string or a list of strings")
		return nil
	}

	out := make([]string, 0, len(n.Content))
	for i, v := range n.Content {
		v = resolveAlias(v)
		if v.Kind != yaml.ScalarNode {
			p.fail(v, fmt.Sprintf("%s[%d]", path, i), "expected a string")
			continue
		}
		out = append(out, v.Value)
	}
	return out
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
