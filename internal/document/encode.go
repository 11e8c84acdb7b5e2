package document

import (
	"bytes"

	"github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/tag"
	"gopkg.in/yaml.v3"
)

// Encode writes t back out as a document. Child text nodes use the bare
// string shorthand. Fields a node kind does not use (the attributes of a
// text node, say) are not written.
//
// Args are written as they currently are; broadcast is never emitted since
// its effect is already part of every node's args.
func Encode(t *tag.Tag) ([]byte, error) {
	if t == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument, "cannot encode a nil tree")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(encodeNode(t, false)); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternalError, "encode document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternalError, "encode document", err)
	}

	return buf.Bytes(), nil
}

func encodeNode(t *tag.Tag, shorthand bool) *yaml.Node {
	if t.IsText() {
		if shorthand {
			return str(t.Name)
		}
		return mapping(keyText, str(t.Name))
	}

	var out *yaml.Node
	if t.IsFragment() {
		out = mapping(keyFragment, encodeChildren(t))
	} else {
		out = mapping(keyTag, str(t.Name))

		if attrs := t.Attrs(); len(attrs) > 0 {
			m := &yaml.Node{Kind: yaml.MappingNode}
			for _, a := range attrs {
				m.Content = append(m.Content, str(a.Key), str(a.Value))
			}
			out.Content = append(out.Content, str(keyAttrs), m)
		}
	}

	if args := t.Args(); len(args) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, a := range args {
			seq.Content = append(seq.Content, str(a))
		}
		out.Content = append(out.Content, str(keyArgs), seq)
	}

	if !t.IsFragment() && len(t.Children()) > 0 {
		out.Content = append(out.Content, str(keyChildren), encodeChildren(t))
	}

	return out
}

func encodeChildren(t *tag.Tag) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range t.Children() {
		seq.Content = append(seq.Content, encodeNode(c, true))
	}
	return seq
}

func mapping(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{str(key), value},
	}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
