package tag

import (
	"github.com/conneroisu/tagtree/internal/errors"
)

// Attr returns the value stored under key, or a missing-attribute error.
func (t *Tag) Attr(key string) (string, error) {
	if v, ok := t.attrs.get(key); ok {
		return v, nil
	}
	return "", errors.NewMissingAttributeError(t.Name, key)
}

// AttrOr returns the value stored under key, or def when it is absent.
func (t *Tag) AttrOr(key, def string) string {
	if v, ok := t.attrs.get(key); ok {
		return v
	}
	return def
}

// HasAttr reports whether key is set on t.
func (t *Tag) HasAttr(key string) bool {
	_, ok := t.attrs.get(key)
	return ok
}

// SetAttr inserts or overwrites an attribute. Keys and values are not
// validated.
func (t *Tag) SetAttr(key, value string) *Tag {
	t.attrs.set(key, value)
	return t
}

// Attrs returns the attributes of t in insertion order.
func (t *Tag) Attrs() []Attr {
	return t.attrs.list()
}

// Child returns the first direct child named name. It does not descend.
func (t *Tag) Child(name string) (*Tag, error) {
	for _, c := range t.children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errors.NewMissingChildError(t.Name, t.Depth(), name)
}

// FindByTag returns every descendant of t named name. t itself is never
// included and text nodes are neither matched nor descended into.
//
// For each child the matches inside its subtree come first, followed by the
// child itself, so a nested match always precedes its matching ancestor.
func (t *Tag) FindByTag(name string) []*Tag {
	found := make([]*Tag, 0)
	for _, c := range t.children {
		if c.Kind == KindText {
			continue
		}
		found = append(found, c.FindByTag(name)...)
		if c.Name == name {
			found = append(found, c)
		}
	}
	return found
}
