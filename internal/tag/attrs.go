package tag

// Attr is a single attribute key/value pair.
type Attr struct {
	Key   string
	Value string
}

// attrSet keeps attributes in insertion order. Overwriting a key keeps its
// original position.
type attrSet struct {
	keys   []string
	values map[string]string
}

func (s *attrSet) set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *attrSet) get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *attrSet) len() int {
	return len(s.keys)
}

func (s *attrSet) list() []Attr {
	out := make([]Attr, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Attr{Key: k, Value: s.values[k]})
	}
	return out
}
