package envelope

// Kind is the shape of a Node.
type Kind int

const (
	// Scalar holds text.
	Scalar Kind = iota
	// Mapping holds named children in document order.
	Mapping
	// Sequence holds an ordered list of nodes sharing one name.
	Sequence
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Node is one value of a parsed response. Nodes are built once by Parse and
// are not modified afterwards.
type Node struct {
	kind   Kind
	text   string
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// NewScalar returns a scalar node holding text.
func NewScalar(text string) *Node {
	return &Node{kind: Scalar, text: text}
}

// NewSequence returns a sequence node over items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: Sequence, items: items}
}

// NewMapping returns an empty mapping node. Use Set to populate it before the
// node is shared.
func NewMapping() *Node {
	return &Node{kind: Mapping, fields: make(map[string]*Node)}
}

// Set stores value under key, keeping first-insertion order of keys.
func (n *Node) Set(key string, value *Node) {
	if n.kind != Mapping {
		return
	}

	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}

	n.fields[key] = value
}

// Kind reports the shape of the node.
func (n *Node) Kind() Kind {
	if n == nil {
		return Scalar
	}

	return n.kind
}

// Text returns the text of a scalar node, or of the first item of a sequence
// of scalars. Mappings and nil nodes return "".
func (n *Node) Text() string {
	if n == nil {
		return ""
	}

	switch n.kind {
	case Scalar:
		return n.text
	case Sequence:
		if len(n.items) > 0 {
			return n.items[0].Text()
		}
	}

	return ""
}

// Keys returns the keys of a mapping in document order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != Mapping {
		return nil
	}

	out := make([]string, len(n.keys))
	copy(out, n.keys)

	return out
}

// Get returns the child stored under key, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != Mapping {
		return nil
	}

	return n.fields[key]
}

// Has reports whether a mapping has a child named key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Value returns the text of the child named key.
func (n *Node) Value(key string) string {
	return n.Get(key).Text()
}

// Items returns the members of a sequence. Any other non-nil node is returned
// as a one-element slice so callers never need to distinguish one from many.
func (n *Node) Items() []*Node {
	if n == nil {
		return nil
	}

	if n.kind == Sequence {
		out := make([]*Node, len(n.items))
		copy(out, n.items)

		return out
	}

	return []*Node{n}
}

// Len returns the number of items of a sequence, the number of keys of a
// mapping, or 1 for a scalar.
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.kind == Sequence:
		return len(n.items)
	case n.kind == Mapping:
		return len(n.keys)
	default:
		return 1
	}
}

// Records walks path from n through mappings and sequences and returns every
// mapping found at the end of it.
func (n *Node) Records(path ...string) []*Node {
	if n == nil {
		return nil
	}

	nodes := []*Node{n}
	for _, key := range path {
		var next []*Node
		for _, cur := range nodes {
			next = append(next, cur.Get(key).Items()...)
		}
		nodes = next
	}

	out := make([]*Node, 0, len(nodes))
	for _, cur := range nodes {
		if cur.kind == Mapping {
			out = append(out, cur)
		}
	}

	return out
}

// Flatten returns the text of every scalar child of a mapping. Nested
// mappings are skipped; sequences of scalars contribute their first item.
func (n *Node) Flatten() map[string]string {
	out := make(map[string]string)
	if n == nil || n.kind != Mapping {
		return out
	}

	for _, key := range n.keys {
		child := n.fields[key]
		if child.kind == Mapping {
			continue
		}
		if child.kind == Sequence && len(child.items) > 0 && child.items[0].kind != Scalar {
			continue
		}
		out[key] = child.Text()
	}

	return out
}
