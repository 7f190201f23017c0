// Package envelope parses Adder API replies into a generic tree of nodes and
// exposes the envelope fields every reply shares: the success flag, the
// errors block, and the payload collections.
//
// An element with child elements is always stored as a sequence, even when
// it appears once, so a collection holding a single record looks the same as
// one holding many.
package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
)

// maxDepth bounds element nesting.
const maxDepth = 64

// Fault is one entry of an errors block.
type Fault struct {
	Code    string
	Message string
}

// Envelope is a parsed reply.
type Envelope struct {
	name string
	root *Node
}

// New wraps root as an envelope named name. Parse is the usual constructor.
func New(name string, root *Node) *Envelope {
	if root == nil {
		root = NewMapping()
	}

	return &Envelope{name: name, root: root}
}

// Name returns the local name of the root element.
func (e *Envelope) Name() string { return e.name }

// Root returns the root node.
func (e *Envelope) Root() *Node { return e.root }

// Success reports whether the reply carries success = 1.
func (e *Envelope) Success() bool {
	return strings.TrimSpace(e.root.Value("success")) == "1"
}

// Value returns the text of a top-level field.
func (e *Envelope) Value(key string) string {
	return e.root.Value(key)
}

// Has reports whether a top-level field is present.
func (e *Envelope) Has(key string) bool {
	return e.root.Has(key)
}

// Records returns the mappings found at path under the root, for example
// Records("devices", "device").
func (e *Envelope) Records(path ...string) []*Node {
	return e.root.Records(path...)
}

// Errors returns the entries of the errors block in document order.
func (e *Envelope) Errors() []Fault {
	var faults []Fault
	for _, rec := range e.root.Records("errors", "error") {
		faults = append(faults, Fault{
			Code:    rec.Value("code"),
			Message: rec.Value("msg"),
		})
	}

	return faults
}

// Parse decodes raw markup into an Envelope. Empty input, malformed markup,
// or a document without a root element yields *apierr.MalformedResponseError.
func Parse(data []byte) (*Envelope, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &apierr.MalformedResponseError{Err: errors.New("empty document")}
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = passthroughCharset

	var root xml.StartElement
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, &apierr.MalformedResponseError{Err: errors.New("no root element")}
		}
		if err != nil {
			return nil, &apierr.MalformedResponseError{Err: err}
		}

		if se, ok := tok.(xml.StartElement); ok {
			root = se
			break
		}
	}

	node, err := parseElement(dec, root, 1)
	if err != nil {
		return nil, &apierr.MalformedResponseError{Err: err}
	}

	if node.kind != Mapping {
		// <api_response/> or a root holding only text still parses, as an
		// envelope with no fields.
		node = NewMapping()
	}

	return New(root.Name.Local, node), nil
}

type child struct {
	name string
	node *Node
	leaf bool
}

func parseElement(dec *xml.Decoder, se xml.StartElement, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d at <%s>", maxDepth, se.Name.Local)
	}

	var (
		children []child
		text     strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read <%s>: %w", se.Name.Local, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n, err := parseElement(dec, t, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, child{
				name: t.Name.Local,
				node: n,
				leaf: n.kind == Scalar,
			})
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return buildNode(se, children, strings.TrimSpace(text.String())), nil
		}
	}
}

func buildNode(se xml.StartElement, children []child, text string) *Node {
	if len(children) == 0 && len(se.Attr) == 0 {
		return NewScalar(text)
	}

	m := NewMapping()
	for _, attr := range se.Attr {
		m.Set("@"+attr.Name.Local, NewScalar(attr.Value))
	}

	if len(children) == 0 {
		if text != "" {
			m.Set("#text", NewScalar(text))
		}

		return m
	}

	// Group children by name, keeping the position of the first occurrence.
	var order []string
	groups := make(map[string][]child)
	for _, c := range children {
		if _, ok := groups[c.name]; !ok {
			order = append(order, c.name)
		}
		groups[c.name] = append(groups[c.name], c)
	}

	for _, name := range order {
		group := groups[name]
		if len(group) == 1 && group[0].leaf {
			m.Set(name, group[0].node)
			continue
		}

		items := make([]*Node, len(group))
		for i, c := range group {
			items[i] = c.node
		}
		m.Set(name, NewSequence(items...))
	}

	return m
}

// passthroughCharset accepts UTF-8 compatible encoding labels and reads the
// body unchanged.
func passthroughCharset(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}
