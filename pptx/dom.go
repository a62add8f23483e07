package pptx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// conventionalPrefix maps namespaces to the prefixes PowerPoint writes.
// It is only consulted when a document never declares the namespace.
var conventionalPrefix = map[string]string{
	NSDrawingML:      "a",
	NSPresentationML: "p",
	NSChart:          "c",
	NSRelationships:  "r",
}

// is reports whether e is the element {ns}tag.
func is(e *etree.Element, ns, tag string) bool {
	return e != nil && e.Tag == tag && e.NamespaceURI() == ns
}

// child returns the first child element {ns}tag of e, or nil.
func child(e *etree.Element, ns, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if is(c, ns, tag) {
			return c
		}
	}
	return nil
}

// children returns every child element {ns}tag of e in document order.
func children(e *etree.Element, ns, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if is(c, ns, tag) {
			out = append(out, c)
		}
	}
	return out
}

// descendants returns every element {ns}tag below e, depth first.
func descendants(e *etree.Element, ns, tag string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(n *etree.Element) {
		for _, c := range n.ChildElements() {
			if is(c, ns, tag) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}

// walkPath follows a chain of child steps from e.
func walkPath(e *etree.Element, steps ...step) *etree.Element {
	for _, s := range steps {
		e = child(e, s.ns, s.tag)
		if e == nil {
			return nil
		}
	}
	return e
}

type step struct {
	ns, tag string
}

func aStep(tag string) step { return step{NSDrawingML, tag} }
func pStep(tag string) step { return step{NSPresentationML, tag} }
func cStep(tag string) step { return step{NSChart, tag} }

// prefixFor returns the prefix bound to ns in scope at e. The empty string
// means ns is the default namespace.
func prefixFor(e *etree.Element, ns string) string {
	for n := e; n != nil; n = n.Parent() {
		for _, at := range n.Attr {
			if at.Value != ns {
				continue
			}
			if at.Space == "xmlns" {
				return at.Key
			}
			if at.Space == "" && at.Key == "xmlns" {
				return ""
			}
		}
	}
	return conventionalPrefix[ns]
}

// newElement creates an unattached element {ns}tag using the prefix bound
// to ns at parent.
func newElement(parent *etree.Element, ns, tag string) *etree.Element {
	prefix := prefixFor(parent, ns)
	if prefix == "" {
		return etree.NewElement(tag)
	}
	return etree.NewElement(prefix + ":" + tag)
}

// ensureChild returns the child {ns}tag of parent, creating it in schema
// position when absent. order lists the local names of the parent's
// children in schema sequence.
func ensureChild(parent *etree.Element, ns, tag string, order []string) *etree.Element {
	if existing := child(parent, ns, tag); existing != nil {
		return existing
	}
	el := newElement(parent, ns, tag)
	insertOrdered(parent, el, order)
	return el
}

// insertOrdered inserts el before the first child of parent whose local
// name comes after el's in order. Unknown names sort last.
func insertOrdered(parent, el *etree.Element, order []string) {
	rank := func(tag string) int {
		for i, t := range order {
			if t == tag {
				return i
			}
		}
		return len(order)
	}
	want := rank(el.Tag)
	for _, ch := range parent.ChildElements() {
		if rank(ch.Tag) > want {
			parent.InsertChildAt(ch.Index(), el)
			return
		}
	}
	parent.AddChild(el)
}

// attrInt parses an integer attribute. ok is false when it is absent.
func attrInt(e *etree.Element, key string) (v int64, ok bool, err error) {
	at := e.SelectAttr(key)
	if at == nil {
		return 0, false, nil
	}
	v, err = strconv.ParseInt(at.Value, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("attribute %s=%q: %w", key, at.Value, err)
	}
	return v, true, nil
}

// attrBool reads an xsd:boolean attribute.
func attrBool(e *etree.Element, key string) bool {
	switch e.SelectAttrValue(key, "") {
	case "1", "true":
		return true
	}
	return false
}

// attrNS returns the value of the attribute {ns}key on e.
func attrNS(e *etree.Element, ns, key string) string {
	if e == nil {
		return ""
	}
	for i := range e.Attr {
		at := &e.Attr[i]
		if at.Key == key && at.NamespaceURI() == ns {
			return at.Value
		}
	}
	return ""
}
