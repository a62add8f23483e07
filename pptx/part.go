package pptx

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrNoShapeTree is returned for slide, layout and master parts that lack
// p:cSld/p:spTree.
var ErrNoShapeTree = errors.New("part has no shape tree")

// PartKind identifies what a part holds.
type PartKind int

const (
	KindMaster PartKind = iota
	KindLayout
	KindSlide
	KindChart
)

func (k PartKind) String() string {
	switch k {
	case KindMaster:
		return "master"
	case KindLayout:
		return "layout"
	case KindSlide:
		return "slide"
	case KindChart:
		return "chart"
	default:
		return fmt.Sprintf("PartKind(%d)", int(k))
	}
}

var rootKinds = map[string]PartKind{
	"sldMaster":  KindMaster,
	"sldLayout":  KindLayout,
	"sld":        KindSlide,
	"chartSpace": KindChart,
}

// Part is one parsed XML part: a slide, layout or master with its shape
// tree, or a chart space. Each Part owns its tree; nothing is shared
// between parts.
type Part struct {
	Name string
	Kind PartKind

	doc      *etree.Document
	tree     *etree.Element
	shapes   []Shape
	chart    *Chart
	mirrored bool
}

// ParsePart parses a part's XML. The kind comes from the member name and
// falls back to the root element.
func ParsePart(name string, data []byte) (*Part, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parsing %s: empty document", name)
	}

	kind, ok := rootKinds[root.Tag]
	if ref, named := classifyMember(name); named {
		kind, ok = ref.Kind, true
	}
	if !ok {
		return nil, fmt.Errorf("parsing %s: unsupported root element %s", name, root.FullTag())
	}

	p := &Part{Name: name, Kind: kind, doc: doc}
	if err := p.index(); err != nil {
		return nil, err
	}
	return p, nil
}

// index builds the shape or chart views over the document.
func (p *Part) index() error {
	root := p.doc.Root()
	if p.Kind == KindChart {
		if !is(root, NSChart, "chartSpace") {
			return fmt.Errorf("%s: root is %s, not c:chartSpace", p.Name, root.FullTag())
		}
		p.chart = &Chart{el: root}
		return nil
	}

	tree := walkPath(root, pStep("cSld"), pStep("spTree"))
	if tree == nil {
		return fmt.Errorf("%s: %w", p.Name, ErrNoShapeTree)
	}
	p.tree = tree
	p.shapes = parseShapes(tree)
	return nil
}

// Shapes returns the top-level shapes of the shape tree. Chart parts have
// none.
func (p *Part) Shapes() []Shape { return p.shapes }

// Chart returns the chart view of a chart part, or nil.
func (p *Part) Chart() *Chart { return p.chart }

// Mirrored reports whether the part has been through the RTL transform.
func (p *Part) Mirrored() bool { return p.mirrored }

// MarkMirrored records that the part's layout has been mirrored.
func (p *Part) MarkMirrored() { p.mirrored = true }

// Clone returns a deep copy with fresh views. The copy keeps the
// mirrored state.
func (p *Part) Clone() *Part {
	c := &Part{
		Name:     p.Name,
		Kind:     p.Kind,
		doc:      p.doc.Copy(),
		mirrored: p.mirrored,
	}
	// The copy is structurally identical, so indexing cannot fail.
	if err := c.index(); err != nil {
		panic(err)
	}
	return c
}

// Bytes serialises the part. Namespace prefixes and the XML declaration
// are written back as read.
func (p *Part) Bytes() ([]byte, error) {
	data, err := p.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialising %s: %w", p.Name, err)
	}
	return data, nil
}

// ShapesByID indexes every shape of the tree, groups included, by id. Ids
// normally map to one shape; the alternate branches of
// mc:AlternateContent can repeat an id.
func (p *Part) ShapesByID() map[string][]Shape {
	byID := make(map[string][]Shape)
	Walk(p.shapes, func(s Shape) bool {
		if id := s.Common().ID; id != "" {
			byID[id] = append(byID[id], s)
		}
		return true
	})
	return byID
}

// DuplicateIDs returns the sorted ids carried by more than one shape.
func (p *Part) DuplicateIDs() []string {
	var dups []string
	for id, shapes := range p.ShapesByID() {
		if len(shapes) > 1 {
			dups = append(dups, id)
		}
	}
	slices.Sort(dups)
	return dups
}

// IDs returns the sorted ids of every shape.
func (p *Part) IDs() []string {
	ids := maps.Keys(p.ShapesByID())
	slices.Sort(ids)
	return ids
}
