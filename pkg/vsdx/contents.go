package vsdx

import (
	"iter"

	"github.com/beevik/etree"
)

// contents is the shape forest of a page or master part. Shape wrappers are
// derived from the XML tree on every call, so they never go stale.
type contents struct {
	doc    *Document
	part   string
	tree   *etree.Document
	page   *Page
	master *Master
}

// Part returns the archive part name holding the contents.
func (c *contents) Part() string { return c.part }

// XML returns the backing XML tree.
func (c *contents) XML() *etree.Document { return c.tree }

func (c *contents) root() *etree.Element {
	return c.tree.Root()
}

// containers returns every Shapes element directly below the root.
func (c *contents) containers() []*etree.Element {
	return c.root().SelectElements("Shapes")
}

// Shapes returns the top-level shapes. Every Shapes container directly below
// the root contributes its shapes in order; no container yields no shapes.
func (c *contents) Shapes() []*Shape {
	var out []*Shape
	for _, container := range c.containers() {
		for _, e := range container.SelectElements("Shape") {
			out = append(out, &Shape{elem: e, owner: c})
		}
	}
	return out
}

// SubShapes returns the top-level shapes; it is the page level counterpart of
// Shape.SubShapes.
func (c *contents) SubShapes() []*Shape {
	return c.Shapes()
}

// All yields every shape, top-level and nested, depth first in document order.
func (c *contents) All() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		for _, s := range c.Shapes() {
			if !yield(s) {
				return
			}
			for d := range s.Descendants() {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// FindShape returns the first shape matching match, or nil.
func (c *contents) FindShape(match Predicate) *Shape {
	return findFirst(c.All(), match)
}

// FindShapes returns all shapes matching match.
func (c *contents) FindShapes(match Predicate) []*Shape {
	return findAll(c.All(), match)
}

// FindShapeByID returns the shape with the given ID, or nil.
func (c *contents) FindShapeByID(id int) *Shape {
	return c.FindShape(ByID(id))
}

// FindShapesByID returns every shape with the given ID. Well formed parts
// have at most one.
func (c *contents) FindShapesByID(id int) []*Shape {
	return c.FindShapes(ByID(id))
}

// FindShapeByText returns the first shape whose effective text is text.
func (c *contents) FindShapeByText(text string) *Shape {
	return c.FindShape(ByText(text))
}

// FindShapesByText returns every shape whose effective text is text.
func (c *contents) FindShapesByText(text string) []*Shape {
	return c.FindShapes(ByText(text))
}

// FindShapesContainingText returns every shape whose effective text
// contains substr.
func (c *contents) FindShapesContainingText(substr string) []*Shape {
	return c.FindShapes(ContainingText(substr))
}

// FindShapeByPropertyLabel returns the first shape with a data property
// labelled label.
func (c *contents) FindShapeByPropertyLabel(label string) *Shape {
	return c.FindShape(ByPropertyLabel(label))
}

// FindShapesByPropertyLabel returns every shape with a data property
// labelled label.
func (c *contents) FindShapesByPropertyLabel(label string) []*Shape {
	return c.FindShapes(ByPropertyLabel(label))
}

// FindShapesByMaster returns every shape referencing the given master and
// master shape.
func (c *contents) FindShapesByMaster(masterID, masterShapeID string) []*Shape {
	return c.FindShapes(ByMaster(masterID, masterShapeID))
}

// maxShapeID returns the largest shape ID in the contents, or 0 when empty.
func (c *contents) maxShapeID() int {
	max := 0
	for _, s := range c.Shapes() {
		if id := s.MaxID(); id > max {
			max = id
		}
	}
	return max
}

// shapesContainer returns the first Shapes container, creating it if needed.
func (c *contents) shapesContainer() *etree.Element {
	if containers := c.containers(); len(containers) > 0 {
		return containers[0]
	}
	shapes := etree.NewElement("Shapes")
	root := c.root()
	// Shapes precede Connects in a page.
	if connects := root.SelectElement("Connects"); connects != nil {
		root.InsertChildAt(connects.Index(), shapes)
	} else {
		root.AddChild(shapes)
	}
	return shapes
}
