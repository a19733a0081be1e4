package vsdx

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ShapeType is the Type attribute of a shape element.
type ShapeType string

const (
	// TypeShape is an ordinary drawing shape.
	TypeShape ShapeType = "Shape"
	// TypeGroup is a container whose sub-shapes are drawn as one unit.
	TypeGroup ShapeType = "Group"
	// TypeGuide is a guide line.
	TypeGuide ShapeType = "Guide"
	// TypeForeign holds embedded foreign data such as an image.
	TypeForeign ShapeType = "Foreign"
)

// Shape is a drawing node of a page or master. A Shape is a thin view over
// its XML element: every accessor reads the element directly.
type Shape struct {
	elem   *etree.Element
	parent *Shape
	owner  *contents
}

func (s *Shape) String() string {
	return fmt.Sprintf("<Shape ID=%d Type=%s Text=%q>", s.ID(), s.Type(), s.Text())
}

// XML returns the backing element.
func (s *Shape) XML() *etree.Element { return s.elem }

// ID returns the shape ID, or 0 when the attribute is missing or malformed.
func (s *Shape) ID() int {
	id, err := strconv.Atoi(s.elem.SelectAttrValue("ID", ""))
	if err != nil {
		return 0
	}
	return id
}

func (s *Shape) setID(id int) {
	s.elem.CreateAttr("ID", strconv.Itoa(id))
}

// Type returns the shape type. Shapes without a Type attribute are TypeShape.
func (s *Shape) Type() ShapeType {
	return ShapeType(s.elem.SelectAttrValue("Type", string(TypeShape)))
}

// Name returns the local name of the shape.
func (s *Shape) Name() string { return s.elem.SelectAttrValue("Name", "") }

// NameU returns the universal name of the shape.
func (s *Shape) NameU() string { return s.elem.SelectAttrValue("NameU", "") }

// Parent returns the containing shape, or nil for a top-level shape.
func (s *Shape) Parent() *Shape { return s.parent }

// Page returns the page holding the shape, or nil for a master shape.
func (s *Shape) Page() *Page { return s.owner.page }

// SubShapes returns the immediate child shapes in drawing order.
func (s *Shape) SubShapes() []*Shape {
	container := s.elem.SelectElement("Shapes")
	if container == nil {
		return nil
	}
	var out []*Shape
	for _, e := range container.SelectElements("Shape") {
		out = append(out, &Shape{elem: e, parent: s, owner: s.owner})
	}
	return out
}

// Descendants yields every nested shape below s, depth first in document
// order. The sequence is derived from the XML on each iteration.
func (s *Shape) Descendants() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		s.walk(yield)
	}
}

func (s *Shape) walk(yield func(*Shape) bool) bool {
	for _, c := range s.SubShapes() {
		if !yield(c) || !c.walk(yield) {
			return false
		}
	}
	return true
}

// MaxID returns the largest ID of s and its descendants.
func (s *Shape) MaxID() int {
	max := s.ID()
	for d := range s.Descendants() {
		if id := d.ID(); id > max {
			max = id
		}
	}
	return max
}

// position returns the index of s among its siblings.
func (s *Shape) position() int {
	var siblings []*etree.Element
	if container := s.elem.Parent(); container != nil {
		siblings = container.SelectElements("Shape")
	}
	for i, e := range siblings {
		if e == s.elem {
			return i
		}
	}
	return -1
}

// MasterID returns the ID of the master the shape is an instance of. Sub-shapes
// of an instance inherit the reference of their parent. Empty means none.
func (s *Shape) MasterID() string {
	if v := s.elem.SelectAttrValue("Master", ""); v != "" {
		return v
	}
	if s.parent != nil {
		return s.parent.MasterID()
	}
	return ""
}

// MasterShapeID returns the ID of the shape within the master that s
// corresponds to. Empty for the top shape of an instance.
func (s *Shape) MasterShapeID() string {
	return s.elem.SelectAttrValue("MasterShape", "")
}

// Master returns the master the shape refers to, or nil when it has none or
// the reference does not resolve.
func (s *Shape) Master() *Master {
	id := s.MasterID()
	if id == "" || s.owner.master != nil {
		return nil
	}
	m := s.owner.doc.Master(id)
	if m == nil {
		s.owner.doc.logger.Debug("unresolved master reference", "shape", s.ID(), "master", id, "part", s.owner.part)
	}
	return m
}

// MasterShape returns the master shape s inherits from, or nil. An explicit
// MasterShape reference is looked up by ID; the top shape of an instance maps
// to the first shape of its master; other sub-shapes map to the sub-shape at
// the same position below the parent's master shape.
func (s *Shape) MasterShape() *Shape {
	m := s.Master()
	if m == nil {
		return nil
	}
	if ref := s.MasterShapeID(); ref != "" {
		id, err := strconv.Atoi(ref)
		if err != nil {
			return nil
		}
		return m.FindShapeByID(id)
	}
	if s.elem.SelectAttr("Master") != nil {
		if shapes := m.Shapes(); len(shapes) > 0 {
			return shapes[0]
		}
		return nil
	}
	if s.parent == nil {
		return nil
	}
	pm := s.parent.MasterShape()
	if pm == nil {
		return nil
	}
	siblings := pm.SubShapes()
	if i := s.position(); i >= 0 && i < len(siblings) {
		return siblings[i]
	}
	return nil
}

// OwnText returns the text stored on the shape itself. The second result is
// false when the shape has no Text element.
func (s *Shape) OwnText() (string, bool) {
	t := s.elem.SelectElement("Text")
	if t == nil {
		return "", false
	}
	return textOf(t), true
}

// Text returns the effective text: the shape's own text, or else the text
// of its master shape. Undefined text is empty.
func (s *Shape) Text() string {
	if t, ok := s.OwnText(); ok {
		return t
	}
	if ms := s.MasterShape(); ms != nil {
		return ms.Text()
	}
	return ""
}

func textOf(e *etree.Element) string {
	var b strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(textOf(t))
		}
	}
	return b.String()
}

// Cells returns the cells defined on the shape itself, in order.
func (s *Shape) Cells() []Cell {
	var out []Cell
	for _, e := range s.elem.SelectElements("Cell") {
		out = append(out, cellFrom(e))
	}
	return out
}

func (s *Shape) cellElement(name string) *etree.Element {
	for _, e := range s.elem.SelectElements("Cell") {
		if e.SelectAttrValue("N", "") == name {
			return e
		}
	}
	return nil
}

// Cell returns the effective cell called name: the shape's own cell, or else
// the master shape's.
func (s *Shape) Cell(name string) (Cell, bool) {
	if e := s.cellElement(name); e != nil {
		return cellFrom(e), true
	}
	if ms := s.MasterShape(); ms != nil {
		return ms.Cell(name)
	}
	return Cell{}, false
}

// CellValue returns the effective value of a cell, or "" when undefined.
func (s *Shape) CellValue(name string) string {
	c, _ := s.Cell(name)
	return c.Value
}

// CellFloat returns the effective value of a cell as a number.
func (s *Shape) CellFloat(name string) (float64, bool) {
	c, ok := s.Cell(name)
	if !ok {
		return 0, false
	}
	return c.Float()
}

// X returns the PinX cell.
func (s *Shape) X() float64 {
	x, _ := s.CellFloat("PinX")
	return x
}

// Y returns the PinY cell.
func (s *Shape) Y() float64 {
	y, _ := s.CellFloat("PinY")
	return y
}

// Width returns the Width cell.
func (s *Shape) Width() float64 {
	w, _ := s.CellFloat("Width")
	return w
}

// Height returns the Height cell.
func (s *Shape) Height() float64 {
	h, _ := s.CellFloat("Height")
	return h
}

func (s *Shape) section(name string) *etree.Element {
	for _, e := range s.elem.SelectElements("Section") {
		if e.SelectAttrValue("N", "") == name {
			return e
		}
	}
	return nil
}

// DataProperties returns the effective shape data: the master shape's rows,
// overridden field by field by rows of the same name on the shape. Rows the
// shape marks as deleted are dropped.
func (s *Shape) DataProperties() []DataProperty {
	var props []DataProperty
	if ms := s.MasterShape(); ms != nil {
		props = ms.DataProperties()
	}

	section := s.section(propertySection)
	if section == nil {
		return props
	}
	for _, row := range section.SelectElements("Row") {
		local, set := dataPropertyFrom(row)
		i := -1
		for j, p := range props {
			if p.Name == local.Name {
				i = j
				break
			}
		}
		if row.SelectAttrValue("Del", "") == "1" {
			if i >= 0 {
				props = append(props[:i], props[i+1:]...)
			}
			continue
		}
		if i >= 0 {
			props[i] = props[i].overlay(local, set)
		} else {
			props = append(props, local)
		}
	}
	return props
}

// DataProperty returns the effective data property labelled label.
func (s *Shape) DataProperty(label string) (DataProperty, bool) {
	for _, p := range s.DataProperties() {
		if p.Label == label {
			return p, true
		}
	}
	return DataProperty{}, false
}

// DataPropertiesByLabel returns the effective data properties keyed by label.
func (s *Shape) DataPropertiesByLabel() map[string]DataProperty {
	out := make(map[string]DataProperty)
	for _, p := range s.DataProperties() {
		out[p.Label] = p
	}
	return out
}
