package vsdx

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// Connection points used when gluing a connector to a shape.
const (
	// PartBegin is the begin point of a one-dimensional shape.
	PartBegin = "9"
	// PartEnd is the end point of a one-dimensional shape.
	PartEnd = "12"
	// PartWholeShape glues to the shape as a whole.
	PartWholeShape = "3"
)

// Connect records that the From shape, usually a connector, is glued to the
// To shape. The IDs are weak references: they are resolved against the page
// on demand and may dangle.
type Connect struct {
	FromID   int
	FromCell string
	FromPart string
	ToID     int
	ToCell   string
	ToPart   string
}

func (c Connect) String() string {
	return fmt.Sprintf("from %d to %d", c.FromID, c.ToID)
}

// ConnectorShapeID returns the ID of the connector shape.
func (c Connect) ConnectorShapeID() int { return c.FromID }

// ShapeID returns the ID of the shape the connector is glued to.
func (c Connect) ShapeID() int { return c.ToID }

// Involves reports whether the connect refers to the shape ID at either end.
func (c Connect) Involves(id int) bool {
	return c.FromID == id || c.ToID == id
}

// Other returns the ID at the opposite end from id.
func (c Connect) Other(id int) (int, bool) {
	switch id {
	case c.FromID:
		return c.ToID, true
	case c.ToID:
		return c.FromID, true
	}
	return 0, false
}

func connectFrom(e *etree.Element) Connect {
	from, _ := parseID(e.SelectAttrValue("FromSheet", ""))
	to, _ := parseID(e.SelectAttrValue("ToSheet", ""))
	return Connect{
		FromID:   from,
		FromCell: e.SelectAttrValue("FromCell", ""),
		FromPart: e.SelectAttrValue("FromPart", ""),
		ToID:     to,
		ToCell:   e.SelectAttrValue("ToCell", ""),
		ToPart:   e.SelectAttrValue("ToPart", ""),
	}
}

func (c Connect) element() *etree.Element {
	e := etree.NewElement("Connect")
	e.CreateAttr("FromSheet", strconv.Itoa(c.FromID))
	if c.FromCell != "" {
		e.CreateAttr("FromCell", c.FromCell)
	}
	if c.FromPart != "" {
		e.CreateAttr("FromPart", c.FromPart)
	}
	e.CreateAttr("ToSheet", strconv.Itoa(c.ToID))
	if c.ToCell != "" {
		e.CreateAttr("ToCell", c.ToCell)
	}
	if c.ToPart != "" {
		e.CreateAttr("ToPart", c.ToPart)
	}
	return e
}

// Connects returns every Connect of the page in document order, wherever it
// is nested.
func (p *Page) Connects() []Connect {
	var out []Connect
	collectConnects(p.root(), &out)
	return out
}

func collectConnects(e *etree.Element, out *[]Connect) {
	for _, c := range e.ChildElements() {
		if c.Tag == "Connect" {
			*out = append(*out, connectFrom(c))
			continue
		}
		collectConnects(c, out)
	}
}

// AddConnect appends c to the page's Connects container, creating the
// container when the page has none.
func (p *Page) AddConnect(c Connect) {
	connects := p.root().SelectElement("Connects")
	if connects == nil {
		connects = p.root().CreateElement("Connects")
	}
	connects.AddChild(c.element())
}

// ResolveConnect returns the shapes at both ends of c. Either may be nil when
// the reference dangles.
func (p *Page) ResolveConnect(c Connect) (from, to *Shape) {
	return p.FindShapeByID(c.FromID), p.FindShapeByID(c.ToID)
}

// Connects returns the page's Connects that involve s.
func (s *Shape) Connects() []Connect {
	page := s.Page()
	if page == nil {
		return nil
	}
	id := s.ID()
	return lo.Filter(page.Connects(), func(c Connect, _ int) bool {
		return c.Involves(id)
	})
}

// connectedIDs returns the IDs at the far end of the shape's Connects.
func (s *Shape) connectedIDs() []int {
	id := s.ID()
	ids := lo.FilterMap(s.Connects(), func(c Connect, _ int) (int, bool) {
		return c.Other(id)
	})
	return lo.Uniq(ids)
}

// ConnectedShapes returns the shapes linked to s by a Connect. For a
// connector these are the glued shapes, for other shapes the connectors.
func (s *Shape) ConnectedShapes() []*Shape {
	page := s.Page()
	if page == nil {
		return nil
	}
	var out []*Shape
	for _, id := range s.connectedIDs() {
		if c := page.FindShapeByID(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ConnectorsBetween returns the connector shapes linked by a Connect to both
// a and b, ordered by ID. A nil endpoint gives an empty result.
func (p *Page) ConnectorsBetween(a, b *Shape) []*Shape {
	if a == nil || b == nil {
		return nil
	}
	ids := lo.Intersect(a.connectedIDs(), b.connectedIDs())
	slices.Sort(ids)

	var out []*Shape
	for _, id := range ids {
		if c := p.FindShapeByID(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ConnectorsBetweenIDs is ConnectorsBetween with both endpoints looked up
// by ID.
func (p *Page) ConnectorsBetweenIDs(a, b int) []*Shape {
	return p.ConnectorsBetween(p.FindShapeByID(a), p.FindShapeByID(b))
}

// ConnectorsBetweenText is ConnectorsBetween with both endpoints looked up
// by text.
func (p *Page) ConnectorsBetweenText(a, b string) []*Shape {
	return p.ConnectorsBetween(p.FindShapeByText(a), p.FindShapeByText(b))
}

// ConnectShapes adds a straight connector from one shape to another and
// glues its ends with two Connects. It returns the new connector shape.
func (p *Page) ConnectShapes(from, to *Shape) (*Shape, error) {
	if from == nil || to == nil || from.Page() != p || to.Page() != p {
		return nil, fmt.Errorf("connect shapes: %w", ErrShapeNotOnPage)
	}

	id := p.NextID()
	bx, by := from.X(), from.Y()
	ex, ey := to.X(), to.Y()

	e := etree.NewElement("Shape")
	e.CreateAttr("ID", strconv.Itoa(id))
	e.CreateAttr("NameU", "Dynamic connector."+strconv.Itoa(id))
	e.CreateAttr("Name", "Dynamic connector."+strconv.Itoa(id))
	e.CreateAttr("Type", string(TypeShape))
	cells := []struct{ n, v string }{
		{"PinX", formatFloat((bx + ex) / 2)},
		{"PinY", formatFloat((by + ey) / 2)},
		{"Width", formatFloat(ex - bx)},
		{"Height", formatFloat(ey - by)},
		{"LocPinX", formatFloat((ex - bx) / 2)},
		{"LocPinY", formatFloat((ey - by) / 2)},
		{"BeginX", formatFloat(bx)},
		{"BeginY", formatFloat(by)},
		{"EndX", formatFloat(ex)},
		{"EndY", formatFloat(ey)},
		{"ObjType", "2"},
	}
	for _, c := range cells {
		cell := e.CreateElement("Cell")
		cell.CreateAttr("N", c.n)
		cell.CreateAttr("V", c.v)
	}
	geom := e.CreateElement("Section")
	geom.CreateAttr("N", "Geometry")
	geom.CreateAttr("IX", "0")
	for i, pt := range [][2]float64{{0, 0}, {ex - bx, ey - by}} {
		row := geom.CreateElement("Row")
		row.CreateAttr("T", lo.Ternary(i == 0, "MoveTo", "LineTo"))
		row.CreateAttr("IX", strconv.Itoa(i+1))
		x := row.CreateElement("Cell")
		x.CreateAttr("N", "X")
		x.CreateAttr("V", formatFloat(pt[0]))
		y := row.CreateElement("Cell")
		y.CreateAttr("N", "Y")
		y.CreateAttr("V", formatFloat(pt[1]))
	}
	p.shapesContainer().AddChild(e)

	p.AddConnect(Connect{FromID: id, FromCell: "BeginX", FromPart: PartBegin, ToID: from.ID(), ToCell: "PinX", ToPart: PartWholeShape})
	p.AddConnect(Connect{FromID: id, FromCell: "EndX", FromPart: PartEnd, ToID: to.ID(), ToCell: "PinX", ToPart: PartWholeShape})
	return &Shape{elem: e, owner: &p.contents}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
