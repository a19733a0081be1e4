package vsdx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Page is a drawing page. Its name and size live in the document's pages
// index, its shapes and connects in its own part.
type Page struct {
	contents
	entry *etree.Element
	maxID int
}

func (p *Page) String() string {
	return fmt.Sprintf("<Page name=%s file=%s>", p.Name(), p.part)
}

// Document returns the document the page belongs to.
func (p *Page) Document() *Document { return p.doc }

// ID returns the page ID from the pages index.
func (p *Page) ID() int {
	id, _ := strconv.Atoi(p.entry.SelectAttrValue("ID", ""))
	return id
}

// Name returns the page name.
func (p *Page) Name() string {
	if name := p.entry.SelectAttrValue("Name", ""); name != "" {
		return name
	}
	return p.entry.SelectAttrValue("NameU", "")
}

// NameU returns the universal page name.
func (p *Page) NameU() string {
	return p.entry.SelectAttrValue("NameU", "")
}

// SetName renames the page. The page owns its pages index entry, so the new
// name is visible through the page and the document alike.
func (p *Page) SetName(name string) error {
	if name == "" {
		return errors.New("set page name: empty name")
	}
	for _, other := range p.doc.pages {
		if other != p && other.Name() == name {
			return fmt.Errorf("set page name %q: %w", name, ErrDuplicatePageName)
		}
	}
	p.entry.CreateAttr("Name", name)
	p.entry.CreateAttr("NameU", name)
	return nil
}

// Index returns the zero-based position of the page in the document, or -1
// once the page has been removed.
func (p *Page) Index() int {
	return p.doc.pageIndex(p)
}

func (p *Page) pageSheetFloat(name string) float64 {
	sheet := p.entry.SelectElement("PageSheet")
	if sheet == nil {
		return 0
	}
	for _, c := range sheet.SelectElements("Cell") {
		if c.SelectAttrValue("N", "") == name {
			f, _ := strconv.ParseFloat(c.SelectAttrValue("V", ""), 64)
			return f
		}
	}
	return 0
}

// Width returns the page width in inches.
func (p *Page) Width() float64 { return p.pageSheetFloat("PageWidth") }

// Height returns the page height in inches.
func (p *Page) Height() float64 { return p.pageSheetFloat("PageHeight") }

// SetMaxIDs walks every shape of the page once and records the largest
// shape ID, which NextID allocates from. Call it again after inserting
// shapes through the XML directly.
func (p *Page) SetMaxIDs() int {
	p.maxID = p.maxShapeID()
	return p.maxID
}

// MaxID returns the largest shape ID recorded by SetMaxIDs or NextID.
func (p *Page) MaxID() int { return p.maxID }

// NextID allocates a shape ID not used on the page.
func (p *Page) NextID() int {
	if p.maxID == 0 {
		p.SetMaxIDs()
	}
	p.maxID++
	return p.maxID
}

// ApplyTextContext fills placeholders and applies shape directives in the
// text of every shape on the page. pageshowif directives are removed from
// the text here but only evaluated by Document.ApplyTextContext.
func (p *Page) ApplyTextContext(ctx map[string]any) {
	for _, s := range p.Shapes() {
		s.ApplyTextFilter(ctx)
	}
}

// FindReplace replaces old with new in the text of every shape on the page.
func (p *Page) FindReplace(old, new string) {
	for _, s := range p.Shapes() {
		s.FindReplace(old, new)
	}
}

// FindShapesWithSameMaster returns every shape on the page that refers to the
// same master and master shape as s.
func (p *Page) FindShapesWithSameMaster(s *Shape) []*Shape {
	if s == nil || s.MasterID() == "" {
		return nil
	}
	return p.FindShapesByMaster(s.MasterID(), s.MasterShapeID())
}

// relateMaster makes sure the page part has a relationship to the master part.
func (p *Page) relateMaster(m *Master) error {
	rels, err := p.doc.pkg.Relationships(p.part)
	if err != nil {
		return err
	}
	if _, ok := rels.ByPart(relTypeMaster, m.part); ok {
		return nil
	}
	rels.Add(relTypeMaster, m.part)
	p.doc.pkg.Store(rels)
	return nil
}

// relEntry returns the Rel child of the index entry.
func relEntry(entry *etree.Element) *etree.Element {
	return entry.SelectElement("Rel")
}

// relIDOf returns the namespace qualified id attribute of the entry's Rel.
func relIDOf(entry *etree.Element) string {
	rel := relEntry(entry)
	if rel == nil {
		return ""
	}
	for _, a := range rel.Attr {
		if a.Key == "id" && a.Space != "" {
			return a.Value
		}
	}
	return ""
}

func setRelID(entry *etree.Element, id string) {
	rel := relEntry(entry)
	if rel == nil {
		rel = entry.CreateElement("Rel")
	}
	for _, a := range rel.Attr {
		if a.Key == "id" && a.Space != "" {
			rel.CreateAttr(a.Space+":id", id)
			return
		}
	}
	rel.CreateAttr("r:id", id)
}
