package vsdx

import (
	"fmt"
	"path"
	"slices"
	"strconv"

	"github.com/beevik/etree"

	"github.com/stevensultana/vsdx/pkg/vsdx/opc"
)

// Position places a new or moved page relative to the existing pages.
type Position int

const (
	// PositionFirst places the page before all others.
	PositionFirst Position = iota
	// PositionLast places the page after all others.
	PositionLast
	// PositionBefore places the page immediately before a reference page.
	PositionBefore
	// PositionAfter places the page immediately after a reference page.
	PositionAfter
)

func (p Position) String() string {
	switch p {
	case PositionFirst:
		return "first"
	case PositionLast:
		return "last"
	case PositionBefore:
		return "before"
	case PositionAfter:
		return "after"
	}
	return "Position(" + strconv.Itoa(int(p)) + ")"
}

// insertIndex converts a position into an index of d.pages.
func (d *Document) insertIndex(pos Position, ref *Page) (int, error) {
	switch pos {
	case PositionFirst:
		return 0, nil
	case PositionLast:
		return len(d.pages), nil
	case PositionBefore, PositionAfter:
		i := d.pageIndex(ref)
		if i < 0 {
			return 0, fmt.Errorf("insert %s reference page: %w", pos, ErrPageNotFound)
		}
		if pos == PositionAfter {
			i++
		}
		return i, nil
	}
	return 0, fmt.Errorf("invalid page position %d", pos)
}

// AddPage appends an empty page. An empty name yields Page-N.
func (d *Document) AddPage(name string) (*Page, error) {
	return d.AddPageAt(PositionLast, nil, name)
}

// AddPageAt inserts an empty page at pos; ref is the reference page for
// PositionBefore and PositionAfter.
func (d *Document) AddPageAt(pos Position, ref *Page, name string) (*Page, error) {
	i, err := d.insertIndex(pos, ref)
	if err != nil {
		return nil, err
	}
	return d.InsertPage(i, name)
}

// InsertPage inserts an empty page at index. An index outside the page list
// appends the page.
func (d *Document) InsertPage(index int, name string) (*Page, error) {
	if index < 0 || index > len(d.pages) {
		index = len(d.pages)
	}
	if name == "" {
		name = fmt.Sprintf("Page-%d", len(d.pages)+1)
	}

	entry := etree.NewElement("Page")
	if len(d.pages) > 0 {
		if sheet := d.pages[0].entry.SelectElement("PageSheet"); sheet != nil {
			entry.AddChild(sheet.Copy())
		}
	}
	if entry.SelectElement("PageSheet") == nil {
		entry.AddChild(defaultPageSheet())
	}
	return d.insertPage(index, entry, newPageContents(), nil, name)
}

// CopyPage inserts a copy of src at pos, including its shapes, connects and
// master relationships. An empty name reuses the source name; a name already
// in use gets a numeric suffix, so copying Page-1 yields Page-1-1.
func (d *Document) CopyPage(src *Page, pos Position, ref *Page, name string) (*Page, error) {
	if d.pageIndex(src) < 0 {
		return nil, fmt.Errorf("copy page: %w", ErrPageNotFound)
	}
	i, err := d.insertIndex(pos, ref)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = src.Name()
	}

	entry := src.entry.Copy()
	var rels *opc.Relationships
	if d.pkg.Has(opc.RelsPartName(src.part)) {
		r, err := d.pkg.Relationships(src.part)
		if err != nil {
			return nil, fmt.Errorf("copy page %q: %w", src.Name(), err)
		}
		rels = r
	}
	tree := src.tree.Copy()
	for _, e := range tree.FindElements("//Shape[@UniqueID]") {
		e.CreateAttr("UniqueID", newUniqueID())
	}
	return d.insertPage(i, entry, tree, rels, name)
}

func (d *Document) insertPage(index int, entry *etree.Element, tree *etree.Document, rels *opc.Relationships, name string) (*Page, error) {
	name = d.uniquePageName(name)
	part := d.nextPagePart()

	entry.CreateAttr("ID", strconv.Itoa(d.nextPageID()))
	entry.CreateAttr("NameU", name)
	entry.CreateAttr("Name", name)
	setRelID(entry, d.pagesRels.Add(relTypePage, part))
	d.pkg.Store(d.pagesRels)

	d.pkg.SetPart(part, tree)
	if rels != nil {
		d.pkg.Store(rels.Copy(part))
	}

	p := &Page{entry: entry}
	p.contents = contents{doc: d, part: part, tree: tree, page: p}
	d.pages = slices.Insert(d.pages, index, p)
	d.syncIndex()

	d.logger.Debug("page added", "name", name, "index", index, "part", part)
	return p, nil
}

// RemovePage removes p from the document. Its part is deleted from the
// archive on the next save.
func (d *Document) RemovePage(p *Page) error {
	i := d.pageIndex(p)
	if i < 0 {
		return fmt.Errorf("remove page: %w", ErrPageNotFound)
	}
	d.pages = slices.Delete(d.pages, i, i+1)
	d.pagesIndex.Root().RemoveChild(p.entry)
	d.pagesRels.Remove(relIDOf(p.entry))
	d.removed = append(d.removed, p.part)

	id := p.entry.SelectAttrValue("ID", "")
	for _, other := range d.pages {
		if other.entry.SelectAttrValue("BackPage", "") == id {
			other.entry.RemoveAttr("BackPage")
		}
	}
	d.logger.Debug("page removed", "name", p.Name(), "part", p.part)
	return nil
}

// RemovePageAt removes the page at index.
func (d *Document) RemovePageAt(index int) error {
	p := d.Page(index)
	if p == nil {
		return fmt.Errorf("remove page %d: %w", index, ErrPageNotFound)
	}
	return d.RemovePage(p)
}

// MovePage moves p to pos, relative to ref for PositionBefore and
// PositionAfter.
func (d *Document) MovePage(p *Page, pos Position, ref *Page) error {
	i := d.pageIndex(p)
	if i < 0 {
		return fmt.Errorf("move page: %w", ErrPageNotFound)
	}
	if ref == p && (pos == PositionBefore || pos == PositionAfter) {
		return nil
	}
	d.pages = slices.Delete(d.pages, i, i+1)
	j, err := d.insertIndex(pos, ref)
	if err != nil {
		d.pages = slices.Insert(d.pages, i, p)
		return err
	}
	d.pages = slices.Insert(d.pages, j, p)
	d.syncIndex()
	return nil
}

// syncIndex reorders the pages index entries to match d.pages.
func (d *Document) syncIndex() {
	root := d.pagesIndex.Root()
	for _, p := range d.pages {
		root.RemoveChild(p.entry)
	}
	for _, p := range d.pages {
		root.AddChild(p.entry)
	}
}

func (d *Document) uniquePageName(name string) string {
	taken := func(n string) bool { return d.PageByName(n) != nil }
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		if candidate := fmt.Sprintf("%s-%d", name, i); !taken(candidate) {
			return candidate
		}
	}
}

func (d *Document) nextPagePart() string {
	dir := path.Dir(d.pagesPart)
	for n := 1; ; n++ {
		if part := path.Join(dir, fmt.Sprintf("page%d.xml", n)); !d.pkg.Has(part) {
			return part
		}
	}
}

func (d *Document) nextPageID() int {
	max := -1
	for _, e := range d.pagesIndex.Root().SelectElements("Page") {
		if id, err := strconv.Atoi(e.SelectAttrValue("ID", "")); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

func newPageContents() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("PageContents")
	root.CreateAttr("xmlns", nsVisio)
	root.CreateAttr("xmlns:r", nsRel)
	root.CreateAttr("xml:space", "preserve")
	return doc
}

func defaultPageSheet() *etree.Element {
	sheet := etree.NewElement("PageSheet")
	for _, c := range [][2]string{{"PageWidth", defaultPageWidth}, {"PageHeight", defaultPageHeight}} {
		cell := sheet.CreateElement("Cell")
		cell.CreateAttr("N", c[0])
		cell.CreateAttr("V", c[1])
	}
	return sheet
}
