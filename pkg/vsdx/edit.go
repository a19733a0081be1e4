package vsdx

import (
	"iter"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/stevensultana/vsdx/pkg/vsdx/template"
)

// subtree yields s followed by its descendants.
func (s *Shape) subtree() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		if yield(s) {
			s.walk(yield)
		}
	}
}

// SetText replaces the shape's own text. Character and paragraph markers
// are kept; a Text element is created when the shape has none.
func (s *Shape) SetText(text string) {
	t := s.elem.SelectElement("Text")
	if t == nil {
		t = etree.NewElement("Text")
		if shapes := s.elem.SelectElement("Shapes"); shapes != nil {
			s.elem.InsertChildAt(shapes.Index(), t)
		} else {
			s.elem.AddChild(t)
		}
	}
	for _, tok := range append([]etree.Token(nil), t.Child...) {
		switch v := tok.(type) {
		case *etree.CharData:
			t.RemoveChild(v)
		case *etree.Element:
			if v.Tag == "fld" {
				t.RemoveChild(v)
			}
		}
	}
	t.CreateText(text)
}

func collectCharData(e *etree.Element, out *[]*etree.CharData) {
	for _, tok := range e.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			*out = append(*out, v)
		case *etree.Element:
			collectCharData(v, out)
		}
	}
}

// rewriteText applies fn to the shape's own text. Each text run is rewritten
// in place when that gives the same result as rewriting the whole text;
// otherwise the runs are merged into the first one.
func (s *Shape) rewriteText(fn func(string) string) bool {
	t := s.elem.SelectElement("Text")
	if t == nil {
		return false
	}
	full := textOf(t)
	want := fn(full)
	if want == full {
		return false
	}

	var runs []*etree.CharData
	collectCharData(t, &runs)
	if len(runs) == 0 {
		t.CreateText(want)
		return true
	}

	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = fn(r.Data)
	}
	if strings.Join(parts, "") == want {
		for i, r := range runs {
			r.SetData(parts[i])
		}
		return true
	}

	runs[0].SetData(want)
	for _, r := range runs[1:] {
		if p := r.Parent(); p != nil {
			p.RemoveChild(r)
		}
	}
	return true
}

// ApplyTextFilter fills placeholders in the own text of s and every shape
// below it from ctx, and applies the directives found in that text (see
// directives.go). Shapes without placeholders are untouched and unknown
// placeholders are left as they are.
func (s *Shape) ApplyTextFilter(ctx map[string]any) {
	s.render(s.owner.doc.renderer, ctx)
}

func (s *Shape) applyTextFilter(r template.Renderer, ctx map[string]any) {
	text, ok := s.OwnText()
	if !ok || !r.HasPlaceholders(text) {
		return
	}
	if _, err := r.Render(text, ctx); err != nil {
		s.owner.doc.logger.Warn("text filter skipped", "shape", s.ID(), "part", s.owner.part, "error", err)
		return
	}
	s.rewriteText(func(t string) string {
		out, err := r.Render(t, ctx)
		if err != nil {
			return t
		}
		return out
	})
}

// FindReplace replaces every occurrence of old with new in the own text of
// s and every shape below it.
func (s *Shape) FindReplace(old, new string) {
	if old == "" {
		return
	}
	for sh := range s.subtree() {
		sh.rewriteText(func(t string) string {
			return strings.ReplaceAll(t, old, new)
		})
	}
}

// SetCellValue sets a cell on the shape itself. A cell that was inherited
// from the master becomes a local override.
func (s *Shape) SetCellValue(name, value string) {
	e := s.cellElement(name)
	if e == nil {
		e = etree.NewElement("Cell")
		e.CreateAttr("N", name)
		if cells := s.elem.SelectElements("Cell"); len(cells) > 0 {
			s.elem.InsertChildAt(cells[len(cells)-1].Index()+1, e)
		} else {
			s.elem.InsertChildAt(0, e)
		}
	}
	e.CreateAttr("V", value)
}

// SetCellFloat sets a numeric cell.
func (s *Shape) SetCellFloat(name string, value float64) {
	s.SetCellValue(name, formatFloat(value))
}

// SetX sets the PinX cell.
func (s *Shape) SetX(x float64) { s.SetCellFloat("PinX", x) }

// SetY sets the PinY cell.
func (s *Shape) SetY(y float64) { s.SetCellFloat("PinY", y) }

// Move shifts the shape by dx, dy.
func (s *Shape) Move(dx, dy float64) {
	s.SetX(s.X() + dx)
	s.SetY(s.Y() + dy)
}

// Remove detaches the shape from its parent. Connects that refer to it are
// left in place and no longer resolve.
func (s *Shape) Remove() {
	if p := s.elem.Parent(); p != nil {
		p.RemoveChild(s.elem)
	}
}

// Copy duplicates the shape on its own page.
func (s *Shape) Copy() (*Shape, error) {
	return s.CopyTo(s.Page())
}

// CopyTo appends a deep copy of the shape to the top level of page. The copy
// and its sub-shapes get fresh IDs above the page's maximum and fresh unique
// IDs, and page gains a relationship to every master the copy refers to.
func (s *Shape) CopyTo(page *Page) (*Shape, error) {
	if page == nil {
		return nil, ErrPageNotFound
	}

	e := s.elem.Copy()
	if s.elem.SelectAttr("Master") == nil {
		if id := s.MasterID(); id != "" {
			e.CreateAttr("Master", id)
		}
	}
	dup := &Shape{elem: e, owner: &page.contents}

	for sh := range dup.subtree() {
		sh.setID(page.NextID())
		if sh.elem.SelectAttr("UniqueID") != nil {
			sh.elem.CreateAttr("UniqueID", newUniqueID())
		}
		if id := sh.elem.SelectAttrValue("Master", ""); id != "" {
			m := page.doc.Master(id)
			if m == nil {
				page.doc.logger.Warn("copied shape refers to unknown master", "master", id, "page", page.Name())
				continue
			}
			if err := page.relateMaster(m); err != nil {
				return nil, err
			}
		}
	}

	page.shapesContainer().AddChild(e)
	return dup, nil
}

func newUniqueID() string {
	return "{" + strings.ToUpper(uuid.New().String()) + "}"
}
