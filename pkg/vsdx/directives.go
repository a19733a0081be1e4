package vsdx

import (
	"reflect"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/stevensultana/vsdx/pkg/vsdx/template"
)

// Shape text may carry directives next to its placeholders:
//
//	{% showif expr %}       the shape is removed unless expr is truthy
//	{% for item in expr %}  the shape is repeated once per item, each copy
//	                        one shape width to the right of the previous one
//	{% set self.x = expr %} the cell is set (x, y, width, height or a cell name)
//	{% set name = expr %}   name is defined for the shape and its sub-shapes
//	{% pageshowif expr %}   the page is removed unless expr is truthy
//
// Directives are removed from the text once applied. Expressions see the
// render context plus "self", holding the shape's x, y, width and height.

var selfCells = map[string]string{
	"x":      "PinX",
	"y":      "PinY",
	"width":  "Width",
	"height": "Height",
}

// render applies directives and placeholders to s and its sub-shapes.
func (s *Shape) render(r template.Renderer, ctx map[string]any) {
	ds := s.takeDirectives(r)
	if d, i, ok := lo.FindIndexOf(ds, func(d template.Directive) bool { return d.Kind == template.KindFor }); ok {
		s.repeat(r, ctx, d, append(ds[:i:i], ds[i+1:]...))
		return
	}
	s.renderWith(r, ctx, ds)
}

// takeDirectives strips the directives from the shape's own text.
func (s *Shape) takeDirectives(r template.Renderer) []template.Directive {
	text, ok := s.OwnText()
	if !ok {
		return nil
	}
	_, ds := r.Directives(text)
	if len(ds) > 0 {
		s.rewriteText(func(t string) string {
			rest, _ := r.Directives(t)
			return rest
		})
	}
	return ds
}

func (s *Shape) renderWith(r template.Renderer, ctx map[string]any, ds []template.Directive) {
	log := s.owner.doc.logger
	for _, d := range ds {
		switch d.Kind {
		case template.KindShowIf:
			v, err := r.Eval(d.Expr, s.context(ctx))
			if err != nil {
				log.Warn("showif ignored", "shape", s.ID(), "part", s.owner.part, "error", err)
				continue
			}
			if !template.Truthy(v) {
				s.Remove()
				return
			}
		case template.KindSet:
			ctx = s.assign(r, ctx, d)
		case template.KindPageShowIf, template.KindEndFor:
		default:
			log.Warn("unknown directive", "kind", d.Kind, "shape", s.ID(), "part", s.owner.part)
		}
	}

	s.applyTextFilter(r, s.context(ctx))
	for _, c := range s.SubShapes() {
		c.render(r, ctx)
	}
}

// repeat renders s once per item of the for directive's list. The first item
// uses s itself; later items use copies placed after it in the same container.
func (s *Shape) repeat(r template.Renderer, ctx map[string]any, d template.Directive, rest []template.Directive) {
	log := s.owner.doc.logger
	page := s.Page()
	if d.Target == "" || page == nil {
		log.Warn("for directive ignored", "shape", s.ID(), "part", s.owner.part, "expr", d.Expr)
		s.renderWith(r, ctx, rest)
		return
	}
	v, err := r.Eval(d.Expr, s.context(ctx))
	if err != nil {
		log.Warn("for directive ignored", "shape", s.ID(), "part", s.owner.part, "error", err)
		s.renderWith(r, ctx, rest)
		return
	}
	items, ok := listOf(v)
	if !ok {
		log.Warn("for directive over a non-list", "shape", s.ID(), "part", s.owner.part, "expr", d.Expr)
		s.renderWith(r, ctx, rest)
		return
	}
	if len(items) == 0 {
		s.Remove()
		return
	}

	shapes := []*Shape{s}
	width := s.Width()
	for i := 1; i < len(items); i++ {
		dup := s.duplicate(page, shapes[i-1])
		dup.Move(float64(i)*width, 0)
		shapes = append(shapes, dup)
	}
	for i, sh := range shapes {
		sh.renderWith(r, lo.Assign(ctx, map[string]any{d.Target: items[i]}), rest)
	}
}

// duplicate copies s into its own container right after prev, with fresh
// IDs. Unlike CopyTo the copy keeps inheriting from s's parent.
func (s *Shape) duplicate(page *Page, prev *Shape) *Shape {
	e := s.elem.Copy()
	dup := &Shape{elem: e, parent: s.parent, owner: s.owner}
	for sh := range dup.subtree() {
		sh.setID(page.NextID())
		if sh.elem.SelectAttr("UniqueID") != nil {
			sh.elem.CreateAttr("UniqueID", newUniqueID())
		}
	}
	container := prev.elem.Parent()
	container.InsertChildAt(prev.elem.Index()+1, e)
	return dup
}

// assign applies a set directive. Targets under self. write a cell; other
// targets extend the context seen by s and its sub-shapes.
func (s *Shape) assign(r template.Renderer, ctx map[string]any, d template.Directive) map[string]any {
	log := s.owner.doc.logger
	if d.Target == "" {
		log.Warn("set directive ignored", "shape", s.ID(), "part", s.owner.part)
		return ctx
	}
	v, err := r.Eval(d.Expr, s.context(ctx))
	if err != nil {
		log.Warn("set directive ignored", "shape", s.ID(), "part", s.owner.part, "error", err)
		return ctx
	}

	name, isCell := strings.CutPrefix(d.Target, "self.")
	if !isCell {
		return lo.Assign(ctx, map[string]any{d.Target: v})
	}
	if cell, ok := selfCells[name]; ok {
		name = cell
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		s.SetCellFloat(name, f)
	} else {
		s.SetCellValue(name, cast.ToString(v))
	}
	return ctx
}

// context returns ctx with "self" describing s.
func (s *Shape) context(ctx map[string]any) map[string]any {
	return lo.Assign(ctx, map[string]any{
		"self": map[string]any{
			"id":     s.ID(),
			"x":      s.X(),
			"y":      s.Y(),
			"width":  s.Width(),
			"height": s.Height(),
		},
	})
}

// listOf returns the items of a slice or array. nil is an empty list.
func listOf(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	if items, err := cast.ToSliceE(v); err == nil {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// pageVisible reports whether every pageshowif directive on p holds. The
// directives stay in the text; rendering the page removes them.
func (p *Page) pageVisible(r template.Renderer, ctx map[string]any) bool {
	visible := true
	for s := range p.All() {
		text, ok := s.OwnText()
		if !ok {
			continue
		}
		_, ds := r.Directives(text)
		for _, d := range ds {
			if d.Kind != template.KindPageShowIf {
				continue
			}
			v, err := r.Eval(d.Expr, ctx)
			if err != nil {
				p.doc.logger.Warn("pageshowif ignored", "page", p.Name(), "error", err)
				continue
			}
			visible = visible && template.Truthy(v)
		}
	}
	return visible
}
