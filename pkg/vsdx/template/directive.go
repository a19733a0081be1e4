package template

import (
	"io"
	"reflect"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Directive kinds understood by the document renderer.
const (
	// KindShowIf keeps the shape only when the expression is truthy.
	KindShowIf = "showif"
	// KindPageShowIf keeps the page holding the shape only when the
	// expression is truthy.
	KindPageShowIf = "pageshowif"
	// KindFor repeats the shape once per item of a list.
	KindFor = "for"
	// KindEndFor closes a for directive. It carries no meaning of its own.
	KindEndFor = "endfor"
	// KindSet assigns a cell of the shape (self.x) or a variable.
	KindSet = "set"
)

// Directive is one {% kind args %} statement found in shape text.
//
//	{% showif expr %}       Target "", Expr expr
//	{% for item in expr %}  Target item, Expr expr
//	{% set self.x = expr %} Target self.x, Expr expr
type Directive struct {
	Kind   string
	Target string
	Expr   string
}

// Directives implements Renderer. Malformed for and set statements are
// returned with an empty Target.
func (p *Placeholder) Directives(text string) (string, []Directive) {
	if !strings.Contains(text, p.DirectiveStartTag) {
		return text, nil
	}
	var out []Directive
	rest := fasttemplate.ExecuteFuncString(text, p.DirectiveStartTag, p.DirectiveEndTag, func(w io.Writer, tag string) (int, error) {
		out = append(out, parseDirective(tag))
		return 0, nil
	})
	return rest, out
}

func parseDirective(tag string) Directive {
	tag = strings.TrimSpace(tag)
	kind, args, _ := strings.Cut(tag, " ")
	args = strings.TrimSpace(args)
	d := Directive{Kind: kind, Expr: args}

	switch kind {
	case KindFor:
		if target, list, ok := strings.Cut(args, " in "); ok {
			d.Target, d.Expr = strings.TrimSpace(target), strings.TrimSpace(list)
		} else {
			d.Expr = ""
		}
	case KindSet:
		if target, value, ok := strings.Cut(args, "="); ok {
			d.Target, d.Expr = strings.TrimSpace(target), strings.TrimSpace(value)
		} else {
			d.Expr = ""
		}
	}
	return d
}

// Truthy reports whether v counts as true in a condition. nil, false, zero
// numbers and empty strings, lists and maps are false; anything else is true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
