// Package template fills placeholders in shape text from a context.
package template

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/valyala/fasttemplate"
)

// Renderer substitutes placeholders in text and evaluates the expressions
// used by directives.
type Renderer interface {
	// HasPlaceholders reports whether text contains at least one placeholder.
	HasPlaceholders(text string) bool
	// Render replaces each placeholder with its value from ctx. Placeholders
	// without a value are left as they are.
	Render(text string, ctx map[string]any) (string, error)
	// Directives removes the directives from text and returns what is left
	// together with the directives in order of appearance.
	Directives(text string) (string, []Directive)
	// Eval evaluates expression against ctx.
	Eval(expression string, ctx map[string]any) (any, error)
}

// Placeholder renders {{name}} style placeholders and {% kind args %}
// directives. Whitespace around the name is ignored, so {{ name }} and
// {{name}} are the same placeholder. A placeholder that is not a context key
// is evaluated as an expression, so {{ x * y }} works too.
type Placeholder struct {
	StartTag          string
	EndTag            string
	DirectiveStartTag string
	DirectiveEndTag   string
}

// NewPlaceholder returns a renderer using {{ }} for placeholders and {% %}
// for directives.
func NewPlaceholder() *Placeholder {
	return &Placeholder{StartTag: "{{", EndTag: "}}", DirectiveStartTag: "{%", DirectiveEndTag: "%}"}
}

// HasPlaceholders implements Renderer.
func (p *Placeholder) HasPlaceholders(text string) bool {
	start := strings.Index(text, p.StartTag)
	if start < 0 {
		return false
	}
	return strings.Contains(text[start+len(p.StartTag):], p.EndTag)
}

// Render implements Renderer.
func (p *Placeholder) Render(text string, ctx map[string]any) (string, error) {
	if !p.HasPlaceholders(text) {
		return text, nil
	}
	return fasttemplate.ExecuteFuncStringWithErr(text, p.StartTag, p.EndTag, func(w io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		if v, ok := ctx[name]; ok {
			return io.WriteString(w, format(v))
		}
		if v, err := p.Eval(name, ctx); err == nil && printable(v) {
			return io.WriteString(w, format(v))
		}
		return io.WriteString(w, p.StartTag+tag+p.EndTag)
	})
}

// Names returns the placeholder names in text in order of appearance.
func (p *Placeholder) Names(text string) []string {
	var names []string
	for {
		start := strings.Index(text, p.StartTag)
		if start < 0 {
			return names
		}
		text = text[start+len(p.StartTag):]
		end := strings.Index(text, p.EndTag)
		if end < 0 {
			return names
		}
		names = append(names, strings.TrimSpace(text[:end]))
		text = text[end+len(p.EndTag):]
	}
}

// Eval implements Renderer. Expressions use the expr language: arithmetic,
// comparisons, member access such as self.x and the ternary cond ? a : b.
// truthy(v) converts any value with Truthy. Names missing from ctx evaluate
// to nil.
func (p *Placeholder) Eval(expression string, ctx map[string]any) (any, error) {
	program, err := expr.Compile(expression, truthyFunc)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expression, err)
	}
	v, err := expr.Run(program, ctx)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expression, err)
	}
	return v, nil
}

var truthyFunc = expr.Function("truthy", func(params ...any) (any, error) {
	return Truthy(params[0]), nil
}, new(func(any) bool))

func printable(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() != reflect.Func
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
