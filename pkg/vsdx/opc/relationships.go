package opc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// XML namespaces of the packaging parts.
const (
	NsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	// NsOfficeRelationships qualifies r:id attributes inside content parts.
	NsOfficeRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// External reports whether the target lies outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships is the relationships part of a single source part. It is a
// view over the cached XML tree, so edits are written with the package.
type Relationships struct {
	source string
	doc    *etree.Document
}

// Relationships returns the relationships of source, creating an empty
// relationships part when none exists.
func (p *Package) Relationships(source string) (*Relationships, error) {
	source = normalize(source)
	name := RelsPartName(source)
	if r, ok := p.rels[name]; ok {
		return r, nil
	}

	var doc *etree.Document
	if p.Has(name) {
		d, err := p.Part(name)
		if err != nil {
			return nil, err
		}
		doc = d
	} else {
		doc = etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		root := doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", NsRelationships)
	}

	r := &Relationships{source: source, doc: doc}
	p.rels[name] = r
	return r, nil
}

// Store makes sure the relationships part is present in the package. Empty
// relationships parts that were never stored stay out of the archive.
func (p *Package) Store(r *Relationships) {
	name := RelsPartName(r.source)
	if existing, ok := p.trees[name]; ok && existing == r.doc {
		return
	}
	p.SetPart(name, r.doc)
	p.rels[name] = r
}

// Source returns the name of the part owning the relationships.
func (r *Relationships) Source() string { return r.source }

// All returns the relationships in document order.
func (r *Relationships) All() []Relationship {
	var out []Relationship
	for _, e := range r.doc.Root().SelectElements("Relationship") {
		out = append(out, relationshipFrom(e))
	}
	return out
}

// ByID returns the relationship with the given ID.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	if e := r.find(id); e != nil {
		return relationshipFrom(e), true
	}
	return Relationship{}, false
}

// ByType returns all relationships of the given type.
func (r *Relationships) ByType(typ string) []Relationship {
	var out []Relationship
	for _, rel := range r.All() {
		if rel.Type == typ {
			out = append(out, rel)
		}
	}
	return out
}

// FirstByType returns the first relationship of the given type.
func (r *Relationships) FirstByType(typ string) (Relationship, bool) {
	for _, rel := range r.All() {
		if rel.Type == typ {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Resolve returns the package part name the relationship points to.
func (r *Relationships) Resolve(rel Relationship) string {
	return ResolveTarget(r.source, rel.Target)
}

// ByPart returns the first relationship of the given type resolving to part.
func (r *Relationships) ByPart(typ, part string) (Relationship, bool) {
	part = normalize(part)
	for _, rel := range r.ByType(typ) {
		if !rel.External() && r.Resolve(rel) == part {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Add appends a relationship to part and returns its new ID.
func (r *Relationships) Add(typ, part string) string {
	id := r.NextID()
	e := r.doc.Root().CreateElement("Relationship")
	e.CreateAttr("Id", id)
	e.CreateAttr("Type", typ)
	e.CreateAttr("Target", RelativeTarget(r.source, part))
	return id
}

// Remove deletes the relationship with the given ID.
func (r *Relationships) Remove(id string) bool {
	e := r.find(id)
	if e == nil {
		return false
	}
	r.doc.Root().RemoveChild(e)
	return true
}

// NextID returns an unused ID of the form rIdN.
func (r *Relationships) NextID() string {
	max := 0
	for _, rel := range r.All() {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

// Len returns the number of relationships.
func (r *Relationships) Len() int {
	return len(r.doc.Root().SelectElements("Relationship"))
}

// Copy returns a detached copy owned by source.
func (r *Relationships) Copy(source string) *Relationships {
	return &Relationships{source: normalize(source), doc: r.doc.Copy()}
}

func (r *Relationships) find(id string) *etree.Element {
	for _, e := range r.doc.Root().SelectElements("Relationship") {
		if e.SelectAttrValue("Id", "") == id {
			return e
		}
	}
	return nil
}

func relationshipFrom(e *etree.Element) Relationship {
	return Relationship{
		ID:         e.SelectAttrValue("Id", ""),
		Type:       e.SelectAttrValue("Type", ""),
		Target:     e.SelectAttrValue("Target", ""),
		TargetMode: e.SelectAttrValue("TargetMode", ""),
	}
}
