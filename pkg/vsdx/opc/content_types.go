package opc

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ContentTypes is a view over the content types part.
type ContentTypes struct {
	doc *etree.Document
}

// ContentTypes returns the content types of the package, creating the part
// when it is missing.
func (p *Package) ContentTypes() (*ContentTypes, error) {
	if p.Has(ContentTypesPart) {
		doc, err := p.Part(ContentTypesPart)
		if err != nil {
			return nil, err
		}
		return &ContentTypes{doc: doc}, nil
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", NsContentTypes)
	p.SetPart(ContentTypesPart, doc)
	return &ContentTypes{doc: doc}, nil
}

// Lookup returns the content type of part, from its override or from the
// default registered for its extension.
func (c *ContentTypes) Lookup(part string) (string, bool) {
	if ct, ok := c.Override(part); ok {
		return ct, true
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, e := range c.doc.Root().SelectElements("Default") {
		if strings.EqualFold(e.SelectAttrValue("Extension", ""), ext) {
			return e.SelectAttrValue("ContentType", ""), true
		}
	}
	return "", false
}

// Override returns the override content type of part.
func (c *ContentTypes) Override(part string) (string, bool) {
	if e := c.findOverride(part); e != nil {
		return e.SelectAttrValue("ContentType", ""), true
	}
	return "", false
}

// SetOverride registers contentType for part.
func (c *ContentTypes) SetOverride(part, contentType string) {
	e := c.findOverride(part)
	if e == nil {
		e = c.doc.Root().CreateElement("Override")
		e.CreateAttr("PartName", "/"+normalize(part))
	}
	e.CreateAttr("ContentType", contentType)
}

// RemoveOverride deletes the override of part.
func (c *ContentTypes) RemoveOverride(part string) bool {
	e := c.findOverride(part)
	if e == nil {
		return false
	}
	c.doc.Root().RemoveChild(e)
	return true
}

// Overrides returns the part names that carry an override of contentType.
func (c *ContentTypes) Overrides(contentType string) []string {
	var out []string
	for _, e := range c.doc.Root().SelectElements("Override") {
		if e.SelectAttrValue("ContentType", "") == contentType {
			out = append(out, normalize(e.SelectAttrValue("PartName", "")))
		}
	}
	return out
}

func (c *ContentTypes) findOverride(part string) *etree.Element {
	part = normalize(part)
	for _, e := range c.doc.Root().SelectElements("Override") {
		if strings.EqualFold(normalize(e.SelectAttrValue("PartName", "")), part) {
			return e
		}
	}
	return nil
}
