package vsdx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/beevik/etree"
	"github.com/samber/lo"

	"github.com/stevensultana/vsdx/pkg/vsdx/opc"
	"github.com/stevensultana/vsdx/pkg/vsdx/template"
)

// Document is a loaded Visio drawing package: its pages in order, its
// masters, and the relationship graph mapping both to archive parts.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	pkg      *opc.Package
	path     string
	logger   *slog.Logger
	renderer template.Renderer
	opts     Options

	docPart    string
	pagesPart  string
	pagesIndex *etree.Document
	pagesRels  *opc.Relationships
	pages      []*Page
	removed    []string

	mastersPart string
	masters     []*Master
}

// Open loads the Visio file at path.
func Open(path string, opts Options) (*Document, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, newLoadError(path, "", ErrFileNotFound)
	}

	pkg, err := opc.Open(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			err = fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, newLoadError(path, "", err)
	}
	return load(pkg, path, opts)
}

// Read loads a Visio file from r.
func Read(r io.ReaderAt, size int64, opts Options) (*Document, error) {
	pkg, err := opc.Read(r, size)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			err = fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, newLoadError("", "", err)
	}
	return load(pkg, "", opts)
}

// FromPackage builds a document over an already assembled package.
func FromPackage(pkg *opc.Package, opts Options) (*Document, error) {
	return load(pkg, "", opts)
}

// load resolves the relationship chain
//
//	_rels/.rels -> document.xml -> pages.xml -> pageN.xml
//	                            -> masters.xml -> masterN.xml
//
// and parses every page and master part. Nothing is returned on failure.
func load(pkg *opc.Package, path string, opts Options) (*Document, error) {
	d := &Document{
		pkg:      pkg,
		path:     path,
		logger:   opts.logger(),
		renderer: opts.renderer(),
		opts:     opts,
	}

	rootRels, err := pkg.Relationships("")
	if err != nil {
		return nil, newLoadError(path, opc.RelsPartName(""), err)
	}
	docRel, ok := rootRels.FirstByType(relTypeDocument)
	if !ok {
		return nil, newLoadError(path, opc.RelsPartName(""), fmt.Errorf("%w: no Visio document relationship", ErrInvalidFormat))
	}
	d.docPart = rootRels.Resolve(docRel)
	if !pkg.Has(d.docPart) {
		return nil, newLoadError(path, d.docPart, ErrPartNotFound)
	}

	docRels, err := pkg.Relationships(d.docPart)
	if err != nil {
		return nil, newLoadError(path, opc.RelsPartName(d.docPart), err)
	}
	if err := d.loadPages(docRels); err != nil {
		return nil, err
	}
	if err := d.loadMasters(docRels); err != nil {
		return nil, err
	}

	d.logger.Debug("document loaded", "path", path, "pages", len(d.pages), "masters", len(d.masters))
	return d, nil
}

func (d *Document) loadPages(docRels *opc.Relationships) error {
	rel, ok := docRels.FirstByType(relTypePages)
	if !ok {
		return newLoadError(d.path, opc.RelsPartName(d.docPart), fmt.Errorf("%w: no pages relationship", ErrInvalidFormat))
	}
	d.pagesPart = docRels.Resolve(rel)

	index, err := d.pkg.Part(d.pagesPart)
	if err != nil {
		return newLoadError(d.path, d.pagesPart, err)
	}
	d.pagesIndex = index
	d.pagesRels, err = d.pkg.Relationships(d.pagesPart)
	if err != nil {
		return newLoadError(d.path, opc.RelsPartName(d.pagesPart), err)
	}

	for _, entry := range index.Root().SelectElements("Page") {
		part, err := d.resolveEntry(entry, d.pagesRels)
		if err != nil {
			return newLoadError(d.path, d.pagesPart, fmt.Errorf("page %q: %w", entry.SelectAttrValue("Name", ""), err))
		}
		tree, err := d.pkg.Part(part)
		if err != nil {
			return newLoadError(d.path, part, err)
		}
		p := &Page{entry: entry}
		p.contents = contents{doc: d, part: part, tree: tree, page: p}
		d.pages = append(d.pages, p)
	}
	return nil
}

func (d *Document) loadMasters(docRels *opc.Relationships) error {
	rel, ok := docRels.FirstByType(relTypeMasters)
	if !ok {
		return nil
	}
	d.mastersPart = docRels.Resolve(rel)

	index, err := d.pkg.Part(d.mastersPart)
	if err != nil {
		return newLoadError(d.path, d.mastersPart, err)
	}
	rels, err := d.pkg.Relationships(d.mastersPart)
	if err != nil {
		return newLoadError(d.path, opc.RelsPartName(d.mastersPart), err)
	}

	for _, entry := range index.Root().SelectElements("Master") {
		part, err := d.resolveEntry(entry, rels)
		if err != nil {
			return newLoadError(d.path, d.mastersPart, fmt.Errorf("master %q: %w", entry.SelectAttrValue("NameU", ""), err))
		}
		tree, err := d.pkg.Part(part)
		if err != nil {
			return newLoadError(d.path, part, err)
		}
		m := &Master{entry: entry}
		m.contents = contents{doc: d, part: part, tree: tree, master: m}
		d.masters = append(d.masters, m)
	}
	return nil
}

// resolveEntry follows an index entry's Rel through the index relationships
// to the physical part.
func (d *Document) resolveEntry(entry *etree.Element, rels *opc.Relationships) (string, error) {
	id := relIDOf(entry)
	if id == "" {
		return "", fmt.Errorf("%w: entry has no relationship id", ErrInvalidFormat)
	}
	rel, ok := rels.ByID(id)
	if !ok {
		return "", fmt.Errorf("relationship %s: %w", id, ErrPartNotFound)
	}
	return rels.Resolve(rel), nil
}

// Path returns the path the document was opened from, if any.
func (d *Document) Path() string { return d.path }

// Package returns the underlying archive.
func (d *Document) Package() *opc.Package { return d.pkg }

// Pages returns the pages in document order.
func (d *Document) Pages() []*Page {
	return append([]*Page(nil), d.pages...)
}

// Page returns the page at index, or nil when out of range.
func (d *Document) Page(index int) *Page {
	if index < 0 || index >= len(d.pages) {
		return nil
	}
	return d.pages[index]
}

// PageByName returns the first page named name, or nil.
func (d *Document) PageByName(name string) *Page {
	p, _ := lo.Find(d.pages, func(p *Page) bool { return p.Name() == name })
	return p
}

// PageNames returns the page names in document order.
func (d *Document) PageNames() []string {
	return lo.Map(d.pages, func(p *Page, _ int) string { return p.Name() })
}

func (d *Document) pageIndex(p *Page) int {
	return lo.IndexOf(d.pages, p)
}

// Masters returns the masters in index order.
func (d *Document) Masters() []*Master {
	return append([]*Master(nil), d.masters...)
}

// Master returns the master with the given ID, or nil.
func (d *Document) Master(id string) *Master {
	m, _ := lo.Find(d.masters, func(m *Master) bool { return m.ID() == id })
	return m
}

// MasterByName returns the master with the given name or universal name.
func (d *Document) MasterByName(name string) *Master {
	m, _ := lo.Find(d.masters, func(m *Master) bool { return m.Name() == name || m.NameU() == name })
	return m
}

// ApplyTextContext fills placeholders and applies directives in the shapes
// of every page. Pages whose pageshowif directives do not hold are removed.
func (d *Document) ApplyTextContext(ctx map[string]any) error {
	var hidden []*Page
	for _, p := range slices.Clone(d.pages) {
		if !p.pageVisible(d.renderer, ctx) {
			hidden = append(hidden, p)
			continue
		}
		p.ApplyTextContext(ctx)
	}
	for _, p := range hidden {
		if err := d.RemovePage(p); err != nil {
			return fmt.Errorf("apply text context: %w", err)
		}
		d.logger.Debug("page hidden by pageshowif", "name", p.Name())
	}
	return nil
}

// FindReplace replaces old with new in the shapes of every page.
func (d *Document) FindReplace(old, new string) {
	for _, p := range d.pages {
		p.FindReplace(old, new)
	}
}
