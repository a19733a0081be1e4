package vsdx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/gofrs/flock"
	"github.com/samber/lo"

	"github.com/stevensultana/vsdx/pkg/vsdx/opc"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// Save writes the document to path, or back to the path it was opened from
// when path is empty. The archive is written to a temporary file and renamed
// into place, holding a lock file next to the target while it does so.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return newSaveError("", "", errors.New("no output path"))
	}
	if err := d.prepare(path); err != nil {
		return err
	}

	if d.opts.ShouldLockOnSave() {
		lock := flock.New(path + ".lock")
		ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
		defer cancel()

		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return newSaveError(path, "", fmt.Errorf("failed to acquire lock: %w", err))
		}
		if !locked {
			return newSaveError(path, "", errors.New("failed to acquire lock"))
		}
		defer lock.Unlock()
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return newSaveError(path, "", err)
	}
	if _, err := d.pkg.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return newSaveError(path, "", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return newSaveError(path, "", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return newSaveError(path, "", err)
	}

	d.path = path
	d.logger.Info("document saved", "path", path, "pages", len(d.pages))
	return nil
}

// Write serializes the document as a Visio archive to w.
func (d *Document) Write(w io.Writer) error {
	if err := d.prepare(""); err != nil {
		return err
	}
	if _, err := d.pkg.WriteTo(w); err != nil {
		return newSaveError("", "", err)
	}
	return nil
}

func (d *Document) prepare(path string) error {
	if err := d.sync(); err != nil {
		return newSaveError(path, "", err)
	}
	return d.validate(path)
}

// sync brings the package parts in line with the in-memory page list: index
// order, relationships, deleted parts, content types and the page titles in
// the extended properties.
func (d *Document) sync() error {
	d.syncIndex()

	ct, err := d.pkg.ContentTypes()
	if err != nil {
		return err
	}

	for _, part := range d.removed {
		d.pkg.Remove(part)
		d.pkg.Remove(opc.RelsPartName(part))
		ct.RemoveOverride(part)
	}
	d.removed = nil

	used := lo.SliceToMap(d.pages, func(p *Page) (string, bool) { return relIDOf(p.entry), true })
	for _, rel := range d.pagesRels.ByType(relTypePage) {
		if !used[rel.ID] {
			d.pagesRels.Remove(rel.ID)
		}
	}

	for _, part := range ct.Overrides(ctPage) {
		if !d.pkg.Has(part) {
			ct.RemoveOverride(part)
		}
	}
	for _, p := range d.pages {
		if _, ok := ct.Override(p.part); !ok {
			ct.SetOverride(p.part, ctPage)
		}
	}
	for _, m := range d.masters {
		if _, ok := ct.Override(m.part); !ok {
			ct.SetOverride(m.part, ctMaster)
		}
	}

	d.syncAppProperties()
	return nil
}

// validate checks that every page is reachable through the pages index, the
// index relationships and an existing part, each exactly once.
func (d *Document) validate(path string) error {
	inconsistent := func(part, format string, args ...any) error {
		return newSaveError(path, part, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInconsistent))
	}

	root := d.pagesIndex.Root()
	if n := len(root.SelectElements("Page")); n != len(d.pages) {
		return inconsistent(d.pagesPart, "pages index has %d entries for %d pages", n, len(d.pages))
	}

	rels := make(map[string]bool, len(d.pages))
	parts := make(map[string]bool, len(d.pages))
	for _, p := range d.pages {
		if p.entry.Parent() != root {
			return inconsistent(d.pagesPart, "page %q is not in the pages index", p.Name())
		}
		id := relIDOf(p.entry)
		if id == "" {
			return inconsistent(d.pagesPart, "page %q has no relationship", p.Name())
		}
		if rels[id] {
			return inconsistent(d.pagesPart, "relationship %s is used by more than one page", id)
		}
		rels[id] = true

		rel, ok := d.pagesRels.ByID(id)
		if !ok {
			return inconsistent(opc.RelsPartName(d.pagesPart), "relationship %s of page %q is missing", id, p.Name())
		}
		if target := d.pagesRels.Resolve(rel); target != p.part {
			return inconsistent(opc.RelsPartName(d.pagesPart), "relationship %s targets %s, page %q is %s", id, target, p.Name(), p.part)
		}
		if parts[p.part] {
			return inconsistent(p.part, "part is used by more than one page")
		}
		parts[p.part] = true
		if !d.pkg.Has(p.part) {
			return inconsistent(p.part, "page part is missing")
		}
	}
	return nil
}

// syncAppProperties rewrites the page titles and the page count in
// docProps/app.xml. Documents without extended properties are left alone.
func (d *Document) syncAppProperties() {
	rootRels, err := d.pkg.Relationships("")
	if err != nil {
		return
	}
	rel, ok := rootRels.FirstByType(relTypeExtended)
	if !ok {
		return
	}
	part := rootRels.Resolve(rel)
	if !d.pkg.Has(part) {
		return
	}
	doc, err := d.pkg.Part(part)
	if err != nil {
		d.logger.Warn("skipping extended properties", "part", part, "error", err)
		return
	}

	heading := vectorOf(doc.Root().SelectElement("HeadingPairs"))
	titles := vectorOf(doc.Root().SelectElement("TitlesOfParts"))
	if heading == nil || titles == nil {
		return
	}

	// Heading pairs are (name, count) variants; the titles of earlier
	// headings come first.
	variants := heading.SelectElements("variant")
	offset, count := 0, -1
	var countElem *etree.Element
	for i := 0; i+1 < len(variants); i += 2 {
		name := textOfChild(variants[i], "lpstr")
		n, _ := strconv.Atoi(textOfChild(variants[i+1], "i4"))
		if name == "Pages" {
			count = n
			countElem = variants[i+1].SelectElement("i4")
			break
		}
		offset += n
	}
	if countElem == nil {
		return
	}

	names := titles.SelectElements("lpstr")
	if offset+count > len(names) {
		d.logger.Warn("extended properties titles out of range", "part", part, "offset", offset, "count", count, "titles", len(names))
		return
	}

	var next *etree.Element
	if offset+count < len(names) {
		next = names[offset+count]
	}
	for _, e := range names[offset : offset+count] {
		titles.RemoveChild(e)
	}

	tag := "lpstr"
	if titles.Space != "" {
		tag = titles.Space + ":lpstr"
	}
	for _, p := range d.pages {
		e := etree.NewElement(tag)
		e.SetText(p.Name())
		if next != nil {
			titles.InsertChildAt(next.Index(), e)
		} else {
			titles.AddChild(e)
		}
	}

	countElem.SetText(strconv.Itoa(len(d.pages)))
	titles.CreateAttr("size", strconv.Itoa(len(titles.SelectElements("lpstr"))))
}

func vectorOf(e *etree.Element) *etree.Element {
	if e == nil {
		return nil
	}
	return e.SelectElement("vector")
}

func textOfChild(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return c.Text()
	}
	return ""
}
