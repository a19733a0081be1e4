// Package opc reads and writes Open Packaging Conventions archives: the zip
// container, its XML parts, relationship parts and the content types part.
package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ContentTypesPart is the name of the content types part.
const ContentTypesPart = "[Content_Types].xml"

// ErrPartNotFound indicates that a named part is not present in the package.
var ErrPartNotFound = errors.New("part not found")

// Package holds every part of an archive in memory. XML parts are parsed on
// first access and serialized again on write; parts that were never parsed
// are written back byte for byte.
type Package struct {
	order []string
	raw   map[string][]byte
	trees map[string]*etree.Document
	rels  map[string]*Relationships
}

// New returns an empty package.
func New() *Package {
	return &Package{
		raw:   make(map[string][]byte),
		trees: make(map[string]*etree.Document),
		rels:  make(map[string]*Relationships),
	}
}

// Open reads the archive at path.
func Open(name string) (*Package, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Read(f, info.Size())
}

// Read reads an archive of the given size.
func Read(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	p := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		p.SetRaw(f.Name, data)
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Names returns the part names in archive order.
func (p *Package) Names() []string {
	return append([]string(nil), p.order...)
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	name = normalize(name)
	if _, ok := p.raw[name]; ok {
		return true
	}
	_, ok := p.trees[name]
	return ok
}

// Raw returns the bytes of a part. Parsed parts are serialized first.
func (p *Package) Raw(name string) ([]byte, error) {
	name = normalize(name)
	if doc, ok := p.trees[name]; ok {
		return doc.WriteToBytes()
	}
	data, ok := p.raw[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}
	return data, nil
}

// SetRaw stores the bytes of a part, replacing any parsed tree.
func (p *Package) SetRaw(name string, data []byte) {
	name = normalize(name)
	p.track(name)
	delete(p.trees, name)
	delete(p.rels, name)
	p.raw[name] = data
}

// Part returns the parsed XML tree of a part. The tree is cached: mutations
// to it are written back by WriteTo.
func (p *Package) Part(name string) (*etree.Document, error) {
	name = normalize(name)
	if doc, ok := p.trees[name]; ok {
		return doc, nil
	}
	data, ok := p.raw[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse %s: no root element", name)
	}
	p.trees[name] = doc
	return doc, nil
}

// SetPart stores a parsed tree as the content of a part.
func (p *Package) SetPart(name string, doc *etree.Document) {
	name = normalize(name)
	p.track(name)
	delete(p.raw, name)
	delete(p.rels, name)
	p.trees[name] = doc
}

// Remove deletes a part. Removing a missing part is a no-op.
func (p *Package) Remove(name string) {
	name = normalize(name)
	delete(p.raw, name)
	delete(p.trees, name)
	delete(p.rels, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *Package) track(name string) {
	if _, ok := p.raw[name]; ok {
		return
	}
	if _, ok := p.trees[name]; ok {
		return
	}
	p.order = append(p.order, name)
}

// WriteTo writes the package as a zip archive. The content types part is
// always written first.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	names := make([]string, 0, len(p.order))
	if p.Has(ContentTypesPart) {
		names = append(names, ContentTypesPart)
	}
	for _, name := range p.order {
		if name != ContentTypesPart {
			names = append(names, name)
		}
	}

	for _, name := range names {
		data, err := p.Raw(name)
		if err != nil {
			return cw.n, err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return cw.n, err
		}
		if _, err := io.Copy(fw, bytes.NewReader(data)); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

func normalize(name string) string {
	return strings.TrimPrefix(name, "/")
}

// ResolveTarget resolves a relationship target relative to the part that
// owns the relationship. Targets starting with "/" are package absolute.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(path.Dir(normalize(source)), target))
}

// RelativeTarget returns the target by which source refers to part.
func RelativeTarget(source, part string) string {
	from := strings.Split(path.Dir(normalize(source)), "/")
	to := strings.Split(normalize(part), "/")
	if len(from) == 1 && from[0] == "." {
		from = nil
	}

	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var b strings.Builder
	for range from[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}

// RelsPartName returns the name of the relationships part for source. The
// package level relationships belong to the empty source.
func RelsPartName(source string) string {
	source = normalize(source)
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}
