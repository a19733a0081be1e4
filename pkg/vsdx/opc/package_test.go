package opc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected string
	}{
		{"", "visio/document.xml", "visio/document.xml"},
		{"visio/document.xml", "pages/pages.xml", "visio/pages/pages.xml"},
		{"visio/pages/pages.xml", "page1.xml", "visio/pages/page1.xml"},
		{"visio/pages/page1.xml", "../masters/master1.xml", "visio/masters/master1.xml"},
		{"visio/pages/page1.xml", "/visio/media/image1.png", "visio/media/image1.png"},
		{"/visio/document.xml", "./theme/theme1.xml", "visio/theme/theme1.xml"},
	}

	for _, tt := range tests {
		result := ResolveTarget(tt.source, tt.target)
		if result != tt.expected {
			t.Errorf("ResolveTarget(%q, %q) = %q, expected %q", tt.source, tt.target, result, tt.expected)
		}
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source   string
		part     string
		expected string
	}{
		{"", "visio/document.xml", "visio/document.xml"},
		{"visio/pages/pages.xml", "visio/pages/page3.xml", "page3.xml"},
		{"visio/pages/page1.xml", "visio/masters/master1.xml", "../masters/master1.xml"},
		{"visio/document.xml", "docProps/app.xml", "../docProps/app.xml"},
	}

	for _, tt := range tests {
		result := RelativeTarget(tt.source, tt.part)
		if result != tt.expected {
			t.Errorf("RelativeTarget(%q, %q) = %q, expected %q", tt.source, tt.part, result, tt.expected)
		}
		if back := ResolveTarget(tt.source, result); back != tt.part {
			t.Errorf("ResolveTarget(%q, %q) = %q, expected %q", tt.source, result, back, tt.part)
		}
	}
}

func TestRelsPartName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"", "_rels/.rels"},
		{"visio/document.xml", "visio/_rels/document.xml.rels"},
		{"/visio/pages/pages.xml", "visio/pages/_rels/pages.xml.rels"},
	}

	for _, tt := range tests {
		if result := RelsPartName(tt.source); result != tt.expected {
			t.Errorf("RelsPartName(%q) = %q, expected %q", tt.source, result, tt.expected)
		}
	}
}

func TestPackageRoundTrip(t *testing.T) {
	p := New()
	p.SetRaw("b.bin", []byte{0, 1, 2})
	p.SetRaw("a/doc.xml", []byte(`<?xml version="1.0"?><doc><item n="1"/></doc>`))

	tree, err := p.Part("/a/doc.xml")
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}
	tree.Root().CreateElement("item").CreateAttr("n", "2")

	ct, err := p.ContentTypes()
	if err != nil {
		t.Fatalf("ContentTypes() error = %v", err)
	}
	ct.SetOverride("a/doc.xml", "application/x-doc+xml")

	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	q, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if d := cmp.Diff([]string{ContentTypesPart, "b.bin", "a/doc.xml"}, q.Names()); d != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", d)
	}
	raw, err := q.Raw("b.bin")
	if err != nil || !bytes.Equal(raw, []byte{0, 1, 2}) {
		t.Errorf("Raw(b.bin) = %v, %v", raw, err)
	}
	doc, err := q.Part("a/doc.xml")
	if err != nil {
		t.Fatalf("Part() error = %v", err)
	}
	if n := len(doc.Root().SelectElements("item")); n != 2 {
		t.Errorf("Expected 2 items, got %d", n)
	}
	qct, err := q.ContentTypes()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := qct.Lookup("/a/doc.xml"); got != "application/x-doc+xml" {
		t.Errorf("Lookup() = %q", got)
	}
}

func TestPartNotFound(t *testing.T) {
	p := New()
	if _, err := p.Part("missing.xml"); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("Part() error = %v, expected ErrPartNotFound", err)
	}
	if _, err := p.Raw("missing.xml"); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("Raw() error = %v, expected ErrPartNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	p := New()
	p.SetPart("x.xml", etree.NewDocument())
	p.Remove("/x.xml")
	if p.Has("x.xml") || len(p.Names()) != 0 {
		t.Errorf("part still present: %v", p.Names())
	}
}
