package opc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	typePage   = "http://schemas.microsoft.com/visio/2010/relationships/page"
	typeMaster = "http://schemas.microsoft.com/visio/2010/relationships/master"
)

func TestRelationships(t *testing.T) {
	p := New()
	p.SetRaw("visio/pages/_rels/pages.xml.rels", []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="`+NsRelationships+`">
<Relationship Id="rId1" Type="`+typePage+`" Target="page1.xml"/>
<Relationship Id="rId4" Type="`+typePage+`" Target="page2.xml"/>
<Relationship Id="rId9" Type="http://example.com/hyperlink" Target="http://example.com" TargetMode="External"/>
</Relationships>`))

	rels, err := p.Relationships("visio/pages/pages.xml")
	if err != nil {
		t.Fatalf("Relationships() error = %v", err)
	}
	if rels.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", rels.Len())
	}
	rel, ok := rels.ByID("rId4")
	if !ok || rels.Resolve(rel) != "visio/pages/page2.xml" {
		t.Errorf("ByID(rId4) = %v, %v", rel, ok)
	}
	if ext, _ := rels.ByID("rId9"); !ext.External() {
		t.Error("Expected rId9 to be external")
	}
	if got := rels.ByType(typePage); len(got) != 2 {
		t.Errorf("ByType() = %v, expected 2 relationships", got)
	}

	id := rels.Add(typePage, "visio/pages/page3.xml")
	if id != "rId10" {
		t.Errorf("Add() = %q, expected rId10", id)
	}
	if rel, ok := rels.ByPart(typePage, "visio/pages/page3.xml"); !ok || rel.Target != "page3.xml" {
		t.Errorf("ByPart() = %v, %v", rel, ok)
	}

	if !rels.Remove("rId1") || rels.Remove("rId1") {
		t.Error("Remove(rId1) should succeed exactly once")
	}
	ids := make([]string, 0)
	for _, r := range rels.All() {
		ids = append(ids, r.ID)
	}
	if d := cmp.Diff([]string{"rId4", "rId9", "rId10"}, ids); d != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", d)
	}

	again, err := p.Relationships("/visio/pages/pages.xml")
	if err != nil || again != rels {
		t.Error("Relationships() did not return the cached view")
	}
}

func TestRelationshipsCreatedOnStore(t *testing.T) {
	p := New()
	rels, err := p.Relationships("visio/pages/page1.xml")
	if err != nil {
		t.Fatalf("Relationships() error = %v", err)
	}
	if p.Has("visio/pages/_rels/page1.xml.rels") {
		t.Error("empty relationships part stored before Store")
	}

	rels.Add(typeMaster, "visio/masters/master1.xml")
	p.Store(rels)
	if !p.Has("visio/pages/_rels/page1.xml.rels") {
		t.Fatal("relationships part missing after Store")
	}

	cp := rels.Copy("visio/pages/page2.xml")
	p.Store(cp)
	got, err := p.Relationships("visio/pages/page2.xml")
	if err != nil {
		t.Fatal(err)
	}
	if rel, ok := got.FirstByType(typeMaster); !ok || got.Resolve(rel) != "visio/masters/master1.xml" {
		t.Errorf("copied relationship = %v, %v", rel, ok)
	}
	cp.Remove("rId1")
	if rels.Len() != 1 {
		t.Error("removing from the copy changed the original")
	}
}
