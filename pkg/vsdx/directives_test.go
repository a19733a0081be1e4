package vsdx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
)

func shapeTexts(shapes []*Shape) []string {
	return lo.Map(shapes, func(s *Shape, _ int) string { return s.Text() })
}

func TestShowIf(t *testing.T) {
	doc := newTestDocument(t, testPage{name: "If", body: `<Shapes>
  <Shape ID="1"><Text>{% showif x > 2 %}big</Text></Shape>
  <Shape ID="2"><Text>{% showif x > 10 %}huge</Text></Shape>
  <Shape ID="3"><Text>plain</Text></Shape>
</Shapes>`})
	page := doc.Page(0)

	page.ApplyTextContext(map[string]any{"x": 5})

	if d := cmp.Diff([]int{1, 3}, shapeIDs(page.Shapes())); d != "" {
		t.Errorf("Shapes() mismatch (-want +got):\n%s", d)
	}
	if got := page.FindShapeByID(1).Text(); got != "big" {
		t.Errorf("Text() = %q, expected directive removed", got)
	}
}

func TestForLoop(t *testing.T) {
	doc := newTestDocument(t, testPage{name: "Loop", body: `<Shapes>
  <Shape ID="1" UniqueID="{11111111-2222-3333-4444-555555555555}">
    <Cell N="PinX" V="1"/>
    <Cell N="Width" V="2"/>
    <Text>{% for o in items %}o={{o}}</Text>
  </Shape>
  <Shape ID="5"><Text>after</Text></Shape>
</Shapes>`})
	page := doc.Page(0)

	page.ApplyTextContext(map[string]any{"items": []int{1, 2, 3}})

	shapes := page.Shapes()
	if d := cmp.Diff([]string{"o=1", "o=2", "o=3", "after"}, shapeTexts(shapes)); d != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]int{1, 6, 7, 5}, shapeIDs(shapes)); d != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", d)
	}
	xs := lo.Map(shapes[:3], func(s *Shape, _ int) float64 { return s.X() })
	if d := cmp.Diff([]float64{1, 3, 5}, xs); d != "" {
		t.Errorf("X() mismatch (-want +got):\n%s", d)
	}
	uids := lo.Uniq(lo.Map(shapes[:3], func(s *Shape, _ int) string { return s.XML().SelectAttrValue("UniqueID", "") }))
	if len(uids) != 3 {
		t.Errorf("UniqueIDs = %v, expected three distinct", uids)
	}
}

func TestForLoopEmptyList(t *testing.T) {
	doc := newTestDocument(t, testPage{name: "Loop", body: `<Shapes>
  <Shape ID="1"><Text>{% for o in items %}{{o}}</Text></Shape>
  <Shape ID="2"><Text>{% for o in missing %}{{o}}</Text></Shape>
</Shapes>`})
	page := doc.Page(0)

	page.ApplyTextContext(map[string]any{"items": []any{}})

	if got := page.Shapes(); len(got) != 0 {
		t.Errorf("Shapes() = %v, expected loops over empty lists removed", got)
	}
}

func TestForLoopShowIf(t *testing.T) {
	tests := []struct {
		items    []any
		expected []string
	}{
		{[]any{1, 2, 3, 4}, []string{"In this instance, o=3", "In this instance, o=4"}},
		{[]any{3, 4, 5, 6}, []string{"In this instance, o=3", "In this instance, o=4", "In this instance, o=5", "In this instance, o=6"}},
	}

	for _, tt := range tests {
		doc := newTestDocument(t, testPage{name: "Loop", body: `<Shapes>
  <Shape ID="1"><Cell N="Width" V="1"/><Text>{% for o in test_list %}{% showif o > 2 %}In this instance, o={{o}}{% endfor %}</Text></Shape>
</Shapes>`})
		page := doc.Page(0)

		page.ApplyTextContext(map[string]any{"test_list": tt.items})

		if d := cmp.Diff(tt.expected, shapeTexts(page.Shapes())); d != "" {
			t.Errorf("items %v: texts mismatch (-want +got):\n%s", tt.items, d)
		}
	}
}

func TestInnerLoop(t *testing.T) {
	doc := newTestDocument(t, testPage{name: "Grid", body: `<Shapes>
  <Shape ID="1" Type="Group">
    <Cell N="Width" V="4"/>
    <Text>{% for row in rows %}row</Text>
    <Shapes>
      <Shape ID="2"><Cell N="Width" V="1"/><Text>{% for cell in row %}{{cell}}</Text></Shape>
    </Shapes>
  </Shape>
</Shapes>`})
	page := doc.Page(0)

	page.ApplyTextContext(map[string]any{"rows": []any{[]any{1, 2}, []any{3, 4}}})

	groups := page.Shapes()
	if len(groups) != 2 {
		t.Fatalf("got %d groups, expected 2", len(groups))
	}
	for i, want := range [][]string{{"1", "2"}, {"3", "4"}} {
		if d := cmp.Diff(want, shapeTexts(groups[i].SubShapes())); d != "" {
			t.Errorf("group %d texts mismatch (-want +got):\n%s", i, d)
		}
	}
	ids := lo.Map(lo.Flatten([][]*Shape{groups, groups[0].SubShapes(), groups[1].SubShapes()}), func(s *Shape, _ int) int { return s.ID() })
	if len(lo.Uniq(ids)) != len(ids) {
		t.Errorf("duplicate shape IDs after loops: %v", ids)
	}
}

func TestSetSelf(t *testing.T) {
	tests := []struct {
		n     int
		text  string
		cell  string
		value float64
		label string
	}{
		{2, "{% set self.x = n * 2 %}x is {{ self.x }}", "PinX", 4, "x is 4"},
		{1, "{% set self.y = self.y - n %}This shape should move down by n", "PinY", 9, "This shape should move down by n"},
		{0, "{% set self.x = n > 0 ? 1 : 2 %}", "PinX", 2, ""},
		{3, "{% set self.Angle = n / 2 %}", "Angle", 1.5, ""},
	}

	for _, tt := range tests {
		doc := newTestDocument(t, testPage{name: "Self", body: `<Shapes>
  <Shape ID="1"><Cell N="PinX" V="1"/><Cell N="PinY" V="10"/><Text>` + tt.text + `</Text></Shape>
</Shapes>`})
		shape := doc.Page(0).FindShapeByID(1)

		shape.ApplyTextFilter(map[string]any{"n": tt.n})

		if got, _ := shape.CellFloat(tt.cell); got != tt.value {
			t.Errorf("%q: %s = %v, expected %v", tt.text, tt.cell, got, tt.value)
		}
		if got := shape.Text(); got != tt.label {
			t.Errorf("%q: Text() = %q, expected %q", tt.text, got, tt.label)
		}
	}
}

func TestSetVariable(t *testing.T) {
	doc := newTestDocument(t, testPage{name: "Vars", body: `<Shapes>
  <Shape ID="1" Type="Group">
    <Text>{% set k = n + 1 %}outer {{k}}</Text>
    <Shapes><Shape ID="2"><Text>inner {{k}}</Text></Shape></Shapes>
  </Shape>
  <Shape ID="3"><Text>other {{k}}</Text></Shape>
</Shapes>`})
	page := doc.Page(0)

	page.ApplyTextContext(map[string]any{"n": 2})

	if d := cmp.Diff([]string{"outer 3", "inner 3", "other {{k}}"}, []string{
		page.FindShapeByID(1).Text(), page.FindShapeByID(2).Text(), page.FindShapeByID(3).Text(),
	}); d != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", d)
	}
}

func TestPageShowIf(t *testing.T) {
	tests := []struct {
		show     any
		expected []string
	}{
		{true, []string{"Normal Page", "Page2"}},
		{1, []string{"Normal Page", "Page2"}},
		{"true", []string{"Normal Page", "Page2"}},
		{4.0, []string{"Normal Page", "Page2"}},
		{false, []string{"Normal Page", "Page3"}},
		{[]any{}, []string{"Normal Page", "Page3"}},
		{map[string]any{}, []string{"Normal Page", "Page3"}},
	}

	for _, tt := range tests {
		doc := newTestDocument(t,
			testPage{name: "Normal Page", body: `<Shapes><Shape ID="1"><Text>always</Text></Shape></Shapes>`},
			testPage{name: "Page2", body: `<Shapes><Shape ID="1"><Text>{% pageshowif show %}shown</Text></Shape></Shapes>`},
			testPage{name: "Page3", body: `<Shapes><Shape ID="1"><Text>{% pageshowif !truthy(show) %}hidden</Text></Shape></Shapes>`},
		)

		if err := doc.ApplyTextContext(map[string]any{"show": tt.show}); err != nil {
			t.Fatalf("ApplyTextContext(%#v) error = %v", tt.show, err)
		}
		if d := cmp.Diff(tt.expected, doc.PageNames()); d != "" {
			t.Errorf("show=%#v PageNames() mismatch (-want +got):\n%s", tt.show, d)
		}
		if got := doc.Page(1).FindShapeByID(1).Text(); got != "shown" && got != "hidden" {
			t.Errorf("show=%#v Text() = %q, expected directive removed", tt.show, got)
		}

		again := reload(t, doc)
		if d := cmp.Diff(tt.expected, again.PageNames()); d != "" {
			t.Errorf("show=%#v reloaded PageNames() mismatch (-want +got):\n%s", tt.show, d)
		}
	}
}
