package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/stevensultana/vsdx/pkg/vsdx/models"
)

func TestWriteWorkbook(t *testing.T) {
	x := 1.5
	doc := &models.DocumentData{
		Pages: []models.PageData{
			{
				Name: "Flow",
				Shapes: []models.ShapeData{
					{ID: 1, Name: "Start", Text: "Start", X: &x, Properties: map[string]string{"Cost": "12"}},
					{ID: 2, Type: "Group", Shapes: []models.ShapeData{
						{ID: 5, Text: "Inner", Properties: map[string]string{"Owner": "ops"}},
					}},
				},
				Connects: []models.ConnectData{{FromID: 3, FromCell: "BeginX", ToID: 1, ToCell: "PinX"}},
			},
			{Name: "Flow"},
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteWorkbook(doc, path); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	if d := cmp.Diff([]string{"Flow", "Flow_2", "Connects"}, f.GetSheetList()); d != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", d)
	}

	rows, err := f.GetRows("Flow")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	wantHeader := []string{"ID", "Parent", "Name", "Type", "Master", "Text", "X", "Y", "W", "H", "Cost", "Owner"}
	if d := cmp.Diff(wantHeader, rows[0]); d != "" {
		t.Errorf("header mismatch (-want +got):\n%s", d)
	}
	if rows[1][6] != "1.5" || rows[1][10] != "12" {
		t.Errorf("row 2 = %v, expected X=1.5 and Cost=12", rows[1])
	}
	if rows[3][0] != "5" || rows[3][1] != "2" {
		t.Errorf("row 4 = %v, expected sub-shape 5 of group 2", rows[3])
	}

	connects, err := f.GetRows("Connects")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if d := cmp.Diff([]string{"Flow", "3", "BeginX", "1", "PinX"}, connects[1]); d != "" {
		t.Errorf("connect row mismatch (-want +got):\n%s", d)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Page-1", "Page-1"},
		{"a/b:c", "a_b_c"},
		{"", "Page"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}

	for _, tt := range tests {
		result := sheetName(tt.input, map[string]bool{})
		if result != tt.expected {
			t.Errorf("sheetName(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestSheetNameUnique(t *testing.T) {
	used := map[string]bool{}
	long := strings.Repeat("y", 35)
	got := []string{sheetName("Main", used), sheetName("main", used), sheetName(long, used), sheetName(long, used)}
	want := []string{"Main", "main_2", strings.Repeat("y", 31), strings.Repeat("y", 29) + "_2"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("sheetName mismatch (-want +got):\n%s", d)
	}
}
