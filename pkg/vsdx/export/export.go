// Package export writes document snapshots to spreadsheet workbooks.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/stevensultana/vsdx/pkg/vsdx/models"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// ConnectsSheet is the name of the sheet listing every connect.
const ConnectsSheet = "Connects"

var fixedColumns = []string{"ID", "Parent", "Name", "Type", "Master", "Text", "X", "Y", "W", "H"}

// Workbook builds a workbook with one sheet per page. Each row is a shape,
// sub-shapes included, followed by one column per data property label.
// The caller owns the returned file and must close it.
func Workbook(doc *models.DocumentData) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)

	used := map[string]bool{}
	for i, page := range doc.Pages {
		name := sheetName(page.Name, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writePage(f, name, page); err != nil {
			f.Close()
			return nil, fmt.Errorf("page %q: %w", page.Name, err)
		}
	}

	connects := sheetName(ConnectsSheet, used)
	if len(doc.Pages) == 0 {
		if err := f.SetSheetName(first, connects); err != nil {
			f.Close()
			return nil, err
		}
	} else if _, err := f.NewSheet(connects); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeConnects(f, connects, doc.Pages); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path.
func WriteWorkbook(doc *models.DocumentData, path string) error {
	f, err := Workbook(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

type row struct {
	parent int
	shape  models.ShapeData
}

func flatten(shapes []models.ShapeData, parent int) []row {
	var out []row
	for _, s := range shapes {
		out = append(out, row{parent: parent, shape: s})
		out = append(out, flatten(s.Shapes, s.ID)...)
	}
	return out
}

func writePage(f *excelize.File, sheet string, page models.PageData) error {
	rows := flatten(page.Shapes, 0)
	labels := lo.Uniq(lo.FlatMap(rows, func(r row, _ int) []string { return lo.Keys(r.shape.Properties) }))
	sort.Strings(labels)

	header := make([]any, 0, len(fixedColumns)+len(labels))
	for _, c := range fixedColumns {
		header = append(header, c)
	}
	for _, l := range labels {
		header = append(header, l)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range rows {
		s := r.shape
		values := []any{
			s.ID,
			lo.Ternary[any](r.parent == 0, "", r.parent),
			s.Name,
			s.Type,
			s.Master,
			s.Text,
			optional(s.X),
			optional(s.Y),
			optional(s.W),
			optional(s.H),
		}
		for _, l := range labels {
			v, ok := s.Properties[l]
			values = append(values, lo.Ternary[any](ok, parseValue(v), ""))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeConnects(f *excelize.File, sheet string, pages []models.PageData) error {
	header := []any{"Page", "FromID", "FromCell", "ToID", "ToCell"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	n := 2
	for _, page := range pages {
		for _, c := range page.Connects {
			values := []any{page.Name, c.FromID, c.FromCell, c.ToID, c.ToCell}
			cell, err := excelize.CoordinatesToCellName(1, n)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// sheetName turns a page name into a sheet name Excel accepts and that is
// not yet in used, case-insensitively.
func sheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Page"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
