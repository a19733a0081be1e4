package vsdx

import (
	"iter"
	"strconv"
	"strings"
)

// Predicate selects shapes during a search.
type Predicate func(*Shape) bool

// ByID matches shapes with the given ID.
func ByID(id int) Predicate {
	return func(s *Shape) bool { return s.ID() == id }
}

// ByText matches shapes whose effective text equals text. Visio terminates
// paragraphs with a line break, so trailing line breaks are ignored on both
// sides.
func ByText(text string) Predicate {
	want := trimBreaks(text)
	return func(s *Shape) bool { return trimBreaks(s.Text()) == want }
}

// ContainingText matches shapes whose effective text contains substr.
func ContainingText(substr string) Predicate {
	return func(s *Shape) bool { return strings.Contains(s.Text(), substr) }
}

// ByMaster matches shapes referencing the given master and master shape.
// An empty masterShapeID matches instance top shapes only, the ones that
// carry the Master attribute themselves.
func ByMaster(masterID, masterShapeID string) Predicate {
	return func(s *Shape) bool {
		if masterShapeID == "" && s.elem.SelectAttr("Master") == nil {
			return false
		}
		return s.MasterID() == masterID && s.MasterShapeID() == masterShapeID
	}
}

// ByPropertyLabel matches shapes with an effective data property labelled
// label.
func ByPropertyLabel(label string) Predicate {
	return func(s *Shape) bool {
		_, ok := s.DataProperty(label)
		return ok
	}
}

func trimBreaks(s string) string {
	return strings.TrimRight(s, "\r\n")
}

func findFirst(seq iter.Seq[*Shape], match Predicate) *Shape {
	for s := range seq {
		if match(s) {
			return s
		}
	}
	return nil
}

func findAll(seq iter.Seq[*Shape], match Predicate) []*Shape {
	var out []*Shape
	for s := range seq {
		if match(s) {
			out = append(out, s)
		}
	}
	return out
}

// FindShape returns the first shape below s matching match, or nil.
func (s *Shape) FindShape(match Predicate) *Shape {
	return findFirst(s.Descendants(), match)
}

// FindShapes returns every shape below s matching match.
func (s *Shape) FindShapes(match Predicate) []*Shape {
	return findAll(s.Descendants(), match)
}

// FindShapeByID returns the shape below s with the given ID, or nil.
func (s *Shape) FindShapeByID(id int) *Shape {
	return s.FindShape(ByID(id))
}

// FindShapesByID returns every shape below s with the given ID.
func (s *Shape) FindShapesByID(id int) []*Shape {
	return s.FindShapes(ByID(id))
}

// FindShapeByText returns the first shape below s whose text is text.
func (s *Shape) FindShapeByText(text string) *Shape {
	return s.FindShape(ByText(text))
}

// FindShapesByText returns every shape below s whose text is text.
func (s *Shape) FindShapesByText(text string) []*Shape {
	return s.FindShapes(ByText(text))
}

// FindShapeByPropertyLabel returns the first shape below s with a data
// property labelled label.
func (s *Shape) FindShapeByPropertyLabel(label string) *Shape {
	return s.FindShape(ByPropertyLabel(label))
}

// FindShapesByPropertyLabel returns every shape below s with a data property
// labelled label.
func (s *Shape) FindShapesByPropertyLabel(label string) []*Shape {
	return s.FindShapes(ByPropertyLabel(label))
}

// FindShapesByMaster returns every shape below s referencing the given
// master and master shape.
func (s *Shape) FindShapesByMaster(masterID, masterShapeID string) []*Shape {
	return s.FindShapes(ByMaster(masterID, masterShapeID))
}

// parseID parses a shape ID attribute value.
func parseID(v string) (int, bool) {
	id, err := strconv.Atoi(v)
	return id, err == nil
}
