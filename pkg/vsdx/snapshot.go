package vsdx

import (
	"path/filepath"

	"github.com/samber/lo"

	"github.com/stevensultana/vsdx/pkg/vsdx/models"
)

// Mode represents the snapshot detail level.
type Mode string

const (
	// ModeLight captures page names and shape ids, names and text only.
	ModeLight Mode = "light"
	// ModeStandard adds data properties, masters and connects.
	ModeStandard Mode = "standard"
	// ModeVerbose adds geometry and every local cell.
	ModeVerbose Mode = "verbose"
)

// Snapshot captures the document as plain data suitable for serialization.
func (d *Document) Snapshot(mode Mode) *models.DocumentData {
	data := &models.DocumentData{
		Pages: lo.Map(d.pages, func(p *Page, _ int) models.PageData { return p.Snapshot(mode) }),
	}
	if d.path != "" {
		data.FileName = filepath.Base(d.path)
	}
	if mode != ModeLight {
		data.Masters = lo.Map(d.masters, func(m *Master, _ int) models.MasterData {
			return models.MasterData{ID: m.ID(), Name: m.Name(), NameU: m.NameU(), Shapes: len(m.Shapes())}
		})
	}
	return data
}

// Snapshot captures the page as plain data.
func (p *Page) Snapshot(mode Mode) models.PageData {
	data := models.PageData{
		ID:     p.ID(),
		Name:   p.Name(),
		Shapes: snapshotShapes(p.Shapes(), mode),
	}
	if w := p.Width(); w > 0 {
		data.Width = &w
	}
	if h := p.Height(); h > 0 {
		data.Height = &h
	}
	if mode != ModeLight {
		data.Connects = lo.Map(p.Connects(), func(c Connect, _ int) models.ConnectData {
			return models.ConnectData{FromID: c.FromID, FromCell: c.FromCell, ToID: c.ToID, ToCell: c.ToCell}
		})
	}
	return data
}

func snapshotShapes(shapes []*Shape, mode Mode) []models.ShapeData {
	if len(shapes) == 0 {
		return nil
	}
	return lo.Map(shapes, func(s *Shape, _ int) models.ShapeData { return s.Snapshot(mode) })
}

// Snapshot captures the shape and its sub-shapes as plain data.
func (s *Shape) Snapshot(mode Mode) models.ShapeData {
	data := models.ShapeData{
		ID:     s.ID(),
		Name:   s.Name(),
		Type:   string(s.Type()),
		Text:   s.Text(),
		Shapes: snapshotShapes(s.SubShapes(), mode),
	}
	if mode == ModeLight {
		return data
	}

	if m := s.Master(); m != nil {
		data.Master = m.Name()
	}
	if props := s.DataProperties(); len(props) > 0 {
		data.Properties = make(map[string]string, len(props))
		for _, prop := range props {
			key := prop.Label
			if key == "" {
				key = prop.Name
			}
			data.Properties[key] = prop.Value
		}
	}
	if s.owner.page != nil {
		data.Connected = s.connectedIDs()
	}
	if s.IsConnector() {
		data.Direction = s.Direction()
		if begin, end := s.GluedEnds(); begin != 0 || end != 0 {
			data.BeginID = lo.Ternary(begin != 0, &begin, nil)
			data.EndID = lo.Ternary(end != 0, &end, nil)
		}
	}

	if mode == ModeVerbose {
		x, y, w, h := s.X(), s.Y(), s.Width(), s.Height()
		data.X, data.Y, data.W, data.H = &x, &y, &w, &h
		if cells := s.Cells(); len(cells) > 0 {
			data.Cells = lo.SliceToMap(cells, func(c Cell) (string, string) { return c.Name, c.Value })
		}
	}
	return data
}
