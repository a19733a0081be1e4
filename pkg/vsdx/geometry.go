package vsdx

import "math"

// IsConnector reports whether the shape is one-dimensional, with begin and
// end points rather than a box.
func (s *Shape) IsConnector() bool {
	_, begin := s.Cell("BeginX")
	_, end := s.Cell("EndX")
	return begin && end
}

// Direction returns the compass heading from the begin point to the end
// point of a one-dimensional shape. It is empty for other shapes and for
// connectors without extent.
func (s *Shape) Direction() string {
	if !s.IsConnector() {
		return ""
	}
	bx, _ := s.CellFloat("BeginX")
	by, _ := s.CellFloat("BeginY")
	ex, _ := s.CellFloat("EndX")
	ey, _ := s.CellFloat("EndY")
	return compassDirection(ex-bx, ey-by)
}

// compassDirection maps a drawing-space vector to one of eight headings.
// The y axis points up, as on a Visio page.
func compassDirection(dx, dy float64) string {
	if dx == 0 && dy == 0 {
		return ""
	}

	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}

	switch {
	case angle >= 337.5 || angle < 22.5:
		return "E"
	case angle < 67.5:
		return "NE"
	case angle < 112.5:
		return "N"
	case angle < 157.5:
		return "NW"
	case angle < 202.5:
		return "W"
	case angle < 247.5:
		return "SW"
	case angle < 292.5:
		return "S"
	default:
		return "SE"
	}
}

// GluedEnds returns the IDs of the shapes the begin and end points of a
// connector are glued to; 0 means the end is free.
func (s *Shape) GluedEnds() (begin, end int) {
	id := s.ID()
	for _, c := range s.Connects() {
		if c.FromID != id {
			continue
		}
		switch c.FromCell {
		case "BeginX":
			begin = c.ToID
		case "EndX":
			end = c.ToID
		}
	}
	return begin, end
}
