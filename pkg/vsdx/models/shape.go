package models

// ShapeData represents shape metadata including position, size, text, and data.
type ShapeData struct {
	// ID is the shape id, unique within its page.
	ID int `json:"id"`
	// Name is the shape name.
	Name string `json:"name,omitempty"`
	// Type is the shape type (Shape, Group, Guide, Foreign).
	Type string `json:"type,omitempty"`
	// Text is the effective text of the shape, falling back to its master.
	Text string `json:"text"`
	// X is the PinX position in inches (nil if not verbose mode).
	X *float64 `json:"x,omitempty"`
	// Y is the PinY position in inches (nil if not verbose mode).
	Y *float64 `json:"y,omitempty"`
	// W is the shape width in inches (nil if not verbose mode).
	W *float64 `json:"w,omitempty"`
	// H is the shape height in inches (nil if not verbose mode).
	H *float64 `json:"h,omitempty"`
	// BeginID is the id of the shape the begin point of a connector is glued to.
	BeginID *int `json:"begin_id,omitempty"`
	// EndID is the id of the shape the end point of a connector is glued to.
	EndID *int `json:"end_id,omitempty"`
	// Direction is the connector direction (compass heading: N, NE, E, SE, S, SW, W, NW).
	Direction string `json:"direction,omitempty"`
	// Master is the name of the master the shape is an instance of.
	Master string `json:"master,omitempty"`
	// Properties maps data property labels to values.
	Properties map[string]string `json:"properties,omitempty"`
	// Cells maps local cell names to values (verbose mode only).
	Cells map[string]string `json:"cells,omitempty"`
	// Connected lists the ids of shapes glued to or from this shape.
	Connected []int `json:"connected,omitempty"`
	// Shapes contains the sub-shapes of a group.
	Shapes []ShapeData `json:"shapes,omitempty"`
}
