package models

// PageData represents structured data for a single page.
type PageData struct {
	// ID is the page ID from the pages index.
	ID int `json:"id"`
	// Name is the page name.
	Name string `json:"name"`
	// Width is the page width in inches (nil if unknown).
	Width *float64 `json:"width,omitempty"`
	// Height is the page height in inches (nil if unknown).
	Height *float64 `json:"height,omitempty"`
	// Shapes contains the top-level shapes of the page.
	Shapes []ShapeData `json:"shapes,omitempty"`
	// Connects contains the connection records of the page.
	Connects []ConnectData `json:"connects,omitempty"`
}

// ConnectData represents a glue record between a connector and a shape.
type ConnectData struct {
	// FromID is the connector shape id.
	FromID int `json:"from_id"`
	// FromCell is the connector cell that is glued (e.g., BeginX, EndX).
	FromCell string `json:"from_cell,omitempty"`
	// ToID is the id of the shape the connector is glued to.
	ToID int `json:"to_id"`
	// ToCell is the target cell (e.g., PinX).
	ToCell string `json:"to_cell,omitempty"`
}
