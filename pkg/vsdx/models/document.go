// Package models defines data structures for Visio document snapshots.
package models

// DocumentData represents a document-level container with per-page data.
type DocumentData struct {
	// FileName is the document file name (no path).
	FileName string `json:"file_name"`
	// Pages contains the pages in document order.
	Pages []PageData `json:"pages"`
	// Masters contains the masters in index order.
	Masters []MasterData `json:"masters,omitempty"`
}

// MasterData represents a master in the masters index.
type MasterData struct {
	// ID is the master ID referenced by shapes.
	ID string `json:"id"`
	// Name is the master name.
	Name string `json:"name"`
	// NameU is the universal master name.
	NameU string `json:"name_u,omitempty"`
	// Shapes is the number of top-level shapes in the master.
	Shapes int `json:"shapes"`
}
