// Package output serializes document snapshots.
package output

import (
	"encoding/json"

	"github.com/stevensultana/vsdx/pkg/vsdx/models"
)

// ToJSON serializes a document snapshot.
func ToJSON(doc *models.DocumentData, pretty bool) ([]byte, error) {
	return marshal(doc, pretty)
}

// PageToJSON serializes a single page snapshot.
func PageToJSON(page *models.PageData, pretty bool) ([]byte, error) {
	return marshal(page, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
