package vsdx

import (
	"fmt"

	"github.com/beevik/etree"
)

// Master is a reusable shape template. Instances on pages refer to it by ID
// and inherit text, cells and shape data from its shapes.
type Master struct {
	contents
	entry *etree.Element
}

func (m *Master) String() string {
	return fmt.Sprintf("<Master ID=%s name=%s file=%s>", m.ID(), m.Name(), m.part)
}

// ID returns the master ID that shapes refer to.
func (m *Master) ID() string { return m.entry.SelectAttrValue("ID", "") }

// Name returns the master name.
func (m *Master) Name() string {
	if name := m.entry.SelectAttrValue("Name", ""); name != "" {
		return name
	}
	return m.entry.SelectAttrValue("NameU", "")
}

// NameU returns the universal master name.
func (m *Master) NameU() string { return m.entry.SelectAttrValue("NameU", "") }
