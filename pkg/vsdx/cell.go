package vsdx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Cell is a named attribute of a shape, such as PinX or Width. Values are
// stored in Visio internal units (inches for lengths).
type Cell struct {
	Name    string
	Value   string
	Formula string
	Unit    string
}

// Float returns the value as a number.
func (c Cell) Float() (float64, bool) {
	f, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellFrom(e *etree.Element) Cell {
	return Cell{
		Name:    e.SelectAttrValue("N", ""),
		Value:   e.SelectAttrValue("V", ""),
		Formula: e.SelectAttrValue("F", ""),
		Unit:    e.SelectAttrValue("U", ""),
	}
}

// DataProperty is a row of the shape data (Property) section: a custom,
// user visible attribute. Unlike cells, properties are looked up by label.
type DataProperty struct {
	// Name is the row name, without the Prop. prefix used in formulas.
	Name   string
	Label  string
	Value  string
	Type   string
	Prompt string
}

const propertySection = "Property"

// dataPropertyFrom reads a Property row. The second result lists which
// fields the row defines locally.
func dataPropertyFrom(row *etree.Element) (DataProperty, map[string]bool) {
	p := DataProperty{Name: row.SelectAttrValue("N", "")}
	set := make(map[string]bool)
	for _, c := range row.SelectElements("Cell") {
		v := c.SelectAttrValue("V", "")
		switch n := c.SelectAttrValue("N", ""); n {
		case "Label":
			p.Label = v
		case "Value":
			p.Value = v
		case "Type":
			p.Type = v
		case "Prompt":
			p.Prompt = v
		default:
			continue
		}
		set[c.SelectAttrValue("N", "")] = true
	}
	return p, set
}

// overlay merges a locally defined row over the inherited one.
func (p DataProperty) overlay(local DataProperty, set map[string]bool) DataProperty {
	if set["Label"] {
		p.Label = local.Label
	}
	if set["Value"] {
		p.Value = local.Value
	}
	if set["Type"] {
		p.Type = local.Type
	}
	if set["Prompt"] {
		p.Prompt = local.Prompt
	}
	return p
}
