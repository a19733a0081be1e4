// Package vsdx provides a document object model for Visio drawing packages
// (.vsdx): pages holding nested shapes, connectors between shapes, and master
// shapes that instances inherit text, cells and shape data from.
package vsdx

// XML namespaces used in Visio parts.
const (
	nsVisio = "http://schemas.microsoft.com/office/visio/2012/main"
	nsRel   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Relationship types linking the Visio parts.
const (
	relTypeDocument   = "http://schemas.microsoft.com/visio/2010/relationships/document"
	relTypePages      = "http://schemas.microsoft.com/visio/2010/relationships/pages"
	relTypePage       = "http://schemas.microsoft.com/visio/2010/relationships/page"
	relTypeMasters    = "http://schemas.microsoft.com/visio/2010/relationships/masters"
	relTypeMaster     = "http://schemas.microsoft.com/visio/2010/relationships/master"
	relTypeExtended   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	ctPage            = "application/vnd.ms-visio.page+xml"
	ctMaster          = "application/vnd.ms-visio.master+xml"
	defaultPageWidth  = "8.5"
	defaultPageHeight = "11"
)
