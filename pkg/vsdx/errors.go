package vsdx

import (
	"errors"
	"fmt"

	"github.com/stevensultana/vsdx/pkg/vsdx/opc"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a Visio drawing package.
var ErrInvalidFormat = errors.New("invalid vsdx format")

// ErrPartNotFound indicates a part referenced by the package is missing.
var ErrPartNotFound = opc.ErrPartNotFound

// ErrPageNotFound indicates a page does not belong to the document.
var ErrPageNotFound = errors.New("page not found")

// ErrDuplicatePageName indicates another page already uses a name.
var ErrDuplicatePageName = errors.New("duplicate page name")

// ErrShapeNotOnPage indicates a shape does not belong to the page it is used with.
var ErrShapeNotOnPage = errors.New("shape not on page")

// ErrInconsistent indicates the pages index, its relationships and the set of
// page parts disagree. It is reported before anything is written.
var ErrInconsistent = errors.New("inconsistent package structure")

// LoadError represents a failure to load a document.
type LoadError struct {
	Path string
	Part string // empty when the archive itself could not be read
	Err  error
}

func (e *LoadError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("load %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load %q (%s): %v", e.Path, e.Part, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError represents a failure to save a document.
type SaveError struct {
	Path string
	Part string
	Err  error
}

func (e *SaveError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("save %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("save %q (%s): %v", e.Path, e.Part, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func newLoadError(path, part string, err error) *LoadError {
	return &LoadError{Path: path, Part: part, Err: err}
}

func newSaveError(path, part string, err error) *SaveError {
	return &SaveError{Path: path, Part: part, Err: err}
}
