package vsdx

import (
	"log/slog"

	"github.com/stevensultana/vsdx/pkg/vsdx/template"
)

// Options configures loading and saving behavior.
type Options struct {
	// Logger receives warnings about tolerated defects such as dangling
	// master references. If nil, nothing is logged.
	Logger *slog.Logger
	// Renderer fills placeholders and evaluates directives in shape text.
	// If nil, {{name}} placeholders and {% kind args %} directives are used.
	Renderer template.Renderer
	// LockOnSave specifies whether Save holds a lock file next to the
	// output while writing. If nil, defaults to true.
	LockOnSave *bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldLockOnSave returns whether Save takes a lock file.
func (o Options) ShouldLockOnSave() bool {
	if o.LockOnSave != nil {
		return *o.LockOnSave
	}
	return true
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) renderer() template.Renderer {
	if o.Renderer != nil {
		return o.Renderer
	}
	return template.NewPlaceholder()
}
