package scripting

import (
	"context"
	"errors"
)

// ErrSyntax is returned by Check for scripts that do not parse.
var ErrSyntax = errors.New("scripting: syntax error")

// Engine runs document-level JavaScript.
type Engine interface {
	// Execute runs script and returns its exported completion value.
	Execute(ctx context.Context, script string) (interface{}, error)

	// Bind exposes the document to scripts as the globals numPages and
	// app.alert.
	Bind(doc Document) error
}

// Document is the view of a document a script can see.
type Document interface {
	PageCount() int
	Alert(message string)
}
