package render

import (
	"context"
	"errors"
)

// ErrRendererUnavailable reports that no rendering capability could be used
// in the current environment.
var ErrRendererUnavailable = errors.New("renderer_unavailable")

// Handle is the opaque artifact a renderer produces. It owns the two
// post-render side effects.
type Handle interface {
	// Bytes returns the rendered document.
	Bytes() ([]byte, error)
	// Persist writes the document to the given path.
	Persist(filename string) error
	// Open hands the document to the local viewer. Best effort.
	Open() error
	// ContentType reports the MIME type of the rendered bytes.
	ContentType() string
}

// Renderer turns a document description into a persistable artifact.
type Renderer interface {
	Render(ctx context.Context, doc Document) (Handle, error)
}
