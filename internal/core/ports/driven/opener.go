package driven

import "context"

// URIOpener opens a URI with the user's default handler.
type URIOpener interface {
	// Open launches the default application for uri.
	Open(ctx context.Context, uri string) error
}
