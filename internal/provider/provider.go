// Package provider defines the interface for illustration sources and the
// Pexels implementation used by the quote service.
package provider

import "context"

// ImageProvider finds an illustration for a search phrase.
type ImageProvider interface {
	// FindImage returns the URL of the best match. Lookup is best effort:
	// any failure yields ("", false) and is never reported as an error.
	FindImage(ctx context.Context, query string) (string, bool)

	// Name returns a human-readable name for the provider.
	Name() string
}
