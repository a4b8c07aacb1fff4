// Package source feeds the gallery with photos from local media: a directory
// of images or the pages of a PDF document.
package source

import (
	"context"
	"io"
	"net/url"
	"strings"

	"photodrift/internal/gallery"
)

// Source enumerates photos and serves their bytes.
type Source interface {
	// List returns the current photo set. Unreadable entries are skipped,
	// not surfaced as errors.
	List(ctx context.Context) ([]gallery.Photo, error)

	// Open returns the content of one photo by ID along with its MIME type.
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)

	Close() error
}

// photoTypes doubles as the extension filter and the MIME table. The stdlib
// mime package does not know bmp/tiff on a bare container, so the table is
// explicit.
var photoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// mediaURL builds the serving path for a photo ID, escaping each segment
// while keeping the slashes routable.
func mediaURL(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/media/" + strings.Join(parts, "/")
}
