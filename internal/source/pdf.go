package source

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gen2brain/go-fitz"

	"photodrift/internal/gallery"
)

const pageRenderDPI = 144

// PDFSource exposes every page of a document as a photo. Page bounds give
// the dimensions and page order gives the timeline, so a portfolio PDF lays
// out in reading order.
type PDFSource struct {
	path   string
	doc    *fitz.Document
	pages  int
	photos []gallery.Photo
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}

	base := time.Now()
	if fi, err := os.Stat(path); err == nil {
		base = fi.ModTime()
	}

	s := &PDFSource{path: path, doc: doc, pages: doc.NumPage()}
	for i := 0; i < s.pages; i++ {
		rect, err := doc.Bound(i)
		if err != nil {
			log.Printf("[!] Skipping page %d of %s: %v", i+1, filepath.Base(path), err)
			continue
		}
		id := fmt.Sprintf("page-%03d", i+1)
		s.photos = append(s.photos, gallery.Photo{
			ID:        id,
			URL:       mediaURL(id),
			Width:     rect.Dx(),
			Height:    rect.Dy(),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return s, nil
}

func (s *PDFSource) List(ctx context.Context) ([]gallery.Photo, error) {
	out := make([]gallery.Photo, len(s.photos))
	copy(out, s.photos)
	return out, nil
}

func (s *PDFSource) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	var page int
	if _, err := fmt.Sscanf(id, "page-%d", &page); err != nil || page < 1 || page > s.pages {
		return nil, "", fmt.Errorf("unknown photo %q", id)
	}

	// Renders get their own document handle; fitz documents are not safe
	// to share across goroutines.
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, "", err
	}
	defer doc.Close()

	img, err := doc.ImageDPI(page-1, pageRenderDPI)
	if err != nil {
		return nil, "", fmt.Errorf("render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return io.NopCloser(&buf), "image/png", nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
