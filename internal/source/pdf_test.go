package source

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPDF builds a minimal document with the given number of 200x100pt
// pages, computing xref offsets as it goes.
func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	add := func(s string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(s)
	}

	buf.WriteString("%PDF-1.4\n")
	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}
	add("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	add(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids, pages))
	for i := 0; i < pages; i++ {
		add(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] >>\nendobj\n", 3+i))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPDFSourceList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pdf")
	writeTestPDF(t, path, 3)

	src, err := NewPDFSource(path)
	if err != nil {
		t.Fatalf("NewPDFSource: %v", err)
	}
	defer src.Close()

	photos, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(photos) != 3 {
		t.Fatalf("Expected 3 photos, got %d", len(photos))
	}

	for i, p := range photos {
		wantID := fmt.Sprintf("page-%03d", i+1)
		if p.ID != wantID {
			t.Errorf("Photo %d ID = %s, expected %s", i, p.ID, wantID)
		}
		if p.Width != 200 || p.Height != 100 {
			t.Errorf("Page %d bounds %dx%d, expected 200x100", i+1, p.Width, p.Height)
		}
		if p.URL != "/media/"+wantID {
			t.Errorf("Page %d URL = %s", i+1, p.URL)
		}
		if i > 0 && !photos[i-1].CreatedAt.Before(p.CreatedAt) {
			t.Errorf("Page order lost: page %d not after page %d", i+1, i)
		}
	}
}

func TestPDFSourceOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pdf")
	writeTestPDF(t, path, 2)

	src, err := NewPDFSource(path)
	if err != nil {
		t.Fatalf("NewPDFSource: %v", err)
	}
	defer src.Close()

	rc, ctype, err := src.Open(context.Background(), "page-002")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	if ctype != "image/png" {
		t.Errorf("Content type = %s, expected image/png", ctype)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Rendered page is not a PNG: %v", err)
	}

	// 200x100pt at 144 DPI doubles the pixel size.
	b := img.Bounds()
	if abs(b.Dx()-400) > 1 || abs(b.Dy()-200) > 1 {
		t.Errorf("Rendered size %dx%d, expected about 400x200", b.Dx(), b.Dy())
	}

	if _, _, err := src.Open(context.Background(), "page-099"); err == nil {
		t.Error("Expected error for out-of-range page")
	}
	if _, _, err := src.Open(context.Background(), "garbage"); err == nil {
		t.Error("Expected error for malformed photo ID")
	}
}

func TestPDFSourceMissingFile(t *testing.T) {
	if _, err := NewPDFSource(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected error for missing document")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
