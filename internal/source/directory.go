package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"photodrift/internal/gallery"
)

const probeCacheSize = 4096

// DirectorySource walks a directory tree and exposes every readable image
// file as a photo. IDs are slash-separated paths relative to the root, so
// they stay stable across rescans.
type DirectorySource struct {
	root string

	mu    sync.Mutex
	index map[string]string // photo ID -> absolute path
	cache *probeCache
}

func NewDirectorySource(root string) (*DirectorySource, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("photo source %s is not a directory", root)
	}
	return &DirectorySource{
		root:  root,
		index: make(map[string]string),
		cache: newProbeCache(probeCacheSize),
	}, nil
}

func (s *DirectorySource) List(ctx context.Context) ([]gallery.Photo, error) {
	type entry struct {
		id   string
		path string
		info fs.FileInfo
	}

	var files []entry
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				return err
			}
			log.Printf("[!] Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := photoTypes[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			log.Printf("[!] Skipping %s: %v", path, err)
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		files = append(files, entry{id: filepath.ToSlash(rel), path: path, info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	photos := make([]gallery.Photo, len(files))
	kept := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, h, err := s.probe(f.path, f.info)
			if err != nil {
				log.Printf("[!] Skipping %s: %v", f.id, err)
				return nil
			}
			photos[i] = gallery.Photo{
				ID:        f.id,
				URL:       mediaURL(f.id),
				Width:     w,
				Height:    h,
				CreatedAt: f.info.ModTime(),
			}
			kept[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]gallery.Photo, 0, len(files))
	index := make(map[string]string, len(files))
	for i := range files {
		if !kept[i] {
			continue
		}
		out = append(out, photos[i])
		index[files[i].id] = files[i].path
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return out, nil
}

// probe reads image dimensions, consulting the cache first so rescans only
// touch files that changed.
func (s *DirectorySource) probe(path string, info fs.FileInfo) (int, int, error) {
	key := probeKey{path: path, mod: info.ModTime().UnixNano(), size: info.Size()}
	if d, hit := s.cache.get(key); hit {
		return d.w, d.h, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	s.cache.put(key, probeDims{w: cfg.Width, h: cfg.Height})
	return cfg.Width, cfg.Height, nil
}

func (s *DirectorySource) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	path, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		return nil, "", fmt.Errorf("unknown photo %q", id)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, photoTypes[strings.ToLower(filepath.Ext(path))], nil
}

func (s *DirectorySource) Close() error {
	return nil
}

// probeKey identifies one file state; touching or rewriting the file misses.
type probeKey struct {
	path string
	mod  int64
	size int64
}

type probeDims struct {
	w, h int
}

// probeCache holds probed dimensions up to a fixed capacity, evicting the
// oldest insertions first.
type probeCache struct {
	mu    sync.Mutex
	limit int
	order []probeKey
	dims  map[probeKey]probeDims
}

func newProbeCache(limit int) *probeCache {
	return &probeCache{limit: limit, dims: make(map[probeKey]probeDims)}
}

func (c *probeCache) get(k probeKey) (probeDims, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dims[k]
	return d, ok
}

func (c *probeCache) put(k probeKey, d probeDims) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dims[k]; ok {
		c.dims[k] = d
		return
	}
	c.dims[k] = d
	c.order = append(c.order, k)
	for len(c.order) > c.limit {
		delete(c.dims, c.order[0])
		c.order = c.order[1:]
	}
}
