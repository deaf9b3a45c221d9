/*
NAME
  assetcache.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package assetcache decodes and caches image and sequence-directory
// assets for the run's lifetime: decoded textures are immutable after
// upload and shared by reference, never re-decoded (§5 shared-resource
// model).
package assetcache

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/image/webp"
)

// Cache holds decoded images and directory listings, keyed by path, for
// the lifetime of one render.
type Cache struct {
	mu        sync.Mutex
	images    map[string]image.Image
	sequences map[string][]string // dir -> sorted file list.
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{images: make(map[string]image.Image), sequences: make(map[string][]string)}
}

// Image decodes (or returns the cached decode of) the PNG/JPEG/WebP file
// at path.
func (c *Cache) Image(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".webp":
		img, err := webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding webp %s: %w", path, err)
		}
		return img, nil
	default:
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return img, nil
	}
}

// listSequence lists and caches the sorted entries of a sequence
// directory (first decode only; cached thereafter per §5).
func (c *Cache) listSequence(dir string) ([]string, error) {
	if files, ok := c.sequences[dir]; ok {
		return files, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sequence directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	c.sequences[dir] = files
	return files, nil
}

// SequenceCount returns the number of frame files in a sequence
// directory.
func (c *Cache) SequenceCount(dir string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	files, err := c.listSequence(dir)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// SequenceFrame decodes (or returns the cached decode of) the idx'th
// frame in a sequence directory, in sorted filename order.
func (c *Cache) SequenceFrame(dir string, idx int) (image.Image, error) {
	c.mu.Lock()
	files, err := c.listSequence(dir)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(files) {
		return nil, fmt.Errorf("sequence frame index %d out of range [0,%d)", idx, len(files))
	}
	return c.Image(filepath.Join(dir, files[idx]))
}
