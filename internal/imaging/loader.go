package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
	"time"
)

type cachedImage struct {
	img     image.Image
	format  string
	size    int64
	modTime time.Time
}

// current reports whether the entry was decoded from the file as it is now.
func (e cachedImage) current(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// ImageCache keeps decoded page scans in memory, keyed by the path they were
// loaded from. It is safe for concurrent use.
//
// A server that captures regions from the same page several times only
// decodes it once. Every Load stats the file, and a file whose size or
// modification time changed since it was decoded is read again.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
// PNG, JPEG and GIF are supported.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to stat image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()
	if ok && entry.current(fi) {
		return entry, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry = cachedImage{img: img, format: format, size: fi.Size(), modTime: fi.ModTime()}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict drops the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo describes a page scan before any regions are captured from it.
type ImageInfo struct {
	Path          string `json:"path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	Grayscale     bool   `json:"grayscale"`
	FileSizeBytes int64  `json:"file_size_bytes"`

	// DarkBackground is set when the border of the page is darker than mid
	// gray. Regions from such pages are inverted before recognition.
	DarkBackground bool `json:"dark_background"`
}

// LoadImageInfo loads path into the cache and reports its metadata. The
// format is the decoder's name, not the file extension.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	grayscale := false
	switch entry.img.(type) {
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Path:           path,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		Format:         entry.format,
		Grayscale:      grayscale,
		FileSizeBytes:  entry.size,
		DarkBackground: isDark(BackgroundLightness(entry.img)),
	}, nil
}
