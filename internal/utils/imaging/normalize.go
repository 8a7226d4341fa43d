package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMaxDimension = 800
	DefaultQuality      = 70
)

var ErrNotFound = errors.New("image file not found")

// Normalizer rewrites arbitrary picked images into bounded JPEGs so the
// upload step always submits a consistent MIME type and size. Failures past
// the existence check are non-fatal: the original file is returned unchanged
// and the inference endpoint validates the payload on its own.
type Normalizer struct {
	CacheDir     string
	MaxDimension int
	Quality      int
}

func NewNormalizer(cacheDir string) *Normalizer {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "greenchoice-cache")
	}
	if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
		// Normalize falls back to the original path when writes fail.
		fmt.Printf("error creating image cache directory: %v\n", err)
	}
	return &Normalizer{
		CacheDir:     cacheDir,
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultQuality,
	}
}

// Normalize returns the path of a JPEG re-encode of the image at path,
// downscaled so neither dimension exceeds MaxDimension. The input file must
// exist; every later failure degrades to returning the original path.
func (n *Normalizer) Normalize(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}

	file, err := os.Open(path)
	if err != nil {
		return path, nil
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return path, nil
	}

	img = n.scaleDown(img)

	outPath := filepath.Join(n.CacheDir, fmt.Sprintf("norm_%d.jpg", time.Now().UnixNano()))
	out, err := os.Create(outPath)
	if err != nil {
		return path, nil
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: n.Quality}); err != nil {
		_ = os.Remove(outPath)
		return path, nil
	}

	return outPath, nil
}

func (n *Normalizer) scaleDown(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	max := n.MaxDimension
	if max <= 0 {
		max = DefaultMaxDimension
	}
	if srcWidth <= max && srcHeight <= max {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = max
		dstHeight = (srcHeight * max) / srcWidth
		if dstHeight < 1 {
			dstHeight = 1
		}
	} else {
		dstHeight = max
		dstWidth = (srcWidth * max) / srcHeight
		if dstWidth < 1 {
			dstWidth = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// Cleanup removes a file previously produced by Normalize. Paths outside the
// cache directory are left alone, so callers can pass the fallback original.
func (n *Normalizer) Cleanup(path string) {
	if path == "" || filepath.Dir(path) != filepath.Clean(n.CacheDir) {
		return
	}
	_ = os.Remove(path)
}

// SweepOlderThan deletes cache files older than age and reports how many
// were removed. Keeps repeated normalization from accumulating orphans.
func (n *Normalizer) SweepOlderThan(age time.Duration) int {
	entries, err := os.ReadDir(n.CacheDir)
	if err != nil {
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-age)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(n.CacheDir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}
