package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	path := filepath.Join(dir, "input.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := jpeg.Decode(file)
	require.NoError(t, err)
	return img
}

func TestNormalizeDownscalesLandscape(t *testing.T) {
	n := NewNormalizer(t.TempDir())
	src := writePNG(t, t.TempDir(), 1200, 900)

	out, err := n.Normalize(src)
	require.NoError(t, err)
	require.NotEqual(t, src, out)
	assert.True(t, strings.HasSuffix(out, ".jpg"))

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())
}

func TestNormalizeDownscalesPortrait(t *testing.T) {
	n := NewNormalizer(t.TempDir())
	src := writePNG(t, t.TempDir(), 900, 1200)

	out, err := n.Normalize(src)
	require.NoError(t, err)

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 600, bounds.Dx())
	assert.Equal(t, 800, bounds.Dy())
}

func TestNormalizeKeepsSmallImageSize(t *testing.T) {
	n := NewNormalizer(t.TempDir())
	src := writePNG(t, t.TempDir(), 320, 240)

	out, err := n.Normalize(src)
	require.NoError(t, err)
	// Re-encoded as JPEG but never upscaled.
	require.NotEqual(t, src, out)

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 320, bounds.Dx())
	assert.Equal(t, 240, bounds.Dy())
}

func TestNormalizeFallsBackOnUndecodableInput(t *testing.T) {
	n := NewNormalizer(t.TempDir())
	src := filepath.Join(t.TempDir(), "not-an-image.jpg")
	require.NoError(t, os.WriteFile(src, []byte("plain text"), 0o644))

	out, err := n.Normalize(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestNormalizeMissingFile(t *testing.T) {
	n := NewNormalizer(t.TempDir())
	_, err := n.Normalize(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupOnlyTouchesCacheDir(t *testing.T) {
	cacheDir := t.TempDir()
	n := NewNormalizer(cacheDir)

	outsideDir := t.TempDir()
	outside := writePNG(t, outsideDir, 100, 100)
	n.Cleanup(outside)
	_, err := os.Stat(outside)
	assert.NoError(t, err)

	out, err := n.Normalize(writePNG(t, outsideDir, 1000, 1000))
	require.NoError(t, err)
	n.Cleanup(out)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestSweepOlderThan(t *testing.T) {
	cacheDir := t.TempDir()
	n := NewNormalizer(cacheDir)

	stale := filepath.Join(cacheDir, "norm_1.jpg")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(cacheDir, "norm_2.jpg")
	require.NoError(t, os.WriteFile(fresh, []byte("fresh"), 0o644))

	removed := n.SweepOlderThan(time.Hour)
	assert.Equal(t, 1, removed)

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
