package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTesseractEngine_BlankImage(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed")
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "blank.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	regions, err := NewTesseractEngine("eng").Detect(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestTesseractEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseractEngine().Detect(ctx, "unused.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTesseractEngine_DefaultLanguage(t *testing.T) {
	e := NewTesseractEngine()
	assert.Equal(t, []string{"eng"}, e.languages)
	assert.Equal(t, "tesseract", e.Name())
}
