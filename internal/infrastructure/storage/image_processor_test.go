package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageProcessor_ValidateImage(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(pngBytes(t, 10, 10)))
	assert.Error(t, p.ValidateImage([]byte("not an image")))

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), []color.Color{color.Black}), nil))
	assert.Error(t, p.ValidateImage(gifBuf.Bytes()), "gif is rejected")

	small := &ImageProcessor{MaxSize: 10}
	assert.Error(t, small.ValidateImage(pngBytes(t, 10, 10)))
}

func TestImageProcessor_ProcessImage(t *testing.T) {
	p := NewImageProcessor()

	variants, err := p.ProcessImage(pngBytes(t, 2000, 1000))
	require.NoError(t, err)
	require.Contains(t, variants, "thumbnail")

	thumb, _, err := image.Decode(bytes.NewReader(variants["thumbnail"]))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 150, thumb.Bounds().Dy())
}
