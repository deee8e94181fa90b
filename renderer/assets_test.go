package renderer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAsset(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "a.png")
	got, err := ResolveAsset("", abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = ResolveAsset("assets", "img/a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("assets", "img", "a.png"), got)

	_, err = ResolveAsset("", "img/a.png")
	assert.Error(t, err, "relative paths need a base directory")
}

func TestReadFontEmbedded(t *testing.T) {
	data, err := ReadFont("", "")
	require.NoError(t, err)
	assert.NotEmpty(t, data, "empty src falls back to Go-Regular")

	_, err = ReadFont("", "fonts/missing.ttf")
	assert.Error(t, err)
}

func TestDecodeImage(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.png"), buf.Bytes(), 0o644))

	img, err := DecodeImage(dir, "x.png")
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, err = DecodeImage(dir, "absent.png")
	assert.ErrorContains(t, err, "absent.png")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0o644))
	_, err = DecodeImage(dir, "bad.png")
	assert.ErrorContains(t, err, "解码图片")
}
