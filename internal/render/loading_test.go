package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestLoadBuiltinFonts(t *testing.T) {
	assert.Equal(t, []string{"gobold", "gomono", "gomonobold", "goregular"}, BuiltinFonts())
	for _, name := range BuiltinFonts() {
		f, err := LoadFont(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
}

func TestLoadFontFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o600))

	f, err := LoadFont(path)
	require.NoError(t, err)
	assert.NotNil(t, f)

	broken := filepath.Join(dir, "broken.ttf")
	require.NoError(t, os.WriteFile(broken, []byte("not a font"), 0o600))
	_, err = LoadFont(broken)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFontNotFound)
}

func TestLoadFontNotFound(t *testing.T) {
	for _, name := range []string{
		"no-such-font-qlprint-xyz",
		"no-such-font-qlprint-xyz.ttf",
		filepath.Join(t.TempDir(), "missing.ttf"),
	} {
		_, err := LoadFont(name)
		assert.ErrorIs(t, err, ErrFontNotFound, name)
	}
}

func TestLoadImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(1, 1, color.Gray{Y: 0x40})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), loaded.Bounds())

	_, err = DecodeImage(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
