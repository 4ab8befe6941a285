package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sort"

	"github.com/flopp/go-findfont"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"
)

var ErrFontNotFound = errors.New("Font not found")

var builtinFonts = map[string][]byte{
	"goregular":  goregular.TTF,
	"gobold":     gobold.TTF,
	"gomono":     gomono.TTF,
	"gomonobold": gomonobold.TTF,
}

// Names of the fonts compiled into the binary
func BuiltinFonts() []string {
	names := make([]string, 0, len(builtinFonts))
	for name := range builtinFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gets font data by builtin name, then as a file path, then by searching the
// system font directories
func getFontData(name string) ([]byte, error) {
	if data, ok := builtinFonts[name]; ok {
		return data, nil
	}
	if _, err := os.Stat(name); err == nil {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("Couldn't read font file %s:\n%w", name, err)
		}
		return data, nil
	}
	path, err := findfont.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:\n%w", ErrFontNotFound, name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't read font file %s:\n%w", path, err)
	}
	return data, nil
}

func LoadFont(name string) (*opentype.Font, error) {
	fontData, err := getFontData(name)
	if err != nil {
		return nil, fmt.Errorf("Couldn't get font data:\n%w", err)
	}
	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse font %s:\n%w", name, err)
	}
	return parsedFont, nil
}

// Decodes a PNG, JPEG, GIF, BMP or WebP image
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("Couldn't decode image:\n%w", err)
	}
	return img, nil
}

func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't read image %s:\n%w", path, err)
	}
	img, err := DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("Couldn't load image %s:\n%w", path, err)
	}
	return img, nil
}
