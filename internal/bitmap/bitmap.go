// This package defines an interface for a simple bitmap structure that has a
// width, height, and can get bits from the bitmap by (x,y) coordinate.
// GrayBitmap thresholds a grayscale canvas into such a bitmap, and PixelBitmap
// stores each pixel in a byte, which is used to test the raster packing.
// Raster lines are the sideways-scanned format the QL print head consumes.
package bitmap

import (
	"fmt"
	"image"
)

type Bitmap interface {
	Width() int
	Height() int
	// returns 1 for ink, 0 for blank
	GetBit(x int, y int) byte
}

type PixelBitmap struct {
	pixels        [][]byte
	width, height int
}

func NewPixelBitmap(pixels [][]byte) *PixelBitmap {
	b := &PixelBitmap{pixels: pixels, height: len(pixels)}
	if len(pixels) > 0 {
		b.width = len(pixels[0])
	}
	return b
}

func (b *PixelBitmap) Width() int {
	return b.width
}

func (b *PixelBitmap) Height() int {
	return b.height
}

func (b *PixelBitmap) GetBit(x int, y int) byte {
	return b.pixels[y][x]
}

func (b *PixelBitmap) String() string {
	return fmt.Sprintf("PixelBitmap(%d,%d)", b.width, b.height)
}

// Pixels at or above this luma are blank, below it they're inked
const InkThreshold = 0x80

// GrayBitmap reads a grayscale canvas as a 1-bit bitmap using a hard threshold.
type GrayBitmap struct {
	image *image.Gray
}

func FromGray(i *image.Gray) *GrayBitmap {
	return &GrayBitmap{image: i}
}

func (b *GrayBitmap) Width() int {
	return b.image.Rect.Dx()
}

func (b *GrayBitmap) Height() int {
	return b.image.Rect.Dy()
}

func (b *GrayBitmap) GetBit(x int, y int) byte {
	min := b.image.Rect.Min
	if b.image.GrayAt(min.X+x, min.Y+y).Y >= InkThreshold {
		return 0
	}
	return 1
}

func (b *GrayBitmap) String() string {
	return fmt.Sprintf("GrayBitmap(%d,%d)", b.Width(), b.Height())
}
