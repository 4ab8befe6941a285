// This file implements methods to pack bitmap pixel data into the raster
// lines accepted by Brother QL printers.
//
// The print head runs across the tape, so the bitmap is scanned sideways:
// each raster line is one column of the bitmap, with row 0 first.

package bitmap

import (
	"errors"
	"fmt"
)

// Bytes in a raster line for the standard width print head (QL-500 to QL-700)
const LineBytes = 90

const bitsPerWord = 8

// The first 12 bits of every raster line (byte 0 and the high nibble of
// byte 1) are left blank, the first bitmap row lands on bit 3 of byte 1.
const ReservedBits = 12

// Maximum number of bitmap rows that fit into a raster line
const MaxRows = LineBytes*bitsPerWord - ReservedBits

var ErrCanvasTooTall = errors.New("Bitmap has more rows than the print head has pins")

type RasterLine [LineBytes]byte

// Gets the bit for bitmap row r, returns either 0 or 1
func (l *RasterLine) Bit(r int) byte {
	index, shift := bitPosition(r)
	return (l[index] >> shift) & 1
}

func (l *RasterLine) setBit(r int) {
	index, shift := bitPosition(r)
	l[index] |= 1 << shift
}

func bitPosition(r int) (int, uint) {
	n := ReservedBits + r
	return n / bitsPerWord, uint(bitsPerWord - 1 - n%bitsPerWord)
}

// Raster is a run of raster lines that can be read back as a Bitmap, with
// the line index as x and the row as y.
type Raster struct {
	Lines []RasterLine
	Rows  int
}

func (r *Raster) Width() int {
	return len(r.Lines)
}

func (r *Raster) Height() int {
	return r.Rows
}

func (r *Raster) GetBit(x int, y int) byte {
	return r.Lines[x].Bit(y)
}

func (r *Raster) String() string {
	return fmt.Sprintf("Raster(%d,%d)", len(r.Lines), r.Rows)
}

// Take data from any Bitmap implementation and pack it into raster lines,
// one line per bitmap column
func PackRaster(b Bitmap) (*Raster, error) {
	width, height := b.Width(), b.Height()
	if height > MaxRows {
		return nil, fmt.Errorf("%w (%d rows, max %d)", ErrCanvasTooTall, height, MaxRows)
	}

	lines := make([]RasterLine, width)
	for x := range width {
		line := &lines[x]
		for y := range height {
			if b.GetBit(x, y)&1 == 1 {
				line.setBit(y)
			}
		}
	}

	return &Raster{Lines: lines, Rows: height}, nil
}

// Packs the bitmap and returns only the raster lines
func PackLines(b Bitmap) ([]RasterLine, error) {
	r, err := PackRaster(b)
	if err != nil {
		return nil, err
	}
	return r.Lines, nil
}
