package render

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// A line of text laid out at a single size, with the pen starting at x=0 and
// the baseline at y=ascent
type textRun struct {
	text string
	face font.Face
	// pixel height (ascent + descent)
	size int

	// extent of the inked pixels along the line
	width  int
	height int
	ascent fixed.Int26_6
}

// Creates a face whose ascent plus descent is height pixels
func faceForHeight(f *opentype.Font, height int) (font.Face, error) {
	var buf sfnt.Buffer
	upem := f.UnitsPerEm()
	// at one pixel per font unit the metrics come back in font units
	m, err := f.Metrics(&buf, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("Couldn't read font metrics:\n%w", err)
	}
	extent := float64(m.Ascent+m.Descent) / 64
	if extent <= 0 {
		extent = float64(upem)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(height) * float64(upem) / extent,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("Couldn't create font face:\n%w", err)
	}
	return face, nil
}

// Lays out text at the given pixel height and measures it. The width runs
// from the left edge of the first inked glyph box to the right edge of the
// last; glyphs without ink (spaces) don't count.
func measureText(f *opentype.Font, text string, size int) (*textRun, error) {
	face, err := faceForHeight(f, size)
	if err != nil {
		return nil, err
	}
	bounds, _ := font.BoundString(face, text)
	metrics := face.Metrics()

	r := &textRun{
		text:   text,
		face:   face,
		size:   size,
		height: (metrics.Ascent + metrics.Descent).Ceil(),
		ascent: metrics.Ascent,
	}
	if !bounds.Empty() {
		r.width = bounds.Max.X.Ceil() - bounds.Min.X.Floor()
	}
	return r, nil
}

// Finds the largest size, starting from maxSize rounded up and going down one
// pixel at a time, at which the text is narrower than maxWidth. Never goes
// below a size of 1, even if the text still doesn't fit.
func fitText(f *opentype.Font, text string, maxWidth int, maxSize float64) (*textRun, error) {
	size := max(int(math.Ceil(maxSize)), 1)
	for {
		r, err := measureText(f, text, size)
		if err != nil {
			return nil, err
		}
		if r.width < maxWidth || size == 1 {
			return r, nil
		}
		r.face.Close()
		size--
	}
}

// Draws the run with its layout origin at the given point. Coverage is
// blended toward black and anything outside dst is clipped.
func (r *textRun) draw(dst draw.Image, at image.Point) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(at.X), Y: fixed.I(at.Y) + r.ascent},
	}
	d.DrawString(r.text)
}

func (r *textRun) close() {
	r.face.Close()
}
