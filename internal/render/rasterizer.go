// This package renders label text, and an optional secondary image, onto a
// grayscale canvas sized for the loaded media and converts it into raster
// lines for the printer.
//
// The canvas is laid out in print orientation: x runs along the tape (the
// label's length) and y runs across the print head (the label's width).
package render

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"

	"tomgalvin.uk/qlprint/internal/bitmap"
	"tomgalvin.uk/qlprint/internal/media"
)

// Canvas length used for continuous tape unless overridden
const DefaultLength = 750

// 12mm tape needs extra width, and has room below the text for an image
const (
	narrowTapeWidth      = 12
	narrowTapeExtraWidth = 25
	secondaryBandWidth   = 170
	secondaryImageMargin = 15
)

// Largest text sizes, in pixels, before scaling
const (
	singleLineMaxSize    = 125
	primaryLineMaxSize   = 90
	secondaryLineMaxSize = 35
)

// Offsets nudging text away from the canvas centre
const (
	singleLineShiftX    = 5
	primaryLineShiftY   = 25
	secondaryLineShiftY = 20
)

var (
	ErrEmptyText       = errors.New("Label text is empty")
	ErrNoSecondaryBand = errors.New("Media has no room for a secondary image")
	ErrInvalidScale    = errors.New("Font scale must be positive")
)

type Layout int

const (
	// two lines if there's secondary text, otherwise one
	LayoutAuto Layout = iota
	LayoutSingleLine
	LayoutTwoLine
)

func (l Layout) String() string {
	switch l {
	case LayoutAuto:
		return "auto"
	case LayoutSingleLine:
		return "single"
	case LayoutTwoLine:
		return "two-line"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return LayoutAuto, nil
	case "single", "single-line", "one-line":
		return LayoutSingleLine, nil
	case "two", "two-line", "double":
		return LayoutTwoLine, nil
	default:
		return LayoutAuto, fmt.Errorf(`Unrecognised layout "%s"`, s)
	}
}

type Job struct {
	Text          string
	SecondaryText string
	// multiplies the maximum text sizes, 0 means 1
	Scale  float64
	Layout Layout
}

func (j Job) twoLine() bool {
	switch j.Layout {
	case LayoutSingleLine:
		return false
	case LayoutTwoLine:
		return true
	default:
		return j.SecondaryText != ""
	}
}

// Rasterizer renders jobs for one media geometry and font. Render and
// Rasterize don't modify the Rasterizer, so once it's set up it can be used
// from several goroutines.
type Rasterizer struct {
	geometry  media.Geometry
	font      *opentype.Font
	secondary image.Image

	// canvas length for continuous tape
	Length int
}

func NewRasterizer(g media.Geometry, f *opentype.Font) *Rasterizer {
	return &Rasterizer{
		geometry: g,
		font:     f,
		Length:   DefaultLength,
	}
}

func (r *Rasterizer) hasSecondaryBand() bool {
	return r.geometry.IsContinuous() && r.geometry.TapeSize.Width == narrowTapeWidth
}

// Sets an image to draw below the text. Only 12mm continuous tape has room
// for one.
func (r *Rasterizer) SetSecondaryImage(img image.Image) error {
	if img != nil && !r.hasSecondaryBand() {
		return fmt.Errorf("%w: %s", ErrNoSecondaryBand, r.geometry)
	}
	r.secondary = img
	return nil
}

type canvasSize struct {
	// along the tape
	length int
	// across the tape, excluding the secondary band
	width int
	band  int
}

func (r *Rasterizer) canvasSize() canvasSize {
	g := r.geometry
	c := canvasSize{width: g.Printable.Width + g.RightMargin}
	if g.IsContinuous() {
		c.length = r.Length
		if c.length <= 0 {
			c.length = DefaultLength
		}
		if g.TapeSize.Width == narrowTapeWidth {
			c.width += narrowTapeExtraWidth
			if r.secondary != nil {
				c.band = secondaryBandWidth
			}
		}
	} else {
		c.length = g.Printable.Length
	}
	return c
}

// Size of the canvas Render draws on, as length x width in dots
func (r *Rasterizer) CanvasBounds() image.Rectangle {
	c := r.canvasSize()
	return image.Rect(0, 0, c.length, c.width+c.band)
}

// Renders the job onto a white canvas
func (r *Rasterizer) Render(j Job) (*image.Gray, error) {
	if j.Text == "" {
		return nil, ErrEmptyText
	}
	scale := j.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}

	c := r.canvasSize()
	canvas := image.NewGray(image.Rect(0, 0, c.length, c.width+c.band))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	if j.twoLine() {
		primary, err := fitText(r.font, j.Text, c.length, primaryLineMaxSize*scale)
		if err != nil {
			return nil, fmt.Errorf("Couldn't lay out primary text:\n%w", err)
		}
		defer primary.close()
		secondary, err := fitText(r.font, j.SecondaryText, c.length, secondaryLineMaxSize*scale)
		if err != nil {
			return nil, fmt.Errorf("Couldn't lay out secondary text:\n%w", err)
		}
		defer secondary.close()

		primary.draw(canvas, image.Pt(
			c.length/2-primary.width/2,
			c.width/2-primary.height/2-primaryLineShiftY,
		))
		secondary.draw(canvas, image.Pt(
			c.length/2-secondary.width/2,
			c.width-secondary.height/2-secondaryLineShiftY,
		))
	} else {
		primary, err := fitText(r.font, j.Text, c.length, singleLineMaxSize*scale)
		if err != nil {
			return nil, fmt.Errorf("Couldn't lay out text:\n%w", err)
		}
		defer primary.close()

		primary.draw(canvas, image.Pt(
			c.length/2-primary.width/2-singleLineShiftX,
			c.width/2-primary.height/2,
		))
	}

	if r.secondary != nil && c.band > 0 {
		drawSecondaryImage(canvas, r.secondary, c)
	}

	return canvas, nil
}

// Scales the image to fit the band below the text, keeping its aspect
// ratio, and draws it centred along the tape
func drawSecondaryImage(canvas *image.Gray, img image.Image, c canvasSize) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	ratio := float64(b.Dx()) / float64(b.Dy())

	maxHeight := c.band - secondaryImageMargin
	width := c.length
	height := int(float64(width) / ratio)
	if height > maxHeight {
		height = maxHeight
		width = int(float64(height) * ratio)
	}

	x := (c.length - width) / 2
	dst := image.Rect(x, c.width, x+width, c.width+height)
	draw.BiLinear.Scale(canvas, dst, img, b, draw.Over, nil)
}

// Renders the job and packs the canvas into raster lines, one per dot along
// the tape
func (r *Rasterizer) Rasterize(j Job) ([]bitmap.RasterLine, error) {
	canvas, err := r.Render(j)
	if err != nil {
		return nil, err
	}
	lines, err := bitmap.PackLines(bitmap.FromGray(canvas))
	if err != nil {
		return nil, fmt.Errorf("Couldn't convert canvas to raster lines:\n%w", err)
	}
	return lines, nil
}
