// Package canvas prepares drawings for the stylization service: the default
// sky/sea background, background fill of user strokes, and 512x512 resizing.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	// Register decoders for uploads
	_ "image/gif"

	"yourmovie/config"
	"yourmovie/palette"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Drawing modes offered by the toolbox
const (
	ModeFreedraw  = "freedraw"
	ModeLine      = "line"
	ModeTransform = "transform"
)

// Modes lists the toolbox drawing modes in display order.
var Modes = []string{ModeFreedraw, ModeLine, ModeTransform}

// Painter paints backgrounds using the sky and sea labels of a palette.
type Painter struct {
	sky  color.RGBA
	sea  color.RGBA
	size int
}

// NewPainter returns a Painter for the configured canvas size.
func NewPainter(p *palette.Palette) *Painter {
	return &Painter{
		sky:  p.MustLookup(config.SkyLabel).RGBA(),
		sea:  p.MustLookup(config.SeaLabel).RGBA(),
		size: config.CanvasSize,
	}
}

// rowColor is the background color of row y.
func (p *Painter) rowColor(y int) color.RGBA {
	if y < config.HorizonRow {
		return p.sky
	}
	return p.sea
}

// Background renders the default canvas: sky above the horizon row, sea below.
func (p *Painter) Background() *image.RGBA {
	dc := gg.NewContext(p.size, p.size)

	dc.SetColor(p.sky)
	dc.DrawRectangle(0, 0, float64(p.size), float64(config.HorizonRow))
	dc.Fill()

	dc.SetColor(p.sea)
	dc.DrawRectangle(0, float64(config.HorizonRow), float64(p.size), float64(p.size-config.HorizonRow))
	dc.Fill()

	return dc.Image().(*image.RGBA)
}

// Compose fills the background into a canvas capture. The canvas widget does
// not export its background image, so unpainted (black) pixels become the
// row's background color and any saturated (255) channel of a painted pixel
// takes that channel from the background. Alpha is ignored.
func (p *Painter) Compose(drawing image.Image) *image.RGBA {
	b := drawing.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		bg := p.rowColor(y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(drawing.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			rgb := [3]uint8{c.R, c.G, c.B}

			if rgb == [3]uint8{0, 0, 0} {
				out.SetRGBA(x, y, bg)
				continue
			}

			ref := [3]uint8{bg.R, bg.G, bg.B}
			for k := range rgb {
				if rgb[k] == 255 {
					rgb[k] = ref[k]
				}
			}
			out.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff})
		}
	}

	return out
}

// Resize scales img to the canvas size, ignoring aspect ratio.
func Resize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, config.CanvasSize, config.CanvasSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Decode reads any registered image format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes img as JPEG at quality 95.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten drops alpha by compositing over black, matching an RGB conversion.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
