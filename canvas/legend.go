package canvas

import (
	"fmt"
	"image"

	"yourmovie/palette"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	legendRowHeight = 28
	legendWidth     = 220
	legendSwatch    = 20
	legendFontSize  = 14
)

// Legend renders one swatch and label per palette color, in palette order.
func Legend(p *palette.Palette) (image.Image, error) {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legend font: %w", err)
	}

	colors := p.Colors()
	dc := gg.NewContext(legendWidth, legendRowHeight*len(colors)+8)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: legendFontSize}))

	for i, c := range colors {
		top := float64(4 + i*legendRowHeight)

		dc.SetColor(c.RGBA())
		dc.DrawRectangle(8, top+4, legendSwatch, legendSwatch)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf("%s  %s", c.Name, c.Hex()), 8+legendSwatch+10, top+4+legendSwatch/2, 0, 0.5)
	}

	return dc.Image(), nil
}
