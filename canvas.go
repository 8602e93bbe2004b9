package card2png

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ---- Raster surface ----

// canvas is a transparent raster the element renderers paint on.
type canvas struct {
	img  *image.NRGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	return &canvas{img: img, w: w, h: h}
}

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

// drawString paints s with its baseline at y. Synthetic bold repaints the
// string shifted right.
func (c *canvas) drawString(face font.Face, col color.Color, s string, x, y float64, fauxBold bool, size float64) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(s)
	if fauxBold {
		d.Dot = fixed.Point26_6{X: floatToFixed(x + fauxBoldOffset(size)), Y: floatToFixed(y)}
		d.DrawString(s)
	}
}

// drawImage composites img with its top-left corner at (x, y).
func (c *canvas) drawImage(img image.Image, x, y int) {
	b := img.Bounds()
	rect := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.img, rect, img, b.Min, draw.Over)
}

// drawSquished composites src into a rect of width w at x, keeping the full
// height, so only the horizontal axis is scaled.
func (c *canvas) drawSquished(src *image.NRGBA, x int, w int) {
	b := src.Bounds()
	if w <= 0 {
		return
	}
	if w == b.Dx() {
		c.drawImage(src, x, 0)
		return
	}
	dst := image.Rect(x, 0, x+w, b.Dy())
	xdraw.CatmullRom.Scale(c.img, dst, src, b, xdraw.Over, nil)
}

// ---- Painter ----

// painter draws laid-out tokens with one font family and size.
type painter struct {
	c       *canvas
	metrics *FaceMetrics
	size    float64
	assets  *AssetStore
	marker  rune
	numeral TextStyle
}

// drawLayout paints every line of lay with its origin shifted to (ox, oy).
// maxWidth bounds the width of asset images.
func (p *painter) drawLayout(tokens []Token, lay Layout, ox, oy, maxWidth float64) {
	for _, line := range lay.Lines {
		if line.Asset {
			p.drawAsset(tokens[line.Start], line, ox, oy, maxWidth)
			continue
		}
		p.drawLine(line.Tokens(tokens), ox+line.X, oy+line.Baseline)
	}
}

// drawLine paints tokens left to right from x along baseline y.
func (p *painter) drawLine(tokens []Token, x, y float64) {
	for _, tok := range tokens {
		w := p.metrics.Measure(tok, p.size).W
		if tok.Kind == Word {
			text := tok.Text
			if p.metrics.Upper {
				text = upperCase(text)
			}
			face, faux := p.metrics.Faces.StyledFace(p.metrics.Family, tok.Weight, p.size)
			col := tok.Color
			if col == nil {
				col = color.Black
			}
			p.c.drawString(face, col, text, x, y, faux, p.size)
		}
		x += w
	}
}

// drawAsset paints an asset centred in its line, with the numeral of a
// Gain<N>Power composite on top.
func (p *painter) drawAsset(tok Token, line Line, ox, oy, maxWidth float64) {
	name := tok.AssetName(p.marker)
	ref, ok := p.assets.Resolve(name)
	if !ok {
		Logger().Warn("embedded asset missing at draw time", "asset", name)
		return
	}
	img, err := p.assets.Load(ref.Name)
	if err != nil {
		Logger().Warn("embedded asset unreadable", "asset", ref.Name, "err", err)
		return
	}
	scaled, ratio := scaleToFit(img, line.Height, maxWidth)
	b := scaled.Bounds()
	cx := ox + line.X
	top := oy + line.Y + (line.Height-float64(b.Dy()))/2
	p.c.drawImage(scaled, int(math.Round(cx-float64(b.Dx())/2)), int(math.Round(top)))
	if ref.Numeral != "" {
		p.drawNumeral(ref.Numeral, ratio, cx, top+float64(b.Dy())/2)
	}
}

// drawNumeral centres text on (cx, cy) in the numeral font, scaled by the
// icon's resize ratio.
func (p *painter) drawNumeral(text string, ratio, cx, cy float64) {
	st := p.numeral
	if st.Family == nil || st.Size <= 0 {
		return
	}
	size := st.Size * ratio
	if size <= 0 {
		return
	}
	face, faux := p.metrics.Faces.StyledFace(st.Family, Bold, size)
	w := fixedToFloat(font.MeasureString(face, text))
	m := face.Metrics()
	capHeight := fixedToFloat(m.CapHeight)
	if capHeight <= 0 {
		capHeight = fixedToFloat(m.Ascent) * 0.7
	}
	col := st.Color
	if col == nil {
		col = color.Black
	}
	p.c.drawString(face, col, text, cx-w/2, cy+capHeight/2, faux, size)
}
