package card2png

import (
	"image"
	"image/color"
	"testing"
)

func TestNewCanvasIsTransparent(t *testing.T) {
	c := newCanvas(0, 5)
	if c.w != 1 || c.h != 5 {
		t.Fatalf("canvas %dx%d", c.w, c.h)
	}
	if hasInk(c.img) {
		t.Fatalf("new canvas should be transparent")
	}
}

func TestDrawSquishedScalesHorizontally(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.Black)
		}
	}
	c := newCanvas(100, 20)
	c.drawSquished(src, 25, 50)
	if !hasInk(c.img.SubImage(image.Rect(30, 0, 70, 20))) {
		t.Fatalf("squished image missing")
	}
	if hasInk(c.img.SubImage(image.Rect(0, 0, 24, 20))) || hasInk(c.img.SubImage(image.Rect(76, 0, 100, 20))) {
		t.Fatalf("squished image drawn outside its rect")
	}
}

func TestDrawStringFauxBoldIsWider(t *testing.T) {
	fam, _ := DefaultFamily()
	faces := NewFaceCache()
	face := faces.Face(fam.Regular, 40)

	extent := func(faux bool) int {
		c := newCanvas(200, 60)
		c.drawString(face, color.Black, "I", 10, 45, faux, 40)
		maxX := 0
		for y := 0; y < 60; y++ {
			for x := 0; x < 200; x++ {
				if _, _, _, a := c.img.At(x, y).RGBA(); a != 0 && x > maxX {
					maxX = x
				}
			}
		}
		return maxX
	}
	if extent(true) <= extent(false) {
		t.Fatalf("overstrike should extend the glyph")
	}
}
