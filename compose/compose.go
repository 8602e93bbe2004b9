// Package compose blits rendered card elements onto a card template.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// Layout places the art and each named element on the card.
type Layout struct {
	Size  image.Point
	Art   image.Rectangle
	Boxes map[string]image.Rectangle
}

// Compose draws art (scaled to the art area's height and centred in it),
// then the template, then every element centred in its box. Elements without
// a box are skipped. art and template may be nil.
func Compose(template, art image.Image, elements map[string]image.Image, order []string, l Layout) *image.NRGBA {
	size := l.Size
	if template != nil && size == (image.Point{}) {
		size = template.Bounds().Size()
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})

	if art != nil && !l.Art.Empty() {
		scaled := scaleToHeight(art, l.Art.Dy())
		b := scaled.Bounds()
		x := l.Art.Min.X + (l.Art.Dx()-b.Dx())/2
		r := image.Rect(x, l.Art.Min.Y, x+b.Dx(), l.Art.Min.Y+b.Dy()).Intersect(l.Art)
		draw.Draw(dst, r, scaled, b.Min.Add(r.Min.Sub(image.Pt(x, l.Art.Min.Y))), draw.Over)
	}
	if template != nil {
		draw.Draw(dst, dst.Bounds(), template, template.Bounds().Min, draw.Over)
	}
	for _, name := range order {
		el, ok := elements[name]
		if !ok || el == nil {
			continue
		}
		box, ok := l.Boxes[name]
		if !ok || box.Empty() {
			continue
		}
		b := el.Bounds()
		at := image.Pt(box.Min.X+(box.Dx()-b.Dx())/2, box.Min.Y+(box.Dy()-b.Dy())/2)
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, el, b.Min, draw.Over)
	}
	return dst
}

// scaleToHeight resizes img to height h, keeping its aspect ratio.
func scaleToHeight(img image.Image, h int) image.Image {
	b := img.Bounds()
	if h <= 0 || b.Dy() == h || b.Dy() == 0 {
		return img
	}
	ratio := float64(h) / float64(b.Dy())
	w := int(float64(b.Dx())*ratio + 0.5)
	if w <= 0 {
		w = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// ErrNoImage reports that no image file matched a name.
var ErrNoImage = errors.New("compose: image not found")

// FindImage loads dir/name with the first matching image extension.
func FindImage(dir, name string) (image.Image, error) {
	for _, ext := range imageExtensions {
		p := filepath.Join(dir, name+ext)
		f, err := os.Open(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("compose: decode %s: %w", p, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNoImage, name, dir)
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("compose: create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
