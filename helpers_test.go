package card2png

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

// fixedMeasurer gives every rune the same advance so layouts can be checked
// by hand: a rune is size/2 wide, a space size/4, a line 1.2*size high.
type fixedMeasurer struct{}

func (fixedMeasurer) Measure(tok Token, size float64) Size {
	lh := 1.2 * size
	switch tok.Kind {
	case Space:
		return Size{W: size / 4, H: lh}
	case Newline, Asset:
		return Size{H: lh}
	}
	return Size{W: float64(utf8.RuneCountInString(tok.Text)) * size / 2, H: lh}
}

func (fixedMeasurer) LineHeight(size float64) float64 { return 1.2 * size }
func (fixedMeasurer) Ascent(size float64) float64     { return size }

// assetSet is an AssetLookup over a fixed list of names.
type assetSet map[string]bool

func (s assetSet) Exists(name string) bool { return s[name] }

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func hasInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return true
			}
		}
	}
	return false
}

// captureLog routes package logging into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
