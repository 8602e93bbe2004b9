package card2png

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestDefaultFamilyHasAllVariants(t *testing.T) {
	fam, err := DefaultFamily()
	if err != nil {
		t.Fatalf("default family: %v", err)
	}
	for w, want := range map[Weight]*FontFile{
		Regular: fam.Regular, Bold: fam.Bold, Italic: fam.Italic, BoldItalic: fam.BoldItalic,
	} {
		got, faux := fam.file(w)
		if got != want || faux {
			t.Fatalf("weight %d: got %v faux=%v", w, got.Name, faux)
		}
	}
}

func TestFamilyFallbacks(t *testing.T) {
	def, err := DefaultFamily()
	if err != nil {
		t.Fatalf("default family: %v", err)
	}
	fam := &FontFamily{Regular: def.Regular, Italic: def.Italic}

	if f, faux := fam.file(Bold); f != def.Regular || !faux {
		t.Fatalf("bold without a bold file should fake bold on regular")
	}
	if f, faux := fam.file(BoldItalic); f != def.Italic || !faux {
		t.Fatalf("bold italic should fake bold on italic")
	}
	fam.Bold = def.Bold
	if f, faux := fam.file(BoldItalic); f != def.Bold || faux {
		t.Fatalf("bold italic should prefer the bold file")
	}
}

func TestFontLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Card.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	l := NewFontLoader(t.TempDir(), dir)

	a, err := l.Load("Card.ttf")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := l.Load("Card.ttf")
	if err != nil || a != b {
		t.Fatalf("second load should hit the cache")
	}

	if _, err := l.Load("Missing.ttf"); !errors.Is(err, ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
	if _, err := l.LoadFamily("Card.ttf", "Missing.ttf", "", ""); !errors.Is(err, ErrMissingResource) {
		t.Fatalf("missing variant should fail, got %v", err)
	}

	fam, err := l.LoadFamily("Card.ttf", "", "", "")
	if err != nil {
		t.Fatalf("load family: %v", err)
	}
	if fam.Regular != a || fam.Bold != nil {
		t.Fatalf("unexpected family %+v", fam)
	}
	def, _ := DefaultFamily()
	if got, err := l.LoadFamily("", "", "", ""); err != nil || got != def {
		t.Fatalf("empty name should select the bundled fonts")
	}
}

func TestParseFontRejectsGarbage(t *testing.T) {
	if _, err := ParseFont("junk", []byte("not a font")); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFaceCacheReusesFaces(t *testing.T) {
	fam, _ := DefaultFamily()
	c := NewFaceCache()
	a := c.Face(fam.Regular, 40)
	b := c.Face(fam.Regular, 40)
	if a != b {
		t.Fatalf("face not cached")
	}
	if c.Face(fam.Regular, 41) == a {
		t.Fatalf("different sizes share a face")
	}
}

func TestFaceMetrics(t *testing.T) {
	def, _ := DefaultFamily()
	m := NewFaceMetrics(def, nil)
	word := Token{Text: "Power", Kind: Word}
	small := m.Measure(word, 20).W
	large := m.Measure(word, 40).W
	if small <= 0 || large <= small {
		t.Fatalf("widths should grow with size: %v %v", small, large)
	}

	sp := Token{Text: " ", Kind: Space}
	full := m.Measure(sp, 40).W
	m.SpaceShrink = 0.5
	if half := m.Measure(sp, 40).W; math.Abs(half-full/2) > 1e-9 {
		t.Fatalf("space shrink: %v vs %v", half, full)
	}

	m.Upper = true
	lower := m.Measure(Token{Text: "power", Kind: Word}, 40).W
	m.Upper = false
	upper := m.Measure(Token{Text: "POWER", Kind: Word}, 40).W
	if lower != upper {
		t.Fatalf("upper mode should measure upper-cased text: %v vs %v", lower, upper)
	}

	if m.LineHeight(40) <= m.Ascent(40) {
		t.Fatalf("line height should exceed ascent")
	}
	m.LineSpacing = 2
	if m.LineHeight(40) != 2*NewFaceMetrics(def, nil).LineHeight(40) {
		t.Fatalf("line spacing not applied")
	}
}

func TestFauxBoldWidensTokens(t *testing.T) {
	def, _ := DefaultFamily()
	m := NewFaceMetrics(&FontFamily{Regular: def.Regular}, nil)
	regular := m.Measure(Token{Text: "Power", Kind: Word}, 48).W
	bold := m.Measure(Token{Text: "Power", Kind: Word, Style: Style{Weight: Bold}}, 48).W
	if bold != regular+fauxBoldOffset(48) {
		t.Fatalf("faux bold width %v, regular %v", bold, regular)
	}
}
