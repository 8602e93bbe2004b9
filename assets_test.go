package card2png

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func newTestAssets(t *testing.T) *AssetStore {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "Power", 10, 10, red)
	writePNG(t, dir, "GainPower", 20, 10, gold)
	writePNG(t, dir, "DividingLine", 40, 4, color.Black)
	writePNG(t, dir, "Activate", 10, 10, color.White)
	s := NewAssetStore(dir)
	s.IconMultiplier = 1.5
	s.DividerMultiplier = 2
	s.Dividers["DividingLine"] = true
	return s
}

func TestAssetResolve(t *testing.T) {
	s := newTestAssets(t)
	for name, want := range map[string]AssetRef{
		"Power":      {Name: "Power"},
		"Gain3Power": {Name: "GainPower", Numeral: "3"},
		"GainXPower": {Name: "GainPower", Numeral: "X"},
		"GainPower":  {Name: "GainPower"},
	} {
		got, ok := s.Resolve(name)
		if !ok || got != want {
			t.Fatalf("Resolve(%q) = %+v, %v", name, got, ok)
		}
	}
	for _, name := range []string{"Missing", "GainPowerX", "Gain-1Power", ""} {
		if s.Exists(name) {
			t.Fatalf("%q should not resolve", name)
		}
	}
}

func TestGainPowerNeedsBaseIcon(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "Power", 10, 10, red)
	if NewAssetStore(dir).Exists("Gain2Power") {
		t.Fatalf("Gain2Power should not resolve without a GainPower icon")
	}
}

func TestAssetLoadCaches(t *testing.T) {
	s := newTestAssets(t)
	a, err := s.Load("Power")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, _ := s.Load("Power")
	if a != b {
		t.Fatalf("second load should hit the cache")
	}
	if a.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds %v", a.Bounds())
	}
	if _, err := s.Load("Missing"); !errors.Is(err, ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
}

func TestAssetLookupIsRemembered(t *testing.T) {
	s := newTestAssets(t)
	if !s.Exists("Gain2Power") || s.Exists("Shield") {
		t.Fatalf("initial lookups wrong")
	}
	if err := os.Remove(filepath.Join(s.Dir, "GainPower.png")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	writePNG(t, s.Dir, "Shield", 10, 10, red)
	if !s.Exists("Gain2Power") {
		t.Fatalf("a found asset should not be looked up again")
	}
	if s.Exists("Shield") {
		t.Fatalf("a missing asset should not be looked up again")
	}
}

func TestAssetWidth(t *testing.T) {
	s := newTestAssets(t)
	if w := s.Width("GainPower", 30, 0); w != 60 {
		t.Fatalf("GainPower at height 30 is %v wide, want 60", w)
	}
	if w := s.Width("Gain4Power", 30, 50); w != 50 {
		t.Fatalf("capped width %v, want 50", w)
	}
	if w := s.Width("Missing", 30, 0); w != 0 {
		t.Fatalf("missing asset width %v", w)
	}
}

func TestAssetLineMultiplier(t *testing.T) {
	s := newTestAssets(t)
	if m := s.LineMultiplier("Power"); m != 1.5 {
		t.Fatalf("icon multiplier %v", m)
	}
	if m := s.LineMultiplier("Gain2Power"); m != 1.5 {
		t.Fatalf("composite icon multiplier %v", m)
	}
	if m := s.LineMultiplier("DividingLine"); m != 2 {
		t.Fatalf("divider multiplier %v", m)
	}
	var nilStore *AssetStore
	if m := nilStore.LineMultiplier("Power"); m != 1 {
		t.Fatalf("nil store multiplier %v", m)
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	img, ratio := scaleToFit(src, 5, 0)
	if ratio != 0.5 || img.Bounds().Size() != image.Pt(10, 5) {
		t.Fatalf("scaled to %v ratio %v", img.Bounds(), ratio)
	}
	img, ratio = scaleToFit(src, 5, 4)
	if ratio != 0.2 || img.Bounds().Size() != image.Pt(4, 2) {
		t.Fatalf("width-limited scale %v ratio %v", img.Bounds(), ratio)
	}
}
