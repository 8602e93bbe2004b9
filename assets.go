package card2png

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// ---- Embedded assets ----

// AssetRef is a resolved asset reference. Numeral is set for composite
// "Gain<N>Power" icons, which draw N on top of the GainPower icon.
type AssetRef struct {
	Name    string
	Numeral string
}

const gainPowerAsset = "GainPower"

var gainPowerPattern = regexp.MustCompile(`^Gain([0-9]+|X)Power$`)

var assetExtensions = []string{".png", ".jpg", ".jpeg"}

// AssetStore looks up and caches icon images in a directory.
type AssetStore struct {
	Dir string
	// Dividers names the assets that use DividerMultiplier.
	Dividers          map[string]bool
	IconMultiplier    float64
	DividerMultiplier float64

	mu    sync.Mutex
	cache map[string]image.Image
	// paths maps a name to its file, or "" when none exists. Filled on
	// first lookup so layout does no file checks after that.
	paths map[string]string
}

// NewAssetStore returns a store over dir with unit line multipliers.
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{
		Dir:               dir,
		Dividers:          map[string]bool{},
		IconMultiplier:    1,
		DividerMultiplier: 1,
		cache:             make(map[string]image.Image),
		paths:             make(map[string]string),
	}
}

func (s *AssetStore) path(name string) (string, bool) {
	if s == nil || name == "" {
		return "", false
	}
	s.mu.Lock()
	p, seen := s.paths[name]
	s.mu.Unlock()
	if seen {
		return p, p != ""
	}
	p = s.find(name)
	s.mu.Lock()
	if s.paths == nil {
		s.paths = make(map[string]string)
	}
	s.paths[name] = p
	s.mu.Unlock()
	return p, p != ""
}

func (s *AssetStore) find(name string) string {
	for _, ext := range assetExtensions {
		p := filepath.Join(s.Dir, name+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Resolve matches the literal asset name first, then the Gain<N>Power
// pattern.
func (s *AssetStore) Resolve(name string) (AssetRef, bool) {
	if _, ok := s.path(name); ok {
		return AssetRef{Name: name}, true
	}
	if m := gainPowerPattern.FindStringSubmatch(name); m != nil {
		if _, ok := s.path(gainPowerAsset); ok {
			return AssetRef{Name: gainPowerAsset, Numeral: m[1]}, true
		}
	}
	return AssetRef{}, false
}

// Exists reports whether name resolves to an asset.
func (s *AssetStore) Exists(name string) bool {
	_, ok := s.Resolve(name)
	return ok
}

// Load decodes the image file called name, caching the result.
func (s *AssetStore) Load(name string) (image.Image, error) {
	p, ok := s.path(name)
	if !ok {
		return nil, fmt.Errorf("%w: asset %s", ErrMissingResource, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = make(map[string]image.Image)
	}
	if img, ok := s.cache[p]; ok {
		return img, nil
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("card2png: decode asset %s: %w", p, err)
	}
	s.cache[p] = img
	return img, nil
}

// Width is the width of the named asset scaled to height h, capped at
// maxWidth when maxWidth > 0. Unknown assets are 0 wide.
func (s *AssetStore) Width(name string, h, maxWidth float64) float64 {
	ref, ok := s.Resolve(name)
	if !ok {
		return 0
	}
	img, err := s.Load(ref.Name)
	if err != nil {
		return 0
	}
	b := img.Bounds()
	if b.Dy() <= 0 {
		return 0
	}
	w := float64(b.Dx()) * h / float64(b.Dy())
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w
}

// LineMultiplier is the number of text lines an asset occupies.
func (s *AssetStore) LineMultiplier(name string) float64 {
	if s == nil {
		return 1
	}
	ref, ok := s.Resolve(name)
	if ok {
		name = ref.Name
	}
	m := s.IconMultiplier
	if s.Dividers[name] {
		m = s.DividerMultiplier
	}
	if m <= 0 {
		m = 1
	}
	return m
}

// scaleToFit scales img to height h, keeping its aspect ratio, and shrinks
// further if the result would be wider than maxWidth. It returns the scaled
// image and the ratio applied.
func scaleToFit(img image.Image, h, maxWidth float64) (image.Image, float64) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || h <= 0 {
		return img, 1
	}
	ratio := h / float64(b.Dy())
	if maxWidth > 0 && float64(b.Dx())*ratio > maxWidth {
		ratio = maxWidth / float64(b.Dx())
	}
	w := int(float64(b.Dx())*ratio + 0.5)
	dh := int(float64(b.Dy())*ratio + 0.5)
	if w <= 0 {
		w = 1
	}
	if dh <= 0 {
		dh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst, ratio
}
