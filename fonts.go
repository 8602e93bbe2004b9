package card2png

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ---- Font files ----

// FontFile is one parsed font file. TrueType outlines go through freetype;
// CFF-flavoured OpenType files fall back to x/image/font/opentype.
type FontFile struct {
	Name string
	tt   *truetype.Font
	ot   *opentype.Font
}

// ParseFont parses TTF or OTF bytes.
func ParseFont(name string, data []byte) (*FontFile, error) {
	if ft, err := truetype.Parse(data); err == nil {
		return &FontFile{Name: name, tt: ft}, nil
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("card2png: parse font %s: %w", name, err)
	}
	return &FontFile{Name: name, ot: ot}, nil
}

// newFace creates a face where one point is one pixel.
func (f *FontFile) newFace(size float64) (font.Face, error) {
	if f.tt != nil {
		return truetype.NewFace(f.tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
	}
	if f.ot != nil {
		return opentype.NewFace(f.ot, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return nil, errors.New("card2png: empty font file " + f.Name)
}

// ---- Families ----

// FontFamily groups the style variants of one typeface. Only Regular is
// required; missing variants are derived from the closest available file.
type FontFamily struct {
	Regular    *FontFile
	Bold       *FontFile
	Italic     *FontFile
	BoldItalic *FontFile
}

// file returns the file for w and whether bold has to be synthesised.
func (f *FontFamily) file(w Weight) (*FontFile, bool) {
	switch w {
	case BoldItalic:
		if f.BoldItalic != nil {
			return f.BoldItalic, false
		}
		if f.Bold != nil {
			return f.Bold, false
		}
		if f.Italic != nil {
			return f.Italic, true
		}
		return f.Regular, true
	case Bold:
		if f.Bold != nil {
			return f.Bold, false
		}
		return f.Regular, true
	case Italic:
		if f.Italic != nil {
			return f.Italic, false
		}
	}
	return f.Regular, false
}

var defaultFamily = sync.OnceValues(func() (*FontFamily, error) {
	var fam FontFamily
	for _, v := range []struct {
		dst  **FontFile
		name string
		ttf  []byte
	}{
		{&fam.Regular, "goregular", goregular.TTF},
		{&fam.Bold, "gobold", gobold.TTF},
		{&fam.Italic, "goitalic", goitalic.TTF},
		{&fam.BoldItalic, "gobolditalic", gobolditalic.TTF},
	} {
		ff, err := ParseFont(v.name, v.ttf)
		if err != nil {
			return nil, err
		}
		*v.dst = ff
	}
	return &fam, nil
})

// DefaultFamily returns the bundled Go fonts.
func DefaultFamily() (*FontFamily, error) {
	return defaultFamily()
}

// ---- Loader ----

// FontLoader finds and parses font files, caching them by resolved path. It
// is owned by the driver and shared by every render in a batch.
type FontLoader struct {
	Dirs []string

	mu    sync.Mutex
	files map[string]*FontFile
}

// NewFontLoader searches dirs in order.
func NewFontLoader(dirs ...string) *FontLoader {
	return &FontLoader{Dirs: dirs, files: make(map[string]*FontFile)}
}

func (l *FontLoader) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	} else {
		for _, dir := range l.Dirs {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: font file %s", ErrMissingResource, name)
}

// Load returns the parsed font called name.
func (l *FontLoader) Load(name string) (*FontFile, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.files == nil {
		l.files = make(map[string]*FontFile)
	}
	if ff, ok := l.files[path]; ok {
		return ff, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("card2png: read font %s: %w", path, err)
	}
	ff, err := ParseFont(filepath.Base(path), b)
	if err != nil {
		return nil, err
	}
	l.files[path] = ff
	return ff, nil
}

// LoadFamily loads a family. An empty regular name selects the bundled Go
// fonts; empty variant names leave the variant to be derived.
func (l *FontLoader) LoadFamily(regular, bold, italic, boldItalic string) (*FontFamily, error) {
	if regular == "" {
		return DefaultFamily()
	}
	var fam FontFamily
	var err error
	if fam.Regular, err = l.Load(regular); err != nil {
		return nil, err
	}
	for _, v := range []struct {
		dst  **FontFile
		name string
	}{
		{&fam.Bold, bold},
		{&fam.Italic, italic},
		{&fam.BoldItalic, boldItalic},
	} {
		if v.name == "" {
			continue
		}
		if *v.dst, err = l.Load(v.name); err != nil {
			return nil, err
		}
	}
	return &fam, nil
}

// ---- Face cache ----

type faceKey struct {
	file *FontFile
	size float64
}

// FaceCache memoises faces per font file and size so style variants are not
// rebuilt for every token.
type FaceCache struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func NewFaceCache() *FaceCache {
	return &FaceCache{faces: make(map[faceKey]font.Face)}
}

// Face returns the face of file at size (pixels). A face that cannot be
// created is logged and replaced by basicfont so layout can continue.
func (c *FaceCache) Face(file *FontFile, size float64) font.Face {
	if file == nil {
		return basicfont.Face7x13
	}
	key := faceKey{file: file, size: size}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.faces == nil {
		c.faces = make(map[faceKey]font.Face)
	}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f, err := file.newFace(size)
	if err != nil {
		Logger().Warn("font face unavailable, using basic font", "font", file.Name, "size", size, "err", err)
		f = basicfont.Face7x13
	}
	c.faces[key] = f
	return f
}

// StyledFace returns the face for weight w within fam, and whether bold must
// be synthesised by overstriking.
func (c *FaceCache) StyledFace(fam *FontFamily, w Weight, size float64) (font.Face, bool) {
	if fam == nil {
		return basicfont.Face7x13, w.Bold()
	}
	file, faux := fam.file(w)
	return c.Face(file, size), faux
}
