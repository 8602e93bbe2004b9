// Package config loads the card generator's sectioned key:value settings
// files (<section>-config.txt) and exposes a typed view of them.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arran4/card2png/textfile"
)

// Sections read by Load.
var Sections = []string{"text", "color", "font", "card"}

// ErrNotFound reports a missing config directory or section file.
var ErrNotFound = errors.New("config: not found")

// Store holds raw values by section and key.
type Store struct {
	sections map[string]map[string]string
}

// NewStore returns a store seeded with sections; used by tests and callers
// that build configuration in code.
func NewStore(sections map[string]map[string]string) *Store {
	s := &Store{sections: make(map[string]map[string]string, len(sections))}
	for name, kv := range sections {
		m := make(map[string]string, len(kv))
		for k, v := range kv {
			m[k] = v
		}
		s.sections[name] = m
	}
	return s
}

// Load reads every known section from dir. Missing section files are
// skipped; a missing directory is an error.
func Load(dir string) (*Store, error) {
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: config directory %s", ErrNotFound, dir)
	}
	s := &Store{sections: make(map[string]map[string]string)}
	for _, name := range Sections {
		path := filepath.Join(dir, name+"-config.txt")
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: open %s: %w", path, err)
		}
		kv, err := textfile.ParseConfig(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		s.sections[name] = kv
	}
	return s, nil
}

// Value returns the raw value of key in section, or "".
func (s *Store) Value(section, key string) string {
	if s == nil {
		return ""
	}
	return s.sections[section][key]
}

// ---- Typed settings ----

// FontSpec names the files of one font family and its base size in pixels.
// An empty File selects the bundled Go fonts.
type FontSpec struct {
	File       string
	Bold       string
	Italic     string
	BoldItalic string
	Size       float64
}

// Box is a field's rectangle on the card template.
type Box struct {
	X, Y, W, H int
}

// Rect returns the box as an image rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Empty reports a box with no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Settings is the typed view of the configuration.
type Settings struct {
	// text-config.txt
	EscapeCharacter       rune
	NewlineCharacter      rune
	ItalicCharacter       rune
	AssetCharacter        rune
	FontDecrease          float64
	LineSpacing           float64
	SpaceShrink           float64
	IconLineMultiplier    float64
	DividerLineMultiplier float64
	DividerAssets         []string
	MinAbilityFontSize    float64
	AbilityPadding        float64
	ActivateSymbol        string
	ActivateSymbolHeight  float64
	SideColumnGap         float64

	// color-config.txt
	FontColor    string
	NumeralColor string

	// font-config.txt
	TitleFont   FontSpec
	AbilityFont FontSpec
	TypeFont    FontSpec
	ElementFont FontSpec
	NumeralFont FontSpec

	// card-config.txt
	Boxes           map[string]Box
	ImageAreaHeight int
}

// BoxNames are the card-config.txt box keys, each read as "<name>Box".
var BoxNames = []string{"Title", "Ability", "Type", "Cost", "Strength", "TopRightElement", "Art"}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		EscapeCharacter:       '\\',
		NewlineCharacter:      '|',
		ItalicCharacter:       '$',
		AssetCharacter:        '_',
		FontDecrease:          0.5,
		LineSpacing:           1.0,
		SpaceShrink:           0.6,
		IconLineMultiplier:    1.5,
		DividerLineMultiplier: 2,
		DividerAssets:         []string{"DividingLine"},
		MinAbilityFontSize:    40,
		AbilityPadding:        20,
		ActivateSymbol:        "Activate",
		ActivateSymbolHeight:  120,
		SideColumnGap:         20,

		FontColor:    "d7b06c",
		NumeralColor: "000000",

		TitleFont:   FontSpec{Size: 110},
		AbilityFont: FontSpec{Size: 80},
		TypeFont:    FontSpec{Size: 70},
		ElementFont: FontSpec{Size: 110},
		NumeralFont: FontSpec{Size: 90},

		Boxes: map[string]Box{
			"Title":           {X: 128, Y: 90, W: 1230, H: 150},
			"Ability":         {X: 148, Y: 1290, W: 1190, H: 690},
			"Type":            {X: 330, Y: 1180, W: 830, H: 90},
			"Cost":            {X: 60, Y: 60, W: 180, H: 180},
			"Strength":        {X: 60, Y: 1880, W: 180, H: 180},
			"TopRightElement": {X: 1246, Y: 60, W: 180, H: 180},
			"Art":             {X: 0, Y: 260, W: 1486, H: 900},
		},
		ImageAreaHeight: 900,
	}
}

// FromStore overlays the values present in s onto Default. Malformed values
// are reported together.
func FromStore(s *Store) (Settings, error) {
	out := Default()
	var errs []error

	runeVal := func(section, key string, dst *rune) {
		v := s.Value(section, key)
		if v == "" {
			return
		}
		r, n := utf8.DecodeRuneInString(v)
		if n != len(v) {
			errs = append(errs, fmt.Errorf("config: %s/%s: want a single character, got %q", section, key, v))
			return
		}
		*dst = r
	}
	floatVal := func(section, key string, dst *float64) {
		v := s.Value(section, key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s/%s: %w", section, key, err))
			return
		}
		*dst = f
	}
	stringVal := func(section, key string, dst *string) {
		if v := s.Value(section, key); v != "" {
			*dst = v
		}
	}
	fontVal := func(prefix string, dst *FontSpec) {
		stringVal("font", prefix+"Font", &dst.File)
		stringVal("font", prefix+"BoldFont", &dst.Bold)
		stringVal("font", prefix+"ItalicFont", &dst.Italic)
		stringVal("font", prefix+"BoldItalicFont", &dst.BoldItalic)
		floatVal("font", prefix+"FontSize", &dst.Size)
	}

	runeVal("text", "escapeCharacter", &out.EscapeCharacter)
	runeVal("text", "newlineCharacter", &out.NewlineCharacter)
	runeVal("text", "italicCharacter", &out.ItalicCharacter)
	runeVal("text", "assetCharacter", &out.AssetCharacter)
	floatVal("text", "fontDecrease", &out.FontDecrease)
	floatVal("text", "lineSpacing", &out.LineSpacing)
	floatVal("text", "spaceShrink", &out.SpaceShrink)
	floatVal("text", "iconLineMultiplier", &out.IconLineMultiplier)
	floatVal("text", "dividerLineMultiplier", &out.DividerLineMultiplier)
	if v := s.Value("text", "dividerAssets"); v != "" {
		out.DividerAssets = splitList(v)
	}
	floatVal("text", "minAbilityFontSize", &out.MinAbilityFontSize)
	floatVal("text", "abilityPadding", &out.AbilityPadding)
	stringVal("text", "activateSymbol", &out.ActivateSymbol)
	floatVal("text", "activateSymbolHeight", &out.ActivateSymbolHeight)
	floatVal("text", "sideColumnGap", &out.SideColumnGap)

	stringVal("color", "fontColor", &out.FontColor)
	stringVal("color", "numeralColor", &out.NumeralColor)

	fontVal("title", &out.TitleFont)
	fontVal("ability", &out.AbilityFont)
	fontVal("type", &out.TypeFont)
	fontVal("element", &out.ElementFont)
	fontVal("numeral", &out.NumeralFont)

	for _, name := range BoxNames {
		key := strings.ToLower(name[:1]) + name[1:] + "Box"
		v := s.Value("card", key)
		if v == "" {
			continue
		}
		b, err := ParseBox(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: card/%s: %w", key, err))
			continue
		}
		out.Boxes[name] = b
	}
	if v := s.Value("card", "imageAreaHeight"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: card/imageAreaHeight: %w", err))
		} else {
			out.ImageAreaHeight = n
		}
	}

	return out, errors.Join(errs...)
}

// ParseBox parses "x,y,w,h".
func ParseBox(v string) (Box, error) {
	parts := splitList(v)
	if len(parts) != 4 {
		return Box{}, fmt.Errorf("want x,y,w,h, got %q", v)
	}
	var n [4]int
	for i, p := range parts {
		x, err := strconv.Atoi(p)
		if err != nil {
			return Box{}, err
		}
		n[i] = x
	}
	return Box{X: n[0], Y: n[1], W: n[2], H: n[3]}, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
