package card2png

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorLookup resolves named colours, typically color-config.txt entries.
type ColorLookup interface {
	Value(section, key string) string
}

// KeywordTable maps keyword text (and every alias of it) to a display colour.
// It is built once per batch and only read afterwards.
type KeywordTable struct {
	colors map[string]color.Color
}

// NewKeywordTable builds a table directly from keyword → colour pairs.
func NewKeywordTable(m map[string]color.Color) *KeywordTable {
	kt := &KeywordTable{colors: make(map[string]color.Color, len(m))}
	for k, v := range m {
		kt.colors[k] = v
	}
	return kt
}

// BuildKeywordTable links keyword aliases to their base colour.
//
// colors holds lines of the form {base} or {base, hex}; a lone base takes its
// colour from cfg ("color", "<base>Color"). keywords holds lines of the form
// {base, alias, alias...}. Keywords whose base has no usable colour are still
// recognised (and bolded) in the fallback colour.
func BuildKeywordTable(colors, keywords [][]string, cfg ColorLookup, fallback color.Color) *KeywordTable {
	base := make(map[string]color.Color)
	for _, line := range colors {
		if len(line) == 0 || line[0] == "" {
			continue
		}
		name := line[0]
		var raw string
		if len(line) == 1 {
			if cfg != nil {
				raw = cfg.Value("color", strings.ToLower(name)+"Color")
			}
		} else {
			raw = line[1]
		}
		if raw == "" {
			base[name] = fallback
			continue
		}
		c, err := ParseColor(raw)
		if err != nil {
			Logger().Warn("invalid keyword colour, using font colour", "keyword", name, "value", raw, "err", err)
			base[name] = fallback
			continue
		}
		base[name] = c
	}

	kt := &KeywordTable{colors: make(map[string]color.Color)}
	for _, line := range keywords {
		if len(line) == 0 {
			continue
		}
		c, ok := base[line[0]]
		if !ok || c == nil {
			c = fallback
		}
		for _, variant := range line {
			if variant != "" {
				kt.colors[variant] = c
			}
		}
	}
	return kt
}

// Lookup returns the colour of a keyword. A nil table knows no keywords.
func (kt *KeywordTable) Lookup(word string) (color.Color, bool) {
	if kt == nil || word == "" {
		return nil, false
	}
	c, ok := kt.colors[word]
	return c, ok
}

// Len reports the number of recognised keyword variants.
func (kt *KeywordTable) Len() int {
	if kt == nil {
		return 0
	}
	return len(kt.colors)
}

// ParseColor parses "d7b06c", "#d7b06c" or "#abc".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("card2png: empty colour")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("card2png: colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
