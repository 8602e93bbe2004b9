package card2png

import (
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ---- Tokens ----

// Kind classifies a token for the line wrapper.
type Kind int

const (
	Word Kind = iota
	Space
	Newline
	Asset
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Space:
		return "space"
	case Newline:
		return "newline"
	case Asset:
		return "asset"
	default:
		return "unknown"
	}
}

// Weight is a bit set: Bold and Italic combine into BoldItalic.
type Weight uint8

const (
	Regular    Weight = 0
	Bold       Weight = 1
	Italic     Weight = 2
	BoldItalic Weight = Bold | Italic
)

func (w Weight) Bold() bool   { return w&Bold != 0 }
func (w Weight) Italic() bool { return w&Italic != 0 }

// Style is the resolved display style of a token.
type Style struct {
	Color  color.Color
	Weight Weight
}

// Token is the smallest unit of layout. Styling is resolved once by the
// tokenizer and never changed afterwards.
type Token struct {
	Text string
	Kind Kind
	Style
}

// AssetName strips the trailing asset marker from an Asset token.
func (t Token) AssetName(marker rune) string {
	return strings.TrimSuffix(t.Text, string(marker))
}

// ---- Markers ----

// Markers are the control characters understood by the tokenizer.
type Markers struct {
	Escape  rune
	Newline rune
	Italic  rune
	Asset   rune
}

// DefaultMarkers matches the stock text-config.txt.
var DefaultMarkers = Markers{
	Escape:  '\\',
	Newline: '|',
	Italic:  '$',
	Asset:   '_',
}

// punctuation hugs the ends of words.
const punctuation = ".?!,;:/-"

func isPunctuation(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}

// AssetLookup reports whether an embedded asset exists.
type AssetLookup interface {
	Exists(name string) bool
}

// ---- Tokenizer ----

// Tokenizer turns markup-annotated card text into styled tokens. It holds no
// mutable state and may be shared between renders.
type Tokenizer struct {
	Markers  Markers
	Keywords *KeywordTable
	// Assets restricts which marker-suffixed words become Asset tokens. When
	// nil every such word is treated as an asset.
	Assets AssetLookup
}

type scanState int

const (
	stateNormal scanState = iota
	stateWordBuilding
	stateEscapeNext
)

type scanner struct {
	t         *Tokenizer
	def       Style
	typeField bool

	state   scanState
	word    strings.Builder
	noStyle bool
	italic  bool
	out     []Token
}

// Tokenize scans text left to right. In type fields spaces stay inside the
// word and '/' separates words. Keyword lookups that miss fall back to def.
func (t *Tokenizer) Tokenize(text string, def Style, typeField bool) []Token {
	s := &scanner{t: t, def: def, typeField: typeField}
	for _, r := range text {
		s.step(r)
	}
	s.flush()
	return s.out
}

func (s *scanner) step(r rune) {
	if s.state == stateEscapeNext {
		s.word.WriteRune(r)
		s.state = stateWordBuilding
		return
	}
	m := s.t.Markers
	switch {
	case r == m.Escape:
		if s.state == stateNormal {
			s.noStyle = true
		}
		s.state = stateEscapeNext
	case r == '\r':
	case r == m.Newline || r == '\n':
		s.flush()
		s.out = append(s.out, Token{Text: "\n", Kind: Newline, Style: s.def})
	case r == m.Italic:
		s.flush()
		s.italic = !s.italic
	case s.typeField && r == '/':
		s.flush()
		s.emitPunctuation(r)
	case r == ' ' && !s.typeField:
		s.flush()
		s.out = append(s.out, Token{Text: " ", Kind: Space, Style: s.def})
	case isPunctuation(r) && s.state == stateWordBuilding:
		s.flush()
		s.emitPunctuation(r)
	default:
		s.word.WriteRune(r)
		s.state = stateWordBuilding
	}
}

func (s *scanner) emitPunctuation(r rune) {
	st := s.def
	if s.italic {
		st.Weight |= Italic
	}
	s.out = append(s.out, Token{Text: string(r), Kind: Word, Style: st})
}

// flush emits the word built so far, if any, and returns to stateNormal.
func (s *scanner) flush() {
	noStyle := s.noStyle
	s.noStyle = false
	if s.state == stateNormal {
		return
	}
	s.state = stateNormal
	raw := s.word.String()
	s.word.Reset()
	if s.typeField {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		return
	}
	if !noStyle && s.t.isAsset(raw) {
		s.out = append(s.out, Token{Text: raw, Kind: Asset, Style: s.def})
		return
	}
	s.out = append(s.out, Token{Text: raw, Kind: Word, Style: s.resolve(raw, noStyle)})
}

func (s *scanner) resolve(word string, noStyle bool) Style {
	key := word
	if s.typeField {
		key = capitalize(word)
	}
	if !noStyle {
		if c, ok := s.t.Keywords.Lookup(key); ok {
			w := Bold
			if s.italic {
				w = BoldItalic
			}
			return Style{Color: c, Weight: w}
		}
	}
	st := s.def
	if s.italic {
		st.Weight |= Italic
	}
	return st
}

func (t *Tokenizer) isAsset(word string) bool {
	marker := t.Markers.Asset
	if marker == 0 || utf8.RuneCountInString(word) < 2 {
		return false
	}
	if last, _ := utf8.DecodeLastRuneInString(word); last != marker {
		return false
	}
	if t.Assets == nil {
		return true
	}
	name := strings.TrimSuffix(word, string(marker))
	if t.Assets.Exists(name) {
		return true
	}
	Logger().Debug("asset reference not found, drawing as text", "asset", name)
	return false
}

// capitalize lower-cases s and upper-cases its first rune: "SUPER VILLAIN"
// becomes "Super villain".
func capitalize(s string) string {
	lower := cases.Lower(language.Und).String(s)
	r, n := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(r)) + lower[n:]
}
