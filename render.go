package card2png

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/arran4/card2png/compose"
	"github.com/arran4/card2png/config"
)

// Element names, used for intermediary file names and compositing boxes.
const (
	ElementTitle    = "Title"
	ElementAbility  = "Ability"
	ElementType     = "Type"
	ElementCost     = "Cost"
	ElementStrength = "Strength"
	ElementTopRight = "TopRightElement"
)

// TextStyle is the resolved font, base size and colour of a field.
type TextStyle struct {
	Family *FontFamily
	Size   float64
	Color  color.Color
}

// Box is a field's maximum extent in pixels.
type Box struct {
	W, H int
}

// Renderer lays out and paints card fields. The keyword table, asset store
// and face cache are shared read-only across every card of a batch.
type Renderer struct {
	Keywords *KeywordTable
	Assets   *AssetStore
	Faces    *FaceCache
	Settings config.Settings
	// Numeral styles the number drawn over Gain<N>Power icons.
	Numeral TextStyle

	log *slog.Logger
}

// NewRenderer builds a renderer over shared batch resources.
func NewRenderer(s config.Settings, kw *KeywordTable, assets *AssetStore, faces *FaceCache) *Renderer {
	if faces == nil {
		faces = NewFaceCache()
	}
	if assets != nil {
		assets.IconMultiplier = s.IconLineMultiplier
		assets.DividerMultiplier = s.DividerLineMultiplier
		if assets.Dividers == nil {
			assets.Dividers = map[string]bool{}
		}
		for _, name := range s.DividerAssets {
			assets.Dividers[name] = true
		}
	}
	return &Renderer{Keywords: kw, Assets: assets, Faces: faces, Settings: s}
}

// WithCard returns a copy of r whose log records name the card.
func (r *Renderer) WithCard(name string) *Renderer {
	cp := *r
	cp.log = r.logger().With("card", name)
	return &cp
}

func (r *Renderer) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return Logger()
}

func (r *Renderer) markers() Markers {
	s := r.Settings
	return Markers{
		Escape:  s.EscapeCharacter,
		Newline: s.NewlineCharacter,
		Italic:  s.ItalicCharacter,
		Asset:   s.AssetCharacter,
	}
}

// tokenizer returns a tokenizer for styled fields, or one that knows no
// keywords and no assets for plain single-line fields.
func (r *Renderer) tokenizer(styled bool) *Tokenizer {
	t := &Tokenizer{Markers: r.markers()}
	if styled {
		t.Keywords = r.Keywords
		if r.Assets != nil {
			t.Assets = r.Assets
		}
	} else {
		t.Markers.Asset = 0
	}
	return t
}

func (r *Renderer) metrics(fam *FontFamily, upper bool) *FaceMetrics {
	return &FaceMetrics{
		Family:      fam,
		Faces:       r.Faces,
		SpaceShrink: r.Settings.SpaceShrink,
		LineSpacing: r.Settings.LineSpacing,
		Upper:       upper,
	}
}

func (r *Renderer) painter(c *canvas, m *FaceMetrics, size float64) *painter {
	return &painter{
		c:       c,
		metrics: m,
		size:    size,
		assets:  r.Assets,
		marker:  r.Settings.AssetCharacter,
		numeral: r.Numeral,
	}
}

// assetHeight sizes asset lines by their configured line multiplier.
func (r *Renderer) assetHeight(tok Token, lineHeight float64) float64 {
	return r.Assets.LineMultiplier(tok.AssetName(r.Settings.AssetCharacter)) * lineHeight
}

// ---- Single-line fields ----

// RenderTitle draws text upper-cased on one line, centred in box and
// squished horizontally when it is too wide.
func (r *Renderer) RenderTitle(text string, st TextStyle, box Box) *image.NRGBA {
	tokens := r.tokenizer(false).Tokenize(upperCase(text), Style{Color: st.Color}, false)
	return r.renderSingleLine(tokens, r.metrics(st.Family, false), st, box)
}

// RenderType draws a type line: upper-cased, keyword-coloured, '/'
// separated, on one squish-fitted line.
func (r *Renderer) RenderType(text string, st TextStyle, box Box) *image.NRGBA {
	tokens := r.tokenizer(true).Tokenize(text, Style{Color: st.Color}, true)
	return r.renderSingleLine(padSeparators(tokens), r.metrics(st.Family, true), st, box)
}

// RenderCornerElement draws a short value such as a cost or strength.
func (r *Renderer) RenderCornerElement(text string, st TextStyle, box Box) *image.NRGBA {
	tokens := r.tokenizer(false).Tokenize(text, Style{Color: st.Color}, false)
	return r.renderSingleLine(tokens, r.metrics(st.Family, false), st, box)
}

// padSeparators surrounds the '/' tokens of a type line with spaces.
func padSeparators(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)+4)
	for _, tok := range tokens {
		if tok.Kind == Word && tok.Text == "/" {
			sp := Token{Text: " ", Kind: Space, Style: tok.Style}
			out = append(out, sp, tok, sp)
			continue
		}
		out = append(out, tok)
	}
	return out
}

// singleLine flattens a token stream onto one line.
func singleLine(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == Newline || tok.Kind == Asset {
			tok.Kind = Space
			tok.Text = " "
		}
		out = append(out, tok)
	}
	return out
}

func (r *Renderer) renderSingleLine(tokens []Token, m *FaceMetrics, st TextStyle, box Box) *image.NRGBA {
	dst := newCanvas(box.W, box.H)
	tokens = singleLine(tokens)
	natural := textWidth(m, tokens, st.Size)
	if natural <= 0 {
		return dst.img
	}
	scale := SquishRatio(natural, float64(dst.w))

	lay := Wrap(tokens, m, WrapOptions{MaxWidth: math.Inf(1), Size: st.Size, Center: natural / 2})
	lh := m.LineHeight(st.Size)
	top := (float64(dst.h) - lh) / 2

	// Paint at natural width, then blit scaled into the box.
	pad := int(math.Ceil(fauxBoldOffset(st.Size))) + 2
	line := newCanvas(int(math.Ceil(natural))+pad, dst.h)
	p := r.painter(line, m, st.Size)
	p.drawLayout(tokens, lay, 0, top, natural)

	w := int(math.Round(float64(line.w) * scale))
	x := int(math.Round((float64(dst.w) - natural*scale) / 2))
	if scale < 1 {
		r.logger().Debug("squishing single-line text", "natural", natural, "max", dst.w, "scale", scale)
	}
	dst.drawSquished(line.img, x, w)
	return dst.img
}

// SavePNG writes one element image to dir/name.png.
func SavePNG(dir, name string, img image.Image) (string, error) {
	path := filepath.Join(dir, name+".png")
	if err := compose.SavePNG(path, img); err != nil {
		return "", fmt.Errorf("card2png: save %s: %w", name, err)
	}
	Logger().Info("image saved", "path", path)
	return path, nil
}
