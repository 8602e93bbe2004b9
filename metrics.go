package card2png

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Size is a measured extent in pixels.
type Size struct {
	W, H float64
}

// Measurer is the metrics provider consumed by the layout engine. Measuring
// must not change any font or drawing state.
type Measurer interface {
	// Measure returns the advance width and line height of tok at size.
	Measure(tok Token, size float64) Size
	LineHeight(size float64) float64
	Ascent(size float64) float64
}

// FaceMetrics measures tokens with real font faces.
type FaceMetrics struct {
	Family *FontFamily
	Faces  *FaceCache
	// SpaceShrink scales the font's space advance; 0 means 1.
	SpaceShrink float64
	// LineSpacing scales the face height; 0 means 1.
	LineSpacing float64
	// Upper measures text upper-cased, as type fields are drawn.
	Upper bool
}

// NewFaceMetrics returns metrics for fam with neutral spacing.
func NewFaceMetrics(fam *FontFamily, faces *FaceCache) *FaceMetrics {
	if faces == nil {
		faces = NewFaceCache()
	}
	return &FaceMetrics{Family: fam, Faces: faces, SpaceShrink: 1, LineSpacing: 1}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (m *FaceMetrics) regular(size float64) font.Face {
	face, _ := m.Faces.StyledFace(m.Family, Regular, size)
	return face
}

func (m *FaceMetrics) Measure(tok Token, size float64) Size {
	lh := m.LineHeight(size)
	switch tok.Kind {
	case Newline, Asset:
		return Size{H: lh}
	case Space:
		shrink := m.SpaceShrink
		if shrink <= 0 {
			shrink = 1
		}
		face, _ := m.Faces.StyledFace(m.Family, tok.Weight, size)
		return Size{W: fixedToFloat(font.MeasureString(face, " ")) * shrink, H: lh}
	}
	text := tok.Text
	if m.Upper {
		text = upperCase(text)
	}
	face, faux := m.Faces.StyledFace(m.Family, tok.Weight, size)
	w := fixedToFloat(font.MeasureString(face, text))
	if faux && w > 0 {
		w += fauxBoldOffset(size)
	}
	return Size{W: w, H: lh}
}

func (m *FaceMetrics) LineHeight(size float64) float64 {
	spacing := m.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	return fixedToFloat(m.regular(size).Metrics().Height) * spacing
}

func (m *FaceMetrics) Ascent(size float64) float64 {
	return fixedToFloat(m.regular(size).Metrics().Ascent)
}

// fauxBoldOffset is the horizontal overstrike used when a family has no bold file.
func fauxBoldOffset(size float64) float64 {
	return math.Max(1, math.Round(size/48))
}

func upperCase(s string) string {
	return cases.Upper(language.Und).String(s)
}

// textWidth sums the advances of tokens, charging spaces only between words.
func textWidth(m Measurer, tokens []Token, size float64) float64 {
	var width, pending float64
	for _, tok := range tokens {
		switch tok.Kind {
		case Space:
			pending += m.Measure(tok, size).W
		case Newline, Asset:
			pending = 0
		default:
			if width > 0 {
				width += pending
			}
			pending = 0
			width += m.Measure(tok, size).W
		}
	}
	return width
}
