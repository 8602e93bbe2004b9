package card2png

import (
	"image"
	"math"
	"strings"
)

// AbilityText is the text of an ability box. Any combination of parts may
// be present.
type AbilityText struct {
	Ability         string
	ActivateCost    string
	ActivateAbility string
	GainsAction     string
}

// Empty reports whether nothing would be drawn.
func (a AbilityText) Empty() bool {
	return a.Ability == "" && a.ActivateCost == "" && a.ActivateAbility == "" && a.GainsAction == ""
}

type partKind int

const (
	partMain partKind = iota
	partActivate
	partActivateText
	partGains
)

// abilityTokens holds the size-independent token streams of each part.
type abilityTokens struct {
	main, cost, activate, gains []Token
}

// symbol is the activate symbol at its fixed height.
type symbol struct {
	img  image.Image
	w, h float64
}

// abilityPart is one vertically stacked block of the ability box.
type abilityPart struct {
	kind   partKind
	height float64

	tokens []Token
	layout Layout
	// Width the layout was wrapped to.
	width float64

	// partActivate only: the symbol is drawn on the left of the row and the
	// layout (cost text, or activate text in side-column mode) beside it.
	side bool
}

type abilityPlan struct {
	parts  []abilityPart
	height float64
}

func (r *Renderer) tokenizeAbility(a AbilityText, st TextStyle) abilityTokens {
	tk := r.tokenizer(true)
	def := Style{Color: st.Color}
	var out abilityTokens
	out.main = tk.Tokenize(a.Ability, def, false)
	out.cost = tk.Tokenize(a.ActivateCost, def, false)
	out.activate = tk.Tokenize(a.ActivateAbility, def, false)
	if a.GainsAction != "" {
		marker := string(r.Settings.AssetCharacter)
		name := strings.TrimSuffix(a.GainsAction, marker)
		if r.Assets.Exists(name) {
			out.gains = []Token{{Text: name + marker, Kind: Asset, Style: def}}
		} else {
			r.logger().Warn("gains action asset not found, drawing as text", "asset", name)
			out.gains = tk.Tokenize(a.GainsAction, def, false)
		}
	}
	return out
}

func (r *Renderer) activateSymbol() symbol {
	h := r.Settings.ActivateSymbolHeight
	sym := symbol{w: h, h: h}
	if r.Settings.ActivateSymbol == "" || r.Assets == nil {
		return sym
	}
	img, err := r.Assets.Load(r.Settings.ActivateSymbol)
	if err != nil {
		r.logger().Warn("activate symbol unavailable", "asset", r.Settings.ActivateSymbol, "err", err)
		return sym
	}
	if b := img.Bounds(); b.Dy() > 0 {
		sym.w = h * float64(b.Dx()) / float64(b.Dy())
	}
	sym.img = img
	return sym
}

// planAbility measures every present part at size. The total is the sum of
// the parts plus one padding per adjacent pair.
//
// The activate symbol sits beside its cost text, with the activate ability
// below. When the card also has a main ability and the activate ability has
// no cost, the activate ability is wrapped to the narrower side column and
// placed beside the symbol instead.
func (r *Renderer) planAbility(tok abilityTokens, sym symbol, m *FaceMetrics, width, size float64) abilityPlan {
	wrap := func(tokens []Token, maxWidth float64) Layout {
		return Wrap(tokens, m, WrapOptions{MaxWidth: maxWidth, Size: size, AssetHeight: r.assetHeight})
	}
	var plan abilityPlan
	add := func(p abilityPart) {
		plan.parts = append(plan.parts, p)
	}

	hasMain := len(tok.main) > 0
	hasCost := len(tok.cost) > 0
	hasActivate := len(tok.activate) > 0
	gap := r.Settings.SideColumnGap
	sideWidth := math.Max(width-sym.w-gap, 1)

	if hasMain {
		lay := wrap(tok.main, width)
		add(abilityPart{kind: partMain, tokens: tok.main, layout: lay, width: width, height: lay.Height})
	}
	if hasCost || hasActivate {
		if hasMain && !hasCost {
			lay := wrap(tok.activate, sideWidth)
			add(abilityPart{
				kind: partActivate, tokens: tok.activate, layout: lay, width: sideWidth,
				height: math.Max(sym.h, lay.Height), side: true,
			})
		} else {
			lay := wrap(tok.cost, sideWidth)
			add(abilityPart{
				kind: partActivate, tokens: tok.cost, layout: lay, width: sideWidth,
				height: math.Max(sym.h, lay.Height),
			})
			if hasActivate {
				lay := wrap(tok.activate, width)
				add(abilityPart{kind: partActivateText, tokens: tok.activate, layout: lay, width: width, height: lay.Height})
			}
		}
	}
	if len(tok.gains) > 0 {
		lay := wrap(tok.gains, width)
		add(abilityPart{kind: partGains, tokens: tok.gains, layout: lay, width: width, height: lay.Height})
	}

	for i, p := range plan.parts {
		if i > 0 {
			plan.height += r.Settings.AbilityPadding
		}
		plan.height += p.height
	}
	return plan
}

// RenderAbility lays out the ability box, shrinking the font until the
// stacked parts fit box.H. Hitting the minimum size is logged and the
// ability is drawn at the minimum anyway.
func (r *Renderer) RenderAbility(a AbilityText, st TextStyle, box Box) *image.NRGBA {
	c := newCanvas(box.W, box.H)
	if a.Empty() {
		return c.img
	}
	m := r.metrics(st.Family, false)
	tokens := r.tokenizeAbility(a, st)
	sym := symbol{}
	if a.ActivateCost != "" || a.ActivateAbility != "" {
		sym = r.activateSymbol()
	}
	width := float64(box.W)

	floor := r.Settings.MinAbilityFontSize
	if floor <= 0 || floor > st.Size {
		floor = st.Size
	}
	size, ok := ShrinkToFit(st.Size, floor, r.Settings.FontDecrease, float64(box.H), func(size float64) float64 {
		return r.planAbility(tokens, sym, m, width, size).height
	})
	if !ok {
		r.logger().Warn("ability text does not fit at the minimum font size", "size", size, "err", ErrBelowMinimumFontSize)
	}
	plan := r.planAbility(tokens, sym, m, width, size)

	p := r.painter(c, m, size)
	y := math.Max(0, (float64(box.H)-plan.height)/2)
	for i, part := range plan.parts {
		if i > 0 {
			y += r.Settings.AbilityPadding
		}
		r.drawPart(p, part, sym, width, y)
		y += part.height
	}
	return c.img
}

func (r *Renderer) drawPart(p *painter, part abilityPart, sym symbol, width, y float64) {
	if part.kind != partActivate {
		p.drawLayout(part.tokens, part.layout, (width-part.width)/2, y, width)
		return
	}
	// Centre symbol + gap + text as one row.
	textW := r.columnWidth(part)
	gap := r.Settings.SideColumnGap
	if textW == 0 {
		gap = 0
	}
	rowW := sym.w + gap + textW
	x0 := (width - rowW) / 2
	if sym.img != nil {
		scaled, _ := scaleToFit(sym.img, sym.h, sym.w)
		sy := y + (part.height-float64(scaled.Bounds().Dy()))/2
		p.c.drawImage(scaled, int(math.Round(x0)), int(math.Round(sy)))
	}
	// Layout lines are centred on part.width/2; move that centre to the
	// middle of the text column.
	textX := x0 + sym.w + gap
	ox := textX + textW/2 - part.width/2
	oy := y + (part.height-part.layout.Height)/2
	p.drawLayout(part.tokens, part.layout, ox, oy, part.width)
}

// columnWidth is the drawn width of a part's layout. Asset lines count at
// their scaled image width, which the wrapper does not measure.
func (r *Renderer) columnWidth(part abilityPart) float64 {
	w := part.layout.Width
	for _, line := range part.layout.Lines {
		if !line.Asset {
			continue
		}
		name := part.tokens[line.Start].AssetName(r.Settings.AssetCharacter)
		w = math.Max(w, r.Assets.Width(name, line.Height, part.width))
	}
	return w
}
