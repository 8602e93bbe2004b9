package card2png

import (
	"image"
	"math"
	"strings"
	"testing"
)

func planFor(t *testing.T, a AbilityText, size float64) (*Renderer, abilityPlan) {
	t.Helper()
	r, styles := newTestRenderer(t)
	m := r.metrics(styles.Ability.Family, false)
	plan := r.planAbility(r.tokenizeAbility(a, styles.Ability), r.activateSymbol(), m, 1190, size)
	return r, plan
}

func partKinds(plan abilityPlan) []partKind {
	out := make([]partKind, len(plan.parts))
	for i, p := range plan.parts {
		out[i] = p.kind
	}
	return out
}

func TestPlanAbilitySideColumn(t *testing.T) {
	_, plan := planFor(t, AbilityText{
		Ability:         "Draw a card.",
		ActivateAbility: "Gain 2 Power.",
	}, 60)
	if got := partKinds(plan); len(got) != 2 || got[0] != partMain || got[1] != partActivate {
		t.Fatalf("parts %v", got)
	}
	side := plan.parts[1]
	if !side.side {
		t.Fatalf("activate text without a cost should use the side column")
	}
	// 1190 - 120px symbol - 20px gap
	if side.width != 1050 {
		t.Fatalf("side column width %v", side.width)
	}
	if side.height < 120 {
		t.Fatalf("activate row should be at least the symbol height, got %v", side.height)
	}
}

func TestSideColumnAssetClearsSymbol(t *testing.T) {
	r, plan := planFor(t, AbilityText{
		Ability:         "Draw a card.",
		ActivateAbility: "Power_",
	}, 60)
	side := plan.parts[1]
	if !side.side || len(side.layout.Lines) != 1 || !side.layout.Lines[0].Asset {
		t.Fatalf("expected a side column holding one asset line, got %+v", side)
	}
	if side.layout.Width != 0 {
		t.Fatalf("asset lines have no text width, got %v", side.layout.Width)
	}
	// Power is square, so it is as wide as its line is high.
	if w := r.columnWidth(side); math.Abs(w-side.layout.Lines[0].Height) > 1e-9 {
		t.Fatalf("column width %v, want %v", w, side.layout.Lines[0].Height)
	}

	_, styles := newTestRenderer(t)
	img := r.RenderAbility(AbilityText{Ability: "Draw a card.", ActivateAbility: "Power_"}, styles.Ability, Box{W: 1190, H: 690})
	symbolRight, iconLeft := -1, img.Bounds().Dx()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A < 0x80 {
				continue
			}
			switch {
			case c.R > 200 && c.G > 200 && c.B > 200:
				symbolRight = max(symbolRight, x)
			case c.R > 200 && c.G < 60 && c.B < 60:
				iconLeft = min(iconLeft, x)
			}
		}
	}
	if symbolRight < 0 || iconLeft == b.Dx() {
		t.Fatalf("symbol or icon not drawn: symbol right %d, icon left %d", symbolRight, iconLeft)
	}
	if iconLeft <= symbolRight {
		t.Fatalf("icon starts at x=%d, overlapping the symbol which ends at x=%d", iconLeft, symbolRight)
	}
}

func TestPlanAbilityStacked(t *testing.T) {
	r, plan := planFor(t, AbilityText{
		Ability:         "Draw a card.",
		ActivateCost:    "Discard a card:",
		ActivateAbility: "Gain 2 Power.",
		GainsAction:     "Power",
	}, 60)
	got := partKinds(plan)
	want := []partKind{partMain, partActivate, partActivateText, partGains}
	if len(got) != len(want) {
		t.Fatalf("parts %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parts %v, want %v", got, want)
		}
	}
	if plan.parts[1].side {
		t.Fatalf("a cost keeps the activate text below the symbol")
	}
	if plan.parts[3].tokens[0].Kind != Asset {
		t.Fatalf("gains action should be drawn as its asset")
	}

	var sum float64
	for _, p := range plan.parts {
		sum += p.height
	}
	sum += 3 * r.Settings.AbilityPadding
	if plan.height != sum {
		t.Fatalf("plan height %v, want %v", plan.height, sum)
	}
}

func TestGainsActionWithoutAssetIsText(t *testing.T) {
	r, styles := newTestRenderer(t)
	buf := captureLog(t)
	tok := r.tokenizeAbility(AbilityText{GainsAction: "Teleport"}, styles.Ability)
	if len(tok.gains) != 1 || tok.gains[0].Kind != Word {
		t.Fatalf("gains tokens %+v", tok.gains)
	}
	if !strings.Contains(buf.String(), "gains action asset not found") {
		t.Fatalf("expected a warning, log: %s", buf)
	}
}

func TestRenderAbilityShrinksToFit(t *testing.T) {
	r, styles := newTestRenderer(t)
	box := Box{W: 1190, H: 690}
	a := AbilityText{Ability: strings.Repeat("Each hero gains 2 Power and draws a card. ", 8)}

	m := r.metrics(styles.Ability.Family, false)
	tok := r.tokenizeAbility(a, styles.Ability)
	if h := r.planAbility(tok, symbol{}, m, 1190, styles.Ability.Size).height; h <= 690 {
		t.Fatalf("text should overflow at the base size, height %v", h)
	}

	buf := captureLog(t)
	img := r.RenderAbility(a, styles.Ability, box)
	if img.Bounds() != image.Rect(0, 0, 1190, 690) || !hasInk(img) {
		t.Fatalf("ability image %v", img.Bounds())
	}
	if strings.Contains(buf.String(), "minimum font size") {
		t.Fatalf("text should fit before the minimum size, log: %s", buf)
	}
}

func TestRenderAbilityBelowMinimumStillDraws(t *testing.T) {
	r, styles := newTestRenderer(t)
	buf := captureLog(t)
	a := AbilityText{Ability: strings.Repeat("Each hero gains 2 Power and draws a card. ", 40)}
	img := r.RenderAbility(a, styles.Ability, Box{W: 600, H: 200})
	if !hasInk(img) {
		t.Fatalf("ability should still be drawn at the minimum size")
	}
	if !strings.Contains(buf.String(), "minimum font size") {
		t.Fatalf("expected a minimum size warning, log: %s", buf)
	}
}

func TestRenderAbilityGainPowerNumeral(t *testing.T) {
	r, styles := newTestRenderer(t)
	box := Box{W: 400, H: 300}
	plain := r.RenderAbility(AbilityText{Ability: "GainPower_"}, styles.Ability, box)
	numbered := r.RenderAbility(AbilityText{Ability: "Gain3Power_"}, styles.Ability, box)
	if !hasInk(plain) {
		t.Fatalf("icon not drawn")
	}
	if string(plain.Pix) == string(numbered.Pix) {
		t.Fatalf("Gain3Power should draw a numeral over the icon")
	}
}

func TestRenderEmptyAbility(t *testing.T) {
	r, styles := newTestRenderer(t)
	if hasInk(r.RenderAbility(AbilityText{}, styles.Ability, Box{W: 10, H: 10})) {
		t.Fatalf("empty ability should be blank")
	}
}
