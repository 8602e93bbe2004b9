package card2png

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/arran4/card2png/carddata"
)

// ElementOrder is the order elements are composited in.
var ElementOrder = []string{ElementTitle, ElementType, ElementAbility, ElementCost, ElementStrength, ElementTopRight}

// CardStyles holds the resolved style of each kind of field.
type CardStyles struct {
	Title   TextStyle
	Ability TextStyle
	Type    TextStyle
	Element TextStyle
}

// Elements maps element names to their rendered images.
type Elements map[string]*image.NRGBA

// Images returns the elements as plain images for compositing.
func (e Elements) Images() map[string]image.Image {
	out := make(map[string]image.Image, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Save writes every element to dir as <name>.png.
func (e Elements) Save(dir string) error {
	var errs []error
	for _, name := range ElementOrder {
		img, ok := e[name]
		if !ok {
			continue
		}
		if _, err := SavePNG(dir, name, img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenderCard renders every present field of card. A card without a name is
// rejected with ErrMissingText.
func (r *Renderer) RenderCard(card carddata.Card, styles CardStyles) (Elements, error) {
	if strings.TrimSpace(card.Name) == "" {
		return nil, fmt.Errorf("%w: card has no name", ErrMissingText)
	}
	rr := r.WithCard(card.Name)
	box := func(name string) Box {
		b := r.Settings.Boxes[name]
		return Box{W: b.W, H: b.H}
	}

	el := Elements{}
	el[ElementTitle] = rr.RenderTitle(card.Name, styles.Title, box(ElementTitle))
	if card.Type != "" {
		el[ElementType] = rr.RenderType(card.Type, styles.Type, box(ElementType))
	}
	ability := AbilityText{
		Ability:         card.Ability,
		ActivateCost:    card.ActivateCost,
		ActivateAbility: card.ActivateAbility,
		GainsAction:     card.GainsAction,
	}
	if !ability.Empty() {
		el[ElementAbility] = rr.RenderAbility(ability, styles.Ability, box(ElementAbility))
	}
	for _, corner := range []struct {
		name, text string
	}{
		{ElementCost, card.Cost},
		{ElementStrength, card.Strength},
		{ElementTopRight, card.TopRightElement},
	} {
		if corner.text == "" {
			continue
		}
		el[corner.name] = rr.RenderCornerElement(corner.text, styles.Element, box(corner.name))
	}
	return el, nil
}
