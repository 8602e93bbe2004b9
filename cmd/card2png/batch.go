package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/arran4/card2png"
	"github.com/arran4/card2png/carddata"
	"github.com/arran4/card2png/compose"
	"github.com/arran4/card2png/config"
	"github.com/arran4/card2png/textfile"
)

// batch holds everything loaded once per run: settings, fonts, keyword
// colours and assets. Nothing in it changes while cards render.
type batch struct {
	root     string
	outDir   string
	keep     bool
	settings config.Settings
	renderer *card2png.Renderer
	styles   card2png.CardStyles
}

func newBatch(root, outDir string, keep bool) (*batch, error) {
	store, err := config.Load(filepath.Join(root, "config"))
	if err != nil {
		return nil, err
	}
	settings, err := config.FromStore(store)
	if err != nil {
		return nil, err
	}
	fontColor, err := card2png.ParseColor(settings.FontColor)
	if err != nil {
		return nil, fmt.Errorf("color/fontColor: %w", err)
	}
	numeralColor, err := card2png.ParseColor(settings.NumeralColor)
	if err != nil {
		return nil, fmt.Errorf("color/numeralColor: %w", err)
	}

	textDir := filepath.Join(root, "text")
	colors, err := readList(filepath.Join(textDir, "Colors.txt"))
	if err != nil {
		return nil, err
	}
	keywords, err := readList(filepath.Join(textDir, "Keywords.txt"))
	if err != nil {
		return nil, err
	}
	table := card2png.BuildKeywordTable(colors, keywords, store, fontColor)
	card2png.Logger().Debug("keyword table built", "variants", table.Len())

	fonts := card2png.NewFontLoader(filepath.Join(root, "fonts"))
	family := func(spec config.FontSpec) (*card2png.FontFamily, error) {
		return fonts.LoadFamily(spec.File, spec.Bold, spec.Italic, spec.BoldItalic)
	}
	styles := card2png.CardStyles{}
	for _, f := range []struct {
		spec config.FontSpec
		dst  *card2png.TextStyle
		col  color.Color
	}{
		{settings.TitleFont, &styles.Title, fontColor},
		{settings.AbilityFont, &styles.Ability, fontColor},
		{settings.TypeFont, &styles.Type, fontColor},
		{settings.ElementFont, &styles.Element, fontColor},
	} {
		fam, err := family(f.spec)
		if err != nil {
			return nil, err
		}
		*f.dst = card2png.TextStyle{Family: fam, Size: f.spec.Size, Color: f.col}
	}
	numeral, err := family(settings.NumeralFont)
	if err != nil {
		return nil, err
	}

	assets := card2png.NewAssetStore(filepath.Join(root, "assets"))
	r := card2png.NewRenderer(settings, table, assets, card2png.NewFaceCache())
	r.Numeral = card2png.TextStyle{Family: numeral, Size: settings.NumeralFont.Size, Color: numeralColor}

	return &batch{
		root:     root,
		outDir:   outDir,
		keep:     keep,
		settings: settings,
		renderer: r,
		styles:   styles,
	}, nil
}

func readList(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", card2png.ErrMissingResource, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := textfile.ParseList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// run renders every card in dataPath, one after another. Bad rows and
// cards are logged and skipped.
func (b *batch) run(dataPath string) error {
	log := card2png.Logger()
	f, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("%w: card data %s", card2png.ErrMissingResource, dataPath)
	}
	cards, bad, err := carddata.Read(f)
	f.Close()
	if err != nil {
		return err
	}
	for _, e := range bad {
		log.Warn("skipping card row", "line", e.Line, "err", e.Err)
	}

	done := 0
	for _, card := range cards {
		if err := b.renderCard(card); err != nil {
			log.Warn("skipping card", "card", card.Name, "err", err)
			continue
		}
		done++
	}
	log.Info("batch complete", "cards", done, "skipped", len(cards)-done+len(bad))
	return nil
}

// fallbackArt fills the art area of cards without their own image.
const fallbackArt = "black_bg"

// fileName makes a card name safe to use as a single path element.
func fileName(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func (b *batch) renderCard(card carddata.Card) error {
	elements, err := b.renderer.RenderCard(card, b.styles)
	if err != nil {
		return err
	}
	name := fileName(card.Name)
	if b.keep {
		if err := elements.Save(filepath.Join(b.outDir, "elements", name)); err != nil {
			return err
		}
	}

	template, err := compose.FindImage(filepath.Join(b.root, "templates"), fileName(card.Deck))
	if errors.Is(err, compose.ErrNoImage) {
		return fmt.Errorf("%w: template for deck %q: %w", card2png.ErrMissingResource, card.Deck, err)
	}
	if err != nil {
		return fmt.Errorf("template for deck %q: %w", card.Deck, err)
	}
	art, err := compose.FindImage(filepath.Join(b.root, "images"), name)
	if err != nil {
		card2png.Logger().Debug("no card art, using the fallback", "card", card.Name, "err", err)
		art, err = b.renderer.Assets.Load(fallbackArt)
		if err != nil {
			card2png.Logger().Debug("no fallback art, leaving art area empty", "err", err)
			art = nil
		}
	}

	boxes := make(map[string]image.Rectangle, len(b.settings.Boxes))
	for el, box := range b.settings.Boxes {
		boxes[el] = box.Rect()
	}
	layout := compose.Layout{
		Size:  template.Bounds().Size(),
		Art:   b.settings.Boxes["Art"].Rect(),
		Boxes: boxes,
	}
	if b.settings.ImageAreaHeight > 0 {
		layout.Art.Max.Y = layout.Art.Min.Y + b.settings.ImageAreaHeight
	}
	out := compose.Compose(template, art, elements.Images(), card2png.ElementOrder, layout)
	path := filepath.Join(b.outDir, "export", name+".png")
	if err := compose.SavePNG(path, out); err != nil {
		return err
	}
	card2png.Logger().Info("card exported", "card", card.Name, "path", path)
	return nil
}
