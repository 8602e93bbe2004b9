package card2png

// ---- Flow layout ----

// Line is one laid-out row: tokens[Start:End] drawn from X, with the row's
// top at Y. Asset lines hold exactly one Asset token.
type Line struct {
	Start, End int
	X, Y       float64
	Baseline   float64
	Width      float64
	Height     float64
	Asset      bool
}

// Layout is the result of wrapping a token stream.
type Layout struct {
	Lines  []Line
	Height float64
	// Width is the widest text line.
	Width float64
}

// WrapOptions configure Wrap.
type WrapOptions struct {
	MaxWidth float64
	Size     float64
	// Center is the x every line is centred on; 0 means MaxWidth/2.
	Center float64
	// AssetHeight returns the height of an asset line given the text line
	// height. Nil reserves one line height per asset.
	AssetHeight func(tok Token, lineHeight float64) float64
}

// Wrap breaks tokens into lines no wider than opts.MaxWidth. Newlines and
// assets always close the current line, assets take a line of their own (a
// newline directly after one is absorbed), and
// spaces are only charged between words on the same line. The same layout is
// used to measure and to draw.
func Wrap(tokens []Token, m Measurer, opts WrapOptions) Layout {
	var out Layout
	lh := m.LineHeight(opts.Size)
	ascent := m.Ascent(opts.Size)
	center := opts.Center
	if center == 0 {
		center = opts.MaxWidth / 2
	}

	skipSpaces := func(i int) int {
		for i < len(tokens) && tokens[i].Kind == Space {
			i++
		}
		return i
	}

	y := 0.0
	i := skipSpaces(0)
	for i < len(tokens) {
		if tokens[i].Kind == Asset {
			h := lh
			if opts.AssetHeight != nil {
				h = opts.AssetHeight(tokens[i], lh)
			}
			out.Lines = append(out.Lines, Line{
				Start:    i,
				End:      i + 1,
				X:        center,
				Y:        y,
				Baseline: y + h,
				Height:   h,
				Asset:    true,
			})
			y += h
			// The asset already ended its line; a newline marker right after
			// it does not add a blank one.
			i = skipSpaces(i + 1)
			if i < len(tokens) && tokens[i].Kind == Newline {
				i = skipSpaces(i + 1)
			}
			continue
		}

		start, end := i, i
		var width, pending float64
	line:
		for i < len(tokens) {
			tok := tokens[i]
			switch tok.Kind {
			case Asset:
				break line
			case Newline:
				i++
				break line
			case Space:
				pending += m.Measure(tok, opts.Size).W
				i++
				continue
			}
			w := m.Measure(tok, opts.Size).W
			if end > start && width+pending+w > opts.MaxWidth {
				break line
			}
			if end > start {
				width += pending
			}
			width += w
			pending = 0
			i++
			end = i
		}

		out.Lines = append(out.Lines, Line{
			Start:    start,
			End:      end,
			X:        center - width/2,
			Y:        y,
			Baseline: y + ascent,
			Width:    width,
			Height:   lh,
		})
		if width > out.Width {
			out.Width = width
		}
		y += lh
		i = skipSpaces(i)
	}
	out.Height = y
	return out
}

// Tokens returns the tokens of l.
func (l Line) Tokens(tokens []Token) []Token {
	if l.Start < 0 || l.End > len(tokens) || l.Start > l.End {
		return nil
	}
	return tokens[l.Start:l.End]
}
