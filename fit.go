package card2png

import "math"

// DefaultFontDecrease is the shrink-to-fit step used when none is configured.
const DefaultFontDecrease = 0.5

// ShrinkToFit lowers the font size from start by step until measure(size)
// fits in budget. It stops at floor and reports false if even the floor
// overflows; callers render at the floor anyway.
func ShrinkToFit(start, floor, step, budget float64, measure func(size float64) float64) (float64, bool) {
	if step <= 0 {
		step = DefaultFontDecrease
	}
	if floor > start {
		floor = start
	}
	size := start
	for {
		h := measure(size)
		if h <= budget {
			return size, true
		}
		if size <= floor {
			Logger().Debug("shrink-to-fit reached floor", "size", floor, "height", h, "budget", budget)
			return floor, false
		}
		size = math.Max(size-step, floor)
	}
}

// SquishRatio is the horizontal scale that makes natural fit maxWidth. It is
// 1 when the text already fits.
func SquishRatio(natural, maxWidth float64) float64 {
	if natural <= maxWidth || natural <= 0 || maxWidth <= 0 {
		return 1
	}
	return maxWidth / natural
}
