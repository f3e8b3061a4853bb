package service

import (
	"fmt"
	"math"
	"math/rand"
)

// randomCategoryColors returns n hex colors with evenly spaced hues in
// random order, so adjacent categories rarely share a hue.
func randomCategoryColors(n int) []string {
	if n <= 0 {
		return nil
	}
	colors := make([]string, n)
	for i := range colors {
		hue := float64(i) * 360 / float64(n)
		colors[i] = hslToHex(hue, 0.7, 0.5)
	}
	rand.Shuffle(n, func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})
	return colors
}

// hslToHex converts an HSL color (h in degrees, s and l in 0..1) to a
// #RRGGBB string.
func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return fmt.Sprintf("#%02X%02X%02X",
		int(math.Round((r+m)*255)),
		int(math.Round((g+m)*255)),
		int(math.Round((b+m)*255)))
}
