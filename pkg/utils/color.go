package utils

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
)

type Color struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

// GenerateRandomBrightColor picks every channel from [128, 255] so the
// result always reads as a pastel tone on a dark background.
func GenerateRandomBrightColor() Color {
	return Color{
		R: rand.IntN(128) + 128,
		G: rand.IntN(128) + 128,
		B: rand.IntN(128) + 128,
		A: 1,
	}
}

// RgbaToHex packs r, g and b into a 24-bit integer. Alpha is ignored.
// Channels above 255 produce garbage, callers validate first.
func RgbaToHex(c Color) int {
	hex := toHex(c.R) + toHex(c.G) + toHex(c.B)
	value, err := strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return 0
	}
	return int(value)
}

func toHex(n int) string {
	return fmt.Sprintf("%02x", int(math.Round(float64(n))))
}

var rgbaRegex = regexp.MustCompile(`rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*([\d.]+))?\)`)

func ParseRgba(value string) (Color, bool) {
	match := rgbaRegex.FindStringSubmatch(value)
	if match == nil {
		return Color{}, false
	}

	r, _ := strconv.Atoi(match[1])
	g, _ := strconv.Atoi(match[2])
	b, _ := strconv.Atoi(match[3])

	color := Color{R: r, G: g, B: b, A: 1}
	if match[4] != "" {
		a, err := strconv.ParseFloat(match[4], 64)
		if err != nil {
			return Color{}, false
		}
		color.A = a
	}

	return color, true
}
