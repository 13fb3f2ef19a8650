package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomBrightColor(t *testing.T) {
	for i := 0; i < 1000; i++ {
		c := GenerateRandomBrightColor()
		for _, channel := range []int{c.R, c.G, c.B} {
			assert.GreaterOrEqual(t, channel, 128)
			assert.LessOrEqual(t, channel, 255)
		}
		assert.Equal(t, 1.0, c.A)
	}
}

func TestRgbaToHex(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  int
	}{
		{name: "black", color: Color{R: 0, G: 0, B: 0, A: 1}, want: 0x000000},
		{name: "white", color: Color{R: 255, G: 255, B: 255, A: 1}, want: 0xffffff},
		{name: "single digit channels are padded", color: Color{R: 1, G: 2, B: 3, A: 0.5}, want: 0x010203},
		{name: "pastel", color: Color{R: 200, G: 128, B: 170, A: 1}, want: 0xc880aa},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RgbaToHex(tt.color))
		})
	}
}

func TestParseRgba(t *testing.T) {
	c, ok := ParseRgba("rgba(10, 20, 30, 0.5)")
	assert.True(t, ok)
	assert.Equal(t, Color{R: 10, G: 20, B: 30, A: 0.5}, c)

	c, ok = ParseRgba("rgb(10,20,30)")
	assert.True(t, ok)
	assert.Equal(t, Color{R: 10, G: 20, B: 30, A: 1}, c)

	_, ok = ParseRgba("not a color")
	assert.False(t, ok)
}
