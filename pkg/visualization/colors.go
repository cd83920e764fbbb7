package visualization

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorText   = drawing.ColorFromHex("333333")
	colorRed    = drawing.Color{R: 255, A: 255}
	colorGreen  = drawing.Color{G: 128, A: 255}
	colorBlue   = drawing.Color{B: 255, A: 255}
	colorPurple = drawing.Color{R: 128, B: 128, A: 255}
	colorGray   = drawing.Color{R: 128, G: 128, B: 128, A: 255}
	colorFrame  = drawing.ColorFromHex("cccccc")
)

// fromColorful converts a go-colorful color to a drawing color with the given alpha
func fromColorful(c colorful.Color, alpha uint8) drawing.Color {
	r, g, b := c.Clamped().RGB255()
	return drawing.Color{R: r, G: g, B: b, A: alpha}
}

// hslColor returns the color at hue degrees with saturation and lightness in [0,1]
func hslColor(hue, saturation, lightness float64) drawing.Color {
	return fromColorful(colorful.Hsl(hue, saturation, lightness), 255)
}

// blend mixes a and b in RGB space, t=0 giving a
func blend(a, b drawing.Color, t float64) drawing.Color {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return fromColorful(ca.BlendRgb(cb, t), 255)
}
