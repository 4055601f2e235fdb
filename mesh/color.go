package mesh

import "github.com/chewxy/math32"

// Color is a linear RGBA color with components in [0, 1].
// It implements image/color.Color.
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns the alpha-premultiplied 16 bit components of the color.
func (c Color) RGBA() (r, g, b, a uint32) {
	alpha := clamp01(c.A)
	r = uint32(clamp01(c.R)*alpha*0xffff + 0.5)
	g = uint32(clamp01(c.G)*alpha*0xffff + 0.5)
	b = uint32(clamp01(c.B)*alpha*0xffff + 0.5)
	a = uint32(alpha*0xffff + 0.5)
	return r, g, b, a
}

func clamp01(f float32) float32 {
	if math32.IsNaN(f) {
		return 0
	}
	return math32.Min(1, math32.Max(0, f))
}

// Commonly used colors.
var (
	White = RGB(1, 1, 1)
	Black = RGB(0, 0, 0)
)
