package render

import (
	"image"
	"math"
)

// Texture holds a 2D image sampled by the rasterizer during textured draws.
// Coordinates outside [0,1] repeat.
type Texture struct {
	Width    int
	Height   int
	Pixels   []Color
	Bilinear bool
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage converts a decoded image (e.g. a GLB-embedded PNG) to a
// texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			// RGBA returns 16-bit values, scale to 8-bit.
			tex.setPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard, used as the fallback
// when a model carries no texture of its own.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.setPixel(x, y, c1)
			} else {
				tex.setPixel(x, y, c2)
			}
		}
	}
	return tex
}

func (t *Texture) setPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

func (t *Texture) getPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates in the [0,1] range.
func (t *Texture) Sample(u, v float64) Color {
	u = u - math.Floor(u)
	v = v - math.Floor(v)

	// Image Y=0 is at the top, UV V=0 at the bottom.
	v = 1.0 - v

	if t.Bilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.getPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0 = wrapPixel(x0, t.Width)
	x1 := wrapPixel(x0+1, t.Width)
	y0 = wrapPixel(y0, t.Height)
	y1 := wrapPixel(y0+1, t.Height)

	c00 := t.getPixel(x0, y0)
	c10 := t.getPixel(x1, y0)
	c01 := t.getPixel(x0, y1)
	c11 := t.getPixel(x1, y1)

	top := lerpColor(c00, c10, tx)
	bot := lerpColor(c01, c11, tx)
	return lerpColor(top, bot, ty)
}

func wrapPixel(x, size int) int {
	x = x % size
	if x < 0 {
		x += size
	}
	return x
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
