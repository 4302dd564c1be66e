package render

import (
	"image/color"
	"math"

	uv "github.com/charmbracelet/ultraviolet"
)

// MaxPixelDensity caps the number of framebuffer rows per terminal row, to
// bound memory and fill cost on dense displays.
const MaxPixelDensity = 2.0

// Surface owns the drawing surface: the terminal cell grid and the pixel
// framebuffer behind it. Each terminal column is one pixel wide; each row is
// subdivided vertically by the pixel density (2 with half-block rendering).
//
// A Surface constructed without a terminal is headless: Present is a no-op
// but sizing behaves identically, which is what the tests use.
type Surface struct {
	term    *uv.Terminal
	cols    int
	rows    int
	density float64
	fb      *Framebuffer
}

// NewSurface creates a surface over a started terminal.
func NewSurface(term *uv.Terminal, cols, rows int, density float64) *Surface {
	s := &Surface{term: term, density: density}
	s.Resize(cols, rows)
	return s
}

// NewHeadlessSurface creates a surface with no terminal attached.
func NewHeadlessSurface(cols, rows int, density float64) *Surface {
	s := &Surface{density: density}
	s.Resize(cols, rows)
	return s
}

// Density returns the effective pixel density after capping.
func (s *Surface) Density() float64 {
	d := math.Min(s.density, MaxPixelDensity)
	if d < 1 {
		d = 1
	}
	return d
}

// Resize reallocates the framebuffer for a new terminal size. The buffer is
// (cols, rows) scaled vertically by the capped density. Idempotent; safe to
// call at any frequency.
func (s *Surface) Resize(cols, rows int) {
	s.cols = cols
	s.rows = rows
	s.fb = NewFramebuffer(cols, rows*int(s.Density()))
	if s.term != nil {
		s.term.Erase()
		s.term.Resize(cols, rows)
	}
}

// Headless reports whether the surface has no terminal attached.
func (s *Surface) Headless() bool {
	return s.term == nil
}

// Size returns the terminal size in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Framebuffer returns the current pixel buffer. The pointer changes on
// resize, so callers should not hold it across frames.
func (s *Surface) Framebuffer() *Framebuffer {
	return s.fb
}

// Aspect returns the framebuffer width/height ratio, used for the camera.
func (s *Surface) Aspect() float64 {
	return float64(s.fb.Width) / float64(s.fb.Height)
}

// Present converts the framebuffer to terminal cells and flushes them. Each
// cell shows the upper half-block glyph with the foreground set to the top
// pixel and the background to the bottom pixel.
func (s *Surface) Present() error {
	if s.term == nil {
		return nil
	}

	d := int(s.Density())
	for row := 0; row < s.rows; row++ {
		topY := row * d
		botY := topY + d - 1

		for col := 0; col < s.cols; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(s.fb.GetPixel(col, topY)),
					Bg: rgbaToColor(s.fb.GetPixel(col, botY)),
				},
			}
			s.term.SetCell(col, row, cell)
		}
	}

	return s.term.Display()
}

// rgbaToColor converts color.RGBA to the color.Color interface, mapping
// fully transparent pixels to no color.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
