package render

import (
	"fmt"
	"math"
)

// ToneMapping selects the operator applied to lit colors before they are
// quantized to 8-bit output.
type ToneMapping int

const (
	ToneMapNone ToneMapping = iota
	ToneMapReinhard
	ToneMapACES
)

// ParseToneMapping converts a config string to a ToneMapping.
func ParseToneMapping(s string) (ToneMapping, error) {
	switch s {
	case "", "none":
		return ToneMapNone, nil
	case "reinhard":
		return ToneMapReinhard, nil
	case "aces":
		return ToneMapACES, nil
	default:
		return ToneMapNone, fmt.Errorf("unknown tone mapping %q", s)
	}
}

// String returns the config name of the operator.
func (t ToneMapping) String() string {
	switch t {
	case ToneMapReinhard:
		return "reinhard"
	case ToneMapACES:
		return "aces"
	default:
		return "none"
	}
}

// apply maps a single linear channel value through the operator. Input may
// exceed 1 (over-exposed); output is clamped to [0, 1].
func (t ToneMapping) apply(x float64) float64 {
	switch t {
	case ToneMapReinhard:
		x = x / (1 + x)
	case ToneMapACES:
		// Narkowicz's ACES filmic fit.
		const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
		x = (x * (a*x + b)) / (x*(c*x+d) + e)
	}
	return math.Max(0, math.Min(1, x))
}

// Shade scales a base color by a lighting intensity and exposure, then tone
// maps the result. This is the single path from linear shading values to
// output pixels.
func (t ToneMapping) Shade(base Color, intensity, exposure float64) Color {
	scale := intensity * exposure
	return Color{
		R: uint8(t.apply(float64(base.R)/255*scale) * 255),
		G: uint8(t.apply(float64(base.G)/255*scale) * 255),
		B: uint8(t.apply(float64(base.B)/255*scale) * 255),
		A: base.A,
	}
}
