package math3d

import (
	"math"
	"testing"
)

func TestVec3MinMax(t *testing.T) {
	a := V3(1, 5, -3)
	b := V3(2, -4, 0)

	lo := a.Min(b)
	if lo != V3(1, -4, -3) {
		t.Errorf("Min = %v, want (1, -4, -3)", lo)
	}

	hi := a.Max(b)
	if hi != V3(2, 5, 0) {
		t.Errorf("Max = %v, want (2, 5, 0)", hi)
	}
}

func TestVec3MaxComponent(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"x largest", V3(5, 1, 2), 5},
		{"y largest", V3(1, 7, 2), 7},
		{"z largest", V3(1, 2, 9), 9},
		{"all zero", Zero3(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.MaxComponent(); got != tc.want {
				t.Errorf("MaxComponent(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if n := Zero3().Normalize(); n != Zero3() {
		t.Errorf("Normalize(zero) = %v, want zero", n)
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	p := m.MulVec3(V3(10, 20, 30))
	if p != V3(11, 22, 33) {
		t.Errorf("translated point = %v, want (11, 22, 33)", p)
	}

	// Directions ignore translation.
	d := m.MulVec3Dir(V3(1, 0, 0))
	if d != V3(1, 0, 0) {
		t.Errorf("translated direction = %v, want (1, 0, 0)", d)
	}
}

func TestScaleUniform(t *testing.T) {
	m := ScaleUniform(0.875)
	p := m.MulVec3(V3(1, 2, 1))
	want := V3(0.875, 1.75, 0.875)
	if math.Abs(p.X-want.X) > 1e-12 || math.Abs(p.Y-want.Y) > 1e-12 || math.Abs(p.Z-want.Z) > 1e-12 {
		t.Errorf("scaled point = %v, want %v", p, want)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(V3(4, 5, 6)).Mul(ScaleUniform(2))
	if got := m.Mul(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
}

func TestComposedScaleThenTranslate(t *testing.T) {
	// Translate after scaling, as matrix composition: T * S.
	m := Translate(V3(-1.75, -1.75, -1.75)).Mul(ScaleUniform(1.75))
	p := m.MulVec3(V3(2, 2, 2))
	want := V3(1.75, 1.75, 1.75)
	if math.Abs(p.X-want.X) > 1e-12 || math.Abs(p.Y-want.Y) > 1e-12 || math.Abs(p.Z-want.Z) > 1e-12 {
		t.Errorf("composed transform = %v, want %v", p, want)
	}
}

func TestLookAtEyeMapsToOrigin(t *testing.T) {
	eye := V3(0, 0, 5)
	view := LookAt(eye, Zero3(), Up())

	p := view.MulVec3(eye)
	if p.Len() > 1e-12 {
		t.Errorf("view * eye = %v, want origin", p)
	}

	// The look target lies on the -Z axis in view space.
	q := view.MulVec3(Zero3())
	if math.Abs(q.X) > 1e-12 || math.Abs(q.Y) > 1e-12 || math.Abs(q.Z+5) > 1e-12 {
		t.Errorf("view * target = %v, want (0, 0, -5)", q)
	}
}

func TestPerspectiveDivide(t *testing.T) {
	v := Vec4{2, 4, 6, 2}
	if got := v.PerspectiveDivide(); got != V3(1, 2, 3) {
		t.Errorf("PerspectiveDivide = %v, want (1, 2, 3)", got)
	}

	w0 := Vec4{1, 2, 3, 0}
	if got := w0.PerspectiveDivide(); got != V3(1, 2, 3) {
		t.Errorf("PerspectiveDivide(w=0) = %v, want components unchanged", got)
	}
}
