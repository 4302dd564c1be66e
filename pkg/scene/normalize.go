package scene

import (
	"showroom/pkg/math3d"
	"showroom/pkg/model"
)

// CanonicalSize is the target for the largest dimension of a normalized
// model's bounding box.
const CanonicalSize = 3.5

// NormalizeResult records the transform Normalize applied.
type NormalizeResult struct {
	Scale       float64
	Translation math3d.Vec3
	// Degenerate is set when the mesh had a zero-extent bounding box and
	// scaling was skipped.
	Degenerate bool
}

// Normalize fits a freshly decoded mesh to the canonical size and centers
// it on the origin, in two bounding-box passes:
//
//  1. Measure the raw box and apply the uniform scale CanonicalSize/maxDim.
//  2. Re-measure the box AFTER the scale is committed to the vertices and
//     translate by the negated center.
//
// The second measurement must happen after the scale commit: centering from
// the pre-scale box would mix a stale center with scaled geometry. A mesh
// with zero extent on all axes keeps scale 1 and is still centered.
//
// Normalize is not idempotent: reapplying it compounds the scale against
// the already-normalized size.
func Normalize(m *model.Mesh) NormalizeResult {
	m.RecalculateBounds()

	res := NormalizeResult{Scale: 1}

	maxDim := m.Size().MaxComponent()
	if maxDim > 0 {
		res.Scale = CanonicalSize / maxDim
		m.ApplyUniformScale(res.Scale)
	} else {
		res.Degenerate = true
	}

	res.Translation = m.Center().Negate()
	m.ApplyTranslation(res.Translation)

	return res
}
