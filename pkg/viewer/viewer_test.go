package viewer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"showroom/pkg/math3d"
	"showroom/pkg/model"
	"showroom/pkg/render"
	"showroom/pkg/scene"
)

func newTestViewer(cols, rows int, density float64) *Viewer {
	surface := render.NewHeadlessSurface(cols, rows, density)
	return New(zap.NewNop(), surface, scene.New(), Options{
		FPS:        30,
		Background: render.RGB(30, 30, 40),
	})
}

func quadMesh() *model.Mesh {
	m := model.NewMesh("quad")
	m.Vertices = []model.Vertex{
		{Position: math3d.V3(-1, -1, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, -1, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, 1, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(-1, 1, 0), Normal: math3d.V3(0, 0, 1)},
	}
	m.Triangles = []model.Triangle{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
	}
	m.RecalculateBounds()
	return m
}

func TestResizeUpdatesAspectAndBuffer(t *testing.T) {
	tests := []struct {
		name       string
		density    float64
		cols, rows int
		wantH      int
	}{
		{name: "density 2", density: 2, cols: 120, rows: 40, wantH: 80},
		{name: "density capped at 2", density: 3, cols: 100, rows: 30, wantH: 60},
		{name: "density 1", density: 1, cols: 80, rows: 24, wantH: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViewer(10, 10, tt.density)
			v.resize(tt.cols, tt.rows)

			fb := v.surface.Framebuffer()
			if fb.Width != tt.cols || fb.Height != tt.wantH {
				t.Errorf("framebuffer = %dx%d, want %dx%d", fb.Width, fb.Height, tt.cols, tt.wantH)
			}

			wantAspect := float64(fb.Width) / float64(fb.Height)
			if got := v.scene.Camera.Aspect; math.Abs(got-wantAspect) > 1e-12 {
				t.Errorf("camera aspect = %v, want %v", got, wantAspect)
			}
		})
	}
}

func TestLoadFailureKeepsRendering(t *testing.T) {
	v := newTestViewer(80, 24, 2)

	// Hand the viewer an already-failed load.
	v.loader = model.NewLoader()
	v.loading = true
	results := make(chan model.Result, 1)
	results <- model.Result{Err: errors.New("decode failed")}
	v.pending = results

	v.pollLoader()

	if v.scene.Model() != nil {
		t.Error("failed load must not install a model")
	}
	if !v.loading {
		t.Error("loading indicator should stay up after a failed load")
	}
	if v.loadErr == nil {
		t.Error("load error not recorded")
	}

	// The loop keeps ticking on the empty scene.
	v.orbit.Update()
	v.renderFrame()
}

func TestInstallModelNormalizesAndRetargets(t *testing.T) {
	v := newTestViewer(80, 24, 2)
	v.loading = true
	v.modelName = "quad.glb"

	v.installModel(model.Result{Mesh: quadMesh()})

	ent := v.scene.Model()
	if ent == nil {
		t.Fatal("model not installed")
	}
	if v.loading {
		t.Error("loading indicator should clear on success")
	}
	if math.Abs(ent.Scale-1.75) > 1e-9 {
		t.Errorf("normalization scale = %v, want 1.75", ent.Scale)
	}
	if got := ent.Mesh.Size().MaxComponent(); math.Abs(got-scene.CanonicalSize) > 1e-9 {
		t.Errorf("installed mesh largest dimension = %v, want %v", got, scene.CanonicalSize)
	}
	if v.orbit.Target != math3d.Zero3() {
		t.Errorf("orbit target = %v, want origin", v.orbit.Target)
	}
	if ent.Texture == nil {
		t.Error("expected fallback texture for a mesh with no embedded image")
	}

	v.renderFrame()
}

func TestRunStopsOnContextCancel(t *testing.T) {
	v := newTestViewer(40, 12, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- v.Run(ctx, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
