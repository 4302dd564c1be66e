// Package viewer ties the surface, scene, rasterizer and controls together
// into the interactive render loop.
package viewer

import (
	"context"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"showroom/pkg/controls"
	"showroom/pkg/math3d"
	"showroom/pkg/model"
	"showroom/pkg/render"
	"showroom/pkg/scene"
)

// RenderMode selects how the model is drawn.
type RenderMode int

const (
	ModeShaded RenderMode = iota
	ModeTextured
	ModeWireframe
)

// Input tuning.
const (
	dragSensitivity = 0.01
	keyImpulse      = 0.02
	zoomStep        = 0.5
)

// Options configure a viewer.
type Options struct {
	FPS        int
	Background render.Color
	ToneMap    render.ToneMapping
	Exposure   float64
	AutoRotate bool
}

// Viewer owns the render loop state. All of it is mutated on the loop
// goroutine only; the asynchronous loader hands its result over through a
// channel that the loop drains between frames.
type Viewer struct {
	log     *zap.Logger
	surface *render.Surface
	scene   *scene.Scene
	raster  *render.Rasterizer
	orbit   *controls.Orbit
	hud     *HUD
	opts    Options

	loader    *model.Loader
	pending   <-chan model.Result
	progress  model.Progress
	loading   bool
	loadErr   error
	modelName string

	mode      RenderMode
	textureOn bool
	showHUD   bool

	mouseDown  bool
	lastMouseX int
	lastMouseY int
}

// New creates a viewer over a surface and scene.
func New(log *zap.Logger, surface *render.Surface, sc *scene.Scene, opts Options) *Viewer {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Exposure <= 0 {
		opts.Exposure = 1
	}

	sc.Camera.SetAspect(surface.Aspect())

	raster := render.NewRasterizer(sc.Camera, surface.Framebuffer())
	raster.ToneMap = opts.ToneMap
	raster.Exposure = opts.Exposure

	orbit := controls.New(sc.Camera, opts.FPS)
	orbit.AutoRotate = opts.AutoRotate

	return &Viewer{
		log:       log,
		surface:   surface,
		scene:     sc,
		raster:    raster,
		orbit:     orbit,
		hud:       NewHUD(),
		opts:      opts,
		mode:      ModeTextured,
		textureOn: true,
		showHUD:   true,
	}
}

// Orbit exposes the camera controls, e.g. for startup configuration.
func (v *Viewer) Orbit() *controls.Orbit {
	return v.orbit
}

// StartLoad begins loading the model at path in the background. The render
// loop keeps running while the load is in flight and shows the loading
// indicator until a mesh is installed.
func (v *Viewer) StartLoad(ctx context.Context, path string) {
	v.loader = model.NewLoader()
	v.pending = v.loader.Load(ctx, path)
	v.loading = true
	v.loadErr = nil
	v.modelName = filepath.Base(path)
	v.log.Info("loading model", zap.String("path", path))
}

// Run drives the render loop until ctx is cancelled or a quit key arrives on
// events. Events may be nil (headless operation); the loop then just renders.
func (v *Viewer) Run(ctx context.Context, events <-chan uv.Event) error {
	frame := time.Second / time.Duration(v.opts.FPS)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		// Drain whatever input arrived since the last frame. Events are
		// handled here, on the loop goroutine, so every scene mutation
		// is serialized with rendering.
		for drained := false; !drained; {
			select {
			case ev, ok := <-events:
				if !ok {
					events = nil
					drained = true
					break
				}
				if quit := v.handleEvent(ev); quit {
					return nil
				}
			default:
				drained = true
			}
		}

		v.pollLoader()
		v.orbit.Update()
		v.renderFrame()

		if err := v.surface.Present(); err != nil {
			return err
		}

		v.hud.UpdateFPS()
		if !v.surface.Headless() {
			cols, rows := v.surface.Size()
			v.hud.Render(cols, rows, v.hudState())
		}

		if elapsed := time.Since(start); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}

// handleEvent applies one terminal event; it reports whether to quit.
func (v *Viewer) handleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"), ev.MatchString("q"):
			return true
		case ev.MatchString("r"):
			v.orbit.Reset()
		case ev.MatchString("w", "up"):
			v.orbit.Rotate(0, keyImpulse)
		case ev.MatchString("s", "down"):
			v.orbit.Rotate(0, -keyImpulse)
		case ev.MatchString("a", "left"):
			v.orbit.Rotate(-keyImpulse, 0)
		case ev.MatchString("d", "right"):
			v.orbit.Rotate(keyImpulse, 0)
		case ev.MatchString("+", "="):
			v.orbit.Zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			v.orbit.Zoom(zoomStep)
		case ev.MatchString("t"):
			v.textureOn = !v.textureOn
		case ev.MatchString("x"):
			if v.mode == ModeWireframe {
				v.mode = ModeTextured
			} else {
				v.mode = ModeWireframe
			}
		case ev.MatchString("space"):
			v.orbit.AutoRotate = !v.orbit.AutoRotate
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			v.showHUD = !v.showHUD
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx := ev.X - v.lastMouseX
			dy := ev.Y - v.lastMouseY
			v.orbit.Rotate(float64(dx)*dragSensitivity, float64(-dy)*dragSensitivity)
			v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.orbit.Zoom(-zoomStep)
		case uv.MouseWheelDown:
			v.orbit.Zoom(zoomStep)
		}
	}
	return false
}

// resize reallocates the framebuffer and depth buffer and refits the camera
// to the new aspect ratio.
func (v *Viewer) resize(cols, rows int) {
	v.surface.Resize(cols, rows)
	v.scene.Camera.SetAspect(v.surface.Aspect())
	v.raster.SetTarget(v.surface.Framebuffer())
	v.raster.InvalidateFrustum()
}

// pollLoader picks up progress samples and, when the load finishes, installs
// the model. A failed load keeps the empty scene (and the indicator) up; the
// loop never stops rendering.
func (v *Viewer) pollLoader() {
	if v.loader == nil {
		return
	}

	for drained := false; !drained; {
		select {
		case p := <-v.loader.Progress():
			v.progress = p
		default:
			drained = true
		}
	}

	select {
	case res, ok := <-v.pending:
		if !ok {
			v.pending = nil
			return
		}
		v.pending = nil
		if res.Err != nil {
			v.loadErr = res.Err
			v.log.Error("model load failed", zap.Error(res.Err))
			return
		}
		v.installModel(res)
	default:
	}
}

// installModel normalizes the decoded mesh and inserts it into the scene.
// The transform is committed to the vertices and the controls are retargeted
// before the entity becomes visible, so the first frame that draws the model
// already frames it correctly.
func (v *Viewer) installModel(res model.Result) {
	norm := scene.Normalize(res.Mesh)
	if norm.Degenerate {
		v.log.Warn("model has a zero-extent bounding box, scaling skipped",
			zap.String("name", v.modelName))
	}

	var tex *render.Texture
	if res.Texture != nil {
		tex = render.TextureFromImage(res.Texture)
	} else {
		tex = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	v.orbit.SetTarget(math3d.Zero3())
	v.scene.SetModel(&scene.Entity{
		Mesh:    res.Mesh,
		Texture: tex,
		Scale:   norm.Scale,
		Offset:  norm.Translation,
	})

	v.loading = false
	v.loadErr = nil
	v.log.Info("model ready",
		zap.String("name", v.modelName),
		zap.Int("vertices", res.Mesh.VertexCount()),
		zap.Int("triangles", res.Mesh.TriangleCount()),
		zap.Float64("scale", norm.Scale),
	)
}

// renderFrame draws the scene into the framebuffer.
func (v *Viewer) renderFrame() {
	fb := v.surface.Framebuffer()
	fb.Clear(v.opts.Background)
	v.raster.ClearDepth()

	// The camera moves every frame the controls are live.
	v.raster.InvalidateFrustum()
	v.raster.Lighting = v.scene.Lighting()

	ent := v.scene.Model()
	if ent == nil {
		return
	}

	// Normalization is baked into the vertices; the model sits at the
	// origin and only the camera moves.
	transform := math3d.Identity()

	switch {
	case v.mode == ModeWireframe:
		v.raster.DrawMeshWireframe(ent.Mesh, transform, render.RGB(0, 255, 128))
	case v.textureOn && ent.Texture != nil:
		v.raster.DrawMeshTextured(ent.Mesh, transform, ent.Texture)
	default:
		v.raster.DrawMeshShaded(ent.Mesh, transform, render.RGB(200, 200, 200))
	}
}

func (v *Viewer) hudState() HUDState {
	st := HUDState{
		Visible:    v.showHUD,
		Name:       v.modelName,
		Loading:    v.loading,
		LoadFailed: v.loadErr != nil,
		TextureOn:  v.textureOn,
		Wireframe:  v.mode == ModeWireframe,
		AutoRotate: v.orbit.AutoRotate,
	}
	if ent := v.scene.Model(); ent != nil {
		st.Triangles = ent.Mesh.TriangleCount()
	}
	if v.progress.Total > 0 {
		st.PercentKnown = true
		st.Percent = int(100 * v.progress.Loaded / v.progress.Total)
	}
	return st
}
