// showroom - Terminal 3D Model Viewer
// Presents a single GLB/glTF model with orbit controls, rendered with
// half-block characters.
//
// Controls:
//
//	Mouse drag  - Orbit camera (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Toggle auto-rotate
//	R           - Reset view
//	T           - Toggle texture on/off
//	X           - Toggle wireframe mode
//	?           - Toggle HUD overlay (FPS, filename, triangle count)
//	+/-         - Adjust zoom
//	Esc/Q       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	uv "github.com/charmbracelet/ultraviolet"

	"showroom/internal/config"
	"showroom/internal/logger"
	"showroom/pkg/render"
	"showroom/pkg/scene"
	"showroom/pkg/viewer"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "showroom - Terminal 3D Model Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: showroom [options] <model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Toggle auto-rotate\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle texture\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Quit\n")
	}
	config.ParseFlags()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, modelPath string) error {
	toneMap, err := render.ParseToneMapping(cfg.Render.ToneMapping)
	if err != nil {
		return err
	}

	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(cfg.Display.Background, "%d,%d,%d", &bgR, &bgG, &bgB)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	surface := render.NewSurface(term, width, height, cfg.Display.PixelDensity)

	sc := scene.New()
	sc.Camera.SetFOV(cfg.Camera.FOVDegrees * math.Pi / 180)
	sc.Camera.SetClipPlanes(cfg.Camera.Near, cfg.Camera.Far)

	v := viewer.New(logger.Log, surface, sc, viewer.Options{
		FPS:        cfg.Display.FPS,
		Background: render.RGB(bgR, bgG, bgB),
		ToneMap:    toneMap,
		Exposure:   cfg.Render.Exposure,
		AutoRotate: cfg.Controls.AutoRotate,
	})

	orbit := v.Orbit()
	orbit.DampingEnabled = cfg.Controls.Damping
	orbit.DampingFactor = cfg.Controls.DampingFactor
	orbit.MinDistance = cfg.Controls.MinDistance
	orbit.MaxDistance = cfg.Controls.MaxDistance
	orbit.AutoRotateSpeed = cfg.Controls.AutoRotateSpeed
	orbit.SetDistance(cfg.Camera.Distance)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	v.StartLoad(ctx, modelPath)

	return v.Run(ctx, term.Events())
}
