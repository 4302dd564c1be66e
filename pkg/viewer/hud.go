package viewer

import (
	"fmt"
	"time"
)

// HUDState is a per-frame snapshot of what the overlay should show.
type HUDState struct {
	Visible bool

	Name      string
	Triangles int

	Loading      bool
	LoadFailed   bool
	PercentKnown bool
	Percent      int

	TextureOn  bool
	Wireframe  bool
	AutoRotate bool
}

// HUD renders a text overlay on top of the rendered frame: an FPS counter,
// the model name and triangle count, the loading indicator and the mode
// checkboxes. It writes ANSI directly over the terminal cells, after the
// frame has been flushed.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD with a zeroed FPS counter.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS advances the FPS counter; call once per frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// FPS returns the last measured frames per second.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Render draws the overlay for one frame.
func (h *HUD) Render(width, height int, st HUDState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	// The loading indicator is independent of HUD visibility; it stays up
	// until a model is successfully installed.
	if st.Loading {
		msg := "Loading model..."
		if st.PercentKnown {
			msg = fmt.Sprintf("Loading model... %d%%", st.Percent)
		}
		col := max((width-len(msg))/2, 1)
		fmt.Print(moveTo(height, col) + bgBlack + bold + fgYellow + " " + msg + " " + reset)
		if !st.LoadFailed {
			return
		}
	}

	if !st.Visible {
		return
	}

	// Top left: FPS.
	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	// Top middle: model name.
	if st.Name != "" {
		col := max((width-len(st.Name)-2)/2, 1)
		fmt.Print(moveTo(1, col) + bold + bgBlack + fgWhite + " " + st.Name + " " + reset)
	}

	// Top right: triangle count.
	if st.Triangles > 0 {
		tris := fmt.Sprintf(" %d tris ", st.Triangles)
		col := max(width-len(tris), 1)
		fmt.Print(moveTo(1, col) + bgBlack + fgCyan + bold + tris + reset)
	}

	if st.Loading {
		return // bottom row is taken by the loading indicator
	}

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modeStr := fmt.Sprintf("%s%s %s Texture  %s Wireframe  %s Auto-rotate %s",
		bgBlack, fgWhite, check(st.TextureOn && !st.Wireframe), check(st.Wireframe), check(st.AutoRotate), reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	hint := fmt.Sprintf("%s%s%s R: reset view %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-15, 1)) + hint)
}
